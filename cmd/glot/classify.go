package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/Azure/glot/pkg/bayes"
	"github.com/Azure/glot/pkg/linguist"
)

const classifyDesc = `
Print the most probable language of a source listing.

The listing is read from the given file, or from standard input when the
argument is "-" or missing. With --top, the best scoring languages are listed
with their posterior probability among the hinted languages, if any.
`

type classifyCmd struct {
	out       io.Writer
	in        io.Reader
	modelName string
	model     string
	hints     []string
	top       int
}

func newClassifyCmd(out io.Writer, in io.Reader) *cobra.Command {
	cc := &classifyCmd{out: out, in: in}

	cmd := &cobra.Command{
		Use:   "classify [file|-]",
		Short: "classify a source listing",
		Long:  classifyDesc,
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return applyConfigDefaults(cmd.Flags(), map[string]configKey{
				"model-name": modelNameKey,
				"model":      modelKey,
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			src := "-"
			if len(args) == 1 {
				src = args[0]
			}
			return cc.run(cmd, src)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cc.modelName, "model-name", "", "name or ID of the stored model (latest when empty)")
	f.StringVarP(&cc.model, "model", "m", string(bayes.Multinomial), "event model: multinomial or bernoulli")
	f.StringSliceVar(&cc.hints, "hint", nil, "restrict the answer to these languages (repeatable)")
	f.IntVar(&cc.top, "top", 0, "list the n best languages with their probability")

	return cmd
}

func (c *classifyCmd) run(cmd *cobra.Command, src string) error {
	m, err := bayes.ParseModel(c.model)
	if err != nil {
		return err
	}
	contents, err := c.read(src)
	if err != nil {
		return err
	}
	obj, store, err := loadModel(cmd.Context(), c.modelName)
	if err != nil {
		return err
	}
	classifier := bayes.NewClassifier(store)
	tok := obj.NewTokenizer()

	if c.top <= 0 {
		language, err := linguist.Analyse(classifier, tok, contents, c.hints, m)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, language)
		return nil
	}

	scores, err := linguist.Rank(classifier, tok, contents, c.hints, m)
	if err != nil {
		return err
	}
	if len(scores) > c.top {
		scores = scores[:c.top]
	}
	table := uitable.New()
	table.AddRow("LANGUAGE", "PROBABILITY", "LOG SCORE")
	for _, s := range scores {
		table.AddRow(s.Label, fmt.Sprintf("%.4f", s.Probability), fmt.Sprintf("%.2f", s.LogScore))
	}
	fmt.Fprintln(c.out, table)
	return nil
}

func (c *classifyCmd) read(src string) ([]byte, error) {
	if src == "-" {
		return io.ReadAll(c.in)
	}
	return os.ReadFile(src)
}
