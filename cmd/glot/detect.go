package main

import (
	"fmt"
	"io"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/Azure/glot/pkg/bayes"
	"github.com/Azure/glot/pkg/linguist"
)

const detectDesc = `
Walk a project directory and report which languages it is written in, by share
of bytes. Paths listed in the project's .gitignore are skipped.
`

type detectCmd struct {
	out       io.Writer
	modelName string
	model     string
}

func newDetectCmd(out io.Writer) *cobra.Command {
	dc := &detectCmd{out: out}

	cmd := &cobra.Command{
		Use:   "detect <dir>",
		Short: "report the languages of a project",
		Long:  detectDesc,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := validateArgs(args, []string{"dir"}); err != nil {
				return err
			}
			return applyConfigDefaults(cmd.Flags(), map[string]configKey{
				"model-name": modelNameKey,
				"model":      modelKey,
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return dc.run(cmd, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVar(&dc.modelName, "model-name", "", "name or ID of the stored model (latest when empty)")
	f.StringVarP(&dc.model, "model", "m", string(bayes.Multinomial), "event model: multinomial or bernoulli")

	return cmd
}

func (d *detectCmd) run(cmd *cobra.Command, dir string) error {
	m, err := bayes.ParseModel(d.model)
	if err != nil {
		return err
	}
	obj, store, err := loadModel(cmd.Context(), d.modelName)
	if err != nil {
		return err
	}
	langs, err := linguist.ProcessDir(bayes.NewClassifier(store), obj.NewTokenizer(), dir, m)
	if err != nil {
		return err
	}
	if len(langs) == 0 {
		return fmt.Errorf("no languages detected in %s", dir)
	}
	table := uitable.New()
	table.AddRow("LANGUAGE", "PERCENT")
	for _, l := range langs {
		table.AddRow(l.Language, fmt.Sprintf("%.2f%%", l.Percent))
	}
	fmt.Fprintln(d.out, table)
	return nil
}
