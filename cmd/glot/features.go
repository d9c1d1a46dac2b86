package main

import (
	"fmt"
	"io"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/Azure/glot/pkg/bayes"
)

const featuresDesc = `
Rank the words of a stored model by how much they tell one language apart from
the others. Chi-square rankings also show the p-value of each score.
`

type featuresCmd struct {
	out       io.Writer
	modelName string
	method    string
	label     string
	top       int
}

func newFeaturesCmd(out io.Writer) *cobra.Command {
	fc := &featuresCmd{out: out}

	cmd := &cobra.Command{
		Use:   "features",
		Short: "rank the most informative words of each language",
		Long:  featuresDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return applyConfigDefaults(cmd.Flags(), map[string]configKey{
				"model-name": modelNameKey,
				"method":     selectionMethodKey,
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return fc.run(cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&fc.modelName, "model-name", "", "name or ID of the stored model (latest when empty)")
	f.StringVar(&fc.method, "method", string(bayes.MutualInformation), "ranking method: mutualInformation or chiSquare")
	f.StringVarP(&fc.label, "label", "l", "", "only rank this language")
	f.IntVar(&fc.top, "top", 10, "number of words shown per language")

	return cmd
}

func (f *featuresCmd) run(cmd *cobra.Command) error {
	method, err := bayes.ParseMethod(f.method)
	if err != nil {
		return err
	}
	_, store, err := loadModel(cmd.Context(), f.modelName)
	if err != nil {
		return err
	}

	labels := store.Labels()
	if f.label != "" {
		if store.DocumentCount(f.label) == 0 {
			return fmt.Errorf("the model has no language %q", f.label)
		}
		labels = []string{f.label}
	}

	table := uitable.New()
	if method == bayes.ChiSquare {
		table.AddRow("LANGUAGE", "WORD", "SCORE", "P-VALUE")
	} else {
		table.AddRow("LANGUAGE", "WORD", "SCORE")
	}
	for _, label := range labels {
		ranked, err := bayes.RankFeatures(store, method, label)
		if err != nil {
			return err
		}
		if f.top > 0 && len(ranked) > f.top {
			ranked = ranked[:f.top]
		}
		for _, fs := range ranked {
			if method == bayes.ChiSquare {
				table.AddRow(label, fs.Word, fmt.Sprintf("%.4f", fs.Score), fmt.Sprintf("%.3g", fs.PValue))
			} else {
				table.AddRow(label, fs.Word, fmt.Sprintf("%.4f", fs.Score))
			}
		}
	}
	fmt.Fprintln(f.out, table)
	return nil
}
