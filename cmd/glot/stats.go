package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

type statsCmd struct {
	out       io.Writer
	modelName string
	output    string
}

func newStatsCmd(out io.Writer) *cobra.Command {
	sc := &statsCmd{out: out}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "print what a stored model was trained on",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return applyConfigDefaults(cmd.Flags(), map[string]configKey{
				"model-name": modelNameKey,
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return sc.run(cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&sc.modelName, "model-name", "", "name or ID of the stored model (latest when empty)")
	f.StringVarP(&sc.output, "output", "o", "table", "output format: table, json or yaml")

	return cmd
}

func (s *statsCmd) run(cmd *cobra.Command) error {
	obj, _, err := loadModel(cmd.Context(), s.modelName)
	if err != nil {
		return err
	}
	summary := obj.Summary

	switch strings.ToLower(s.output) {
	case "json":
		b, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, string(b))
	case "yaml":
		b, err := yaml.Marshal(summary)
		if err != nil {
			return err
		}
		fmt.Fprint(s.out, string(b))
	case "table":
		fmt.Fprintf(s.out, "Model: %s (%s)\n", obj.Name, obj.ID)
		fmt.Fprintf(s.out, "Documents: %d\nVocabulary: %d\n", summary.Documents, summary.VocabularySize)
		if obj.Method != "" {
			fmt.Fprintf(s.out, "Features: %d per language by %s\n", obj.FeatureCount, obj.Method)
		}
		table := uitable.New()
		table.AddRow("LANGUAGE", "DOCUMENTS", "WORDS")
		for _, label := range summary.Labels {
			table.AddRow(label, summary.LabelCount[label], summary.WordCountPerLabel[label])
		}
		fmt.Fprintln(s.out, table)
	default:
		return fmt.Errorf("unknown output format %q", s.output)
	}
	return nil
}
