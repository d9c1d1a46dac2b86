package main

import (
	"fmt"
	"io"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func newModelsCmd(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "manage stored models",
	}
	cmd.AddCommand(
		newModelsListCmd(out),
		newModelsDeleteCmd(out),
	)
	return cmd
}

func newModelsListCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored models, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			models, err := openModels()
			if err != nil {
				return err
			}
			defer models.Close()

			objs, err := models.ListModels(cmd.Context())
			if err != nil {
				return err
			}
			table := uitable.New()
			table.AddRow("NAME", "ID", "CREATED", "LANGUAGES", "VOCABULARY", "SELECTION", "TOKENIZER")
			for _, obj := range objs {
				selection := "none"
				if obj.Method != "" {
					selection = fmt.Sprintf("%s(%d)", obj.Method, obj.FeatureCount)
				}
				table.AddRow(obj.Name, obj.ID, obj.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					len(obj.Summary.Labels), obj.Summary.VocabularySize, selection, obj.Tokenizer.String())
			}
			fmt.Fprintln(out, table)
			return nil
		},
	}
}

func newModelsDeleteCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name|id>",
		Short: "delete a stored model",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateArgs(args, []string{"name|id"}); err != nil {
				return err
			}
			models, err := openModels()
			if err != nil {
				return err
			}
			defer models.Close()

			obj, err := models.DeleteModel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted model %s (%s)\n", obj.Name, obj.ID)
			return nil
		},
	}
}
