package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var longHomeHelp = `
This command displays the location of glot's home directory. This is where the
glot configuration file and the trained models live.
`

func newHomeCmd(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "home",
		Short: "displays the location of glot's home directory",
		Long:  longHomeHelp,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(out, "%s\n", homePath())
		},
	}

	return cmd
}
