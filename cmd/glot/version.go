package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Azure/glot/pkg/version"
)

const versionDesc = `
Show the version for glot.

This will print the version of glot. The output will look something like
this:

&version.Version{SemVer:"v0.1.0", GitCommit:"4f97233d2cc2c7017b07f94211e55bb2670f990d", GitTreeState:"clean"}
`

type versionCmd struct {
	out   io.Writer
	short bool
}

func newVersionCmd(out io.Writer) *cobra.Command {
	version := &versionCmd{
		out: out,
	}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "print the version information",
		Long:  versionDesc,
		RunE: func(cmd *cobra.Command, args []string) error {
			return version.run()
		},
	}
	cmd.Flags().BoolVarP(&version.short, "short", "s", false, "print the version number only")
	return cmd
}

func (v *versionCmd) run() error {
	fmt.Fprintln(v.out, formatVersion(version.New(), v.short))
	return nil
}

func formatVersion(v *version.Version, short bool) string {
	if short {
		commit := v.GitCommit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		return fmt.Sprintf("%s+g%s", v.SemVer, commit)
	}
	return fmt.Sprintf("%#v", v)
}
