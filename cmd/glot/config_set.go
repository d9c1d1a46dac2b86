package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type configSetCmd struct {
	out   io.Writer
	args  []string
	key   string
	value string
}

func newConfigSetCmd(out io.Writer) *cobra.Command {
	ccmd := &configSetCmd{
		out:  out,
		args: []string{"key", "value"},
	}
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "set global glot configuration stored in $GLOT_HOME/config.toml",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return ccmd.complete(args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return ccmd.run()
		},
	}
	return cmd
}

func (ccmd *configSetCmd) complete(args []string) error {
	if err := validateConfigSetArgs(args, ccmd.args); err != nil {
		return err
	}
	ccmd.key = args[0]
	ccmd.value = args[1]
	return nil
}

func (ccmd *configSetCmd) run() error {
	if globalConfig == nil {
		globalConfig = GlotConfig{}
	}
	globalConfig[ccmd.key] = ccmd.value
	return SaveConfig(globalConfig)
}

func validateConfigSetArgs(args, expectedArgs []string) error {
	if len(args) == 1 {
		if k, ok := lookupConfigKey(args[0]); ok {
			return fmt.Errorf("This command needs a value: %v", k.description)
		}
		return fmt.Errorf("This command needs a value. No help available for key '%v'", args[0])
	}
	if len(args) != len(expectedArgs) {
		return fmt.Errorf("This command needs a key and a value to set it to. Supported keys:\n%v", supportedKeys())
	}
	if _, ok := lookupConfigKey(args[0]); !ok {
		return fmt.Errorf("Unknown key '%v'. Supported keys:\n%v", args[0], supportedKeys())
	}
	return nil
}
