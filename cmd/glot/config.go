package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Azure/glot/pkg/osutil"
)

const (
	configHelp = `Manage global glot configuration stored in $GLOT_HOME/config.toml.

Configured values are used as defaults for the matching command flags.`
)

type configKey struct {
	name        string
	description string
}

var (
	corpusKey          = configKey{name: "corpus", description: "Corpus directory used by train, evaluate and serve --ephemeral"}
	modelKey           = configKey{name: "model", description: "Event model used to classify (supported values: multinomial, bernoulli)"}
	modelNameKey       = configKey{name: "model-name", description: "Stored model to use instead of the most recently trained one"}
	selectionMethodKey = configKey{name: "selection-method", description: "Feature selection applied by train (supported values: mutualInformation, chiSquare)"}
	featureCountKey    = configKey{name: "feature-count", description: "Number of features kept per language when a selection method is set"}
	maxFilesKey        = configKey{name: "max-files", description: "Maximum number of files read per corpus directory"}
	listenKey          = configKey{name: "listen", description: "Address glot serve listens on (e.g. tcp://127.0.0.1:8080)"}
	configKeys         = []configKey{corpusKey, modelKey, modelNameKey, selectionMethodKey, featureCountKey, maxFilesKey, listenKey}
)

// GlotConfig is the configuration stored in $GLOT_HOME/config.toml
type GlotConfig map[string]string

// ReadConfig reads in global configuration from $GLOT_HOME/config.toml. A
// missing file is an empty configuration.
func ReadConfig() (GlotConfig, error) {
	data := GlotConfig{}
	h := homePath()
	f, err := os.Open(h.Config())
	if err != nil {
		if os.IsNotExist(err) {
			return data, nil
		}
		return nil, errors.Wrapf(err, "could not open file %s", h.Config())
	}
	defer f.Close()
	if _, err := toml.NewDecoder(f).Decode(&data); err != nil {
		return nil, errors.Wrapf(err, "could not decode config %s", h.Config())
	}
	return data, nil
}

// SaveConfig saves global configuration to $GLOT_HOME/config.toml
func SaveConfig(data GlotConfig) error {
	h := homePath()
	if err := osutil.EnsureDirectory(h.String()); err != nil {
		return err
	}
	f, err := os.OpenFile(h.Config(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, "could not open file %s", h.Config())
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(data)
}

// applyConfigDefaults copies configured values into flags the user did not
// set. bindings maps flag names to config keys.
func applyConfigDefaults(fs *pflag.FlagSet, bindings map[string]configKey) error {
	for flagName, key := range bindings {
		f := fs.Lookup(flagName)
		if f == nil || f.Changed {
			continue
		}
		v, ok := globalConfig[key.name]
		if !ok {
			continue
		}
		if err := fs.Set(flagName, v); err != nil {
			return errors.Wrapf(err, "invalid %s in %s", key.name, homePath().Config())
		}
		log.Debugf("using %s=%s from config", key.name, v)
	}
	return nil
}

func lookupConfigKey(name string) (configKey, bool) {
	for _, k := range configKeys {
		if k.name == name {
			return k, true
		}
	}
	return configKey{}, false
}

func supportedKeys() string {
	keys := []string{}
	for _, k := range configKeys {
		keys = append(keys, "  "+k.name+": "+k.description)
	}
	return strings.Join(keys, "\n")
}

func newConfigCmd(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "manage glot configuration",
		Long:  configHelp,
	}
	cmd.AddCommand(
		newConfigListCmd(out),
		newConfigGetCmd(out),
		newConfigSetCmd(out),
		newConfigUnsetCmd(out),
	)
	return cmd
}

func newConfigListCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list global glot configuration stored in $GLOT_HOME/config.toml",
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := make([]string, 0, len(globalConfig))
			for k := range globalConfig {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			table := uitable.New()
			for _, k := range keys {
				table.AddRow(k, globalConfig[k])
			}
			fmt.Fprintln(out, table)
			return nil
		},
	}
}

func newConfigGetCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "print a value of global glot configuration stored in $GLOT_HOME/config.toml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateArgs(args, []string{"key"}); err != nil {
				return err
			}
			v, ok := globalConfig[args[0]]
			if !ok {
				return fmt.Errorf("%s is not set", args[0])
			}
			fmt.Fprintln(out, v)
			return nil
		},
	}
}

func newConfigUnsetCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "remove a value from global glot configuration stored in $GLOT_HOME/config.toml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateArgs(args, []string{"key"}); err != nil {
				return err
			}
			if _, ok := globalConfig[args[0]]; !ok {
				return fmt.Errorf("%s is not set", args[0])
			}
			delete(globalConfig, args[0])
			return SaveConfig(globalConfig)
		},
	}
}
