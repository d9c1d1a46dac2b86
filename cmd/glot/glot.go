package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Azure/glot/pkg/bayes"
	"github.com/Azure/glot/pkg/glotpath"
	"github.com/Azure/glot/pkg/osutil"
	"github.com/Azure/glot/pkg/storage"
	"github.com/Azure/glot/pkg/storage/bolt"
)

const homeEnvVar = "GLOT_HOME"

var (
	// flagDebug is a signal that the user wants additional output.
	flagDebug bool
	// glotHome depicts the home directory where all glot config and models are stored.
	glotHome string
	// globalConfig is read from $GLOT_HOME/config.toml before every command.
	globalConfig GlotConfig
)

var globalUsage = `Detect the programming language of source code with naive Bayes.

Train a model on a corpus of labelled files, then classify listings, whole
projects, or serve the model over HTTP.
`

func newRootCmd(out io.Writer, in io.Reader) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "glot",
		Short:        "detect the programming language of source code",
		Long:         globalUsage,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flagDebug {
				log.SetLevel(log.DebugLevel)
			}
			var err error
			globalConfig, err = ReadConfig()
			return err
		},
	}
	p := cmd.PersistentFlags()
	p.StringVar(&glotHome, "home", defaultGlotHome(), "location of your glot config and models. Overrides $GLOT_HOME")
	p.BoolVar(&flagDebug, "debug", false, "enable verbose output")

	cmd.AddCommand(
		newTrainCmd(out),
		newClassifyCmd(out, in),
		newDetectCmd(out),
		newFeaturesCmd(out),
		newStatsCmd(out),
		newEvaluateCmd(out),
		newModelsCmd(out),
		newServeCmd(out),
		newConfigCmd(out),
		newHomeCmd(out),
		newVersionCmd(out),
	)
	return cmd
}

func defaultGlotHome() string {
	if home := os.Getenv(homeEnvVar); home != "" {
		return home
	}

	homeEnvPath := os.Getenv("HOME")
	if homeEnvPath == "" && runtime.GOOS == "windows" {
		homeEnvPath = os.Getenv("USERPROFILE")
	}

	return filepath.Join(homeEnvPath, ".glot")
}

func homePath() glotpath.Home {
	return glotpath.Home(os.ExpandEnv(glotHome))
}

// openModels opens the model database, creating the home directory first.
func openModels() (*bolt.Store, error) {
	home := homePath()
	if err := osutil.EnsureDirectory(home.String()); err != nil {
		return nil, err
	}
	return bolt.Open(home.Models())
}

// loadModel restores the stored model named by ref, or the latest one.
func loadModel(ctx context.Context, ref string) (*storage.Object, *bayes.Store, error) {
	models, err := openModels()
	if err != nil {
		return nil, nil, err
	}
	defer models.Close()

	obj, err := storage.Resolve(ctx, models, ref)
	if err != nil {
		return nil, nil, err
	}
	store, err := obj.Store()
	if err != nil {
		return nil, nil, err
	}
	log.Debugf("loaded model %s (%s)", obj.Name, obj.ID)
	return obj, store, nil
}

func validateArgs(args, expectedArgs []string) error {
	if len(args) != len(expectedArgs) {
		return fmt.Errorf("This command needs %v argument(s): %v", len(expectedArgs), expectedArgs)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd(os.Stdout, os.Stdin)
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
