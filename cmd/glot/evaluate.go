package main

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/Azure/glot/pkg/bayes"
	"github.com/Azure/glot/pkg/cmdline"
	"github.com/Azure/glot/pkg/corpus"
	"github.com/Azure/glot/pkg/evaluate"
)

const evaluateDesc = `
Measure how often the classifier names the right language.

Each run trains a fresh model on files of the corpus and classifies random
windows of lines cut out of other picks from the same corpus. Without --grid a
single run is made from the flags; with --grid the standard comparison of
event models, feature-selection methods and sizes, and the reference
classifier is run.
`

type evaluateCmd struct {
	out     io.Writer
	corpus  string
	grid    bool
	cfg     evaluate.Config
	model   string
	method  string
	jobs    int
	seed    int64
	noColor bool
	tokens  tokenizerFlags
}

func newEvaluateCmd(out io.Writer) *cobra.Command {
	ec := &evaluateCmd{out: out}

	cmd := &cobra.Command{
		Use:   "evaluate [corpus]",
		Short: "measure classifier accuracy on a corpus",
		Long:  evaluateDesc,
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfigDefaults(cmd.Flags(), map[string]configKey{
				"corpus":   corpusKey,
				"model":    modelKey,
				"select":   selectionMethodKey,
				"features": featureCountKey,
				"train":    maxFilesKey,
			}); err != nil {
				return err
			}
			if len(args) == 1 {
				ec.corpus = args[0]
			}
			if ec.corpus == "" {
				return fmt.Errorf("no corpus given: pass a directory or run 'glot config set %s <dir>'", corpusKey.name)
			}
			return ec.complete()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return ec.run(cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&ec.corpus, "corpus", "", "corpus directory, used when no argument is given")
	f.BoolVar(&ec.grid, "grid", false, "run the standard grid instead of a single configuration")
	f.StringVarP(&ec.model, "model", "m", string(bayes.Multinomial), "event model: multinomial or bernoulli")
	f.StringVar(&ec.method, "select", "", "feature selection method: mutualInformation or chiSquare")
	f.IntVar(&ec.cfg.FeatureCount, "features", 100, "number of features kept per language with --select")
	f.IntVar(&ec.cfg.TrainPerLabel, "train", 20, "training files per corpus directory")
	f.IntVar(&ec.cfg.TestPerLabel, "test", 10, "test files per corpus directory")
	f.IntVar(&ec.cfg.LinesPerFile, "lines", 20, "lines cut out of each test file (0 for whole files)")
	f.BoolVar(&ec.cfg.Baseline, "baseline", false, "score the reference classifier")
	f.IntVarP(&ec.jobs, "jobs", "j", 0, "number of configurations run in parallel (0 for one per CPU)")
	f.Int64Var(&ec.seed, "seed", 0, "seed for test sampling (0 for a time-based seed)")
	f.BoolVar(&ec.noColor, "no-color", false, "disable coloured output")
	ec.tokens.addFlags(f)

	return cmd
}

func (e *evaluateCmd) complete() error {
	m, err := bayes.ParseModel(e.model)
	if err != nil {
		return err
	}
	e.cfg.Model = m
	e.cfg.Method = ""
	if e.method != "" {
		method, err := bayes.ParseMethod(e.method)
		if err != nil {
			return err
		}
		e.cfg.Method = method
	}
	tok, err := e.tokens.tokenizer()
	if err != nil {
		return err
	}
	e.cfg.Tokenizer = *tok
	return nil
}

func (e *evaluateCmd) configs() []evaluate.Config {
	if e.grid {
		grid := evaluate.DefaultGrid()
		for i := range grid {
			grid[i].Tokenizer = e.cfg.Tokenizer
		}
		return grid
	}
	return []evaluate.Config{e.cfg}
}

func (e *evaluateCmd) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	loader := corpus.NewLoader(e.corpus, 0)
	if e.seed == 0 {
		e.seed = time.Now().UnixNano()
	}
	loader.Rand = rand.New(rand.NewSource(e.seed))

	opts := []cmdline.Option{cmdline.WithStdout(e.out)}
	if e.noColor {
		opts = append(opts, cmdline.NoColor())
	}

	configs := e.configs()
	done := cmdline.Progress(ctx, fmt.Sprintf("evaluating %d configurations", len(configs)), opts...)
	results, err := evaluate.Run(ctx, loader, configs, e.jobs)
	done(err)
	if err != nil {
		return err
	}
	cmdline.Report(results, opts...)
	return nil
}
