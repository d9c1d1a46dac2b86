package main

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Azure/glot/pkg/bayes"
	"github.com/Azure/glot/pkg/corpus"
	"github.com/Azure/glot/pkg/linguist"
	"github.com/Azure/glot/pkg/linguist/tokenizer"
	"github.com/Azure/glot/pkg/storage"
)

const trainDesc = `
Train a model on a corpus directory and store it in $GLOT_HOME.

Every file whose extension names a known language becomes a training document
for that language. With --select, only the --features most informative words
of each language are kept.

The tokenizer settings (--skip-comments, --skip-literals, --byte-limit) are
stored with the model and reused whenever it classifies.
`

type trainCmd struct {
	out      io.Writer
	corpus   string
	maxFiles int
	jobs     int
	method   string
	features int
	name     string
	tokens   tokenizerFlags
}

// tokenizerFlags are the tokenizer settings a model is trained with.
type tokenizerFlags struct {
	skipComments bool
	skipLiterals bool
	byteLimit    int
}

func (tf *tokenizerFlags) addFlags(f *pflag.FlagSet) {
	f.BoolVar(&tf.skipComments, "skip-comments", false, "drop comments before counting tokens")
	f.BoolVar(&tf.skipLiterals, "skip-literals", false, "drop string and number literals before counting tokens")
	f.IntVar(&tf.byteLimit, "byte-limit", tokenizer.DefaultByteLimit, "number of leading bytes of each file that are tokenized")
}

func (tf *tokenizerFlags) tokenizer() (*tokenizer.Tokenizer, error) {
	if tf.byteLimit <= 0 {
		return nil, fmt.Errorf("--byte-limit must be positive, got %d", tf.byteLimit)
	}
	opts := []tokenizer.Option{tokenizer.WithByteLimit(tf.byteLimit)}
	if tf.skipComments {
		opts = append(opts, tokenizer.WithoutComments())
	}
	if tf.skipLiterals {
		opts = append(opts, tokenizer.WithoutLiterals())
	}
	return tokenizer.New(opts...), nil
}

func newTrainCmd(out io.Writer) *cobra.Command {
	tc := &trainCmd{out: out}

	cmd := &cobra.Command{
		Use:   "train [corpus]",
		Short: "train a model on a corpus of source files",
		Long:  trainDesc,
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfigDefaults(cmd.Flags(), map[string]configKey{
				"corpus":    corpusKey,
				"max-files": maxFilesKey,
				"select":    selectionMethodKey,
				"features":  featureCountKey,
			}); err != nil {
				return err
			}
			if len(args) == 1 {
				tc.corpus = args[0]
			}
			if tc.corpus == "" {
				return fmt.Errorf("no corpus given: pass a directory or run 'glot config set %s <dir>'", corpusKey.name)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return tc.run(cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&tc.corpus, "corpus", "", "corpus directory, used when no argument is given")
	f.IntVar(&tc.maxFiles, "max-files", 20, "maximum number of files read per corpus directory (0 for all)")
	f.IntVarP(&tc.jobs, "jobs", "j", 0, "number of languages trained in parallel (0 for one per CPU)")
	f.StringVar(&tc.method, "select", "", "feature selection method: mutualInformation or chiSquare")
	f.IntVar(&tc.features, "features", 100, "number of features kept per language with --select")
	f.StringVar(&tc.name, "name", "", "name of the stored model (generated when empty)")
	tc.tokens.addFlags(f)

	return cmd
}

func (t *trainCmd) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	var method bayes.Method
	if t.method != "" {
		m, err := bayes.ParseMethod(t.method)
		if err != nil {
			return err
		}
		method = m
	}
	tok, err := t.tokens.tokenizer()
	if err != nil {
		return err
	}

	docs, err := corpus.NewLoader(t.corpus, t.maxFiles).TrainingSet()
	if err != nil {
		return err
	}
	store, err := linguist.Train(ctx, docs, tok, t.jobs)
	if err != nil {
		return err
	}
	if store.TotalDocuments() == 0 {
		return fmt.Errorf("no training documents found in %s", t.corpus)
	}

	if method != "" {
		sel, err := bayes.SelectFeatures(store, method, t.features)
		if err != nil {
			return err
		}
		log.Debugf("kept %d features with %s", sel.VocabularySize, sel.Method)
	}
	obj := storage.NewObject(t.name, store)
	obj.Tokenizer = *tok
	if method != "" {
		obj.Method, obj.FeatureCount = method.String(), t.features
	}

	models, err := openModels()
	if err != nil {
		return err
	}
	defer models.Close()
	if err := models.CreateModel(ctx, obj); err != nil {
		return err
	}

	summary := obj.Summary
	fmt.Fprintf(t.out, "Trained model %s on %d documents in %d languages (vocabulary %d)\n",
		obj.Name, summary.Documents, len(summary.Labels), summary.VocabularySize)
	return nil
}
