// Package evaluate measures classifier accuracy on samples drawn from a
// corpus, over a grid of model and feature-selection settings.
package evaluate

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Azure/glot/pkg/bayes"
	"github.com/Azure/glot/pkg/corpus"
	"github.com/Azure/glot/pkg/linguist"
	"github.com/Azure/glot/pkg/linguist/tokenizer"
)

// Config is one evaluation run.
type Config struct {
	Model bayes.Model `json:"model"`
	// Method and FeatureCount select features before testing; an empty
	// Method trains on the whole vocabulary.
	Method       bayes.Method `json:"method,omitempty"`
	FeatureCount int          `json:"featureCount,omitempty"`
	// TrainPerLabel and TestPerLabel cap the files taken per corpus directory.
	TrainPerLabel int `json:"trainPerLabel"`
	TestPerLabel  int `json:"testPerLabel"`
	// LinesPerFile is the length of the window cut out of each test file.
	LinesPerFile int `json:"linesPerFile"`
	// Baseline scores the reference classifier instead of Model.
	Baseline bool `json:"baseline,omitempty"`
	// Tokenizer is used for training and test documents alike.
	Tokenizer tokenizer.Tokenizer `json:"tokenizer"`
}

func (c Config) String() string {
	name := c.Model.String()
	if c.Baseline {
		name = "baseline"
	}
	if c.Method != "" {
		name = fmt.Sprintf("%s+%s(%d)", name, c.Method, c.FeatureCount)
	}
	if c.Tokenizer.SkipComments || c.Tokenizer.SkipLiterals {
		name = fmt.Sprintf("%s+%s", name, c.Tokenizer.String())
	}
	return fmt.Sprintf("%s train=%d test=%d lines=%d", name, c.TrainPerLabel, c.TestPerLabel, c.LinesPerFile)
}

// Validate checks that c describes a run that can be carried out.
func (c Config) Validate() error {
	if !c.Baseline {
		if _, err := bayes.ParseModel(c.Model.String()); err != nil {
			return err
		}
	}
	if c.Method != "" {
		if c.Baseline {
			return errors.Wrap(bayes.ErrInvalidArgument, "the baseline does not select features")
		}
		if _, err := bayes.ParseMethod(c.Method.String()); err != nil {
			return err
		}
		if c.FeatureCount <= 0 {
			return errors.Wrapf(bayes.ErrInvalidArgument, "feature count must be positive, got %d", c.FeatureCount)
		}
	}
	return nil
}

// Result is the outcome of one Config.
type Result struct {
	Config   Config        `json:"config"`
	Cases    int           `json:"cases"`
	Correct  int           `json:"correct"`
	Accuracy float64       `json:"accuracy"`
	Duration time.Duration `json:"duration"`
}

// DefaultFeatureCounts are the feature-set sizes tried by DefaultGrid.
var DefaultFeatureCounts = []int{5, 10, 25, 50, 100, 250, 500}

// DefaultGrid returns the standard comparison: the plain multinomial model,
// each selection method at every DefaultFeatureCounts size, the Bernoulli
// model and the baseline, all trained on 20 files per language and tested on
// 20-line windows of 10 files per language.
func DefaultGrid() []Config {
	base := Config{
		Model:         bayes.Multinomial,
		TrainPerLabel: 20,
		TestPerLabel:  10,
		LinesPerFile:  20,
	}
	grid := []Config{base}
	for _, m := range bayes.Methods {
		for _, n := range DefaultFeatureCounts {
			c := base
			c.Method, c.FeatureCount = m, n
			grid = append(grid, c)
		}
	}
	bernoulli := base
	bernoulli.Model = bayes.Bernoulli
	baseline := base
	baseline.Baseline = true
	return append(grid, bernoulli, baseline)
}

// Run evaluates every config against loader's corpus, up to jobs at a time.
// Results come back in config order.
func Run(ctx context.Context, loader *corpus.Loader, configs []Config, jobs int) ([]Result, error) {
	for _, c := range configs {
		if err := c.Validate(); err != nil {
			return nil, errors.Wrapf(err, "config %s", c)
		}
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(configs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, c := range configs {
		i, c := i, c
		g.Go(func() error {
			start := time.Now()
			res, err := runOne(gctx, loader, c)
			if err != nil {
				return errors.Wrapf(err, "config %s", c)
			}
			res.Duration = time.Since(start)
			log.Debugf("%s: %d/%d correct", c, res.Correct, res.Cases)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runOne(ctx context.Context, loader *corpus.Loader, c Config) (Result, error) {
	res := Result{Config: c}
	train, err := loader.Training(c.TrainPerLabel)
	if err != nil {
		return res, err
	}
	test, err := loader.TestSet(c.TestPerLabel, c.LinesPerFile)
	if err != nil {
		return res, err
	}

	tok := c.Tokenizer
	var classify func(tokens []string) (string, error)
	if c.Baseline {
		if classify, err = trainBaseline(train, &tok); err != nil {
			return res, err
		}
	} else {
		store, err := linguist.Train(ctx, train, &tok, 1)
		if err != nil {
			return res, err
		}
		if c.Method != "" {
			if _, err := bayes.SelectFeatures(store, c.Method, c.FeatureCount); err != nil {
				return res, err
			}
		}
		classifier := bayes.NewClassifier(store)
		classify = func(tokens []string) (string, error) {
			return classifier.Classify(tokens, c.Model)
		}
	}

	for _, d := range test {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		got, err := classify(tok.Tokenize(d.Content))
		if err != nil {
			return res, err
		}
		res.Cases++
		if got == d.Label {
			res.Correct++
		}
	}
	if res.Cases > 0 {
		res.Accuracy = float64(res.Correct) / float64(res.Cases)
	}
	return res, nil
}
