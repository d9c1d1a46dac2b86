package evaluate

import (
	"sort"

	"github.com/jbrukh/bayesian"
	"github.com/pkg/errors"

	"github.com/Azure/glot/pkg/bayes"
	"github.com/Azure/glot/pkg/corpus"
	"github.com/Azure/glot/pkg/linguist/tokenizer"
)

// trainBaseline fits the reference classifier from github.com/jbrukh/bayesian
// on docs tokenized by tok and returns its decision function.
func trainBaseline(docs []corpus.Document, tok *tokenizer.Tokenizer) (func([]string) (string, error), error) {
	seen := map[string]struct{}{}
	var labels []string
	for _, d := range docs {
		if _, ok := seen[d.Label]; !ok {
			seen[d.Label] = struct{}{}
			labels = append(labels, d.Label)
		}
	}
	switch len(labels) {
	case 0:
		return nil, errors.Wrap(bayes.ErrEmptyModel, "no training documents")
	case 1:
		return nil, errors.Wrap(bayes.ErrInvalidArgument, "the baseline needs at least two languages")
	}
	sort.Strings(labels)

	classes := make([]bayesian.Class, len(labels))
	for i, l := range labels {
		classes[i] = bayesian.Class(l)
	}
	classifier := bayesian.NewClassifier(classes...)
	for _, d := range docs {
		classifier.Learn(tok.Tokenize(d.Content), bayesian.Class(d.Label))
	}

	return func(tokens []string) (string, error) {
		_, idx, _ := classifier.LogScores(tokens)
		return string(classifier.Classes[idx]), nil
	}, nil
}
