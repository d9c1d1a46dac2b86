package bayes

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Model selects the generative event model used to score a document.
type Model string

const (
	// Multinomial treats a document as a sequence of word draws.
	Multinomial Model = "multinomial"
	// Bernoulli treats a document as a presence/absence vector over the vocabulary.
	Bernoulli Model = "bernoulli"
)

// Models lists the supported event models.
var Models = []Model{Multinomial, Bernoulli}

// ParseModel maps a model name to a Model. Matching is case-insensitive.
func ParseModel(name string) (Model, error) {
	switch Model(strings.ToLower(strings.TrimSpace(name))) {
	case Multinomial:
		return Multinomial, nil
	case Bernoulli:
		return Bernoulli, nil
	}
	return "", errors.Wrapf(ErrInvalidArgument, "unknown model %q", name)
}

func (m Model) String() string {
	return string(m)
}

// LogLikelihood returns log P(tokens | label) under model m.
func (c *Classifier) LogLikelihood(tokens []string, label string, m Model) (float64, error) {
	if c.store.VocabularySize() == 0 {
		return 0, errors.Wrapf(ErrEmptyModel, "label %q: empty vocabulary", label)
	}
	switch m {
	case Multinomial:
		return c.multinomial(tokens, label)
	case Bernoulli:
		return c.bernoulli(tokens, label), nil
	}
	return 0, errors.Wrapf(ErrInvalidArgument, "unknown model %q", m)
}

// multinomial applies add-one smoothing over the label's token total.
func (c *Classifier) multinomial(tokens []string, label string) (float64, error) {
	s := c.store
	denom := float64(s.TotalWordCount(label) + s.VocabularySize())
	if denom <= 0 {
		return 0, errors.Wrapf(ErrEmptyModel, "label %q: non-positive word total", label)
	}
	sum := 0.0
	for _, token := range tokens {
		if !s.isFeature(token) {
			continue
		}
		sum += math.Log(float64(s.Occurrence(label, token)+1) / denom)
	}
	return sum, nil
}

// bernoulli scores presence and absence of every vocabulary word.
func (c *Classifier) bernoulli(tokens []string, label string) float64 {
	s := c.store
	present := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		present[token] = struct{}{}
	}
	denom := float64(s.DocumentCount(label) + 2)
	sum := 0.0
	for _, word := range s.Vocabulary() {
		p := float64(s.DocumentOccurrence(label, word)+1) / denom
		if _, ok := present[word]; ok {
			sum += math.Log(p)
		} else {
			sum += math.Log(1 - p)
		}
	}
	return sum
}
