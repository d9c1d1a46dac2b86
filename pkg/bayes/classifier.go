package bayes

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Classifier computes posterior label scores from a Store.
type Classifier struct {
	store *Store
}

// Score is one label's posterior score for a document.
type Score struct {
	Label string `json:"label"`
	// LogScore is log P(label) + log P(document | label).
	LogScore float64 `json:"logScore"`
	// Probability is the posterior normalised over all scored labels.
	Probability float64 `json:"probability"`
}

// NewClassifier returns a Classifier reading from store.
func NewClassifier(store *Store) *Classifier {
	return &Classifier{store: store}
}

// Store returns the statistics the classifier reads from.
func (c *Classifier) Store() *Store {
	return c.store
}

// LogPrior returns log(documentCount[label] / totalDocuments).
func (c *Classifier) LogPrior(label string) float64 {
	return math.Log(float64(c.store.DocumentCount(label)) / float64(c.store.TotalDocuments()))
}

// Classify returns the label with the highest posterior score.
// Exact ties go to the lexicographically smallest label.
func (c *Classifier) Classify(tokens []string, m Model) (string, error) {
	return c.ClassifyAmong(tokens, m, nil)
}

// ClassifyAmong is Classify restricted to the labels named in hints.
// An empty hint list considers every label.
func (c *Classifier) ClassifyAmong(tokens []string, m Model, hints []string) (string, error) {
	labels, err := c.candidates(hints)
	if err != nil {
		return "", err
	}
	best := 0
	bestScore := math.Inf(-1)
	for i, label := range labels {
		score, err := c.score(tokens, label, m)
		if err != nil {
			return "", err
		}
		// labels are sorted, so strict comparison keeps the smallest label on ties
		if i == 0 || score > bestScore {
			best, bestScore = i, score
		}
	}
	return labels[best], nil
}

// Rank scores every label and returns them best first, using the same
// tie-break as Classify.
func (c *Classifier) Rank(tokens []string, m Model) ([]Score, error) {
	return c.RankAmong(tokens, m, nil)
}

// RankAmong is Rank restricted to the labels named in hints. Probabilities
// are normalised over the ranked labels only, and the first score is always
// the label ClassifyAmong returns.
func (c *Classifier) RankAmong(tokens []string, m Model, hints []string) ([]Score, error) {
	labels, err := c.candidates(hints)
	if err != nil {
		return nil, err
	}
	scores := make([]Score, len(labels))
	logs := make([]float64, len(labels))
	for i, label := range labels {
		score, err := c.score(tokens, label, m)
		if err != nil {
			return nil, err
		}
		scores[i] = Score{Label: label, LogScore: score}
		logs[i] = score
	}
	norm := floats.LogSumExp(logs)
	for i := range scores {
		scores[i].Probability = math.Exp(scores[i].LogScore - norm)
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].LogScore > scores[j].LogScore
	})
	return scores, nil
}

func (c *Classifier) score(tokens []string, label string, m Model) (float64, error) {
	likelihood, err := c.LogLikelihood(tokens, label, m)
	if err != nil {
		return 0, err
	}
	return c.LogPrior(label) + likelihood, nil
}

func (c *Classifier) candidates(hints []string) ([]string, error) {
	labels := c.store.Labels()
	if len(labels) == 0 {
		return nil, errors.Wrap(ErrEmptyModel, "no labels trained")
	}
	if len(hints) == 0 {
		return labels, nil
	}
	wanted := make(map[string]struct{}, len(hints))
	for _, hint := range hints {
		wanted[hint] = struct{}{}
	}
	filtered := labels[:0]
	for _, label := range labels {
		if _, ok := wanted[label]; ok {
			filtered = append(filtered, label)
		}
	}
	if len(filtered) == 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "no trained label among hints %v", hints)
	}
	return filtered, nil
}
