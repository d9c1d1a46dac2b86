package bayes

import (
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"
)

// Method is a feature ranking criterion.
type Method string

const (
	// MutualInformation ranks words by expected mutual information between
	// word presence and label membership.
	MutualInformation Method = "mutualInformation"
	// ChiSquare ranks words by the chi-square statistic of the 2x2
	// presence/membership table.
	ChiSquare Method = "chiSquare"
)

// Methods lists the supported selection criteria.
var Methods = []Method{MutualInformation, ChiSquare}

// ParseMethod maps a criterion name, or one of its short aliases, to a Method.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mutualinformation", "mutual", "mi":
		return MutualInformation, nil
	case "chisquare", "square", "chi2", "chi":
		return ChiSquare, nil
	}
	return "", errors.Wrapf(ErrInvalidArgument, "unknown selection method %q", name)
}

func (m Method) String() string {
	return string(m)
}

// contingency is the document-level 2x2 table for one (label, word) pair.
//
//	n11: docs of label containing word      n10: docs of other labels containing word
//	n01: docs of label without word         n00: docs of other labels without word
type contingency struct {
	n11, n01, n10, n00, n float64
}

func newContingency(s *Store, label, word string, total int) contingency {
	n11 := float64(s.DocumentOccurrence(label, word))
	n01 := float64(s.DocumentCount(label)) - n11
	n10 := float64(s.DocumentFrequency(word)) - n11
	n := float64(total)
	return contingency{
		n11: n11,
		n01: n01,
		n10: n10,
		n00: n - n10 - n11 - n01,
		n:   n,
	}
}

// mutualInformation sums the four expected-MI terms. A zero cell or a zero
// marginal contributes nothing.
func (t contingency) mutualInformation() float64 {
	term := func(cell, row, col float64) float64 {
		if cell == 0 || row*col == 0 {
			return 0
		}
		return (cell / t.n) * math.Log((t.n*cell+1)/(row*col))
	}
	withWord := t.n11 + t.n10
	withoutWord := t.n01 + t.n00
	inLabel := t.n11 + t.n01
	outLabel := t.n10 + t.n00
	return term(t.n11, withWord, inLabel) +
		term(t.n01, withoutWord, inLabel) +
		term(t.n10, withWord, outLabel) +
		term(t.n00, withoutWord, outLabel)
}

// chiSquare is the uncorrected 2x2 chi-square statistic, 0 when any marginal is zero.
func (t contingency) chiSquare() float64 {
	denom := (t.n11 + t.n01) * (t.n11 + t.n10) * (t.n10 + t.n00) * (t.n01 + t.n00)
	if denom == 0 {
		return 0
	}
	d := t.n11*t.n00 - t.n10*t.n01
	return t.n * d * d / denom
}

func (t contingency) score(m Method) float64 {
	if m == ChiSquare {
		return t.chiSquare()
	}
	return t.mutualInformation()
}

// FeatureScore is one word's rank under a label.
type FeatureScore struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
	// PValue is the chi-square upper-tail probability with one degree of
	// freedom; zero for other methods.
	PValue float64 `json:"pValue,omitempty"`
}

// Selection reports what SelectFeatures kept.
type Selection struct {
	Method Method `json:"method"`
	Count  int    `json:"count"`
	// Retained maps each label to the words it contributed, best first.
	Retained       map[string][]string `json:"retained"`
	VocabularySize int                 `json:"vocabularySize"`
}

func validMethod(m Method) error {
	if m != MutualInformation && m != ChiSquare {
		return errors.Wrapf(ErrInvalidArgument, "unknown selection method %q", m)
	}
	return nil
}

// RankFeatures scores every candidate word of label (words with at least one
// document occurrence under it) and returns them best first. Equal scores
// are ordered by word.
func RankFeatures(s *Store, m Method, label string) ([]FeatureScore, error) {
	if err := validMethod(m); err != nil {
		return nil, err
	}
	total := s.TotalDocuments()
	words := s.documentOccurrence[label]
	ranked := make([]FeatureScore, 0, len(words))
	for word, n := range words {
		if n == 0 {
			continue
		}
		ranked = append(ranked, FeatureScore{
			Word:  word,
			Score: newContingency(s, label, word, total).score(m),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Word < ranked[j].Word
	})
	if m == ChiSquare {
		dist := distuv.ChiSquared{K: 1}
		for i := range ranked {
			ranked[i].PValue = dist.Survival(ranked[i].Score)
		}
	}
	return ranked, nil
}

// SelectFeatures keeps the featureCount best words of every label and makes
// their union the active vocabulary.
//
// For each label, the occurrences of the words it does not keep are
// subtracted from that label's word total; the occurrence counters themselves
// are left untouched. A word kept by one label stays in the shared vocabulary
// even if another label discarded it, so the final vocabulary may hold up to
// featureCount times the number of labels.
//
// SelectFeatures is meant to be called at most once per trained store: a
// second call ranks the already-pruned candidates again and subtracts their
// occurrences a second time.
func SelectFeatures(s *Store, m Method, featureCount int) (*Selection, error) {
	if featureCount <= 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "feature count must be positive, got %d", featureCount)
	}
	if err := validMethod(m); err != nil {
		return nil, err
	}

	sel := &Selection{
		Method:   m,
		Count:    featureCount,
		Retained: make(map[string][]string),
	}
	features := make(map[string]struct{})
	for _, label := range s.Labels() {
		ranked, err := RankFeatures(s, m, label)
		if err != nil {
			return nil, err
		}
		keep := featureCount
		if keep > len(ranked) {
			keep = len(ranked)
		}
		kept := make([]string, 0, keep)
		for _, f := range ranked[:keep] {
			features[f.Word] = struct{}{}
			kept = append(kept, f.Word)
		}
		for _, f := range ranked[keep:] {
			s.totalWordCount[label] -= s.Occurrence(label, f.Word)
		}
		sel.Retained[label] = kept
	}

	s.features = features
	s.vocabulary = make(map[string]struct{}, len(features))
	for word := range features {
		s.vocabulary[word] = struct{}{}
	}
	s.sortedVocabulary = nil
	sel.VocabularySize = len(s.vocabulary)
	return sel, nil
}
