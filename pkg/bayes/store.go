package bayes

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Store accumulates per-label word statistics from labelled documents.
//
// Writers must be serialized by the caller and must not run alongside
// readers; concurrent training should fill one Store per shard and combine
// them with Merge. Once trained, any number of goroutines may read a Store.
type Store struct {
	documentCount  map[string]int
	totalWordCount map[string]int

	// label -> word -> count
	occurrence         map[string]map[string]int
	documentOccurrence map[string]map[string]int

	documentFrequency map[string]int
	vocabulary        map[string]struct{}

	// features is nil until SelectFeatures runs.
	features map[string]struct{}

	// sorted copy of vocabulary, rebuilt lazily after mutation
	vocabMu          sync.Mutex
	sortedVocabulary []string
}

// Summary is a read-only report of what a Store has been trained on.
type Summary struct {
	Labels            []string       `json:"labels"`
	LabelCount        map[string]int `json:"labelCount"`
	WordCountPerLabel map[string]int `json:"wordCountPerLabel"`
	VocabularySize    int            `json:"vocabularySize"`
	Documents         int            `json:"documents"`
	FeatureSelected   bool           `json:"featureSelected"`
}

// NewStore returns an empty *Store.
func NewStore() *Store {
	return &Store{
		documentCount:      make(map[string]int),
		totalWordCount:     make(map[string]int),
		occurrence:         make(map[string]map[string]int),
		documentOccurrence: make(map[string]map[string]int),
		documentFrequency:  make(map[string]int),
		vocabulary:         make(map[string]struct{}),
	}
}

// RecordDocument adds one training document for label.
//
// Recording the same document twice doubles its contribution.
func (s *Store) RecordDocument(label string, tokens []string) {
	s.documentCount[label]++
	s.totalWordCount[label] += len(tokens)

	counts := make(map[string]int, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}

	occ := s.labelCounters(s.occurrence, label)
	docOcc := s.labelCounters(s.documentOccurrence, label)
	for word, n := range counts {
		if _, ok := s.vocabulary[word]; !ok {
			s.vocabulary[word] = struct{}{}
			s.sortedVocabulary = nil
		}
		s.documentFrequency[word]++
		docOcc[word]++
		occ[word] += n
	}
}

func (s *Store) labelCounters(m map[string]map[string]int, label string) map[string]int {
	counters, ok := m[label]
	if !ok {
		counters = make(map[string]int)
		m[label] = counters
	}
	return counters
}

// DocumentCount returns the number of documents recorded for label.
func (s *Store) DocumentCount(label string) int {
	return s.documentCount[label]
}

// TotalWordCount returns the token total of label, net of words discarded by feature selection.
func (s *Store) TotalWordCount(label string) int {
	return s.totalWordCount[label]
}

// Occurrence returns how many times word appeared across the documents of label.
func (s *Store) Occurrence(label, word string) int {
	return s.occurrence[label][word]
}

// DocumentOccurrence returns how many documents of label contain word.
func (s *Store) DocumentOccurrence(label, word string) int {
	return s.documentOccurrence[label][word]
}

// DocumentFrequency returns how many documents of any label contain word.
func (s *Store) DocumentFrequency(word string) int {
	return s.documentFrequency[word]
}

// TotalDocuments returns the number of recorded documents over all labels.
func (s *Store) TotalDocuments() int {
	total := 0
	for _, n := range s.documentCount {
		total += n
	}
	return total
}

// Labels returns the known labels in lexicographic order.
func (s *Store) Labels() []string {
	labels := make([]string, 0, len(s.documentCount))
	for label := range s.documentCount {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// VocabularySize returns the size of the active vocabulary.
func (s *Store) VocabularySize() int {
	return len(s.vocabulary)
}

// InVocabulary reports whether word is part of the active vocabulary.
func (s *Store) InVocabulary(word string) bool {
	_, ok := s.vocabulary[word]
	return ok
}

// Vocabulary returns the active vocabulary in lexicographic order.
// The returned slice must not be modified.
func (s *Store) Vocabulary() []string {
	s.vocabMu.Lock()
	defer s.vocabMu.Unlock()
	if s.sortedVocabulary == nil {
		words := make([]string, 0, len(s.vocabulary))
		for word := range s.vocabulary {
			words = append(words, word)
		}
		sort.Strings(words)
		s.sortedVocabulary = words
	}
	return s.sortedVocabulary
}

// FeatureSelected reports whether the vocabulary has been replaced by a selected feature set.
func (s *Store) FeatureSelected() bool {
	return s.features != nil
}

func (s *Store) isFeature(word string) bool {
	if s.features == nil {
		return true
	}
	_, ok := s.features[word]
	return ok
}

// Summary returns a snapshot of the store's aggregate counts.
func (s *Store) Summary() Summary {
	sum := Summary{
		Labels:            s.Labels(),
		LabelCount:        make(map[string]int, len(s.documentCount)),
		WordCountPerLabel: make(map[string]int, len(s.totalWordCount)),
		VocabularySize:    len(s.vocabulary),
		FeatureSelected:   s.FeatureSelected(),
	}
	for label, n := range s.documentCount {
		sum.LabelCount[label] = n
		sum.Documents += n
	}
	for label, n := range s.totalWordCount {
		sum.WordCountPerLabel[label] = n
	}
	return sum
}

// Merge adds every counter of other into s.
//
// Counters are plain sums, so stores filled independently (one per label or
// per shard of documents) can be reduced in any order. Neither store may have
// gone through feature selection.
func (s *Store) Merge(other *Store) error {
	if s.FeatureSelected() || other.FeatureSelected() {
		return errors.Wrap(ErrInvalidArgument, "cannot merge a feature-selected store")
	}
	for label, n := range other.documentCount {
		s.documentCount[label] += n
	}
	for label, n := range other.totalWordCount {
		s.totalWordCount[label] += n
	}
	mergeNested(s.occurrence, other.occurrence)
	mergeNested(s.documentOccurrence, other.documentOccurrence)
	for word, n := range other.documentFrequency {
		s.documentFrequency[word] += n
	}
	for word := range other.vocabulary {
		s.vocabulary[word] = struct{}{}
	}
	s.sortedVocabulary = nil
	return nil
}

func mergeNested(dst, src map[string]map[string]int) {
	for label, words := range src {
		counters, ok := dst[label]
		if !ok {
			counters = make(map[string]int, len(words))
			dst[label] = counters
		}
		for word, n := range words {
			counters[word] += n
		}
	}
}
