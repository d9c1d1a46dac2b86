package bayes

import (
	"sort"

	"github.com/pkg/errors"
)

// Snapshot is a plain copy of every counter in a Store, suitable for encoding.
type Snapshot struct {
	DocumentCount      map[string]int            `msgpack:"document_count" json:"documentCount"`
	TotalWordCount     map[string]int            `msgpack:"total_word_count" json:"totalWordCount"`
	Occurrence         map[string]map[string]int `msgpack:"occurrence" json:"occurrence"`
	DocumentOccurrence map[string]map[string]int `msgpack:"document_occurrence" json:"documentOccurrence"`
	DocumentFrequency  map[string]int            `msgpack:"document_frequency" json:"documentFrequency"`
	Vocabulary         []string                  `msgpack:"vocabulary" json:"vocabulary"`
	// Features is nil when no selection ran.
	Features []string `msgpack:"features" json:"features,omitempty"`
}

// Snapshot copies the store's counters.
func (s *Store) Snapshot() *Snapshot {
	snap := &Snapshot{
		DocumentCount:      copyCounts(s.documentCount),
		TotalWordCount:     copyCounts(s.totalWordCount),
		Occurrence:         make(map[string]map[string]int, len(s.occurrence)),
		DocumentOccurrence: make(map[string]map[string]int, len(s.documentOccurrence)),
		DocumentFrequency:  copyCounts(s.documentFrequency),
		Vocabulary:         append([]string(nil), s.Vocabulary()...),
	}
	for label, words := range s.occurrence {
		snap.Occurrence[label] = copyCounts(words)
	}
	for label, words := range s.documentOccurrence {
		snap.DocumentOccurrence[label] = copyCounts(words)
	}
	if s.features != nil {
		snap.Features = make([]string, 0, len(s.features))
		for word := range s.features {
			snap.Features = append(snap.Features, word)
		}
		sort.Strings(snap.Features)
	}
	return snap
}

// Restore rebuilds a Store from a snapshot, rejecting counters that break the
// store's invariants.
func Restore(snap *Snapshot) (*Store, error) {
	if snap == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "nil snapshot")
	}
	s := NewStore()
	for label, n := range snap.DocumentCount {
		if n < 0 {
			return nil, errors.Wrapf(ErrInvalidArgument, "label %q: negative document count", label)
		}
		s.documentCount[label] = n
	}
	for label, n := range snap.TotalWordCount {
		if n < 0 {
			return nil, errors.Wrapf(ErrInvalidArgument, "label %q: negative word total", label)
		}
		s.totalWordCount[label] = n
	}
	for word, n := range snap.DocumentFrequency {
		if n < 0 {
			return nil, errors.Wrapf(ErrInvalidArgument, "word %q: negative document frequency", word)
		}
		s.documentFrequency[word] = n
	}
	for label, words := range snap.Occurrence {
		s.occurrence[label] = copyCounts(words)
	}
	for label, words := range snap.DocumentOccurrence {
		docs := s.documentCount[label]
		counters := make(map[string]int, len(words))
		for word, n := range words {
			if n < 0 || n > docs {
				return nil, errors.Wrapf(ErrInvalidArgument, "label %q word %q: document occurrence %d outside [0, %d]", label, word, n, docs)
			}
			if s.occurrence[label][word] < n {
				return nil, errors.Wrapf(ErrInvalidArgument, "label %q word %q: occurrence below document occurrence", label, word)
			}
			counters[word] = n
		}
		s.documentOccurrence[label] = counters
	}
	for _, word := range snap.Vocabulary {
		s.vocabulary[word] = struct{}{}
	}
	if snap.Features != nil {
		s.features = make(map[string]struct{}, len(snap.Features))
		for _, word := range snap.Features {
			s.features[word] = struct{}{}
		}
	}
	return s, nil
}

func copyCounts(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
