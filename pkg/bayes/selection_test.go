package bayes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chiStore: A = {"x y", "x"}, B = {"y", "z"}
func chiStore() *Store {
	s := NewStore()
	s.RecordDocument("A", words("x y"))
	s.RecordDocument("A", words("x"))
	s.RecordDocument("B", words("y"))
	s.RecordDocument("B", words("z"))
	return s
}

func TestParseMethod(t *testing.T) {
	testCases := map[string]Method{
		"mutualInformation": MutualInformation,
		"mutual":            MutualInformation,
		"MI":                MutualInformation,
		"chiSquare":         ChiSquare,
		"square":            ChiSquare,
		"chi2":              ChiSquare,
	}
	for name, expected := range testCases {
		m, err := ParseMethod(name)
		require.NoError(t, err, name)
		assert.Equal(t, expected, m, name)
	}
	_, err := ParseMethod("tfidf")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestContingency(t *testing.T) {
	s := chiStore()
	table := newContingency(s, "A", "x", s.TotalDocuments())
	assert.Equal(t, contingency{n11: 2, n01: 0, n10: 0, n00: 2, n: 4}, table)

	table = newContingency(s, "B", "y", s.TotalDocuments())
	assert.Equal(t, contingency{n11: 1, n01: 1, n10: 1, n00: 1, n: 4}, table)
}

func TestRankFeaturesChiSquare(t *testing.T) {
	s := chiStore()

	ranked, err := RankFeatures(s, ChiSquare, "A")
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "x", ranked[0].Word)
	assert.InDelta(t, 4.0, ranked[0].Score, 1e-12)
	assert.InDelta(t, 0.0455003, ranked[0].PValue, 1e-6)
	assert.Equal(t, "y", ranked[1].Word)
	assert.InDelta(t, 0.0, ranked[1].Score, 1e-12)

	ranked, err = RankFeatures(s, ChiSquare, "B")
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "z", ranked[0].Word)
	assert.InDelta(t, 16.0/12.0, ranked[0].Score, 1e-12)
}

func TestRankFeaturesMutualInformation(t *testing.T) {
	s := chiStore()

	ranked, err := RankFeatures(s, MutualInformation, "A")
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "x", ranked[0].Word)
	// n11 = n00 = 2, n = 4: two terms of 0.5 * log(9/4)
	assert.InDelta(t, math.Log(9.0/4.0), ranked[0].Score, 1e-12)
	assert.Zero(t, ranked[0].PValue)
}

func TestRankFeaturesZeroMarginal(t *testing.T) {
	s := NewStore()
	s.RecordDocument("A", words("x"))
	s.RecordDocument("A", words("x y"))

	for _, m := range Methods {
		ranked, err := RankFeatures(s, m, "A")
		require.NoError(t, err)
		for _, f := range ranked {
			assert.False(t, math.IsNaN(f.Score), "%s %s", m, f.Word)
			assert.False(t, math.IsInf(f.Score, 0), "%s %s", m, f.Word)
			if m == ChiSquare {
				assert.Zero(t, f.Score)
			}
		}
	}
}

func TestSelectFeaturesInvalidArguments(t *testing.T) {
	for _, count := range []int{0, -1} {
		_, err := SelectFeatures(chiStore(), MutualInformation, count)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
	_, err := SelectFeatures(chiStore(), Method("tfidf"), 3)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSelectFeaturesPrunesTotals(t *testing.T) {
	s := chiStore()

	sel, err := SelectFeatures(s, ChiSquare, 1)
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{"A": {"x"}, "B": {"z"}}, sel.Retained)
	assert.Equal(t, 2, sel.VocabularySize)
	assert.Equal(t, []string{"x", "z"}, s.Vocabulary())
	assert.True(t, s.FeatureSelected())

	// discarded y is subtracted from each label's total but its counter stays
	assert.Equal(t, 2, s.TotalWordCount("A"))
	assert.Equal(t, 1, s.TotalWordCount("B"))
	assert.Equal(t, 1, s.Occurrence("A", "y"))
	assert.Equal(t, 1, s.Occurrence("B", "y"))
}

func TestSelectFeaturesMonotonic(t *testing.T) {
	for _, m := range Methods {
		for _, count := range []int{1, 2, 3, 100} {
			s := chiStore()
			before := s.Vocabulary()
			original := append([]string(nil), before...)

			_, err := SelectFeatures(s, m, count)
			require.NoError(t, err)
			assert.LessOrEqual(t, s.VocabularySize(), len(original))
			assert.LessOrEqual(t, s.VocabularySize(), count*len(s.Labels()))
			if count >= len(original) {
				assert.Equal(t, original, s.Vocabulary(), "%s %d", m, count)
				assert.Equal(t, 3, s.TotalWordCount("A"))
				assert.Equal(t, 2, s.TotalWordCount("B"))
			}
		}
	}
}

func TestSelectFeaturesOneWordPerLabel(t *testing.T) {
	s := twoLabelStore()

	sel, err := SelectFeatures(s, MutualInformation, 1)
	require.NoError(t, err)

	// every word of a label has the same table here, so the word order decides
	assert.Equal(t, map[string][]string{"A": {"bar"}, "B": {"baz"}}, sel.Retained)
	assert.Equal(t, []string{"bar", "baz"}, s.Vocabulary())
	assert.Equal(t, 1, s.TotalWordCount("A"))
	assert.Equal(t, 2, s.TotalWordCount("B"))

	c := NewClassifier(s)
	only, err := c.LogLikelihood(words("bar"), "A", Multinomial)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(2.0/3.0), only, 1e-12)

	mixed, err := c.LogLikelihood(words("foo qux bar"), "A", Multinomial)
	require.NoError(t, err)
	assert.Equal(t, only, mixed)

	label, err := c.Classify(words("foo foo foo"), Multinomial)
	require.NoError(t, err)
	assert.Equal(t, "A", label)
}
