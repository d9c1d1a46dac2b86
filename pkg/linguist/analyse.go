package linguist

import (
	"github.com/Azure/glot/pkg/bayes"
	"github.com/Azure/glot/pkg/linguist/tokenizer"
)

// Analyse tokenizes contents with tok and returns the most probable language.
// A nil tok is the default tokenizer.
//
// Hints narrow the answer to the listed languages. Hints naming languages the
// model was never trained on are dropped, and when none remain every trained
// language is considered.
func Analyse(c *bayes.Classifier, tok *tokenizer.Tokenizer, contents []byte, hints []string, m bayes.Model) (string, error) {
	document := orDefault(tok).Tokenize(contents)
	return c.ClassifyAmong(document, m, knownHints(c.Store(), hints))
}

// Rank is Analyse returning every candidate language, best first.
func Rank(c *bayes.Classifier, tok *tokenizer.Tokenizer, contents []byte, hints []string, m bayes.Model) ([]bayes.Score, error) {
	document := orDefault(tok).Tokenize(contents)
	return c.RankAmong(document, m, knownHints(c.Store(), hints))
}

func knownHints(s *bayes.Store, hints []string) []string {
	var known []string
	for _, hint := range hints {
		if s.DocumentCount(hint) > 0 {
			known = append(known, hint)
		}
	}
	return known
}

func orDefault(tok *tokenizer.Tokenizer) *tokenizer.Tokenizer {
	if tok == nil {
		return tokenizer.New()
	}
	return tok
}
