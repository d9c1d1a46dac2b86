// Package linguist trains language models on source code and uses them to
// tell which languages a file or a project is written in.
package linguist

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/Azure/glot/pkg/bayes"
	"github.com/Azure/glot/pkg/corpus"
	"github.com/Azure/glot/pkg/linguist/tokenizer"
	"github.com/Azure/glot/pkg/osutil"
)

// Unknown is reported for files that hold no tokens to classify.
const Unknown = "(unknown)"

// sniffLength is how much of each file ProcessDir reads.
const sniffLength = 16 * 1024

// Language is a programming language and the share of a project's bytes
// written in it.
type Language struct {
	Language string  `json:"language"`
	Percent  float64 `json:"percent"`
}

type sortableResult []*Language

func (s sortableResult) Len() int {
	return len(s)
}

func (s sortableResult) Less(i, j int) bool {
	if s[i].Percent == s[j].Percent {
		return s[i].Language > s[j].Language
	}
	return s[i].Percent < s[j].Percent
}

func (s sortableResult) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

func fileGetContents(filename string) ([]byte, error) {
	log.Debugln("reading contents of", filename)

	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, sniffLength))
}

// ProcessDir walks through a directory, classifies every file and returns the
// languages found, largest share first.
//
// A file whose extension names a language the model knows is counted under
// that language without being read. Everything else is tokenized with tok,
// which must match the model's training, and classified by content.
func ProcessDir(c *bayes.Classifier, tok *tokenizer.Tokenizer, dirname string, m bayes.Model) ([]*Language, error) {
	tok = orDefault(tok)
	var (
		langs     = make(map[string]int)
		totalSize int
	)
	exists, err := osutil.Exists(dirname)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, os.ErrNotExist
	}
	isIgnored, err := corpus.LoadGitIgnore(dirname)
	if err != nil {
		return nil, err
	}
	store := c.Store()

	err = filepath.Walk(dirname, func(path string, file os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dirname, path)
		if err != nil {
			return err
		}
		if file.IsDir() {
			if file.Name() == ".git" {
				log.Debugln(".git directory, skipping")
				return filepath.SkipDir
			}
			if rel != "." && isIgnored(rel) {
				log.Debugln(path, "is ignored, skipping")
				return filepath.SkipDir
			}
			return nil
		}
		if file.Mode()&os.ModeSymlink != 0 {
			return nil
		}
		size := int(file.Size())
		if size == 0 {
			log.Debugln(path, "is empty file, skipping")
			return nil
		}
		if isIgnored(rel) {
			log.Debugln(path, "is ignored, skipping")
			return nil
		}

		if byName, ok := corpus.LabelFor(path); ok && store.DocumentCount(byName) > 0 {
			log.Debugln(path, "got result by name:", byName)
			langs[byName] += size
			totalSize += size
			return nil
		}

		contents, err := fileGetContents(path)
		if err != nil {
			return err
		}
		if bytes.IndexByte(contents, 0) >= 0 {
			log.Debugln(path, "looks binary, skipping")
			return nil
		}
		tokens := tok.Tokenize(contents)
		if len(tokens) == 0 {
			log.Debugln(path, "got no result")
			langs[Unknown] += size
			totalSize += size
			return nil
		}
		byData, err := c.Classify(tokens, m)
		if err != nil {
			return err
		}
		log.Debugln(path, "got result by data:", byData)
		langs[byData] += size
		totalSize += size
		return nil
	})
	if err != nil {
		return nil, err
	}

	results := []*Language{}
	for lang, size := range langs {
		l := &Language{
			Language: lang,
			Percent:  (float64(size) / float64(totalSize)) * 100.0,
		}
		results = append(results, l)
		log.Debugf("language: %s percent: %f", l.Language, l.Percent)
	}
	sort.Sort(sort.Reverse(sortableResult(results)))
	return results, nil
}
