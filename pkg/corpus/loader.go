package corpus

import (
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/facebookgo/symwalk"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/Azure/glot/pkg/osutil"
)

// Loader reads training and test documents from a corpus directory.
type Loader struct {
	// Root is the corpus directory.
	Root string
	// MaxPerLabel caps the files taken from each directory of the corpus;
	// zero or less means no cap.
	MaxPerLabel int
	// Extensions overrides the package-level extension table when set.
	Extensions map[string]string
	// Rand drives test-set sampling. A time-seeded source is used when nil.
	Rand *rand.Rand

	mu sync.Mutex
}

// NewLoader returns a Loader for root taking at most maxPerLabel files per
// directory.
func NewLoader(root string, maxPerLabel int) *Loader {
	return &Loader{Root: root, MaxPerLabel: maxPerLabel}
}

// TrainingSet loads up to MaxPerLabel files per directory, in name order.
func (l *Loader) TrainingSet() ([]Document, error) {
	return l.Training(l.MaxPerLabel)
}

// Training loads up to maxPerLabel files per directory, in name order.
func (l *Loader) Training(maxPerLabel int) ([]Document, error) {
	paths, err := l.files(maxPerLabel, false)
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p.path)
		if err != nil {
			return nil, errors.Wrapf(err, "error reading %s", p.path)
		}
		docs = append(docs, Document{Label: p.label, Path: p.path, Content: content})
	}
	log.Debugf("loaded %d training documents from %s", len(docs), l.Root)
	return docs, nil
}

// TestSet picks up to maxPerLabel random files per directory and cuts a
// random window of linesPerFile consecutive lines out of each. Files with
// fewer lines, or a linesPerFile of zero or less, are used whole.
func (l *Loader) TestSet(maxPerLabel, linesPerFile int) ([]Document, error) {
	paths, err := l.files(maxPerLabel, true)
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p.path)
		if err != nil {
			return nil, errors.Wrapf(err, "error reading %s", p.path)
		}
		docs = append(docs, Document{
			Label:   p.label,
			Path:    p.path,
			Content: l.window(content, linesPerFile),
		})
	}
	log.Debugf("sampled %d test documents from %s", len(docs), l.Root)
	return docs, nil
}

func (l *Loader) window(content []byte, linesPerFile int) []byte {
	if linesPerFile <= 0 {
		return content
	}
	lines := strings.SplitAfter(string(content), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) <= linesPerFile {
		return content
	}
	start := l.intn(len(lines) - linesPerFile)
	return []byte(strings.Join(lines[start:start+linesPerFile], ""))
}

func (l *Loader) intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.source().Intn(n)
}

func (l *Loader) shuffle(names []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.source().Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
}

// source must be called with l.mu held.
func (l *Loader) source() *rand.Rand {
	if l.Rand == nil {
		l.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return l.Rand
}

type labelledPath struct {
	path  string
	label string
}

// files walks the corpus and returns the usable files grouped by directory,
// directories in lexical order.
func (l *Loader) files(maxPerLabel int, shuffle bool) ([]labelledPath, error) {
	exists, err := osutil.Exists(l.Root)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.Wrapf(os.ErrNotExist, "corpus %s", l.Root)
	}
	isIgnored, err := LoadGitIgnore(l.Root)
	if err != nil {
		return nil, err
	}
	extensions := l.Extensions
	if extensions == nil {
		extensions = Extensions
	}

	byDir := map[string][]string{}
	err = symwalk.Walk(l.Root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(l.Root, path)
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if fi.Name() == ".git" {
				log.Debugln(".git directory, skipping")
				return filepath.SkipDir
			}
			if rel != "." && isIgnored(rel) {
				log.Debugln(path, "is ignored, skipping")
				return filepath.SkipDir
			}
			return nil
		}
		switch {
		case fi.Name() == ".DS_Store":
			return nil
		case fi.Size() == 0:
			log.Debugln(path, "is empty file, skipping")
			return nil
		case isIgnored(rel):
			log.Debugln(path, "is ignored, skipping")
			return nil
		}
		if _, ok := labelFor(extensions, path); !ok {
			log.Debugln(path, "has no known language extension, skipping")
			return nil
		}
		dir := filepath.Dir(path)
		byDir[dir] = append(byDir[dir], path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	dirs := make([]string, 0, len(byDir))
	for dir := range byDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var result []labelledPath
	for _, dir := range dirs {
		names := byDir[dir]
		sort.Strings(names)
		if shuffle {
			l.shuffle(names)
		}
		if maxPerLabel > 0 && len(names) > maxPerLabel {
			names = names[:maxPerLabel]
		}
		for _, name := range names {
			label, _ := labelFor(extensions, name)
			result = append(result, labelledPath{path: name, label: label})
		}
	}
	return result, nil
}
