package corpus

import (
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/Azure/glot/pkg/osutil"
)

// IgnoreFunc reports whether a path relative to the corpus root is excluded.
type IgnoreFunc func(rel string) bool

func ignoreNothing(string) bool { return false }

// LoadGitIgnore reads dir/.gitignore when dir is a git checkout. Patterns are
// matched against both the root-relative path and the base name; "!" lines
// re-include what an earlier pattern excluded.
func LoadGitIgnore(dir string) (IgnoreFunc, error) {
	gitDirExists, err := osutil.Exists(filepath.Join(dir, ".git"))
	if err != nil {
		return nil, err
	}
	gitignoreExists, err := osutil.Exists(filepath.Join(dir, ".gitignore"))
	if err != nil {
		return nil, err
	}
	if !gitDirExists || !gitignoreExists {
		log.Debugln("no .gitignore found in", dir)
		return ignoreNothing, nil
	}
	log.Debugln("found .git directory and .gitignore in", dir)

	pathlist, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		return nil, err
	}
	return parseGitIgnore(string(pathlist)), nil
}

func parseGitIgnore(pathlist string) IgnoreFunc {
	var ignore, except []string
	for _, p := range strings.Split(pathlist, "\n") {
		p = strings.TrimSpace(p)
		if p == "" || p[0] == '#' {
			continue
		}
		isExcept := p[0] == '!'
		if isExcept {
			p = p[1:]
		}
		p = strings.Trim(p, "/")
		if p == "" {
			continue
		}
		if isExcept {
			except = append(except, p)
		} else {
			ignore = append(ignore, p)
		}
	}
	if len(ignore) == 0 {
		return ignoreNothing
	}
	return func(rel string) bool {
		rel = filepath.ToSlash(rel)
		if !matchAny(ignore, rel) {
			return false
		}
		return !matchAny(except, rel)
	}
}

func matchAny(patterns []string, rel string) bool {
	base := rel[strings.LastIndex(rel, "/")+1:]
	for _, p := range patterns {
		if m, _ := filepath.Match(p, rel); m {
			return true
		}
		if m, _ := filepath.Match(p, base); m {
			return true
		}
	}
	return false
}
