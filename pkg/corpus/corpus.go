// Package corpus loads labelled source files from a directory tree of code
// samples, one language per file extension.
package corpus

import (
	"path/filepath"
	"strings"
)

// Extensions maps a file extension, without the dot, to the language label
// of files carrying it.
var Extensions = map[string]string{
	"c":     "C",
	"cs":    "C#",
	"cpp":   "C++",
	"java":  "Java",
	"js":    "JavaScript",
	"pm":    "Perl",
	"php":   "PHP",
	"py":    "Python",
	"rb":    "Ruby",
	"scala": "Scala",
}

// Document is one labelled listing.
type Document struct {
	Label   string
	Path    string
	Content []byte
}

// LabelFor returns the language label for path according to Extensions.
func LabelFor(path string) (string, bool) {
	return labelFor(Extensions, path)
}

func labelFor(extensions map[string]string, path string) (string, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", false
	}
	label, ok := extensions[ext]
	if !ok {
		label, ok = extensions[strings.ToLower(ext)]
	}
	return label, ok
}
