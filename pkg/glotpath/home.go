package glotpath

import (
	"path/filepath"
)

// Home describes the location of a CLI configuration.
//
// This helper builds paths relative to a glot home directory.
type Home string

// String returns Home as a string.
//
// Implements fmt.Stringer.
func (h Home) String() string {
	return string(h)
}

// Path returns Home with elem joined onto it.
func (h Home) Path(elem ...string) string {
	return filepath.Join(append([]string{string(h)}, elem...)...)
}

// Config returns the path to the glot config file.
func (h Home) Config() string {
	return h.Path("config.toml")
}

// Models returns the path to the model database.
func (h Home) Models() string {
	return h.Path("models.db")
}
