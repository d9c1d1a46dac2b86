package glotpath

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlotHome(t *testing.T) {
	home := filepath.Join("r", "users", "home", ".glot")
	hh := Home(home)

	assert.Equal(t, home, hh.String())
	assert.Equal(t, filepath.Join(home, "config.toml"), hh.Config())
	assert.Equal(t, filepath.Join(home, "models.db"), hh.Models())
	assert.Equal(t, filepath.Join(home, "a", "b"), hh.Path("a", "b"))
}
