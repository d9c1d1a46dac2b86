package osutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExists(t *testing.T) {
	file, err := os.CreateTemp(t.TempDir(), "osutil")
	require.NoError(t, err)
	file.Close()

	exists, err := Exists(file.Name())
	assert.NoError(t, err)
	assert.True(t, exists, "expected tempfile to exist")

	require.NoError(t, os.Remove(file.Name()))
	exists, err = Exists(file.Name())
	assert.NoError(t, err)
	assert.False(t, exists, "expected tempfile to NOT exist")
}

func TestEnsureDirectory(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "models", "nested")

	require.NoError(t, EnsureDirectory(dir))
	fi, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())

	// second call is a no-op
	assert.NoError(t, EnsureDirectory(dir))

	file := filepath.Join(root, "plain")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	assert.Error(t, EnsureDirectory(file))
}
