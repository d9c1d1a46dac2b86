package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCommands(t *testing.T) {
	home := t.TempDir()

	_, err := runGlot(t, "", "config", "set", "model", "bernoulli", "--home", home)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(home, "config.toml"))
	require.NoError(t, err)

	out, err := runGlot(t, "", "config", "get", "model", "--home", home)
	require.NoError(t, err)
	assert.Equal(t, "bernoulli\n", out)

	_, err = runGlot(t, "", "config", "set", "max-files", "5", "--home", home)
	require.NoError(t, err)
	out, err = runGlot(t, "", "config", "list", "--home", home)
	require.NoError(t, err)
	assert.Contains(t, out, "max-files")
	assert.Contains(t, out, "bernoulli")

	_, err = runGlot(t, "", "config", "unset", "model", "--home", home)
	require.NoError(t, err)
	_, err = runGlot(t, "", "config", "get", "model", "--home", home)
	assert.Error(t, err)
	_, err = runGlot(t, "", "config", "unset", "model", "--home", home)
	assert.Error(t, err)
}

func TestValidateConfigSetArgs(t *testing.T) {
	args := []string{"key", "value"}

	err := validateConfigSetArgs([]string{"model"}, args)
	assert.EqualError(t, err, "This command needs a value: "+modelKey.description)

	err = validateConfigSetArgs([]string{"nope"}, args)
	assert.EqualError(t, err, "This command needs a value. No help available for key 'nope'")

	assert.Error(t, validateConfigSetArgs(nil, args))
	assert.Error(t, validateConfigSetArgs([]string{"nope", "x"}, args))
	assert.NoError(t, validateConfigSetArgs([]string{"listen", "tcp://0.0.0.0:80"}, args))
}

func TestConfigDefaultsApplyToFlags(t *testing.T) {
	home := t.TempDir()
	corpusDir := sampleCorpus(t)

	_, err := runGlot(t, "", "config", "set", "corpus", corpusDir, "--home", home)
	require.NoError(t, err)
	_, err = runGlot(t, "", "config", "set", "max-files", "1", "--home", home)
	require.NoError(t, err)

	// corpus and max-files come from the config
	out, err := runGlot(t, "", "train", "--home", home)
	require.NoError(t, err)
	assert.Contains(t, out, "on 2 documents")

	// flags win over the config
	out, err = runGlot(t, "", "train", "--home", home, "--max-files", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "on 4 documents")

	_, err = runGlot(t, "", "config", "set", "max-files", "many", "--home", home)
	require.NoError(t, err)
	_, err = runGlot(t, "", "train", "--home", home)
	assert.Error(t, err)
}
