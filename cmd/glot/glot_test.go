package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Azure/glot/pkg/bayes"
	"github.com/Azure/glot/pkg/storage"
)

func runGlot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out, strings.NewReader(stdin))
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), err
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return root
}

func sampleCorpus(t *testing.T) string {
	return writeFiles(t, map[string]string{
		"python/a.py": "def add(a, b):\n    return a + b\n",
		"python/b.py": "import os\nprint(os.getcwd())\n",
		"ruby/a.rb":   "def add(a, b)\n  a + b\nend\n",
		"ruby/b.rb":   "puts 'hi'\nend\n",
	})
}

func TestTrainAndClassify(t *testing.T) {
	home := t.TempDir()
	corpusDir := sampleCorpus(t)

	out, err := runGlot(t, "", "train", corpusDir, "--home", home, "--name", "first")
	require.NoError(t, err)
	assert.Contains(t, out, "Trained model first on 4 documents in 2 languages")

	_, err = runGlot(t, "", "train", corpusDir, "--home", home, "--name", "first")
	assert.Error(t, err, "model names are unique")

	out, err = runGlot(t, "puts 'hello'\nend\n", "classify", "--home", home)
	require.NoError(t, err)
	assert.Equal(t, "Ruby\n", out)

	out, err = runGlot(t, "puts 'hello'\nend\n", "classify", "-", "--home", home, "--hint", "Python")
	require.NoError(t, err)
	assert.Equal(t, "Python\n", out)

	listing := filepath.Join(t.TempDir(), "listing")
	require.NoError(t, os.WriteFile(listing, []byte("puts 'hello'\nend\n"), 0644))
	out, err = runGlot(t, "", "classify", listing, "--home", home, "--top", "1", "--model", "bernoulli")
	require.NoError(t, err)
	assert.Contains(t, out, "LANGUAGE")
	assert.Contains(t, out, "Ruby")
	assert.NotContains(t, out, "Python")
}

func TestStatsFeaturesAndModels(t *testing.T) {
	home := t.TempDir()
	_, err := runGlot(t, "", "train", sampleCorpus(t), "--home", home, "--name", "first")
	require.NoError(t, err)

	out, err := runGlot(t, "", "stats", "--home", home, "-o", "json")
	require.NoError(t, err)
	var summary bayes.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, []string{"Python", "Ruby"}, summary.Labels)
	assert.Equal(t, 4, summary.Documents)

	out, err = runGlot(t, "", "stats", "--home", home, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "labels:")

	out, err = runGlot(t, "", "stats", "--home", home)
	require.NoError(t, err)
	assert.Contains(t, out, "Model: first")

	_, err = runGlot(t, "", "stats", "--home", home, "-o", "xml")
	assert.Error(t, err)

	out, err = runGlot(t, "", "features", "--home", home, "--method", "chiSquare", "--label", "Ruby", "--top", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "P-VALUE")
	assert.NotContains(t, out, "Python")

	_, err = runGlot(t, "", "features", "--home", home, "--label", "Cobol")
	assert.Error(t, err)

	out, err = runGlot(t, "", "models", "list", "--home", home)
	require.NoError(t, err)
	assert.Contains(t, out, "first")

	out, err = runGlot(t, "", "models", "delete", "first", "--home", home)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted model first")

	_, err = runGlot(t, "x", "classify", "--home", home)
	assert.ErrorIs(t, err, storage.ErrModelNotFound)
}

func TestTrainWithFeatureSelection(t *testing.T) {
	home := t.TempDir()
	_, err := runGlot(t, "", "train", sampleCorpus(t), "--home", home, "--select", "chi2", "--features", "2")
	require.NoError(t, err)

	out, err := runGlot(t, "", "stats", "--home", home, "-o", "json")
	require.NoError(t, err)
	var summary bayes.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.True(t, summary.FeatureSelected)
	assert.LessOrEqual(t, summary.VocabularySize, 4)

	_, err = runGlot(t, "", "train", sampleCorpus(t), "--home", home, "--select", "tfidf")
	assert.ErrorIs(t, err, bayes.ErrInvalidArgument)
}

func TestDetect(t *testing.T) {
	home := t.TempDir()
	_, err := runGlot(t, "", "train", sampleCorpus(t), "--home", home)
	require.NoError(t, err)

	project := writeFiles(t, map[string]string{
		"tool": "import os\nprint(os.getcwd())\n",
	})
	out, err := runGlot(t, "", "detect", project, "--home", home)
	require.NoError(t, err)
	assert.Contains(t, out, "Python")
	assert.Contains(t, out, "100.00%")

	_, err = runGlot(t, "", "detect", "--home", home)
	assert.Error(t, err)
}

func TestEvaluate(t *testing.T) {
	home := t.TempDir()
	out, err := runGlot(t, "", "evaluate", sampleCorpus(t), "--home", home, "--train", "2", "--test", "1", "--lines", "0", "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "ACCURACY")
	assert.Contains(t, out, "multinomial train=2 test=1 lines=0")
}

func TestHomeAndVersion(t *testing.T) {
	home := t.TempDir()
	out, err := runGlot(t, "", "home", "--home", home)
	require.NoError(t, err)
	assert.Equal(t, home+"\n", out)

	out, err = runGlot(t, "", "version", "--short")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "v"), out)
}

func TestTokenizerSettingsFollowTheModel(t *testing.T) {
	home := t.TempDir()
	corpusDir := sampleCorpus(t)

	_, err := runGlot(t, "", "train", corpusDir, "--home", home, "--name", "plain")
	require.NoError(t, err)
	_, err = runGlot(t, "", "train", corpusDir, "--home", home, "--name", "stripped", "--skip-comments")
	require.NoError(t, err)

	// Ruby by its comment, Python by its code
	listing := "# puts end puts end\nimport os\n"
	out, err := runGlot(t, listing, "classify", "--home", home, "--model-name", "plain")
	require.NoError(t, err)
	assert.Equal(t, "Ruby\n", out)

	out, err = runGlot(t, listing, "classify", "--home", home, "--model-name", "stripped")
	require.NoError(t, err)
	assert.Equal(t, "Python\n", out)

	project := writeFiles(t, map[string]string{"notes": listing})
	out, err = runGlot(t, "", "detect", project, "--home", home, "--model-name", "stripped")
	require.NoError(t, err)
	assert.Contains(t, out, "Python")
	assert.NotContains(t, out, "Ruby")

	out, err = runGlot(t, "", "models", "list", "--home", home)
	require.NoError(t, err)
	assert.Contains(t, out, "tokens-comments")

	_, err = runGlot(t, "", "train", corpusDir, "--home", home, "--byte-limit", "0")
	assert.Error(t, err)
}

func TestClassifyTopHonoursHints(t *testing.T) {
	home := t.TempDir()
	_, err := runGlot(t, "", "train", sampleCorpus(t), "--home", home)
	require.NoError(t, err)

	out, err := runGlot(t, "puts 'hello'\nend\n", "classify", "--home", home, "--top", "2", "--hint", "Python")
	require.NoError(t, err)
	assert.Contains(t, out, "Python")
	assert.Contains(t, out, "1.0000")
	assert.NotContains(t, out, "Ruby")
}
