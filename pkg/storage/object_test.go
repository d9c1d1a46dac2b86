package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/Azure/glot/pkg/bayes"
	"github.com/Azure/glot/pkg/linguist/tokenizer"
)

func sampleStore() *bayes.Store {
	s := bayes.NewStore()
	s.RecordDocument("Ruby", strings.Fields("def foo end"))
	s.RecordDocument("Python", strings.Fields("def foo ( ) :"))
	return s
}

func TestNewObject(t *testing.T) {
	a := NewObject("", sampleStore())
	b := NewObject("named", sampleStore())

	assert.NotEmpty(t, a.Name)
	assert.Equal(t, "named", b.Name)
	assert.Len(t, a.ID, 26)
	assert.True(t, a.ID < b.ID, "IDs must increase: %s %s", a.ID, b.ID)
	assert.Equal(t, FormatVersion, a.Format)
	assert.Equal(t, []string{"Python", "Ruby"}, a.Summary.Labels)

	assert.True(t, b.Matches("named"))
	assert.True(t, b.Matches(b.ID))
	assert.False(t, b.Matches(""))

	assert.Equal(t, *tokenizer.New(), a.Tokenizer)
	tok := a.NewTokenizer()
	tok.SkipLiterals = true
	assert.False(t, a.Tokenizer.SkipLiterals, "NewTokenizer returns a copy")
}

func TestEncodeDecode(t *testing.T) {
	obj := NewObject("model", sampleStore())
	obj.Method = "chiSquare"
	obj.FeatureCount = 10
	obj.Tokenizer.SkipComments = true

	b, err := Encode(obj)
	require.NoError(t, err)
	decoded, err := Decode(b)
	require.NoError(t, err)

	assert.Equal(t, obj.ID, decoded.ID)
	assert.Equal(t, obj.Name, decoded.Name)
	assert.True(t, obj.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, "chiSquare", decoded.Method)
	assert.Equal(t, 10, decoded.FeatureCount)
	assert.Equal(t, obj.Tokenizer, decoded.Tokenizer)
	assert.True(t, decoded.NewTokenizer().SkipComments)
	assert.Equal(t, obj.Snapshot.Vocabulary, decoded.Snapshot.Vocabulary)

	store, err := decoded.Store()
	require.NoError(t, err)
	assert.Equal(t, 2, store.Occurrence("Ruby", "def")+store.Occurrence("Python", "def"))
}

func TestDecodeRejectsUnsupportedFormat(t *testing.T) {
	for _, format := range []string{"2.0.0", "0.9.0", "not-a-version"} {
		obj := NewObject("old", sampleStore())
		obj.Format = format
		b, err := msgpack.Marshal(obj)
		require.NoError(t, err)

		_, err = Decode(b)
		assert.Error(t, err, format)
	}

	_, err := Decode([]byte("garbage"))
	assert.Error(t, err)
}
