package bolt

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Azure/glot/pkg/bayes"
	"github.com/Azure/glot/pkg/storage"
)

func trainedStore() *bayes.Store {
	s := bayes.NewStore()
	s.RecordDocument("Go", strings.Fields("func main ( ) { }"))
	s.RecordDocument("Python", strings.Fields("def main ( ) :"))
	return s
}

func openStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "models.db")
	s, err := Open(path)
	require.NoError(t, err)
	return s, path
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, path := openStore(t)

	first := storage.NewObject("first", trainedStore())
	second := storage.NewObject("", trainedStore())
	require.NoError(t, s.CreateModel(ctx, first))
	require.NoError(t, s.CreateModel(ctx, second))
	assert.Error(t, s.CreateModel(ctx, first))

	// reopen to make sure everything went to disk
	require.NoError(t, s.Close())
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	objs, err := s.ListModels(ctx)
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, first.ID, objs[0].ID)
	assert.Equal(t, second.ID, objs[1].ID)
	assert.NotEmpty(t, objs[1].Name)

	obj, err := s.GetModel(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, first.ID, obj.ID)
	assert.Equal(t, first.Summary.Labels, obj.Summary.Labels)

	restored, err := obj.Store()
	require.NoError(t, err)
	want, err := bayes.NewClassifier(trainedStore()).Rank([]string{"def", "("}, bayes.Multinomial)
	require.NoError(t, err)
	got, err := bayes.NewClassifier(restored).Rank([]string{"def", "("}, bayes.Multinomial)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	latest, err := storage.Latest(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
}

func TestStoreDeleteModel(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t)
	defer s.Close()

	obj := storage.NewObject("doomed", trainedStore())
	require.NoError(t, s.CreateModel(ctx, obj))

	deleted, err := s.DeleteModel(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, "doomed", deleted.Name)

	_, err = s.GetModel(ctx, "doomed")
	assert.ErrorIs(t, err, storage.ErrModelNotFound)
	_, err = s.DeleteModel(ctx, "doomed")
	assert.ErrorIs(t, err, storage.ErrModelNotFound)

	// the name is free again
	assert.NoError(t, s.CreateModel(ctx, storage.NewObject("doomed", trainedStore())))
}
