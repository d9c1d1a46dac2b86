package inprocess

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/Azure/glot/pkg/storage"
)

// Store is an inprocess storage engine for glot models.
type Store struct {
	mu sync.RWMutex
	// models holds storage objects in creation order.
	models []*storage.Object
}

// compile-time guarantee that Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// NewStore returns a new *inprocess.Store.
func NewStore() *Store {
	return &Store{}
}

// CreateModel stores obj.
func (s *Store) CreateModel(ctx context.Context, obj *storage.Object) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.models {
		if o.Matches(obj.ID) || o.Matches(obj.Name) {
			return errors.Errorf("model %q already exists", o.Name)
		}
	}
	s.models = append(s.models, obj)
	return nil
}

// GetModel returns the model whose ID or name is ref.
func (s *Store) GetModel(ctx context.Context, ref string) (*storage.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.models {
		if o.Matches(ref) {
			return o, nil
		}
	}
	return nil, errors.Wrapf(storage.ErrModelNotFound, "model %q", ref)
}

// ListModels returns a copy of the stored models, oldest first.
func (s *Store) ListModels(ctx context.Context) ([]*storage.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*storage.Object(nil), s.models...), nil
}

// DeleteModel deletes the model whose ID or name is ref.
func (s *Store) DeleteModel(ctx context.Context, ref string) (*storage.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.models {
		if o.Matches(ref) {
			s.models = append(s.models[:i], s.models[i+1:]...)
			return o, nil
		}
	}
	return nil, errors.Wrapf(storage.ErrModelNotFound, "model %q", ref)
}
