// Package storage persists trained language models.
package storage

import (
	"context"

	"github.com/pkg/errors"
)

// ErrModelNotFound is returned when no stored model matches an ID or name.
var ErrModelNotFound = errors.New("model not found")

// Store represents a storage engine for trained models.
type Store interface {
	// CreateModel stores obj, replacing nothing: the ID and the name must
	// both be unused.
	CreateModel(ctx context.Context, obj *Object) error
	// GetModel returns the model whose ID or name is ref.
	GetModel(ctx context.Context, ref string) (*Object, error)
	// ListModels returns every stored model, oldest first.
	ListModels(ctx context.Context) ([]*Object, error)
	// DeleteModel removes the model whose ID or name is ref and returns it.
	DeleteModel(ctx context.Context, ref string) (*Object, error)
}

// Latest returns the most recently created model in s.
func Latest(ctx context.Context, s Store) (*Object, error) {
	objs, err := s.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	if len(objs) == 0 {
		return nil, errors.Wrap(ErrModelNotFound, "no models stored")
	}
	return objs[len(objs)-1], nil
}

// Resolve returns the model named by ref, or the latest one when ref is empty.
func Resolve(ctx context.Context, s Store, ref string) (*Object, error) {
	if ref == "" {
		return Latest(ctx, s)
	}
	return s.GetModel(ctx, ref)
}
