// Package bolt stores models in a single bbolt database file.
package bolt

import (
	"context"
	"time"

	"github.com/pkg/errors"
	bbolt "go.etcd.io/bbolt"

	"github.com/Azure/glot/pkg/storage"
)

var (
	// modelsBucket maps model IDs to encoded objects. ULIDs sort by creation
	// time, so a cursor walk lists models oldest first.
	modelsBucket = []byte("models")
	// namesBucket maps model names to IDs.
	namesBucket = []byte("names")
)

// Store is a file-backed storage engine for glot models.
type Store struct {
	db *bbolt.DB
}

// compile-time guarantee that Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Open opens, creating it if needed, the database at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening model database %s", path)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{modelsBucket, namesBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return errors.Wrapf(err, "getting %q bucket", name)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateModel stores obj under its ID and name.
func (s *Store) CreateModel(ctx context.Context, obj *storage.Object) error {
	data, err := storage.Encode(obj)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		models, names := tx.Bucket(modelsBucket), tx.Bucket(namesBucket)
		if models.Get([]byte(obj.ID)) != nil {
			return errors.Errorf("model %q already exists", obj.ID)
		}
		if names.Get([]byte(obj.Name)) != nil {
			return errors.Errorf("model %q already exists", obj.Name)
		}
		if err := models.Put([]byte(obj.ID), data); err != nil {
			return errors.Wrap(err, "writing model")
		}
		return errors.Wrap(names.Put([]byte(obj.Name), []byte(obj.ID)), "writing model name")
	})
}

// GetModel returns the model whose ID or name is ref.
func (s *Store) GetModel(ctx context.Context, ref string) (obj *storage.Object, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		id := resolve(tx, ref)
		if id == nil {
			return errors.Wrapf(storage.ErrModelNotFound, "model %q", ref)
		}
		obj, err = storage.Decode(tx.Bucket(modelsBucket).Get(id))
		return err
	})
	return obj, err
}

// ListModels returns every stored model, oldest first.
func (s *Store) ListModels(ctx context.Context) (objs []*storage.Object, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(modelsBucket).ForEach(func(k, v []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			obj, err := storage.Decode(v)
			if err != nil {
				return err
			}
			objs = append(objs, obj)
			return nil
		})
	})
	return objs, err
}

// DeleteModel removes the model whose ID or name is ref.
func (s *Store) DeleteModel(ctx context.Context, ref string) (obj *storage.Object, err error) {
	err = s.db.Update(func(tx *bbolt.Tx) error {
		id := resolve(tx, ref)
		if id == nil {
			return errors.Wrapf(storage.ErrModelNotFound, "model %q", ref)
		}
		models := tx.Bucket(modelsBucket)
		if obj, err = storage.Decode(models.Get(id)); err != nil {
			return err
		}
		if err := tx.Bucket(namesBucket).Delete([]byte(obj.Name)); err != nil {
			return err
		}
		return models.Delete(id)
	})
	return obj, err
}

// resolve returns the ID stored for ref, which may be an ID or a name.
func resolve(tx *bbolt.Tx, ref string) []byte {
	if ref == "" {
		return nil
	}
	if tx.Bucket(modelsBucket).Get([]byte(ref)) != nil {
		return []byte(ref)
	}
	if id := tx.Bucket(namesBucket).Get([]byte(ref)); id != nil {
		return append([]byte(nil), id...)
	}
	return nil
}
