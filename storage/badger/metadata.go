package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/syllabus/storage"
)

// MetadataRepository implements storage.MetadataRepository for BadgerDB.
type MetadataRepository struct {
	backend *Backend
}

var _ storage.MetadataRepository = (*MetadataRepository)(nil)

// NewMetadataRepository creates a new MetadataRepository.
func NewMetadataRepository(backend *Backend) *MetadataRepository {
	return &MetadataRepository{
		backend: backend,
	}
}

// Put persists value under name.
func (r *MetadataRepository) Put(ctx context.Context, name, value string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeMetadataKey(name), []byte(value)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Get retrieves the value stored under name.
func (r *MetadataRepository) Get(ctx context.Context, name string) (string, error) {
	var value string
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeMetadataKey(name))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	}, false)
	return value, err
}
