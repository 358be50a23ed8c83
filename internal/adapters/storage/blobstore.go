// Package storage provides the content store for uploaded media. Films
// reference objects by opaque key; everything else about the payload is
// invisible to the rest of the system.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
)

// ErrObjectNotFound is returned when no object exists for a key
var ErrObjectNotFound = errors.New("object not found")

// Object is a stored blob with its content type
type Object struct {
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// BlobStore is a BadgerDB-backed object store
type BlobStore struct {
	db *badger.DB
}

// Open opens (or creates) a blob store at the given path
func Open(path string) (*BlobStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob store: %w", err)
	}

	return &BlobStore{db: db}, nil
}

// OpenInMemory opens an in-memory blob store. Intended for tests.
func OpenInMemory() (*BlobStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob store: %w", err)
	}

	return &BlobStore{db: db}, nil
}

// Close closes the underlying database
func (s *BlobStore) Close() error {
	return s.db.Close()
}

// Put stores data under a freshly generated key and returns the key
func (s *BlobStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := uuid.New().String()
	obj := Object{ContentType: contentType, Data: data}

	encoded, err := json.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("failed to encode object: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), encoded)
	})
	if err != nil {
		return "", fmt.Errorf("failed to store object: %w", err)
	}

	return key, nil
}

// Get retrieves the object stored under key
func (s *BlobStore) Get(ctx context.Context, key string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var encoded []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			encoded = append([]byte{}, val...)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}

	var obj Object
	if err := json.Unmarshal(encoded, &obj); err != nil {
		return nil, fmt.Errorf("failed to decode object: %w", err)
	}

	return &obj, nil
}

// Delete removes the object stored under key. Deleting a missing key is
// not an error.
func (s *BlobStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}
