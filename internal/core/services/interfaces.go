package services

import (
	"context"

	"filmbox/internal/adapters/storage"
)

// ContentStore is the object-store surface the film service depends on.
// Satisfied by storage.BlobStore; stubbed in tests.
type ContentStore interface {
	Put(ctx context.Context, data []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) (*storage.Object, error)
	Delete(ctx context.Context, key string) error
}
