package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func openTestStore(t *testing.T) *BlobStore {
	t.Helper()
	store, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPutAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	data := []byte("fake video bytes")
	key, err := store.Put(ctx, data, "video/mp4")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if key == "" {
		t.Fatal("expected non-empty key")
	}

	obj, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if obj.ContentType != "video/mp4" {
		t.Errorf("expected content type video/mp4, got %s", obj.ContentType)
	}
	if !bytes.Equal(obj.Data, data) {
		t.Error("retrieved data differs from stored data")
	}
}

func TestKeysAreUnique(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	k1, err := store.Put(ctx, []byte("a"), "text/plain")
	if err != nil {
		t.Fatal(err)
	}
	k2, err := store.Put(ctx, []byte("a"), "text/plain")
	if err != nil {
		t.Fatal(err)
	}
	if k1 == k2 {
		t.Error("two Puts must produce distinct keys")
	}
}

func TestGetMissingKey(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get(context.Background(), "no-such-key")
	if !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	key, err := store.Put(ctx, []byte("cover image"), "image/jpeg")
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, key); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound after delete, got %v", err)
	}

	// Deleting a missing key is not an error
	if err := store.Delete(ctx, "no-such-key"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestContextCancellation(t *testing.T) {
	store := openTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Put(ctx, []byte("x"), "text/plain"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled from Put, got %v", err)
	}
	if _, err := store.Get(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled from Get, got %v", err)
	}
}
