package services

import (
	"context"
	"errors"
	"testing"

	"filmbox/internal/adapters/persistence/models"
	"filmbox/internal/core/domain"
)

// stubWishlistRepo is an in-memory WishlistRepository
type stubWishlistRepo struct {
	items []*models.WishlistItem
}

func (r *stubWishlistRepo) Add(ctx context.Context, item *models.WishlistItem) error {
	r.items = append(r.items, item)
	return nil
}

func (r *stubWishlistRepo) Remove(ctx context.Context, userID, filmID uint) error {
	for i, item := range r.items {
		if item.UserID == userID && item.FilmID == filmID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *stubWishlistRepo) Exists(ctx context.Context, userID, filmID uint) (bool, error) {
	for _, item := range r.items {
		if item.UserID == userID && item.FilmID == filmID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubWishlistRepo) ListByUser(ctx context.Context, userID uint) ([]*models.WishlistItem, error) {
	var out []*models.WishlistItem
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func TestWishlistAddRemove(t *testing.T) {
	films := newStubFilmRepo(&models.Film{ID: 1, Title: "Nightshift Orbit", Price: 150})
	svc := NewWishlistService(&stubWishlistRepo{}, films)
	ctx := context.Background()

	if err := svc.Add(ctx, 1, 1); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := svc.Add(ctx, 1, 1); !errors.Is(err, domain.ErrAlreadyInWishlist) {
		t.Errorf("expected ErrAlreadyInWishlist, got %v", err)
	}
	if err := svc.Add(ctx, 1, 99); !errors.Is(err, domain.ErrFilmNotFound) {
		t.Errorf("expected ErrFilmNotFound, got %v", err)
	}

	contains, err := svc.Contains(ctx, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !contains {
		t.Error("expected film in wishlist")
	}

	if err := svc.Remove(ctx, 1, 1); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := svc.Remove(ctx, 1, 1); !errors.Is(err, domain.ErrNotInWishlist) {
		t.Errorf("expected ErrNotInWishlist, got %v", err)
	}
}
