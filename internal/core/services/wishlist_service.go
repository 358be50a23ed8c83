package services

import (
	"context"
	"errors"

	"filmbox/internal/adapters/persistence/models"
	"filmbox/internal/adapters/persistence/repositories"
	"filmbox/internal/core/domain"

	"gorm.io/gorm"
)

// WishlistService handles wishlist business logic
type WishlistService struct {
	wishlistRepo repositories.WishlistRepository
	filmRepo     repositories.FilmRepository
}

// NewWishlistService creates a new wishlist service
func NewWishlistService(
	wishlistRepo repositories.WishlistRepository,
	filmRepo repositories.FilmRepository,
) *WishlistService {
	return &WishlistService{
		wishlistRepo: wishlistRepo,
		filmRepo:     filmRepo,
	}
}

// WishlistItemResponse represents a wishlist entry with film info
type WishlistItemResponse struct {
	FilmID  uint   `json:"film_id"`
	Title   string `json:"title"`
	Price   uint   `json:"price"`
	AddedAt string `json:"added_at"`
}

// Add adds a film to the user's wishlist; duplicate adds are rejected
func (s *WishlistService) Add(ctx context.Context, userID, filmID uint) error {
	if _, err := s.filmRepo.GetByID(ctx, filmID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrFilmNotFound
		}
		return err
	}

	exists, err := s.wishlistRepo.Exists(ctx, userID, filmID)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrAlreadyInWishlist
	}

	item := &models.WishlistItem{
		UserID: userID,
		FilmID: filmID,
	}

	if err := s.wishlistRepo.Add(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadyInWishlist
		}
		return err
	}

	return nil
}

// Remove removes a film from the user's wishlist
func (s *WishlistService) Remove(ctx context.Context, userID, filmID uint) error {
	exists, err := s.wishlistRepo.Exists(ctx, userID, filmID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotInWishlist
	}

	return s.wishlistRepo.Remove(ctx, userID, filmID)
}

// List lists the user's wishlist
func (s *WishlistService) List(ctx context.Context, userID uint) ([]*WishlistItemResponse, error) {
	items, err := s.wishlistRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*WishlistItemResponse, len(items))
	for i, item := range items {
		out[i] = &WishlistItemResponse{
			FilmID:  item.FilmID,
			Title:   item.Film.Title,
			Price:   item.Film.Price,
			AddedAt: item.CreatedAt.Format("Jan 2, 2006 15:04"),
		}
	}

	return out, nil
}

// Contains reports whether the film is in the user's wishlist
func (s *WishlistService) Contains(ctx context.Context, userID, filmID uint) (bool, error) {
	return s.wishlistRepo.Exists(ctx, userID, filmID)
}
