package repositories

import (
	"context"

	"filmbox/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// wishlistRepository implements WishlistRepository interface
type wishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository creates a new wishlist repository
func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

// Add adds a film to a user's wishlist
func (r *wishlistRepository) Add(ctx context.Context, item *models.WishlistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Remove removes a film from a user's wishlist
func (r *wishlistRepository) Remove(ctx context.Context, userID, filmID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND film_id = ?", userID, filmID).
		Delete(&models.WishlistItem{}).Error
}

// Exists checks if the film is in the user's wishlist
func (r *wishlistRepository) Exists(ctx context.Context, userID, filmID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WishlistItem{}).
		Where("user_id = ? AND film_id = ?", userID, filmID).
		Count(&count).Error
	return count > 0, err
}

// ListByUser lists a user's wishlist with films preloaded
func (r *wishlistRepository) ListByUser(ctx context.Context, userID uint) ([]*models.WishlistItem, error) {
	var items []*models.WishlistItem
	err := r.db.WithContext(ctx).
		Preload("Film").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}
