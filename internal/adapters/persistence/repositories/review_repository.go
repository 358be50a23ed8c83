package repositories

import (
	"context"

	"filmbox/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// reviewRepository implements ReviewRepository interface
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create creates a new review
func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// GetByID gets a review by ID
func (r *reviewRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Delete deletes a review
func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Review{}, id).Error
}

// Exists checks if the user already reviewed the film
func (r *reviewRepository) Exists(ctx context.Context, userID, filmID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("user_id = ? AND film_id = ?", userID, filmID).
		Count(&count).Error
	return count > 0, err
}

// ListByFilm lists reviews for a film with reviewer preloaded
func (r *reviewRepository) ListByFilm(ctx context.Context, filmID uint) ([]*models.Review, error) {
	var reviews []*models.Review
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("film_id = ?", filmID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// AverageRatingByFilm returns the average review rating for a film,
// 0 when the film has no reviews
func (r *reviewRepository) AverageRatingByFilm(ctx context.Context, filmID uint) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0)").
		Where("film_id = ?", filmID).
		Scan(&avg).Error
	return avg, err
}
