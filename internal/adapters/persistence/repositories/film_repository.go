package repositories

import (
	"context"

	"filmbox/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// filmRepository implements FilmRepository interface
type filmRepository struct {
	db *gorm.DB
}

// NewFilmRepository creates a new film repository
func NewFilmRepository(db *gorm.DB) FilmRepository {
	return &filmRepository{db: db}
}

// Create creates a new film
func (r *filmRepository) Create(ctx context.Context, film *models.Film) error {
	return r.db.WithContext(ctx).Create(film).Error
}

// GetByID gets a film by ID
func (r *filmRepository) GetByID(ctx context.Context, id uint) (*models.Film, error) {
	var film models.Film
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&film).Error
	if err != nil {
		return nil, err
	}
	return &film, nil
}

// Update updates a film
func (r *filmRepository) Update(ctx context.Context, film *models.Film) error {
	return r.db.WithContext(ctx).Save(film).Error
}

// Delete soft deletes a film
func (r *filmRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Film{}, id).Error
}

// List lists films with optional title search and pagination
func (r *filmRepository) List(ctx context.Context, search string, offset, limit int) ([]*models.Film, int64, error) {
	var films []*models.Film
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Film{})
	if search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&films).Error; err != nil {
		return nil, 0, err
	}

	return films, total, nil
}

// ListIDs returns the IDs of all films (used by the rating refresh job)
func (r *filmRepository) ListIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Film{}).Pluck("id", &ids).Error
	return ids, err
}

// SetRating updates the denormalized average rating of a film
func (r *filmRepository) SetRating(ctx context.Context, id uint, rating float64) error {
	return r.db.WithContext(ctx).Model(&models.Film{}).Where("id = ?", id).Update("rating", rating).Error
}
