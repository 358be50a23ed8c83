package repositories

import (
	"context"
	"errors"

	"filmbox/internal/adapters/persistence/models"
	"filmbox/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// purchaseRepository implements PurchaseRepository interface
type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository creates a new purchase repository
func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

// CreateWithDebit debits price from the user's balance and records the
// entitlement as a single transaction. The user row is locked with
// SELECT ... FOR UPDATE, which serializes concurrent purchase attempts
// by the same account: the balance check, the duplicate check, and both
// writes all happen under the lock, so either everything commits or the
// transaction rolls back with no partial state.
func (r *purchaseRepository) CreateWithDebit(ctx context.Context, userID, filmID, price uint) (*models.Purchase, error) {
	purchase := &models.Purchase{
		UserID: userID,
		FilmID: filmID,
		Price:  price,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.Purchase{}).
			Where("user_id = ? AND film_id = ?", userID, filmID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrAlreadyOwned
		}

		if user.Balance < price {
			return domain.ErrInsufficientBalance
		}

		if err := tx.Model(&user).Update("balance", user.Balance-price).Error; err != nil {
			return err
		}

		if err := tx.Create(purchase).Error; err != nil {
			// The composite unique index is the backstop for duplicate
			// requests that raced past the count above.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrAlreadyOwned
			}
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return purchase, nil
}

// Exists checks whether the user already owns the film
func (r *purchaseRepository) Exists(ctx context.Context, userID, filmID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Purchase{}).
		Where("user_id = ? AND film_id = ?", userID, filmID).
		Count(&count).Error
	return count > 0, err
}

// ListByUser lists the user's purchases, newest first
func (r *purchaseRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Purchase, error) {
	var purchases []*models.Purchase
	err := r.db.WithContext(ctx).
		Preload("Film").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&purchases).Error
	return purchases, err
}

// Count counts all purchases
func (r *purchaseRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Purchase{}).Count(&count).Error
	return count, err
}

// TotalRevenue sums the price of all purchases
func (r *purchaseRepository) TotalRevenue(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Purchase{}).
		Select("COALESCE(SUM(price), 0)").
		Scan(&total).Error
	return total, err
}

// ListRecent lists the most recent purchases with user and film preloaded
func (r *purchaseRepository) ListRecent(ctx context.Context, limit int) ([]*models.Purchase, error) {
	var purchases []*models.Purchase
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Film").
		Order("created_at DESC").
		Limit(limit).
		Find(&purchases).Error
	return purchases, err
}
