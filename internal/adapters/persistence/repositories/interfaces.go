package repositories

import (
	"context"

	"filmbox/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, search string, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	AdjustBalance(ctx context.Context, id uint, delta int64) (*models.User, error)
}

// FilmRepository defines film repository interface
type FilmRepository interface {
	Create(ctx context.Context, film *models.Film) error
	GetByID(ctx context.Context, id uint) (*models.Film, error)
	Update(ctx context.Context, film *models.Film) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, search string, offset, limit int) ([]*models.Film, int64, error)
	ListIDs(ctx context.Context) ([]uint, error)
	SetRating(ctx context.Context, id uint, rating float64) error
}

// PurchaseRepository defines purchase (entitlement) repository interface.
// CreateWithDebit is the only write path and must be atomic: it debits
// the user's balance and records the entitlement in one transaction.
type PurchaseRepository interface {
	CreateWithDebit(ctx context.Context, userID, filmID, price uint) (*models.Purchase, error)
	Exists(ctx context.Context, userID, filmID uint) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Purchase, error)
	Count(ctx context.Context) (int64, error)
	TotalRevenue(ctx context.Context) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Purchase, error)
}

// ReviewRepository defines review repository interface
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, userID, filmID uint) (bool, error)
	ListByFilm(ctx context.Context, filmID uint) ([]*models.Review, error)
	AverageRatingByFilm(ctx context.Context, filmID uint) (float64, error)
}

// WishlistRepository defines wishlist repository interface
type WishlistRepository interface {
	Add(ctx context.Context, item *models.WishlistItem) error
	Remove(ctx context.Context, userID, filmID uint) error
	Exists(ctx context.Context, userID, filmID uint) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.WishlistItem, error)
}
