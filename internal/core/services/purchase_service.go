package services

import (
	"context"
	"errors"

	"filmbox/internal/adapters/persistence/models"
	"filmbox/internal/adapters/persistence/repositories"
	"filmbox/internal/core/domain"
	"filmbox/internal/pkg/logger"
	"filmbox/internal/pkg/metrics"

	"gorm.io/gorm"
)

// PurchaseService handles the entitlement transaction: the only
// operation that mutates a user's balance outside admin top-ups.
type PurchaseService struct {
	purchaseRepo repositories.PurchaseRepository
	filmRepo     repositories.FilmRepository
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(
	purchaseRepo repositories.PurchaseRepository,
	filmRepo repositories.FilmRepository,
) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		filmRepo:     filmRepo,
	}
}

// PurchaseResponse represents a committed purchase
type PurchaseResponse struct {
	ID        uint   `json:"id"`
	FilmID    uint   `json:"film_id"`
	Price     uint   `json:"price"`
	CreatedAt string `json:"created_at"`
}

// Purchase buys a film for the user. Balance check, duplicate check,
// debit, and entitlement creation run as one atomic unit in the
// repository; any failure leaves both balance and entitlements untouched.
func (s *PurchaseService) Purchase(ctx context.Context, userID, filmID uint) (*PurchaseResponse, error) {
	film, err := s.filmRepo.GetByID(ctx, filmID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFilmNotFound
		}
		return nil, err
	}

	purchase, err := s.purchaseRepo.CreateWithDebit(ctx, userID, filmID, film.Price)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientBalance):
			metrics.PurchasesTotal.WithLabelValues("insufficient_balance").Inc()
		case errors.Is(err, domain.ErrAlreadyOwned):
			metrics.PurchasesTotal.WithLabelValues("already_owned").Inc()
		default:
			metrics.PurchasesTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	metrics.PurchasesTotal.WithLabelValues("committed").Inc()
	metrics.PurchaseRevenue.Add(float64(film.Price))

	logger.Get().Info().
		Uint("user_id", userID).
		Uint("film_id", filmID).
		Uint("price", film.Price).
		Msg("purchase committed")

	return &PurchaseResponse{
		ID:        purchase.ID,
		FilmID:    purchase.FilmID,
		Price:     purchase.Price,
		CreatedAt: purchase.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}

// IsOwned reports whether the user holds an entitlement for the film
func (s *PurchaseService) IsOwned(ctx context.Context, userID, filmID uint) (bool, error) {
	return s.purchaseRepo.Exists(ctx, userID, filmID)
}

// ListOwned lists the user's purchases
func (s *PurchaseService) ListOwned(ctx context.Context, userID uint) ([]*models.Purchase, error) {
	return s.purchaseRepo.ListByUser(ctx, userID)
}
