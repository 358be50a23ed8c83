package services

import (
	"context"
	"errors"
	"strings"

	"filmbox/internal/adapters/persistence/models"
	"filmbox/internal/adapters/persistence/repositories"
	"filmbox/internal/core/domain"
	"filmbox/internal/pkg/logger"

	"gorm.io/gorm"
)

// ReviewService handles film review business logic
type ReviewService struct {
	reviewRepo repositories.ReviewRepository
	filmRepo   repositories.FilmRepository
}

// NewReviewService creates a new review service
func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	filmRepo repositories.FilmRepository,
) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		filmRepo:   filmRepo,
	}
}

// AddReviewInput represents review creation input
type AddReviewInput struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"required"`
}

// ReviewResponse represents a review with the reviewer's username
type ReviewResponse struct {
	ID        uint   `json:"id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

// AddReview creates a review for a film, one per (user, film)
func (s *ReviewService) AddReview(ctx context.Context, userID, filmID uint, input *AddReviewInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, domain.ErrInvalidInput
	}
	if strings.TrimSpace(input.Comment) == "" {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.filmRepo.GetByID(ctx, filmID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFilmNotFound
		}
		return nil, err
	}

	exists, err := s.reviewRepo.Exists(ctx, userID, filmID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrAlreadyReviewed
	}

	review := &models.Review{
		UserID:  userID,
		FilmID:  filmID,
		Rating:  input.Rating,
		Comment: input.Comment,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrAlreadyReviewed
		}
		return nil, err
	}

	logger.Get().Info().
		Uint("user_id", userID).
		Uint("film_id", filmID).
		Int("rating", input.Rating).
		Msg("review added")

	return review, nil
}

// ListForFilm lists a film's reviews with reviewer usernames
func (s *ReviewService) ListForFilm(ctx context.Context, filmID uint) ([]*ReviewResponse, error) {
	reviews, err := s.reviewRepo.ListByFilm(ctx, filmID)
	if err != nil {
		return nil, err
	}

	out := make([]*ReviewResponse, len(reviews))
	for i, review := range reviews {
		out[i] = &ReviewResponse{
			ID:        review.ID,
			Rating:    review.Rating,
			Comment:   review.Comment,
			Username:  review.User.Username,
			CreatedAt: review.CreatedAt.Format("Jan 2, 2006 15:04"),
		}
	}

	return out, nil
}

// DeleteReview deletes a review; only the author may delete it
func (s *ReviewService) DeleteReview(ctx context.Context, userID, reviewID uint) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrReviewNotFound
		}
		return err
	}

	if review.UserID != userID {
		return domain.ErrForbidden
	}

	return s.reviewRepo.Delete(ctx, reviewID)
}
