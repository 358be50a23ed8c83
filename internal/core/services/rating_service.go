package services

import (
	"context"
	"time"

	"filmbox/internal/adapters/persistence/repositories"
	"filmbox/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

// RatingService keeps each film's denormalized average rating in sync
// with its reviews. Runs nightly; can also be invoked on demand.
type RatingService struct {
	filmRepo   repositories.FilmRepository
	reviewRepo repositories.ReviewRepository
	scheduler  *cron.Cron
}

// NewRatingService creates a new rating service
func NewRatingService(
	filmRepo repositories.FilmRepository,
	reviewRepo repositories.ReviewRepository,
) *RatingService {
	return &RatingService{
		filmRepo:   filmRepo,
		reviewRepo: reviewRepo,
		scheduler:  cron.New(),
	}
}

// Start schedules the nightly refresh (03:00 daily)
func (s *RatingService) Start() {
	s.scheduler.AddFunc("0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if err := s.RefreshAll(ctx); err != nil {
			logger.Get().Error().Err(err).Msg("rating refresh failed")
		}
	})
	s.scheduler.Start()

	logger.Get().Info().Msg("rating refresh scheduled")
}

// Stop stops the scheduler, waiting for a running job to finish
func (s *RatingService) Stop() {
	<-s.scheduler.Stop().Done()
}

// RefreshAll recomputes the average rating of every film
func (s *RatingService) RefreshAll(ctx context.Context) error {
	ids, err := s.filmRepo.ListIDs(ctx)
	if err != nil {
		return err
	}

	for _, id := range ids {
		avg, err := s.reviewRepo.AverageRatingByFilm(ctx, id)
		if err != nil {
			return err
		}
		if err := s.filmRepo.SetRating(ctx, id, avg); err != nil {
			return err
		}
	}

	logger.Get().Info().Int("films", len(ids)).Msg("film ratings refreshed")
	return nil
}
