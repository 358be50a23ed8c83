package services

import (
	"context"
	"errors"

	"filmbox/internal/adapters/persistence/models"
	"filmbox/internal/adapters/persistence/repositories"
	"filmbox/internal/adapters/storage"
	"filmbox/internal/core/domain"
	"filmbox/internal/pkg/logger"

	"gorm.io/gorm"
)

// FilmService handles catalog business logic
type FilmService struct {
	filmRepo repositories.FilmRepository
	store    ContentStore
}

// NewFilmService creates a new film service
func NewFilmService(filmRepo repositories.FilmRepository, store ContentStore) *FilmService {
	return &FilmService{
		filmRepo: filmRepo,
		store:    store,
	}
}

// Upload is an in-memory file received from a multipart form
type Upload struct {
	Data        []byte
	ContentType string
}

// CreateFilmInput represents film creation input
type CreateFilmInput struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Director    string   `json:"director" validate:"required"`
	ReleaseYear int      `json:"release_year" validate:"required,gte=1888"`
	Genres      []string `json:"genre"`
	Price       uint     `json:"price" validate:"gte=0"`
	Duration    int      `json:"duration" validate:"required,gte=1"`
}

// UpdateFilmInput represents film update input; nil fields are unchanged
type UpdateFilmInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Director    *string  `json:"director"`
	ReleaseYear *int     `json:"release_year"`
	Genres      []string `json:"genre"`
	Price       *uint    `json:"price"`
	Duration    *int     `json:"duration"`
}

// Create stores the media in the blob store and creates the film row.
// A video upload is required; a cover image is optional.
func (s *FilmService) Create(ctx context.Context, input *CreateFilmInput, video, cover *Upload) (*models.Film, error) {
	if video == nil {
		return nil, domain.ErrInvalidInput
	}

	videoKey, err := s.store.Put(ctx, video.Data, video.ContentType)
	if err != nil {
		return nil, err
	}

	var coverKey string
	if cover != nil {
		coverKey, err = s.store.Put(ctx, cover.Data, cover.ContentType)
		if err != nil {
			// Don't leave the video orphaned in the store.
			_ = s.store.Delete(ctx, videoKey)
			return nil, err
		}
	}

	film := &models.Film{
		Title:         input.Title,
		Description:   input.Description,
		Director:      input.Director,
		ReleaseYear:   input.ReleaseYear,
		Genres:        input.Genres,
		Price:         input.Price,
		Duration:      input.Duration,
		VideoKey:      videoKey,
		CoverImageKey: coverKey,
	}

	if err := s.filmRepo.Create(ctx, film); err != nil {
		_ = s.store.Delete(ctx, videoKey)
		if coverKey != "" {
			_ = s.store.Delete(ctx, coverKey)
		}
		return nil, err
	}

	logger.Get().Info().
		Uint("film_id", film.ID).
		Str("title", film.Title).
		Msg("film created")

	return film, nil
}

// Update patches film fields and replaces media when new uploads arrive,
// deleting the replaced objects from the store.
func (s *FilmService) Update(ctx context.Context, id uint, input *UpdateFilmInput, video, cover *Upload) (*models.Film, error) {
	film, err := s.filmRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFilmNotFound
		}
		return nil, err
	}

	if input.Title != nil {
		film.Title = *input.Title
	}
	if input.Description != nil {
		film.Description = *input.Description
	}
	if input.Director != nil {
		film.Director = *input.Director
	}
	if input.ReleaseYear != nil {
		film.ReleaseYear = *input.ReleaseYear
	}
	if input.Genres != nil {
		film.Genres = input.Genres
	}
	if input.Price != nil {
		film.Price = *input.Price
	}
	if input.Duration != nil {
		film.Duration = *input.Duration
	}

	if video != nil {
		oldKey := film.VideoKey
		newKey, err := s.store.Put(ctx, video.Data, video.ContentType)
		if err != nil {
			return nil, err
		}
		film.VideoKey = newKey
		if oldKey != "" {
			_ = s.store.Delete(ctx, oldKey)
		}
	}

	if cover != nil {
		oldKey := film.CoverImageKey
		newKey, err := s.store.Put(ctx, cover.Data, cover.ContentType)
		if err != nil {
			return nil, err
		}
		film.CoverImageKey = newKey
		if oldKey != "" {
			_ = s.store.Delete(ctx, oldKey)
		}
	}

	if err := s.filmRepo.Update(ctx, film); err != nil {
		return nil, err
	}

	return film, nil
}

// Delete removes the film row and its stored media
func (s *FilmService) Delete(ctx context.Context, id uint) error {
	film, err := s.filmRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrFilmNotFound
		}
		return err
	}

	if err := s.filmRepo.Delete(ctx, id); err != nil {
		return err
	}

	if film.VideoKey != "" {
		_ = s.store.Delete(ctx, film.VideoKey)
	}
	if film.CoverImageKey != "" {
		_ = s.store.Delete(ctx, film.CoverImageKey)
	}

	logger.Get().Info().Uint("film_id", id).Msg("film deleted")
	return nil
}

// GetByID gets a film by ID
func (s *FilmService) GetByID(ctx context.Context, id uint) (*models.Film, error) {
	film, err := s.filmRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFilmNotFound
		}
		return nil, err
	}
	return film, nil
}

// List lists films with optional title search and pagination
func (s *FilmService) List(ctx context.Context, search string, offset, limit int) ([]*models.Film, int64, error) {
	return s.filmRepo.List(ctx, search, offset, limit)
}

// Video returns the film's stored video object
func (s *FilmService) Video(ctx context.Context, id uint) (*storage.Object, error) {
	film, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if film.VideoKey == "" {
		return nil, storage.ErrObjectNotFound
	}
	return s.store.Get(ctx, film.VideoKey)
}

// CoverImage returns the film's stored cover image object
func (s *FilmService) CoverImage(ctx context.Context, id uint) (*storage.Object, error) {
	film, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if film.CoverImageKey == "" {
		return nil, storage.ErrObjectNotFound
	}
	return s.store.Get(ctx, film.CoverImageKey)
}
