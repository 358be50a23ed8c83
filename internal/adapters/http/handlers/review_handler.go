package handlers

import (
	"errors"

	"filmbox/internal/adapters/http/middleware"
	"filmbox/internal/core/domain"
	"filmbox/internal/core/services"
	"filmbox/internal/pkg/response"
	"filmbox/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles film review endpoints
type ReviewHandler struct {
	reviewService *services.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// AddReviewRequest represents review creation body
type AddReviewRequest struct {
	Rating  int    `json:"rating" form:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" form:"comment" validate:"required"`
}

// ListForFilm lists a film's reviews
// @Summary List film reviews
// @Tags Reviews
// @Produce json
// @Param id path int true "Film ID"
// @Success 200 {object} response.Response
// @Router /films/{id}/reviews [get]
func (h *ReviewHandler) ListForFilm(c *fiber.Ctx) error {
	filmID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid film id")
	}

	reviews, err := h.reviewService.ListForFilm(c.Context(), filmID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch reviews")
	}

	return response.Success(c, "Reviews fetched successfully", reviews)
}

// Add creates a review for a film
// @Summary Add film review
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Film ID"
// @Param body body AddReviewRequest true "Review"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /films/{id}/reviews [post]
func (h *ReviewHandler) Add(c *fiber.Ctx) error {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	filmID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid film id")
	}

	var req AddReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	review, err := h.reviewService.AddReview(c.Context(), ident.ID, filmID, &services.AddReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrFilmNotFound):
			return response.NotFound(c, "Film not found")
		case errors.Is(err, domain.ErrAlreadyReviewed):
			return response.Conflict(c, "You have already reviewed this film")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Rating must be between 1 and 5 and comment must not be empty")
		default:
			return response.InternalServerError(c, "Failed to add review")
		}
	}

	return response.Created(c, "Review added successfully", review)
}

// Delete deletes the caller's own review
// @Summary Delete review
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	reviewID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid review id")
	}

	if err := h.reviewService.DeleteReview(c.Context(), ident.ID, reviewID); err != nil {
		switch {
		case errors.Is(err, domain.ErrReviewNotFound):
			return response.NotFound(c, "Review not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You can only delete your own reviews")
		default:
			return response.InternalServerError(c, "Failed to delete review")
		}
	}

	return response.Success(c, "Review deleted successfully", nil)
}
