package handlers

import (
	"errors"

	"filmbox/internal/adapters/http/middleware"
	"filmbox/internal/core/domain"
	"filmbox/internal/core/services"
	"filmbox/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct {
	wishlistService *services.WishlistService
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(wishlistService *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

// List lists the caller's wishlist
// @Summary Get wishlist
// @Tags Wishlist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /wishlist [get]
func (h *WishlistHandler) List(c *fiber.Ctx) error {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	items, err := h.wishlistService.List(c.Context(), ident.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch wishlist")
	}

	return response.Success(c, "Wishlist fetched successfully", items)
}

// Add adds a film to the caller's wishlist
// @Summary Add film to wishlist
// @Tags Wishlist
// @Produce json
// @Security BearerAuth
// @Param id path int true "Film ID"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /films/{id}/wishlist [post]
func (h *WishlistHandler) Add(c *fiber.Ctx) error {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	filmID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid film id")
	}

	if err := h.wishlistService.Add(c.Context(), ident.ID, filmID); err != nil {
		switch {
		case errors.Is(err, domain.ErrFilmNotFound):
			return response.NotFound(c, "Film not found")
		case errors.Is(err, domain.ErrAlreadyInWishlist):
			return response.Conflict(c, "Film is already in your wishlist")
		default:
			return response.InternalServerError(c, "Failed to add to wishlist")
		}
	}

	return response.Created(c, "Film added to wishlist", nil)
}

// Remove removes a film from the caller's wishlist
// @Summary Remove film from wishlist
// @Tags Wishlist
// @Produce json
// @Security BearerAuth
// @Param id path int true "Film ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /films/{id}/wishlist [delete]
func (h *WishlistHandler) Remove(c *fiber.Ctx) error {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	filmID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid film id")
	}

	if err := h.wishlistService.Remove(c.Context(), ident.ID, filmID); err != nil {
		if errors.Is(err, domain.ErrNotInWishlist) {
			return response.NotFound(c, "Film not found in your wishlist")
		}
		return response.InternalServerError(c, "Failed to remove from wishlist")
	}

	return response.Success(c, "Film removed from wishlist", nil)
}
