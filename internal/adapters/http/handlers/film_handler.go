package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"filmbox/internal/adapters/http/middleware"
	"filmbox/internal/core/domain"
	"filmbox/internal/core/services"
	"filmbox/internal/pkg/pagination"
	"filmbox/internal/pkg/response"
	"filmbox/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// FilmHandler handles catalog and purchase endpoints
type FilmHandler struct {
	filmService     *services.FilmService
	purchaseService *services.PurchaseService
	wishlistService *services.WishlistService
}

// NewFilmHandler creates a new film handler
func NewFilmHandler(
	filmService *services.FilmService,
	purchaseService *services.PurchaseService,
	wishlistService *services.WishlistService,
) *FilmHandler {
	return &FilmHandler{
		filmService:     filmService,
		purchaseService: purchaseService,
		wishlistService: wishlistService,
	}
}

// List lists films
// @Summary List films
// @Description List films with optional title search and pagination
// @Tags Films
// @Produce json
// @Param q query string false "Title search"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /films [get]
func (h *FilmHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	search := c.Query("q")

	films, total, err := h.filmService.List(c.Context(), search, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch films")
	}

	return response.Success(c, "Films fetched successfully", fiber.Map{
		"films": films,
		"meta":  pagination.GetMeta(params, total),
	})
}

// Get returns a film by ID, with ownership and wishlist flags for an
// authenticated caller
// @Summary Get film
// @Tags Films
// @Produce json
// @Param id path int true "Film ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /films/{id} [get]
func (h *FilmHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid film id")
	}

	film, err := h.filmService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrFilmNotFound) {
			return response.NotFound(c, "Film not found")
		}
		return response.InternalServerError(c, "Failed to fetch film")
	}

	isPurchased := false
	inWishlist := false
	if ident, ok := middleware.IdentityFrom(c); ok {
		isPurchased, _ = h.purchaseService.IsOwned(c.Context(), ident.ID, id)
		inWishlist, _ = h.wishlistService.Contains(c.Context(), ident.ID, id)
	}

	return response.Success(c, "Film fetched successfully", fiber.Map{
		"film":         film,
		"is_purchased": isPurchased,
		"in_wishlist":  inWishlist,
	})
}

// Purchase buys a film for the authenticated user
// @Summary Purchase film
// @Description Atomically debit the film's price and record the entitlement
// @Tags Films
// @Produce json
// @Security BearerAuth
// @Param id path int true "Film ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /films/{id}/purchase [post]
func (h *FilmHandler) Purchase(c *fiber.Ctx) error {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid film id")
	}

	purchase, err := h.purchaseService.Purchase(c.Context(), ident.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrFilmNotFound):
			return response.NotFound(c, "Film not found")
		case errors.Is(err, domain.ErrInsufficientBalance):
			return response.BadRequest(c, "Insufficient balance")
		case errors.Is(err, domain.ErrAlreadyOwned):
			return response.Conflict(c, "Film already purchased")
		default:
			return response.InternalServerError(c, "Failed to purchase film")
		}
	}

	// Browser flow: back to the film page.
	if c.Accepts("json", "html") == "html" {
		return c.Redirect("/films/"+strconv.FormatUint(uint64(id), 10), fiber.StatusSeeOther)
	}

	return response.Success(c, "Film purchased successfully", purchase)
}

// Watch streams the film's video to an entitled user
// @Summary Watch film
// @Description Stream the protected video content; requires an entitlement
// @Tags Films
// @Produce octet-stream
// @Security BearerAuth
// @Param id path int true "Film ID"
// @Success 200 {string} binary "video bytes"
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /films/{id}/watch [get]
func (h *FilmHandler) Watch(c *fiber.Ctx) error {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid film id")
	}

	owned, err := h.purchaseService.IsOwned(c.Context(), ident.ID, id)
	if err != nil {
		return response.InternalServerError(c, "Failed to check entitlement")
	}
	if !owned {
		return response.Forbidden(c, "Film not purchased")
	}

	obj, err := h.filmService.Video(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrFilmNotFound) {
			return response.NotFound(c, "Film not found")
		}
		return response.NotFound(c, "Video not found")
	}

	c.Set(fiber.HeaderContentType, obj.ContentType)
	return c.Send(obj.Data)
}

// Cover serves the film's cover image; public
// @Summary Film cover image
// @Tags Films
// @Produce octet-stream
// @Param id path int true "Film ID"
// @Success 200 {string} binary "image bytes"
// @Failure 404 {object} response.Response
// @Router /films/{id}/cover [get]
func (h *FilmHandler) Cover(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid film id")
	}

	obj, err := h.filmService.CoverImage(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrFilmNotFound) {
			return response.NotFound(c, "Film not found")
		}
		return response.NotFound(c, "Cover image not found")
	}

	c.Set(fiber.HeaderContentType, obj.ContentType)
	return c.Send(obj.Data)
}

// Create creates a film with uploaded media (admin)
// @Summary Create film
// @Description Create a film; multipart form with a required video and optional cover_image
// @Tags Films
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /films [post]
func (h *FilmHandler) Create(c *fiber.Ctx) error {
	input, err := filmInputFromForm(c)
	if err != nil {
		return response.BadRequest(c, "Invalid form data")
	}

	if err := validation.Struct(input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	video, err := uploadFromForm(c, "video")
	if err != nil || video == nil {
		return response.BadRequest(c, "Video file is required")
	}

	cover, err := uploadFromForm(c, "cover_image")
	if err != nil {
		return response.BadRequest(c, "Invalid cover image file")
	}

	film, err := h.filmService.Create(c.Context(), input, video, cover)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, "Video file is required")
		}
		return response.InternalServerError(c, "Failed to create film")
	}

	return response.Created(c, "Film created successfully", film)
}

// Update updates a film (admin); media files are replaced when present
// @Summary Update film
// @Tags Films
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Film ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /films/{id} [put]
func (h *FilmHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid film id")
	}

	input := updateInputFromForm(c)

	video, err := uploadFromForm(c, "video")
	if err != nil {
		return response.BadRequest(c, "Invalid video file")
	}

	cover, err := uploadFromForm(c, "cover_image")
	if err != nil {
		return response.BadRequest(c, "Invalid cover image file")
	}

	film, err := h.filmService.Update(c.Context(), id, input, video, cover)
	if err != nil {
		if errors.Is(err, domain.ErrFilmNotFound) {
			return response.NotFound(c, "Film not found")
		}
		return response.InternalServerError(c, "Failed to update film")
	}

	return response.Success(c, "Film updated successfully", film)
}

// Delete deletes a film and its stored media (admin)
// @Summary Delete film
// @Tags Films
// @Produce json
// @Security BearerAuth
// @Param id path int true "Film ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /films/{id} [delete]
func (h *FilmHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid film id")
	}

	if err := h.filmService.Delete(c.Context(), id); err != nil {
		if errors.Is(err, domain.ErrFilmNotFound) {
			return response.NotFound(c, "Film not found")
		}
		return response.InternalServerError(c, "Failed to delete film")
	}

	return response.Success(c, "Film deleted successfully", nil)
}

// Library lists the films the caller has purchased
// @Summary My purchases
// @Description List the caller's purchased films
// @Tags Films
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /purchases [get]
func (h *FilmHandler) Library(c *fiber.Ctx) error {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	purchases, err := h.purchaseService.ListOwned(c.Context(), ident.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch purchases")
	}

	type ownedFilm struct {
		FilmID      uint   `json:"film_id"`
		Title       string `json:"title"`
		Price       uint   `json:"price"`
		PurchasedAt string `json:"purchased_at"`
	}

	owned := make([]ownedFilm, len(purchases))
	for i, p := range purchases {
		owned[i] = ownedFilm{
			FilmID:      p.FilmID,
			Title:       p.Film.Title,
			Price:       p.Price,
			PurchasedAt: p.CreatedAt.Format("Jan 2, 2006 15:04"),
		}
	}

	return response.Success(c, "Purchases fetched successfully", fiber.Map{
		"purchases": owned,
	})
}

// parseID parses a positive integer route parameter
func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// filmInputFromForm parses film creation fields from a multipart form.
// Genres arrive as a comma-separated value.
func filmInputFromForm(c *fiber.Ctx) (*services.CreateFilmInput, error) {
	releaseYear, err := strconv.Atoi(c.FormValue("release_year", "0"))
	if err != nil {
		return nil, err
	}
	price, err := strconv.ParseUint(c.FormValue("price", "0"), 10, 32)
	if err != nil {
		return nil, err
	}
	duration, err := strconv.Atoi(c.FormValue("duration", "0"))
	if err != nil {
		return nil, err
	}

	return &services.CreateFilmInput{
		Title:       strings.TrimSpace(c.FormValue("title")),
		Description: strings.TrimSpace(c.FormValue("description")),
		Director:    strings.TrimSpace(c.FormValue("director")),
		ReleaseYear: releaseYear,
		Genres:      splitGenres(c.FormValue("genre")),
		Price:       uint(price),
		Duration:    duration,
	}, nil
}

// updateInputFromForm parses the fields present in an update form;
// absent fields stay nil and are left unchanged
func updateInputFromForm(c *fiber.Ctx) *services.UpdateFilmInput {
	input := &services.UpdateFilmInput{}

	if v := c.FormValue("title"); v != "" {
		input.Title = &v
	}
	if v := c.FormValue("description"); v != "" {
		input.Description = &v
	}
	if v := c.FormValue("director"); v != "" {
		input.Director = &v
	}
	if v := c.FormValue("release_year"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			input.ReleaseYear = &year
		}
	}
	if v := c.FormValue("genre"); v != "" {
		input.Genres = splitGenres(v)
	}
	if v := c.FormValue("price"); v != "" {
		if price, err := strconv.ParseUint(v, 10, 32); err == nil {
			p := uint(price)
			input.Price = &p
		}
	}
	if v := c.FormValue("duration"); v != "" {
		if duration, err := strconv.Atoi(v); err == nil {
			input.Duration = &duration
		}
	}

	return input
}

// uploadFromForm reads an optional multipart file into memory.
// Returns (nil, nil) when the field is absent.
func uploadFromForm(c *fiber.Ctx, field string) (*services.Upload, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	return readUpload(fileHeader)
}

func readUpload(fh *multipart.FileHeader) (*services.Upload, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &services.Upload{Data: data, ContentType: contentType}, nil
}

func splitGenres(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if g := strings.TrimSpace(p); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}
