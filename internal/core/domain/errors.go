package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
)

// Identity errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Catalog and entitlement errors
var (
	ErrFilmNotFound        = errors.New("film not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAlreadyOwned        = errors.New("film already purchased")
	ErrNotPurchased        = errors.New("film not purchased")
)

// Review and wishlist errors
var (
	ErrAlreadyReviewed   = errors.New("film already reviewed by user")
	ErrReviewNotFound    = errors.New("review not found")
	ErrAlreadyInWishlist = errors.New("film already in wishlist")
	ErrNotInWishlist     = errors.New("film not in wishlist")
)
