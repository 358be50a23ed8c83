package services

import (
	"context"
	"errors"
	"strings"

	"filmbox/internal/adapters/persistence/models"
	"filmbox/internal/adapters/persistence/repositories"
	"filmbox/internal/config"
	"filmbox/internal/core/domain"
	"filmbox/internal/pkg/jwt"
	"filmbox/internal/pkg/logger"
	"filmbox/internal/pkg/metrics"
	"filmbox/internal/pkg/password"

	"gorm.io/gorm"
)

// AuthService handles identity business logic: registration, credential
// verification, and token issuance/validation.
type AuthService struct {
	userRepo repositories.UserRepository
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginInput represents login input. Username also accepts an email.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User  *models.UserResponse `json:"user"`
	Token string               `json:"token"`
}

// Register registers a new user. Emails are normalized to lowercase
// before both the duplicate check and storage, so duplicates are caught
// case-insensitively.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.UserResponse, error) {
	email := strings.ToLower(input.Email)

	// 1. Check if username already exists
	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUsernameTaken
	}

	// 2. Check if email already exists
	exists, err = s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	// 3. Hash password
	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	// 4. Create user
	user := &models.User{
		Username:  input.Username,
		Email:     email,
		Password:  hashedPassword,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      domain.RoleUser,
		Balance:   0,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, err
	}

	logger.Get().Info().
		Str("username", user.Username).
		Uint("user_id", user.ID).
		Msg("user registered")

	return user.ToResponse(), nil
}

// Login authenticates a user by username or email and mints a token.
// Unknown account and wrong password fail with the same error so the
// response does not reveal which of the two it was.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.GetByUsernameOrEmail(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.Password) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(
		user.ID,
		user.Username,
		user.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	logger.Get().Info().
		Str("username", user.Username).
		Msg("user logged in")

	return &AuthResponse{
		User:  user.ToResponse(),
		Token: token,
	}, nil
}

// ValidateToken validates an access token. Stateless: role and balance
// freshness is the identity middleware's job.
func (s *AuthService) ValidateToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateToken(accessToken, s.cfg.JWT.Secret)
}

// GetUserByID gets a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
