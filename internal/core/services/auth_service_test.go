package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"filmbox/internal/adapters/persistence/models"
	"filmbox/internal/config"
	"filmbox/internal/core/domain"
	"filmbox/internal/pkg/jwt"

	"gorm.io/gorm"
)

// stubUserRepo is an in-memory UserRepository for service tests
type stubUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uint]*models.User), nextID: 1}
}

func (r *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *stubUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) GetByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == usernameOrEmail || u.Email == strings.ToLower(usernameOrEmail) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Update(ctx context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) Delete(ctx context.Context, id uint) error {
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) List(ctx context.Context, search string, offset, limit int) ([]*models.User, int64, error) {
	var out []*models.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *stubUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r *stubUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) AdjustBalance(ctx context.Context, id uint, delta int64) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	newBalance := int64(user.Balance) + delta
	if newBalance < 0 {
		return nil, domain.ErrInsufficientBalance
	}
	user.Balance = uint(newBalance)
	return user, nil
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:          "test-secret",
			AccessTokenMins: 60,
		},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testConfig())
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterInput{
		Username: "alice",
		Email:    "Alice@Example.COM",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("expected lowercased email, got %s", user.Email)
	}
	if user.Balance != 0 {
		t.Errorf("expected zero starting balance, got %d", user.Balance)
	}
	if user.Role != domain.RoleUser {
		t.Errorf("expected role %s, got %s", domain.RoleUser, user.Role)
	}

	resp, err := svc.Login(ctx, &LoginInput{Username: "alice", Password: "password123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}

	claims, err := jwt.ValidateToken(resp.Token, "test-secret")
	if err != nil {
		t.Fatalf("minted token failed validation: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("token user ID %d, want %d", claims.UserID, user.ID)
	}
}

func TestLoginByEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testConfig())
	ctx := context.Background()

	if _, err := svc.Register(ctx, &RegisterInput{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "password123",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Login accepts the email in any case
	if _, err := svc.Login(ctx, &LoginInput{Username: "BOB@example.com", Password: "password123"}); err != nil {
		t.Fatalf("Login by email failed: %v", err)
	}
}

func TestRegisterDuplicates(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testConfig())
	ctx := context.Background()

	if _, err := svc.Register(ctx, &RegisterInput{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "password123",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err := svc.Register(ctx, &RegisterInput{
		Username: "carol",
		Email:    "other@example.com",
		Password: "password123",
	})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}

	// Duplicate email check is case-insensitive
	_, err = svc.Register(ctx, &RegisterInput{
		Username: "carol2",
		Email:    "CAROL@EXAMPLE.COM",
		Password: "password123",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testConfig())
	ctx := context.Background()

	if _, err := svc.Register(ctx, &RegisterInput{
		Username: "dave",
		Email:    "dave@example.com",
		Password: "password123",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Unknown account and wrong password yield the same error
	_, errUnknown := svc.Login(ctx, &LoginInput{Username: "nobody", Password: "password123"})
	_, errWrongPass := svc.Login(ctx, &LoginInput{Username: "dave", Password: "wrong-password"})

	if !errors.Is(errUnknown, domain.ErrInvalidCredentials) {
		t.Errorf("unknown account: expected ErrInvalidCredentials, got %v", errUnknown)
	}
	if !errors.Is(errWrongPass, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPass)
	}
}
