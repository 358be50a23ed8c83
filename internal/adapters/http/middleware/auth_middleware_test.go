package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"filmbox/internal/adapters/persistence/models"
	"filmbox/internal/config"
	"filmbox/internal/core/domain"
	"filmbox/internal/pkg/jwt"
	"filmbox/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const testSecret = "middleware-test-secret"

// stubAccounts is an in-memory AccountSource
type stubAccounts struct {
	users map[uint]*models.User
}

func (s *stubAccounts) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func testApp(accounts *stubAccounts) *fiber.App {
	cfg := &config.Config{
		JWT: config.JWTConfig{Secret: testSecret, AccessTokenMins: 60},
	}

	app := fiber.New()
	app.Use(Identity(cfg, accounts))

	app.Get("/whoami", func(c *fiber.Ctx) error {
		ident, ok := IdentityFrom(c)
		if !ok {
			return response.Success(c, "anonymous", nil)
		}
		return response.Success(c, "identified", ident)
	})
	app.Get("/private", RequireAuth(), func(c *fiber.Ctx) error {
		ident, _ := IdentityFrom(c)
		return response.Success(c, "ok", ident)
	})
	app.Get("/admin", AdminOnly(), func(c *fiber.Ctx) error {
		return response.Success(c, "ok", nil)
	})

	return app
}

func mintToken(t *testing.T, userID uint, username, role string) string {
	t.Helper()
	token, err := jwt.GenerateToken(userID, username, role, testSecret, 60)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	return token
}

func TestIdentityAnonymousPassThrough(t *testing.T) {
	app := testApp(&stubAccounts{users: map[uint]*models.User{}})

	req := httptest.NewRequest("GET", "/whoami", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("anonymous request should pass identity middleware, got %d", resp.StatusCode)
	}
}

func TestIdentityFromBearerHeader(t *testing.T) {
	accounts := &stubAccounts{users: map[uint]*models.User{
		1: {ID: 1, Username: "alice", Role: domain.RoleUser, Balance: 250},
	}}
	app := testApp(accounts)

	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, 1, "alice", domain.RoleUser))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200 with bearer token, got %d", resp.StatusCode)
	}
}

func TestIdentityFromCookie(t *testing.T) {
	accounts := &stubAccounts{users: map[uint]*models.User{
		1: {ID: 1, Username: "alice", Role: domain.RoleUser, Balance: 250},
	}}
	app := testApp(accounts)

	req := httptest.NewRequest("GET", "/private", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: mintToken(t, 1, "alice", domain.RoleUser)})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200 with cookie token, got %d", resp.StatusCode)
	}
}

func TestExpiredTokenContinuesAnonymous(t *testing.T) {
	accounts := &stubAccounts{users: map[uint]*models.User{
		1: {ID: 1, Username: "alice", Role: domain.RoleUser},
	}}
	app := testApp(accounts)

	expired, err := jwt.GenerateToken(1, "alice", domain.RoleUser, testSecret, -5)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	// Public route still succeeds
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expired token on public route: expected 200, got %d", resp.StatusCode)
	}

	// Guarded route rejects the now-anonymous request
	req = httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expired token on guarded route: expected 401, got %d", resp.StatusCode)
	}
}

func TestTokenForDeletedAccount(t *testing.T) {
	// Valid token, but the account no longer exists
	app := testApp(&stubAccounts{users: map[uint]*models.User{}})

	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, 42, "ghost", domain.RoleUser))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected 401 for deleted account, got %d", resp.StatusCode)
	}
}

func TestRequireAuthAnonymous(t *testing.T) {
	app := testApp(&stubAccounts{users: map[uint]*models.User{}})

	req := httptest.NewRequest("GET", "/private", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected 401 for anonymous request, got %d", resp.StatusCode)
	}
}

func TestRequireAuthRedirectsBrowser(t *testing.T) {
	app := testApp(&stubAccounts{users: map[uint]*models.User{}})

	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Accept", "text/html")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusFound {
		t.Errorf("expected 302 redirect for browser client, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
}

func TestAdminOnly(t *testing.T) {
	accounts := &stubAccounts{users: map[uint]*models.User{
		1: {ID: 1, Username: "alice", Role: domain.RoleUser},
		2: {ID: 2, Username: "root", Role: domain.RoleAdmin},
	}}
	app := testApp(accounts)

	// Plain user is forbidden
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, 1, "alice", domain.RoleUser))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("expected 403 for non-admin, got %d", resp.StatusCode)
	}

	// Admin passes
	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, 2, "root", domain.RoleAdmin))
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200 for admin, got %d", resp.StatusCode)
	}

	// Anonymous gets 401, not 403
	req = httptest.NewRequest("GET", "/admin", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected 401 for anonymous, got %d", resp.StatusCode)
	}
}

func TestRoleRefreshedFromAccount(t *testing.T) {
	// Token minted while the user was admin, but the live record says user.
	// The guard must follow the live record.
	accounts := &stubAccounts{users: map[uint]*models.User{
		1: {ID: 1, Username: "alice", Role: domain.RoleUser},
	}}
	app := testApp(accounts)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, 1, "alice", domain.RoleAdmin))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("expected 403 after demotion, got %d", resp.StatusCode)
	}
}
