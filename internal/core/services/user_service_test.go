package services

import (
	"context"
	"errors"
	"testing"

	"filmbox/internal/adapters/persistence/models"
	"filmbox/internal/core/domain"
)

func TestAdjustBalance(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	user := &models.User{Username: "alice", Email: "alice@example.com", Balance: 100}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatal(err)
	}

	resp, err := svc.AdjustBalance(ctx, user.ID, 50)
	if err != nil {
		t.Fatalf("AdjustBalance failed: %v", err)
	}
	if resp.Balance != 150 {
		t.Errorf("expected balance 150, got %d", resp.Balance)
	}

	resp, err = svc.AdjustBalance(ctx, user.ID, -150)
	if err != nil {
		t.Fatalf("negative adjustment failed: %v", err)
	}
	if resp.Balance != 0 {
		t.Errorf("expected balance 0, got %d", resp.Balance)
	}

	if _, err := svc.AdjustBalance(ctx, user.ID, -1); !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Errorf("expected ErrInsufficientBalance for overdraw, got %v", err)
	}

	if _, err := svc.AdjustBalance(ctx, 999, 10); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDeleteUserSelfGuard(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	admin := &models.User{Username: "root", Email: "root@example.com", Role: domain.RoleAdmin}
	target := &models.User{Username: "bob", Email: "bob@example.com"}
	if err := repo.Create(ctx, admin); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, target); err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteUser(ctx, admin.ID, admin.ID); !errors.Is(err, ErrCannotDeleteSelf) {
		t.Errorf("expected ErrCannotDeleteSelf, got %v", err)
	}
	if err := svc.DeleteUser(ctx, target.ID, admin.ID); err != nil {
		t.Errorf("DeleteUser failed: %v", err)
	}
	if err := svc.DeleteUser(ctx, target.ID, admin.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound for deleted user, got %v", err)
	}
}

func TestListUsersClampsPagination(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		if err := repo.Create(ctx, &models.User{Username: name, Email: name + "@example.com"}); err != nil {
			t.Fatal(err)
		}
	}

	out, err := svc.ListUsers(ctx, &ListUsersInput{Page: 0, Limit: 0})
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if out.Page != 1 {
		t.Errorf("expected page clamped to 1, got %d", out.Page)
	}
	if out.Limit != 10 {
		t.Errorf("expected limit defaulted to 10, got %d", out.Limit)
	}
	if out.Total != 3 {
		t.Errorf("expected total 3, got %d", out.Total)
	}
	if out.TotalPages != 1 {
		t.Errorf("expected 1 total page, got %d", out.TotalPages)
	}
}
