package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"trade_monitor/internal/domain"
)

func newAuthService(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()

	userRepo := newFakeUserRepo()
	service, err := NewAuthService(userRepo, time.Hour)
	if err != nil {
		t.Fatalf("init auth service: %v", err)
	}
	return service, userRepo
}

func TestRegisterLoginAuthenticate(t *testing.T) {
	service, _ := newAuthService(t)
	ctx := context.Background()

	user, token, err := service.Register(ctx, "Trader@Example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "trader@example.com" {
		t.Fatalf("expected lowercased email, got %q", user.Email)
	}
	if token == "" {
		t.Fatalf("expected a session token")
	}

	resolved, err := service.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if resolved.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, resolved.ID)
	}

	_, loginToken, err := service.Login(ctx, "trader@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loginToken == token {
		t.Fatalf("login must issue a fresh token")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	service, _ := newAuthService(t)
	ctx := context.Background()

	if _, _, err := service.Register(ctx, "trader@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, _, err := service.Register(ctx, "trader@example.com", "another-pass")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	service, _ := newAuthService(t)
	ctx := context.Background()

	if _, _, err := service.Register(ctx, "not-an-email", "s3cret-pass"); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("expected bad request for email, got %v", err)
	}
	if _, _, err := service.Register(ctx, "trader@example.com", "short"); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("expected bad request for password, got %v", err)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	service, _ := newAuthService(t)
	ctx := context.Background()

	if _, _, err := service.Register(ctx, "trader@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, _, err := service.Login(ctx, "trader@example.com", "wrong-pass")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAuthenticateRejectsExpiredSession(t *testing.T) {
	service, _ := newAuthService(t)
	ctx := context.Background()

	_, token, err := service.Register(ctx, "trader@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	service.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = service.Authenticate(ctx, token)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for expired session, got %v", err)
	}
}

func TestAuthenticateRejectsUnknownToken(t *testing.T) {
	service, _ := newAuthService(t)

	_, err := service.Authenticate(context.Background(), "bogus")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
