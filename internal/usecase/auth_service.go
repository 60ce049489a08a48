package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"trade_monitor/internal/domain"
)

const minPasswordLength = 8

// AuthService is a deliberately thin collaborator: bcrypt hashes and
// opaque server-side session tokens, nothing more.
type AuthService struct {
	userRepo   domain.UserRepository
	sessionTTL time.Duration
	now        func() time.Time
}

func NewAuthService(userRepo domain.UserRepository, sessionTTL time.Duration) (*AuthService, error) {
	if userRepo == nil {
		return nil, errors.New("user repository required")
	}
	if sessionTTL <= 0 {
		sessionTTL = 30 * 24 * time.Hour
	}
	return &AuthService{
		userRepo:   userRepo,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, email, password string) (domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, "", fmt.Errorf("%w: valid email required", domain.ErrBadRequest)
	}
	if len(password) < minPasswordLength {
		return domain.User{}, "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrBadRequest, minPasswordLength)
	}

	if _, err := s.userRepo.GetUserByEmail(ctx, email); err == nil {
		return domain.User{}, "", fmt.Errorf("%w: email already registered", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, domain.User{
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return domain.User{}, "", err
	}

	token, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return domain.User{}, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.User{}, "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	token, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Authenticate resolves a bearer token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, fmt.Errorf("%w: missing session token", domain.ErrUnauthorized)
	}

	session, err := s.userRepo.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, fmt.Errorf("%w: invalid session token", domain.ErrUnauthorized)
		}
		return domain.User{}, err
	}
	if session.Expired(s.now()) {
		return domain.User{}, fmt.Errorf("%w: session expired", domain.ErrUnauthorized)
	}

	user, err := s.userRepo.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, fmt.Errorf("%w: invalid session token", domain.ErrUnauthorized)
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *AuthService) issueSession(ctx context.Context, userID int64) (string, error) {
	token, err := randomToken(32)
	if err != nil {
		return "", err
	}
	err = s.userRepo.CreateSession(ctx, domain.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: s.now().Add(s.sessionTTL),
	})
	if err != nil {
		return "", err
	}
	return token, nil
}
