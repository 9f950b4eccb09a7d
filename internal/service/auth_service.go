package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/demand-queue/internal/auth"
	"github.com/spec-kit/demand-queue/internal/config"
	"github.com/spec-kit/demand-queue/internal/domain"
	"github.com/spec-kit/demand-queue/internal/repository"
	apperrors "github.com/spec-kit/demand-queue/pkg/util/errorutil"
)

// AuthService authenticates administrators. This replaces the legacy shared
// passphrase with credential checks and signed tokens.
type AuthService struct {
	admins repository.AdminRepository
	tokens *auth.TokenManager
	cfg    config.AuthConfig
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, admins repository.AdminRepository) *AuthService {
	return &AuthService{
		admins: admins,
		tokens: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		cfg:    cfg,
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Login verifies admin credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", time.Time{}, apperrors.NewInvalidInput("username and password required", nil)
	}

	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, apperrors.NewAuthDenied("invalid credentials")
		}
		return "", time.Time{}, apperrors.NewIOError(err)
	}
	if !admin.Active {
		return "", time.Time{}, apperrors.NewAuthDenied("invalid credentials")
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return "", time.Time{}, apperrors.NewAuthDenied("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(admin.ID, domain.SubjectTypeAdmin)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return token, expiresAt, nil
}

// EnsureAdmin seeds the initial admin account from configuration. Without it
// a fresh deployment has no account that can log in. No-op when seed
// credentials are unset or the account already exists.
func (s *AuthService) EnsureAdmin(ctx context.Context) error {
	username := strings.TrimSpace(s.cfg.AdminUsername)
	if username == "" {
		return nil
	}
	if _, err := s.admins.GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewIOError(err)
	}
	_, err := s.Register(ctx, username, s.cfg.AdminPassword)
	return err
}

// Register creates an admin account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.AdminUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < 8 {
		return nil, apperrors.NewInvalidInput("username and a password of at least 8 characters required", nil)
	}
	hash, err := auth.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	admin := &domain.AdminUser{Username: username, PasswordHash: hash, Active: true}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, apperrors.NewIOError(err)
	}
	return admin, nil
}
