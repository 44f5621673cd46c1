package service

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/claims-service/internal/auth"
	"github.com/spec-kit/claims-service/internal/config"
	"github.com/spec-kit/claims-service/internal/domain"
	"github.com/spec-kit/claims-service/internal/repository"
)

var (
	// ErrEmailExists signals a duplicate signup.
	ErrEmailExists = errors.New("email already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthService coordinates signup and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// SignUp creates a new account unless the email is already registered.
// Passwords are stored hashed.
func (s *AuthService) SignUp(ctx context.Context, name, email, password string) error {
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailExists
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}

	user := &domain.User{Name: name, Email: email, PasswordHash: hash}
	return s.users.Create(ctx, user)
}

// Login verifies credentials and issues an access token on success.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return s.tokenMgr.GenerateToken(user.Email)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
