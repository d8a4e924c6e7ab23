package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/allamaprabhu/management-api/auth"
	"github.com/allamaprabhu/management-api/models"
	"github.com/allamaprabhu/management-api/repositories"
)

// LoginResult is returned by a successful login
type LoginResult struct {
	Token string
	Admin *models.Admin
}

// AuthService handles credential checks and resolves bearer tokens to principals
type AuthService struct {
	admins          repositories.AdminRepository
	codec           *auth.TokenCodec
	comparePassword func(hash, password string) (bool, error)
	logger          *zap.Logger
}

// NewAuthService creates a new AuthService instance
func NewAuthService(admins repositories.AdminRepository, codec *auth.TokenCodec, logger *zap.Logger) *AuthService {
	return &AuthService{
		admins:          admins,
		codec:           codec,
		comparePassword: auth.ComparePassword,
		logger:          logger,
	}
}

// Login checks email and password and issues a session token.
// An unknown email and a wrong password produce the same error and both
// pay for a bcrypt comparison.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	admin, err := s.admins.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_, _ = s.comparePassword(auth.DummyPasswordHash(), password)
			return nil, ErrInvalidCredentials
		}
		return nil, WrapInternal("Login failed", err)
	}

	ok, err := s.comparePassword(admin.PasswordHash, password)
	if err != nil {
		return nil, WrapInternal("Login failed", err)
	}
	if !ok {
		s.logger.Debug("login rejected", zap.String("admin_id", admin.ID.String()))
		return nil, ErrInvalidCredentials
	}

	token, err := s.codec.Issue(admin.ID, admin.Role)
	if err != nil {
		return nil, WrapInternal("Login failed", err)
	}

	s.logger.Info("admin logged in",
		zap.String("admin_id", admin.ID.String()),
		zap.String("role", admin.Role.String()),
	)

	return &LoginResult{Token: token, Admin: admin}, nil
}

// Authenticate verifies a bearer token and loads the admin it names.
// The store is consulted exactly once per call.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Principal, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := s.codec.Verify(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, ErrExpiredToken
		}
		return nil, ErrMalformedToken.Wrap(err)
	}

	admin, err := s.admins.GetByID(ctx, claims.AdminID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		s.logger.Error("failed to resolve principal",
			zap.String("admin_id", claims.AdminID.String()),
			zap.Error(err),
		)
		return nil, ErrAuthenticationFailed.Wrap(err)
	}

	return auth.NewPrincipal(admin), nil
}
