package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/appctx"
	"sweetflow/internal/core/clock"
	"sweetflow/internal/core/id"
	"sweetflow/pkg/logger"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	PasswordMinLength int
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{PasswordMinLength: 8}
}

// Service provides authentication logic.
type Service struct {
	users  Repository
	jwt    *JWTService
	config ServiceConfig
	clk    clock.Clock
}

// NewService creates a new auth service.
func NewService(users Repository, jwt *JWTService, config ServiceConfig, clk clock.Clock) *Service {
	return &Service{users: users, jwt: jwt, config: config, clk: clk}
}

// Register creates a user within the current tenant.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	tenantID := appctx.GetTenantID(ctx)
	if id.IsNil(tenantID) {
		return nil, apperror.NewValidation("tenant is required")
	}
	if len(req.Password) < s.config.PasswordMinLength {
		return nil, apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "password")
	}

	exists, err := s.users.Exists(ctx, tenantID, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, apperror.NewConflict("email already registered").
			WithDetail("email", req.Email)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.clk.Now()
	u := &User{
		ID:           id.New(),
		TenantID:     tenantID,
		BranchID:     req.BranchID,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		Role:         req.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Info(ctx, "user registered", "user_id", u.ID, "email", u.Email)
	return u, nil
}

// Login authenticates a user against a tenant and issues a token.
func (s *Service) Login(ctx context.Context, tenantID id.ID, creds Credentials) (*Token, *User, error) {
	user, err := s.users.GetByEmail(ctx, tenantID, creds.Email)
	if err != nil {
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}
	if !user.IsActive {
		return nil, nil, apperror.NewForbidden("account is disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}

	access, expiresAt, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate access token: %w", err)
	}

	logger.Info(ctx, "user logged in", "user_id", user.ID, "email", user.Email)
	return &Token{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, user, nil
}

// GetByID retrieves a user account.
func (s *Service) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	return s.users.GetByID(ctx, userID)
}

// List returns all users of the current tenant.
func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.users.List(ctx, appctx.GetTenantID(ctx))
}
