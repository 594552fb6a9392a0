package branch

import (
	"context"
	"fmt"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/appctx"
	"sweetflow/internal/core/id"
	"sweetflow/pkg/logger"
)

// Service provides business operations for the branch directory.
type Service struct {
	repo Repository
}

// NewService creates a new branch service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new branch for the current tenant.
func (s *Service) Create(ctx context.Context, b *Branch) error {
	if id.IsNil(b.TenantID) {
		b.TenantID = appctx.GetTenantID(ctx)
	}
	if err := b.Validate(ctx); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}

	logger.Info(ctx, "branch created", "id", b.ID, "name", b.Name, "type", b.Type)
	return nil
}

// GetByID retrieves a branch.
func (s *Service) GetByID(ctx context.Context, branchID id.ID) (*Branch, error) {
	return s.repo.GetByID(ctx, branchID)
}

// GetActive retrieves a branch and requires it to be active.
// Used by the transfer subsystem to validate destinations.
func (s *Service) GetActive(ctx context.Context, branchID id.ID) (*Branch, error) {
	b, err := s.repo.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if !b.IsActive {
		return nil, apperror.NewValidation("branch is not active").
			WithDetail("branch_id", branchID.String())
	}
	return b, nil
}

// Update modifies a branch.
func (s *Service) Update(ctx context.Context, b *Branch) error {
	if err := b.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, b)
}

// Deactivate marks a branch inactive. Movements referencing it remain
// in the ledger; the resolver still routes them by current config.
func (s *Service) Deactivate(ctx context.Context, branchID id.ID) error {
	if err := s.repo.Deactivate(ctx, branchID); err != nil {
		return err
	}
	logger.Info(ctx, "branch deactivated", "id", branchID)
	return nil
}

// List returns branches matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Branch, error) {
	return s.repo.List(ctx, filter)
}
