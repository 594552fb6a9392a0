package expense

import (
	"context"
	"fmt"

	"sweetflow/internal/core/appctx"
	"sweetflow/internal/core/clock"
	"sweetflow/internal/core/id"
	"sweetflow/pkg/logger"
)

// Service provides expense operations.
type Service struct {
	repo Repository
	clk  clock.Clock
}

// NewService creates a new expense service.
func NewService(repo Repository, clk clock.Clock) *Service {
	return &Service{repo: repo, clk: clk}
}

// Create records an expense entry.
func (s *Service) Create(ctx context.Context, e *Expense) error {
	if id.IsNil(e.TenantID) {
		e.TenantID = appctx.GetTenantID(ctx)
	}
	if id.IsNil(e.CreatedBy) {
		e.CreatedBy = appctx.GetUserID(ctx)
	}
	if err := e.Validate(ctx); err != nil {
		return err
	}

	now := s.clk.Now()
	if e.ExpenseDate.IsZero() {
		e.ExpenseDate = now
	}
	e.ID = id.New()
	e.CreatedAt = now

	if err := s.repo.Create(ctx, e); err != nil {
		return fmt.Errorf("create expense: %w", err)
	}

	logger.Info(ctx, "expense recorded",
		"id", e.ID,
		"type", e.ExpenseType,
		"amount", e.Amount,
	)
	return nil
}

// GetByID retrieves an expense entry.
func (s *Service) GetByID(ctx context.Context, expenseID id.ID) (*Expense, error) {
	return s.repo.GetByID(ctx, expenseID)
}

// List returns expenses matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Expense, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
	return s.repo.List(ctx, filter)
}

// Delete removes an expense entry.
func (s *Service) Delete(ctx context.Context, expenseID id.ID) error {
	return s.repo.Delete(ctx, expenseID)
}
