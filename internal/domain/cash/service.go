package cash

import (
	"context"
	"fmt"
	"time"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/appctx"
	"sweetflow/internal/core/clock"
	"sweetflow/internal/core/id"
	"sweetflow/internal/core/types"
	"sweetflow/internal/domain/catalogs/branch"
	"sweetflow/internal/domain/reports"
	"sweetflow/pkg/logger"
)

// Service provides cash-drawer operations.
type Service struct {
	repo     Repository
	branches branch.Repository
	clk      clock.Clock
}

// NewService creates a new cash service.
func NewService(repo Repository, branches branch.Repository, clk clock.Clock) *Service {
	return &Service{repo: repo, branches: branches, clk: clk}
}

// CashIn appends a positive cash entry (manual top-up).
func (s *Service) CashIn(ctx context.Context, branchID id.ID, amount types.MinorUnits, cashDate string, note string) (*Entry, error) {
	if !amount.IsPositive() {
		return nil, apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}
	return s.append(ctx, branchID, amount, cashDate, note)
}

// CashOut appends a negative cash entry (admin withdrawal). The input
// amount is positive; the stored row carries the sign.
func (s *Service) CashOut(ctx context.Context, branchID id.ID, amount types.MinorUnits, cashDate string, note string) (*Entry, error) {
	if !amount.IsPositive() {
		return nil, apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}
	return s.append(ctx, branchID, amount.Neg(), cashDate, note)
}

func (s *Service) append(ctx context.Context, branchID id.ID, signed types.MinorUnits, cashDate string, note string) (*Entry, error) {
	if _, err := s.branches.GetByID(ctx, branchID); err != nil {
		return nil, fmt.Errorf("resolve branch: %w", err)
	}

	now := s.clk.Now()
	date := now
	if cashDate != "" {
		parsed, err := parseDate(cashDate)
		if err != nil {
			return nil, err
		}
		date = parsed
	}

	e := &Entry{
		ID:        id.New(),
		TenantID:  appctx.GetTenantID(ctx),
		CashDate:  date,
		BranchID:  branchID,
		Amount:    signed,
		Note:      note,
		CreatedBy: appctx.GetUserID(ctx),
		CreatedAt: now,
	}
	if err := e.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Append(ctx, e); err != nil {
		return nil, fmt.Errorf("append cash entry: %w", err)
	}

	logger.Info(ctx, "cash entry recorded",
		"id", e.ID,
		"branch_id", e.BranchID,
		"amount", e.Amount,
	)
	return e, nil
}

// List returns cash entries matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Entry, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
	return s.repo.List(ctx, filter)
}

// Summary reconciles cash per branch. The period only scopes the
// subtotal fields; current_amount is always the all-time balance.
func (s *Service) Summary(ctx context.Context, period reports.Period, filter SummaryFilter) (*Summary, error) {
	rows, err := s.repo.Summarize(ctx, period, filter)
	if err != nil {
		return nil, fmt.Errorf("summarize cash: %w", err)
	}

	out := &Summary{ByBranch: rows}
	for i := range rows {
		out.Totals.CurrentAmount += rows[i].CurrentAmount
		out.Totals.SalesAmountPeriod += rows[i].SalesAmountPeriod
		out.Totals.CashInPeriod += rows[i].CashInPeriod
		out.Totals.CashOutPeriod += rows[i].CashOutPeriod
	}
	return out, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, apperror.NewValidation("invalid date, expected YYYY-MM-DD").
			WithDetail("value", s)
	}
	return t, nil
}
