package cash

import (
	"context"
	"time"

	"sweetflow/internal/core/id"
	"sweetflow/internal/domain/catalogs/branch"
	"sweetflow/internal/domain/reports"
)

// ListFilter narrows entry listings. BranchType resolves against the
// branches catalog at query time.
type ListFilter struct {
	BranchID   *id.ID
	BranchType *branch.Type
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// SummaryFilter narrows the reconciliation to a branch type or a
// single branch. Zero values mean all branches.
type SummaryFilter struct {
	BranchType *branch.Type
	BranchID   *id.ID
}

// Repository defines storage operations for the cash ledger.
type Repository interface {
	Append(ctx context.Context, e *Entry) error
	List(ctx context.Context, filter ListFilter) ([]*Entry, error)

	// Summarize computes per-branch rows: all-time current_amount plus
	// period-scoped subtotals for the given window. Branches with no
	// activity at all are omitted.
	Summarize(ctx context.Context, period reports.Period, filter SummaryFilter) ([]BranchSummary, error)
}
