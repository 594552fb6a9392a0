// Package cash tracks the cash-drawer ledger per branch.
//
// A branch's balance is never stored: it is the all-time sum of sales
// revenue plus signed cash entries, recomputed on every read. Entries
// are append-only money movements mirroring the stock ledger design.
package cash

import (
	"context"
	"time"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/id"
	"sweetflow/internal/core/types"
)

// Entry is one signed cash-ledger row. Positive amounts are manual
// top-ups, negative amounts are admin withdrawals.
type Entry struct {
	ID       id.ID `db:"id" json:"id"`
	TenantID id.ID `db:"tenant_id" json:"tenantId"`

	CashDate time.Time `db:"cash_date" json:"cashDate"`
	BranchID id.ID     `db:"branch_id" json:"branchId"`

	Amount    types.MinorUnits `db:"amount" json:"amount"`
	Note      string           `db:"note" json:"note,omitempty"`
	CreatedBy id.ID            `db:"created_by" json:"createdBy"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
}

// Validate checks entry invariants.
func (e *Entry) Validate(ctx context.Context) error {
	if id.IsNil(e.BranchID) {
		return apperror.NewValidation("branch is required").
			WithDetail("field", "branchId")
	}
	if e.Amount.IsZero() {
		return apperror.NewValidation("amount must be non-zero").
			WithDetail("field", "amount")
	}
	return nil
}

// BranchSummary is the reconciliation view for one branch.
type BranchSummary struct {
	BranchID   id.ID  `db:"branch_id" json:"branchId"`
	BranchName string `db:"branch_name" json:"branchName"`
	BranchType string `db:"branch_type" json:"branchType"`

	// CurrentAmount is the all-time running balance: total sales plus
	// total signed cash entries. It ignores the period filter.
	CurrentAmount types.MinorUnits `db:"current_amount" json:"currentAmount"`

	SalesAmountPeriod types.MinorUnits `db:"sales_amount_period" json:"salesAmountPeriod"`
	CashInPeriod      types.MinorUnits `db:"cash_in_period" json:"cashInPeriod"`
	CashOutPeriod     types.MinorUnits `db:"cash_out_period" json:"cashOutPeriod"`
}

// Summary is the full reconciliation response.
type Summary struct {
	Totals   BranchSummary   `json:"totals"`
	ByBranch []BranchSummary `json:"byBranch"`
}
