// Package expense records operating expense entries.
package expense

import (
	"context"
	"time"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/id"
	"sweetflow/internal/core/types"
)

// Expense is one expense entry. ExpenseType is a free-form category
// used for the by-type report breakdown.
type Expense struct {
	ID       id.ID `db:"id" json:"id"`
	TenantID id.ID `db:"tenant_id" json:"tenantId"`

	ExpenseDate time.Time `db:"expense_date" json:"expenseDate"`
	BranchID    *id.ID    `db:"branch_id" json:"branchId,omitempty"`

	ExpenseType string           `db:"expense_type" json:"expenseType"`
	Amount      types.MinorUnits `db:"amount" json:"amount"`
	Note        string           `db:"note" json:"note,omitempty"`
	CreatedBy   id.ID            `db:"created_by" json:"createdBy"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
}

// Validate checks entry invariants.
func (e *Expense) Validate(ctx context.Context) error {
	if e.ExpenseType == "" {
		return apperror.NewValidation("expense type is required").
			WithDetail("field", "expenseType")
	}
	if !e.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}
	return nil
}
