package expense

import (
	"context"
	"time"

	"sweetflow/internal/core/id"
)

// ListFilter narrows expense listings.
type ListFilter struct {
	BranchID    *id.ID
	ExpenseType string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// Repository defines storage operations for expenses.
type Repository interface {
	Create(ctx context.Context, e *Expense) error
	GetByID(ctx context.Context, expenseID id.ID) (*Expense, error)
	List(ctx context.Context, filter ListFilter) ([]*Expense, error)
	Delete(ctx context.Context, expenseID id.ID) error
}
