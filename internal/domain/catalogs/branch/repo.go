package branch

import (
	"context"

	"sweetflow/internal/core/id"
)

// Repository defines persistence operations for branches.
// All queries are tenant-scoped via the tenant in context.
type Repository interface {
	Create(ctx context.Context, b *Branch) error
	GetByID(ctx context.Context, branchID id.ID) (*Branch, error)
	Update(ctx context.Context, b *Branch) error
	Deactivate(ctx context.Context, branchID id.ID) error
	List(ctx context.Context, filter ListFilter) ([]*Branch, error)
	Counts(ctx context.Context) (branches, outlets int, err error)
}

// ListFilter narrows branch listings.
type ListFilter struct {
	Type       *Type
	ActiveOnly bool
}
