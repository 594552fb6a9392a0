package production

import (
	"context"
	"time"

	"sweetflow/internal/core/id"
)

// ListFilter narrows batch listings.
type ListFilter struct {
	BranchID *id.ID
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// Repository defines storage operations for production batches.
type Repository interface {
	Create(ctx context.Context, b *Batch) error
	GetByID(ctx context.Context, batchID id.ID) (*Batch, error)
	List(ctx context.Context, filter ListFilter) ([]*Batch, error)

	// ReplaceItems deletes and reinserts the batch's lines and bumps
	// updated_at. Caller wraps in a transaction together with the
	// ledger rewrite.
	ReplaceItems(ctx context.Context, b *Batch) error

	Delete(ctx context.Context, batchID id.ID) error
}
