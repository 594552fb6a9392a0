package returns

import (
	"context"
	"time"

	"sweetflow/internal/core/id"
)

// ListFilter narrows return listings.
type ListFilter struct {
	BranchID *id.ID
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// Repository defines storage operations for return documents.
type Repository interface {
	Create(ctx context.Context, r *Return) error
	GetByID(ctx context.Context, returnID id.ID) (*Return, error)
	GetItem(ctx context.Context, returnID, itemID id.ID) (*Item, error)
	ListItems(ctx context.Context, returnID id.ID) ([]Item, error)
	List(ctx context.Context, filter ListFilter) ([]*Return, error)

	// DecideItemIfPending atomically moves a PENDING item to a terminal
	// status. Returns false when the item was no longer PENDING.
	DecideItemIfPending(ctx context.Context, itemID id.ID, to ItemStatus, decidedBy id.ID, decidedAt time.Time) (bool, error)

	// UpdateStatus persists the derived header status.
	UpdateStatus(ctx context.Context, returnID id.ID, status Status) error
}
