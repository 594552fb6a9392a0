package transfer

import (
	"context"
	"time"

	"sweetflow/internal/core/id"
)

// Repository defines storage operations for transfers.
type Repository interface {
	// Create inserts the header and all items. Caller wraps in a
	// transaction.
	Create(ctx context.Context, t *Transfer) error

	// GetByID loads a transfer with its items.
	GetByID(ctx context.Context, transferID id.ID) (*Transfer, error)

	// GetItem loads one item, verifying it belongs to the transfer.
	GetItem(ctx context.Context, transferID, itemID id.ID) (*Item, error)

	// ListItems loads all items of a transfer.
	ListItems(ctx context.Context, transferID id.ID) ([]Item, error)

	// ListIncoming returns transfers destined for a branch, newest
	// first, items nested.
	ListIncoming(ctx context.Context, branchID id.ID) ([]*Transfer, error)

	// DecideItemIfPending atomically moves a PENDING item to a terminal
	// status. Returns false when the item was no longer PENDING, so
	// concurrent decisions cannot double-apply.
	DecideItemIfPending(ctx context.Context, itemID id.ID, to ItemStatus, decidedBy id.ID, decidedAt time.Time) (bool, error)

	// UpdateStatus persists the derived header status.
	UpdateStatus(ctx context.Context, transferID id.ID, status Status) error
}
