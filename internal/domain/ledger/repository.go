package ledger

import (
	"context"

	"sweetflow/internal/core/id"
)

// Repository defines operations on the movement ledger.
type Repository interface {
	// Append batch-inserts movements. Called inside the document
	// transaction so a crash leaves no partial ledger entry.
	Append(ctx context.Context, movements []Movement) error

	// DeleteBySource removes all movements tied to a source document.
	// Used by edit-and-replace flows before reinserting.
	DeleteBySource(ctx context.Context, source SourceType, sourceID id.ID) error

	// ListBySource retrieves movements for a source document.
	ListBySource(ctx context.Context, source SourceType, sourceID id.ID) ([]Movement, error)
}
