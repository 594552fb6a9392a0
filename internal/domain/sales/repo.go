package sales

import (
	"context"
	"time"

	"sweetflow/internal/core/id"
)

// ListFilter narrows sales listings.
type ListFilter struct {
	BranchID *id.ID
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// Repository defines storage operations for sales documents.
type Repository interface {
	Create(ctx context.Context, s *Sale) error
	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)
	List(ctx context.Context, filter ListFilter) ([]*Sale, error)
	Delete(ctx context.Context, saleID id.ID) error
}
