package product

import (
	"context"

	"sweetflow/internal/core/id"
)

// Repository defines persistence operations for products.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, productID id.ID) (*Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*Product, error)
	Update(ctx context.Context, p *Product) error
	Deactivate(ctx context.Context, productID id.ID) error
	List(ctx context.Context, filter ListFilter) ([]*Product, error)
	Count(ctx context.Context) (int, error)
}

// ListFilter narrows product listings.
type ListFilter struct {
	Search     string
	ActiveOnly bool
	Limit      int
	Offset     int
}
