// Package product provides the product catalog.
package product

import (
	"context"
	"time"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/id"
	"sweetflow/internal/core/types"
)

// Product represents a sellable item of a tenant.
type Product struct {
	ID       id.ID `db:"id" json:"id"`
	TenantID id.ID `db:"tenant_id" json:"tenantId"`

	Name    string `db:"name" json:"name"`
	Unit    string `db:"unit" json:"unit"` // e.g. "dona", "kg"
	Barcode string `db:"barcode" json:"barcode,omitempty"`

	RetailPrice    types.MinorUnits `db:"retail_price" json:"retailPrice"`
	WholesalePrice types.MinorUnits `db:"wholesale_price" json:"wholesalePrice"`

	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates an active product for a tenant.
func New(tenantID id.ID, name, unit string) *Product {
	now := time.Now().UTC()
	return &Product{
		ID:        id.New(),
		TenantID:  tenantID,
		Name:      name,
		Unit:      unit,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TransferValue is the unit price used to value outlet-transfer revenue
// and return reversals in reports: wholesale when set, else retail.
func (p *Product) TransferValue() types.MinorUnits {
	if p.WholesalePrice > 0 {
		return p.WholesalePrice
	}
	return p.RetailPrice
}

// Validate checks product invariants.
func (p *Product) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if p.RetailPrice.IsNegative() || p.WholesalePrice.IsNegative() {
		return apperror.NewValidation("price must not be negative").
			WithDetail("field", "retailPrice")
	}
	return nil
}
