// Package sales records point-of-sale documents.
//
// Sales are financial records only. They never touch the movement
// ledger: revenue, cash balances, and debt all derive from these rows,
// while physical stock is tracked by production, transfers, returns,
// and adjustments.
package sales

import (
	"context"
	"time"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/id"
	"sweetflow/internal/core/types"
)

// Sale is a sales document header with nested lines.
type Sale struct {
	ID       id.ID `db:"id" json:"id"`
	TenantID id.ID `db:"tenant_id" json:"tenantId"`

	SaleDate time.Time `db:"sale_date" json:"saleDate"`
	BranchID id.ID     `db:"branch_id" json:"branchId"`

	TotalAmount types.MinorUnits `db:"total_amount" json:"totalAmount"`
	Note        string           `db:"note" json:"note,omitempty"`
	CreatedBy   id.ID            `db:"created_by" json:"createdBy"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`

	Items []Item `db:"-" json:"items"`
}

// Item is one sold product line.
type Item struct {
	ID       id.ID `db:"id" json:"id"`
	TenantID id.ID `db:"tenant_id" json:"tenantId"`
	SaleID   id.ID `db:"sale_id" json:"saleId"`

	ProductID id.ID            `db:"product_id" json:"productId"`
	Quantity  types.Quantity   `db:"quantity" json:"quantity"`
	UnitPrice types.MinorUnits `db:"unit_price" json:"unitPrice"`
	Amount    types.MinorUnits `db:"amount" json:"amount"`
}

// Validate checks document invariants.
func (s *Sale) Validate(ctx context.Context) error {
	if id.IsNil(s.BranchID) {
		return apperror.NewValidation("branch is required").
			WithDetail("field", "branchId")
	}
	if len(s.Items) == 0 {
		return apperror.NewValidation("sale requires at least one item")
	}
	for i := range s.Items {
		if id.IsNil(s.Items[i].ProductID) {
			return apperror.NewValidation("item product is required").
				WithDetail("index", i)
		}
		if !s.Items[i].Quantity.IsPositive() {
			return apperror.NewValidation("item quantity must be positive").
				WithDetail("index", i)
		}
		if s.Items[i].UnitPrice.IsNegative() {
			return apperror.NewValidation("item price must not be negative").
				WithDetail("index", i)
		}
	}
	return nil
}
