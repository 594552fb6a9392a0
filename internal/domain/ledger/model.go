// Package ledger provides the stock movement ledger.
//
// Stock is never stored as a counter anywhere: every quantity the
// warehouse shows is the signed sum of movement rows. Movements are
// append-only; the only mutation is the delete-and-reinsert performed
// by edit-and-replace flows (production batch edits), always keyed by
// the source document.
package ledger

import (
	"context"
	"time"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/id"
	"sweetflow/internal/core/types"
)

// MovementType defines the direction of a movement.
type MovementType string

const (
	// TypeIn increases stock at the movement's logical location.
	TypeIn MovementType = "IN"
	// TypeOut decreases stock at the movement's logical location.
	TypeOut MovementType = "OUT"
)

// SourceType names the document kind that produced a movement.
type SourceType string

const (
	SourceProduction SourceType = "production"
	SourceReturn     SourceType = "return"
	SourceTransfer   SourceType = "transfer"
	SourceAdjustment SourceType = "adjustment"
)

// Movement is one signed quantity delta for a product, optionally tied
// to a branch and a source document.
type Movement struct {
	ID       id.ID `db:"id" json:"id"`
	TenantID id.ID `db:"tenant_id" json:"tenantId"`

	ProductID id.ID  `db:"product_id" json:"productId"`
	BranchID  *id.ID `db:"branch_id" json:"branchId,omitempty"` // nil = central

	Type       MovementType `db:"movement_type" json:"movementType"`
	SourceType SourceType   `db:"source_type" json:"sourceType"`
	SourceID   *id.ID       `db:"source_id" json:"sourceId,omitempty"`

	Quantity  types.Quantity `db:"quantity" json:"quantity"` // always positive
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
}

// New builds a movement row. branchID nil targets the central pool.
func New(tenantID, productID id.ID, branchID *id.ID, mType MovementType, source SourceType, sourceID *id.ID, qty types.Quantity) Movement {
	return Movement{
		ID:         id.New(),
		TenantID:   tenantID,
		ProductID:  productID,
		BranchID:   branchID,
		Type:       mType,
		SourceType: source,
		SourceID:   sourceID,
		Quantity:   qty,
		CreatedAt:  time.Now().UTC(),
	}
}

// SignedQuantity returns the movement's contribution to stock.
func (m *Movement) SignedQuantity() types.Quantity {
	if m.Type == TypeOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// Validate checks movement invariants.
func (m *Movement) Validate(ctx context.Context) error {
	if id.IsNil(m.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}
	if !m.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}
	switch m.Type {
	case TypeIn, TypeOut:
	default:
		return apperror.NewValidation("invalid movement type").
			WithDetail("value", string(m.Type))
	}
	switch m.SourceType {
	case SourceProduction, SourceReturn, SourceTransfer, SourceAdjustment:
	default:
		return apperror.NewValidation("invalid source type").
			WithDetail("value", string(m.SourceType))
	}
	return nil
}
