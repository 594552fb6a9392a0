// Package transfer models inter-branch stock transfers.
//
// A transfer is a header plus line items. The line item status is the
// real state; the header status is recomputed from item statuses after
// every transition and never trusted on its own. Creation writes no
// ledger movement: stock stays attributed to the source until an item
// reaches a terminal decision.
package transfer

import (
	"context"
	"time"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/id"
	"sweetflow/internal/core/types"
)

// Status is the derived header status.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPartial   Status = "PARTIAL"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// ItemStatus is the authoritative per-line state.
type ItemStatus string

const (
	ItemPending  ItemStatus = "PENDING"
	ItemAccepted ItemStatus = "ACCEPTED"
	ItemRejected ItemStatus = "REJECTED"
)

// Terminal reports whether no further transitions are allowed.
func (s ItemStatus) Terminal() bool {
	return s == ItemAccepted || s == ItemRejected
}

// Transfer is the document header with nested items.
type Transfer struct {
	ID       id.ID `db:"id" json:"id"`
	TenantID id.ID `db:"tenant_id" json:"tenantId"`

	TransferDate time.Time `db:"transfer_date" json:"transferDate"`
	FromBranchID *id.ID    `db:"from_branch_id" json:"fromBranchId,omitempty"` // nil = central
	ToBranchID   id.ID     `db:"to_branch_id" json:"toBranchId"`

	Status    Status    `db:"status" json:"status"`
	Note      string    `db:"note" json:"note,omitempty"`
	CreatedBy id.ID     `db:"created_by" json:"createdBy"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Items []Item `db:"-" json:"items"`
}

// Item is one product line of a transfer.
type Item struct {
	ID         id.ID `db:"id" json:"id"`
	TenantID   id.ID `db:"tenant_id" json:"tenantId"`
	TransferID id.ID `db:"transfer_id" json:"transferId"`

	ProductID id.ID          `db:"product_id" json:"productId"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	// UnitValue is the valuation captured at creation: wholesale price
	// if set, else retail. Used for outlet revenue reporting.
	UnitValue types.MinorUnits `db:"unit_value" json:"unitValue"`

	Status    ItemStatus `db:"status" json:"status"`
	DecidedAt *time.Time `db:"decided_at" json:"decidedAt,omitempty"`
	DecidedBy *id.ID     `db:"decided_by" json:"decidedBy,omitempty"`
}

// DeriveStatus computes the header status from item statuses.
// All pending yields PENDING, all accepted COMPLETED, all rejected
// CANCELLED, any other combination PARTIAL.
func DeriveStatus(items []Item) Status {
	if len(items) == 0 {
		return StatusPending
	}

	var pending, accepted, rejected int
	for i := range items {
		switch items[i].Status {
		case ItemAccepted:
			accepted++
		case ItemRejected:
			rejected++
		default:
			pending++
		}
	}

	switch {
	case pending == len(items):
		return StatusPending
	case accepted == len(items):
		return StatusCompleted
	case rejected == len(items):
		return StatusCancelled
	default:
		return StatusPartial
	}
}

// Validate checks header invariants at creation time.
func (t *Transfer) Validate(ctx context.Context) error {
	if id.IsNil(t.ToBranchID) {
		return apperror.NewValidation("destination branch is required").
			WithDetail("field", "toBranchId")
	}
	if len(t.Items) == 0 {
		return apperror.NewValidation("transfer requires at least one item")
	}
	for i := range t.Items {
		if id.IsNil(t.Items[i].ProductID) {
			return apperror.NewValidation("item product is required").
				WithDetail("index", i)
		}
		if !t.Items[i].Quantity.IsPositive() {
			return apperror.NewValidation("item quantity must be positive").
				WithDetail("index", i)
		}
	}
	return nil
}
