// Package returns records customer return documents.
//
// Returns mirror the transfer shape: a header with per-line
// PENDING/ACCEPTED/REJECTED state. Accepting a line writes an IN
// movement so the resolver shows the quantity back on hand; reports
// treat the valued amount as a financial reversal against revenue.
// Whether returned goods are actually resold is a business decision
// outside this module — the ledger entry only records that they exist.
package returns

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

// Return is a return document header with nested lines.
type Return struct {
	ID       id.ID `db:"id" json:"id"`
	TenantID id.ID `db:"tenant_id" json:"tenantId"`

	ReturnDate time.Time `db:"return_date" json:"returnDate"`
	BranchID   *id.ID    `db:"branch_id" json:"branchId,omitempty"` // nil = central

	Status    Status    `db:"status" json:"status"`
	Note      string    `db:"note" json:"note,omitempty"`
	CreatedBy id.ID     `db:"created_by" json:"createdBy"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Items []Item `db:"-" json:"items"`
}

// Item is one returned product line.
type Item struct {
	ID       id.ID `db:"id" json:"id"`
	TenantID id.ID `db:"tenant_id" json:"tenantId"`
	ReturnID id.ID `db:"return_id" json:"returnId"`

	ProductID id.ID          `db:"product_id" json:"productId"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	// UnitValue is the reporting valuation captured at creation:
	// wholesale price if set, else retail.
	UnitValue types.MinorUnits `db:"unit_value" json:"unitValue"`

	Status    ItemStatus `db:"status" json:"status"`
	DecidedAt *time.Time `db:"decided_at" json:"decidedAt,omitempty"`
	DecidedBy *id.ID     `db:"decided_by" json:"decidedBy,omitempty"`
}

// DeriveStatus computes the header status from item statuses.
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
func (r *Return) Validate(ctx context.Context) error {
	if len(r.Items) == 0 {
		return apperror.NewValidation("return requires at least one item")
	}
	for i := range r.Items {
		if id.IsNil(r.Items[i].ProductID) {
			return apperror.NewValidation("item product is required").
				WithDetail("index", i)
		}
		if !r.Items[i].Quantity.IsPositive() {
			return apperror.NewValidation("item quantity must be positive").
				WithDetail("index", i)
		}
	}
	return nil
}
