// Package production records production batches.
//
// Posting a batch appends IN movements to the stock ledger. Edits do
// not patch movements in place: the batch's movements are dropped and
// rewritten from the new lines, keyed by the batch id.
package production

import (
	"context"
	"time"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/id"
	"sweetflow/internal/core/types"
)

// Batch is a production document header with nested lines.
type Batch struct {
	ID       id.ID `db:"id" json:"id"`
	TenantID id.ID `db:"tenant_id" json:"tenantId"`

	ProductionDate time.Time `db:"production_date" json:"productionDate"`
	BranchID       *id.ID    `db:"branch_id" json:"branchId,omitempty"` // nil = central

	Note      string    `db:"note" json:"note,omitempty"`
	CreatedBy id.ID     `db:"created_by" json:"createdBy"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Items []Item `db:"-" json:"items"`
}

// Item is one produced product line.
type Item struct {
	ID       id.ID `db:"id" json:"id"`
	TenantID id.ID `db:"tenant_id" json:"tenantId"`
	BatchID  id.ID `db:"batch_id" json:"batchId"`

	ProductID id.ID          `db:"product_id" json:"productId"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
}

// Validate checks document invariants.
func (b *Batch) Validate(ctx context.Context) error {
	if len(b.Items) == 0 {
		return apperror.NewValidation("batch requires at least one item")
	}
	for i := range b.Items {
		if id.IsNil(b.Items[i].ProductID) {
			return apperror.NewValidation("item product is required").
				WithDetail("index", i)
		}
		if !b.Items[i].Quantity.IsPositive() {
			return apperror.NewValidation("item quantity must be positive").
				WithDetail("index", i)
		}
	}
	return nil
}
