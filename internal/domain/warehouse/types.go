// Package warehouse computes current stock from the movement ledger.
//
// Nothing here writes stock: levels are derived per request by replaying
// the ledger and routing every movement to a logical location with the
// pooling rule (central vs. per-branch vs. outlet-pooled-to-central).
package warehouse

import (
	"context"

	"sweetflow/internal/core/id"
	"sweetflow/internal/core/types"
)

// SelectorKind picks which logical locations a stock query covers.
type SelectorKind int

const (
	// SelectAll returns every logical location with non-zero stock.
	SelectAll SelectorKind = iota
	// SelectCentral returns only the central pool.
	SelectCentral
	// SelectBranch returns one branch's own pool; branches pooled to
	// central transparently resolve to the central pool, unknown
	// branches resolve to nothing.
	SelectBranch
)

// Selector identifies the requested logical location(s).
type Selector struct {
	Kind     SelectorKind
	BranchID id.ID // set when Kind == SelectBranch
}

// All selects every logical location.
func All() Selector { return Selector{Kind: SelectAll} }

// Central selects the central pool only.
func Central() Selector { return Selector{Kind: SelectCentral} }

// Branch selects one branch's pool.
func Branch(branchID id.ID) Selector {
	return Selector{Kind: SelectBranch, BranchID: branchID}
}

// StockRow is one (product, logical location) balance.
type StockRow struct {
	ProductID   id.ID          `db:"product_id" json:"productId"`
	ProductName string         `db:"product_name" json:"productName"`
	Unit        string         `db:"unit" json:"unit"`
	BranchID    *id.ID         `db:"branch_id" json:"branchId,omitempty"` // nil = central
	BranchName  string         `db:"branch_name" json:"branchName"`
	Quantity    types.Quantity `db:"quantity" json:"quantity"`
}

// Repository computes stock sums over the movement ledger.
type Repository interface {
	// CurrentStock sums signed quantities grouped by (product, logical
	// branch), drops exact-zero rows, and orders by product then
	// location name. The logical filter is pre-resolved by the service.
	CurrentStock(ctx context.Context, filter LogicalFilter) ([]StockRow, error)
}

// LogicalFilterKind mirrors SelectorKind after pooling resolution.
type LogicalFilterKind int

const (
	FilterAll LogicalFilterKind = iota
	FilterCentralOnly
	FilterBranchOnly
	// FilterNone yields an empty result: the selector named a branch
	// that does not exist. Distinguishes "no location" from "location
	// with zero stock".
	FilterNone
)

// LogicalFilter is the pooled-location predicate handed to the repository.
type LogicalFilter struct {
	Kind     LogicalFilterKind
	BranchID id.ID // set when Kind == FilterBranchOnly
}
