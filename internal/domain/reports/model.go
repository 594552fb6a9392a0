package reports

import (
	"time"

	"sweetflow/internal/core/id"
	"sweetflow/internal/core/types"
)

// Counts are tenant-wide entity totals, never period-filtered.
type Counts struct {
	Branches int `db:"branches" json:"branches"`
	Outlets  int `db:"outlets" json:"outlets"`
	Users    int `db:"users" json:"users"`
	Products int `db:"products" json:"products"`
}

// SalesTotals is the period sales roll-up.
type SalesTotals struct {
	Amount types.MinorUnits `db:"amount" json:"amount"`
	Count  int              `db:"count" json:"count"`
}

// TopProduct is one row of the top-sold list.
type TopProduct struct {
	ProductID   id.ID            `db:"product_id" json:"productId"`
	ProductName string           `db:"product_name" json:"productName"`
	Quantity    types.Quantity   `db:"quantity" json:"quantity"`
	Amount      types.MinorUnits `db:"amount" json:"amount"`
}

// DailySales is one day of the month-grained trend series.
type DailySales struct {
	Date   time.Time        `db:"date" json:"date"`
	Amount types.MinorUnits `db:"amount" json:"amount"`
	Count  int              `db:"count" json:"count"`
}

// ExpenseByType is the expense breakdown per category.
type ExpenseByType struct {
	ExpenseType string           `db:"expense_type" json:"expenseType"`
	Amount      types.MinorUnits `db:"amount" json:"amount"`
}

// ProductionTotals is the period production roll-up.
type ProductionTotals struct {
	Batches  int            `db:"batches" json:"batches"`
	Quantity types.Quantity `db:"quantity" json:"quantity"`
}

// ProductionByProduct is the per-product production breakdown.
type ProductionByProduct struct {
	ProductID   id.ID          `db:"product_id" json:"productId"`
	ProductName string         `db:"product_name" json:"productName"`
	Quantity    types.Quantity `db:"quantity" json:"quantity"`
}

// BranchAmount is a generic per-branch money figure.
type BranchAmount struct {
	BranchID   id.ID            `db:"branch_id" json:"branchId"`
	BranchName string           `db:"branch_name" json:"branchName"`
	Amount     types.MinorUnits `db:"amount" json:"amount"`
}

// ProductAmount is a generic per-product money figure.
type ProductAmount struct {
	ProductID   id.ID            `db:"product_id" json:"productId"`
	ProductName string           `db:"product_name" json:"productName"`
	Amount      types.MinorUnits `db:"amount" json:"amount"`
}

// AllTimeTotals feed the debt figure. These are never period-filtered:
// debt is a running balance-sheet number since tenant inception.
type AllTimeTotals struct {
	Sales           types.MinorUnits `db:"sales" json:"sales"`
	OutletTransfers types.MinorUnits `db:"outlet_transfers" json:"outletTransfers"`
	Returns         types.MinorUnits `db:"returns" json:"returns"`
	CashEntries     types.MinorUnits `db:"cash_entries" json:"cashEntries"`
}

// Debts is the uncollected-receivables figure derived from AllTimeTotals.
func (t AllTimeTotals) Debts() types.MinorUnits {
	return t.Sales + t.OutletTransfers - t.Returns - t.CashEntries
}

// Overview is the full report snapshot: one period parameter, many
// aggregates, all describing the same window except the fields
// documented as all-time or month-grained.
type Overview struct {
	Period Period `json:"-"`
	Mode   Mode   `json:"mode"`
	Date   string `json:"date"`

	Counts Counts `json:"counts"`

	Sales        SalesTotals  `json:"sales"`
	TopProducts  []TopProduct `json:"topProducts"`
	DailySales   []DailySales `json:"dailySales"` // always the full calendar month
	SalesByBranch []BranchAmount `json:"salesByBranch"`

	ExpensesTotal  types.MinorUnits `json:"expensesTotal"`
	ExpensesByType []ExpenseByType  `json:"expensesByType"`

	Production          ProductionTotals      `json:"production"`
	ProductionByProduct []ProductionByProduct `json:"productionByProduct"`

	OutletTransfersTotal    types.MinorUnits `json:"outletTransfersTotal"`
	OutletTransfersByBranch []BranchAmount   `json:"outletTransfersByBranch"`

	ReturnsTotal     types.MinorUnits `json:"returnsTotal"`
	ReturnsByProduct []ProductAmount  `json:"returnsByProduct"`
	ReturnsByBranch  []BranchAmount   `json:"returnsByBranch"`

	CashEntriesTotal    types.MinorUnits `json:"cashEntriesTotal"`
	CashEntriesByBranch []BranchAmount   `json:"cashEntriesByBranch"`

	// DebtsAmount is all-time and must not move when mode/date change.
	DebtsAmount types.MinorUnits `json:"debtsAmount"`
	Profit      types.MinorUnits `json:"profit"`
}
