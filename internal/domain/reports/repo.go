package reports

import "context"

// Repository provides the read-side aggregates behind a snapshot.
// Every period-scoped method receives the same Period value so one
// snapshot describes one window.
type Repository interface {
	Counts(ctx context.Context) (Counts, error)

	SalesTotals(ctx context.Context, p Period) (SalesTotals, error)
	TopProducts(ctx context.Context, p Period, limit int) ([]TopProduct, error)
	DailySales(ctx context.Context, p Period) ([]DailySales, error)
	SalesByBranch(ctx context.Context, p Period) ([]BranchAmount, error)

	ExpenseTotals(ctx context.Context, p Period) ([]ExpenseByType, error)

	ProductionTotals(ctx context.Context, p Period) (ProductionTotals, error)
	ProductionByProduct(ctx context.Context, p Period) ([]ProductionByProduct, error)

	// OutletTransferRevenue sums accepted transfer items destined for
	// outlet branches, valued at the captured unit value.
	OutletTransferRevenue(ctx context.Context, p Period) ([]BranchAmount, error)

	ReturnsByProduct(ctx context.Context, p Period) ([]ProductAmount, error)
	ReturnsByBranch(ctx context.Context, p Period) ([]BranchAmount, error)

	CashEntriesByBranch(ctx context.Context, p Period) ([]BranchAmount, error)

	// AllTime computes the debt inputs with no period filter.
	AllTime(ctx context.Context) (AllTimeTotals, error)
}
