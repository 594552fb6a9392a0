package reports

import (
	"context"
	"fmt"

	"sweetflow/internal/core/clock"
	"sweetflow/internal/core/types"
	"sweetflow/pkg/logger"
)

const topProductsLimit = 10

// Service assembles report snapshots.
type Service struct {
	repo Repository
	clk  clock.Clock
}

// NewService creates a new reports service.
func NewService(repo Repository, clk clock.Clock) *Service {
	return &Service{repo: repo, clk: clk}
}

// Period builds a Period from query values, defaulting the reference
// date to the injected clock.
func (s *Service) Period(mode, date string) (Period, error) {
	return ParsePeriod(mode, date, s.clk.Now())
}

// Overview computes the full snapshot for one period.
func (s *Service) Overview(ctx context.Context, p Period) (*Overview, error) {
	o := &Overview{
		Period: p,
		Mode:   p.Mode,
		Date:   p.Ref.Format("2006-01-02"),
	}

	var err error
	if o.Counts, err = s.repo.Counts(ctx); err != nil {
		return nil, fmt.Errorf("counts: %w", err)
	}
	if o.Sales, err = s.repo.SalesTotals(ctx, p); err != nil {
		return nil, fmt.Errorf("sales totals: %w", err)
	}
	if o.TopProducts, err = s.repo.TopProducts(ctx, p, topProductsLimit); err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	// The trend chart is always month-grained, whatever the mode.
	if o.DailySales, err = s.repo.DailySales(ctx, p.MonthOf()); err != nil {
		return nil, fmt.Errorf("daily sales: %w", err)
	}
	if o.SalesByBranch, err = s.repo.SalesByBranch(ctx, p); err != nil {
		return nil, fmt.Errorf("sales by branch: %w", err)
	}

	if o.ExpensesByType, err = s.repo.ExpenseTotals(ctx, p); err != nil {
		return nil, fmt.Errorf("expenses: %w", err)
	}
	for i := range o.ExpensesByType {
		o.ExpensesTotal += o.ExpensesByType[i].Amount
	}

	if o.Production, err = s.repo.ProductionTotals(ctx, p); err != nil {
		return nil, fmt.Errorf("production totals: %w", err)
	}
	if o.ProductionByProduct, err = s.repo.ProductionByProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("production by product: %w", err)
	}

	if o.OutletTransfersByBranch, err = s.repo.OutletTransferRevenue(ctx, p); err != nil {
		return nil, fmt.Errorf("outlet transfers: %w", err)
	}
	for i := range o.OutletTransfersByBranch {
		o.OutletTransfersTotal += o.OutletTransfersByBranch[i].Amount
	}

	if o.ReturnsByProduct, err = s.repo.ReturnsByProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("returns by product: %w", err)
	}
	if o.ReturnsByBranch, err = s.repo.ReturnsByBranch(ctx, p); err != nil {
		return nil, fmt.Errorf("returns by branch: %w", err)
	}
	for i := range o.ReturnsByProduct {
		o.ReturnsTotal += o.ReturnsByProduct[i].Amount
	}

	if o.CashEntriesByBranch, err = s.repo.CashEntriesByBranch(ctx, p); err != nil {
		return nil, fmt.Errorf("cash entries: %w", err)
	}
	for i := range o.CashEntriesByBranch {
		o.CashEntriesTotal += o.CashEntriesByBranch[i].Amount
	}

	allTime, err := s.repo.AllTime(ctx)
	if err != nil {
		return nil, fmt.Errorf("all-time totals: %w", err)
	}
	o.DebtsAmount = allTime.Debts()
	o.Profit = computeProfit(o)

	logger.Debug(ctx, "report snapshot built", "period", p.String())
	return o, nil
}

// computeProfit applies the period-scoped profit formula. Debt inputs
// are deliberately absent: they are all-time figures.
func computeProfit(o *Overview) types.MinorUnits {
	return o.Sales.Amount + o.OutletTransfersTotal - o.ExpensesTotal - o.ReturnsTotal
}
