package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweetflow/internal/core/clock"
	"sweetflow/internal/core/types"
)

type datedAmount struct {
	date   time.Time
	amount types.MinorUnits
}

func sumWithin(p Period, rows []datedAmount) types.MinorUnits {
	var total types.MinorUnits
	for _, r := range rows {
		if p.Contains(r.date) {
			total += r.amount
		}
	}
	return total
}

// fakeOverviewRepo answers period-scoped aggregates from dated rows and
// the all-time totals from a fixed value, so the two stay visibly apart.
type fakeOverviewRepo struct {
	sales       []datedAmount
	expenses    []datedAmount
	transfers   []datedAmount
	returned    []datedAmount
	cashEntries []datedAmount
	allTime     AllTimeTotals

	dailySalesPeriod Period
}

var _ Repository = (*fakeOverviewRepo)(nil)

func (r *fakeOverviewRepo) Counts(ctx context.Context) (Counts, error) {
	return Counts{Branches: 2, Outlets: 1, Users: 3, Products: 4}, nil
}

func (r *fakeOverviewRepo) SalesTotals(ctx context.Context, p Period) (SalesTotals, error) {
	return SalesTotals{Amount: sumWithin(p, r.sales)}, nil
}

func (r *fakeOverviewRepo) TopProducts(ctx context.Context, p Period, limit int) ([]TopProduct, error) {
	return nil, nil
}

func (r *fakeOverviewRepo) DailySales(ctx context.Context, p Period) ([]DailySales, error) {
	r.dailySalesPeriod = p
	return nil, nil
}

func (r *fakeOverviewRepo) SalesByBranch(ctx context.Context, p Period) ([]BranchAmount, error) {
	return nil, nil
}

func (r *fakeOverviewRepo) ExpenseTotals(ctx context.Context, p Period) ([]ExpenseByType, error) {
	return []ExpenseByType{{ExpenseType: "RENT", Amount: sumWithin(p, r.expenses)}}, nil
}

func (r *fakeOverviewRepo) ProductionTotals(ctx context.Context, p Period) (ProductionTotals, error) {
	return ProductionTotals{}, nil
}

func (r *fakeOverviewRepo) ProductionByProduct(ctx context.Context, p Period) ([]ProductionByProduct, error) {
	return nil, nil
}

func (r *fakeOverviewRepo) OutletTransferRevenue(ctx context.Context, p Period) ([]BranchAmount, error) {
	return []BranchAmount{{BranchName: "Kiosk", Amount: sumWithin(p, r.transfers)}}, nil
}

func (r *fakeOverviewRepo) ReturnsByProduct(ctx context.Context, p Period) ([]ProductAmount, error) {
	return []ProductAmount{{ProductName: "Napoleon", Amount: sumWithin(p, r.returned)}}, nil
}

func (r *fakeOverviewRepo) ReturnsByBranch(ctx context.Context, p Period) ([]BranchAmount, error) {
	return nil, nil
}

func (r *fakeOverviewRepo) CashEntriesByBranch(ctx context.Context, p Period) ([]BranchAmount, error) {
	return []BranchAmount{{BranchName: "Chilonzor", Amount: sumWithin(p, r.cashEntries)}}, nil
}

func (r *fakeOverviewRepo) AllTime(ctx context.Context) (AllTimeTotals, error) {
	return r.allTime, nil
}

func overviewFixture() (*Service, *fakeOverviewRepo) {
	repo := &fakeOverviewRepo{
		sales: []datedAmount{
			{date("2025-06-10"), 40_000},
			{date("2025-06-07"), 25_000},  // inside the trailing week only
			{date("2025-06-01"), 60_000},  // inside the month only
			{date("2025-02-01"), 100_000}, // inside the year only
		},
		expenses:    []datedAmount{{date("2025-06-10"), 12_000}},
		transfers:   []datedAmount{{date("2025-06-10"), 30_000}},
		returned:    []datedAmount{{date("2025-06-10"), 5_000}},
		cashEntries: []datedAmount{{date("2025-06-10"), 7_000}},
		allTime: AllTimeTotals{
			Sales:           100_000,
			OutletTransfers: 30_000,
			Returns:         10_000,
			CashEntries:     50_000,
		},
	}
	return NewService(repo, clock.At("2025-06-10")), repo
}

func TestOverview_DebtsAmountIgnoresPeriod(t *testing.T) {
	svc, _ := overviewFixture()

	salesByMode := map[Mode]types.MinorUnits{}
	for _, mode := range []Mode{ModeDay, ModeWeek, ModeMonth, ModeYear} {
		p, err := svc.Period(string(mode), "2025-06-10")
		require.NoError(t, err)

		o, err := svc.Overview(context.Background(), p)
		require.NoError(t, err)

		// 100000 sales + 30000 outlet transfers - 10000 returns - 50000 cash entries
		assert.Equal(t, types.MinorUnits(70_000), o.DebtsAmount, "mode %s", mode)
		salesByMode[mode] = o.Sales.Amount
	}

	// The period figures do move with the mode; debt never does.
	assert.Equal(t, types.MinorUnits(40_000), salesByMode[ModeDay])
	assert.Equal(t, types.MinorUnits(65_000), salesByMode[ModeWeek])
	assert.Equal(t, types.MinorUnits(125_000), salesByMode[ModeMonth])
	assert.Equal(t, types.MinorUnits(225_000), salesByMode[ModeYear])
}

func TestOverview_ProfitUsesPeriodFigures(t *testing.T) {
	svc, _ := overviewFixture()

	p, err := svc.Period("day", "2025-06-10")
	require.NoError(t, err)

	o, err := svc.Overview(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, types.MinorUnits(30_000), o.OutletTransfersTotal)
	assert.Equal(t, types.MinorUnits(12_000), o.ExpensesTotal)
	assert.Equal(t, types.MinorUnits(5_000), o.ReturnsTotal)
	assert.Equal(t, types.MinorUnits(7_000), o.CashEntriesTotal)
	// sales + outlet transfers - expenses - returns
	assert.Equal(t, types.MinorUnits(40_000+30_000-12_000-5_000), o.Profit)
}

func TestOverview_DailySalesAlwaysMonthGrained(t *testing.T) {
	svc, repo := overviewFixture()

	p, err := svc.Period("day", "2025-06-10")
	require.NoError(t, err)

	_, err = svc.Overview(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, ModeMonth, repo.dailySalesPeriod.Mode)
}

func TestAllTimeTotals_Debts(t *testing.T) {
	totals := AllTimeTotals{Sales: 100_000, OutletTransfers: 30_000, Returns: 10_000, CashEntries: 50_000}
	assert.Equal(t, types.MinorUnits(70_000), totals.Debts())
}
