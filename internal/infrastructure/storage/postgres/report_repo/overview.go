// Package report_repo provides the PostgreSQL read side for report
// snapshots. Every period-scoped query applies the same Period
// predicate; the all-time debt inputs deliberately never do.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"sweetflow/internal/core/appctx"
	"sweetflow/internal/domain/reports"
	"sweetflow/internal/infrastructure/storage/postgres"
)

// lineValueExpr totals document lines in minor units. Quantities carry
// four decimal places, so the whole sum is divided once and rounded
// half-up, the same rounding sale line amounts get. Dividing per row
// would truncate each line and drift from the sales figures.
func lineValueExpr(qty, unitValue string) string {
	return "COALESCE(ROUND(SUM(" + qty + " * " + unitValue + ")::numeric / 10000), 0)::bigint"
}

// OverviewRepo implements reports.Repository.
type OverviewRepo struct {
	txm *postgres.TxManager
}

var _ reports.Repository = (*OverviewRepo)(nil)

// NewOverviewRepo creates a new overview repository.
func NewOverviewRepo(txm *postgres.TxManager) *OverviewRepo {
	return &OverviewRepo{txm: txm}
}

func (r *OverviewRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Counts returns tenant-wide entity totals.
func (r *OverviewRepo) Counts(ctx context.Context) (reports.Counts, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM branches WHERE tenant_id = $1 AND is_active AND branch_type = 'BRANCH') AS branches,
			(SELECT COUNT(*) FROM branches WHERE tenant_id = $1 AND is_active AND branch_type = 'OUTLET') AS outlets,
			(SELECT COUNT(*) FROM users WHERE tenant_id = $1 AND is_active) AS users,
			(SELECT COUNT(*) FROM products WHERE tenant_id = $1 AND is_active) AS products`

	var c reports.Counts
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, query, appctx.GetTenantID(ctx)).
		Scan(&c.Branches, &c.Outlets, &c.Users, &c.Products)
	if err != nil {
		return reports.Counts{}, fmt.Errorf("counts: %w", err)
	}
	return c, nil
}

// SalesTotals sums period sales.
func (r *OverviewRepo) SalesTotals(ctx context.Context, p reports.Period) (reports.SalesTotals, error) {
	sql, args, err := r.builder().
		Select("COALESCE(SUM(total_amount), 0)::bigint AS amount", "COUNT(*) AS count").
		From("sales").
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		Where(p.Predicate("sale_date")).
		ToSql()
	if err != nil {
		return reports.SalesTotals{}, fmt.Errorf("build query: %w", err)
	}

	var t reports.SalesTotals
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&t.Amount, &t.Count); err != nil {
		return reports.SalesTotals{}, fmt.Errorf("sales totals: %w", err)
	}
	return t, nil
}

// TopProducts returns the best sellers by quantity.
func (r *OverviewRepo) TopProducts(ctx context.Context, p reports.Period, limit int) ([]reports.TopProduct, error) {
	sql, args, err := r.builder().
		Select(
			"si.product_id",
			"pr.name AS product_name",
			"SUM(si.quantity)::bigint AS quantity",
			"COALESCE(SUM(si.amount), 0)::bigint AS amount",
		).
		From("sale_items si").
		Join("sales s ON s.id = si.sale_id").
		Join("products pr ON pr.id = si.product_id").
		Where(squirrel.Eq{"s.tenant_id": appctx.GetTenantID(ctx)}).
		Where(p.Predicate("s.sale_date")).
		GroupBy("si.product_id", "pr.name").
		OrderBy("quantity DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.TopProduct
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	return rows, nil
}

// DailySales returns the per-day series for the given period (the
// service always passes a month-grained period here).
func (r *OverviewRepo) DailySales(ctx context.Context, p reports.Period) ([]reports.DailySales, error) {
	sql, args, err := r.builder().
		Select(
			"date_trunc('day', sale_date) AS date",
			"COALESCE(SUM(total_amount), 0)::bigint AS amount",
			"COUNT(*) AS count",
		).
		From("sales").
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		Where(p.Predicate("sale_date")).
		GroupBy("date_trunc('day', sale_date)").
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.DailySales
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("daily sales: %w", err)
	}
	return rows, nil
}

// SalesByBranch breaks period sales down per branch.
func (r *OverviewRepo) SalesByBranch(ctx context.Context, p reports.Period) ([]reports.BranchAmount, error) {
	sql, args, err := r.builder().
		Select(
			"s.branch_id",
			"b.name AS branch_name",
			"COALESCE(SUM(s.total_amount), 0)::bigint AS amount",
		).
		From("sales s").
		Join("branches b ON b.id = s.branch_id").
		Where(squirrel.Eq{"s.tenant_id": appctx.GetTenantID(ctx)}).
		Where(p.Predicate("s.sale_date")).
		GroupBy("s.branch_id", "b.name").
		OrderBy("b.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.BranchAmount
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("sales by branch: %w", err)
	}
	return rows, nil
}

// ExpenseTotals breaks period expenses down by type.
func (r *OverviewRepo) ExpenseTotals(ctx context.Context, p reports.Period) ([]reports.ExpenseByType, error) {
	sql, args, err := r.builder().
		Select("expense_type", "COALESCE(SUM(amount), 0)::bigint AS amount").
		From("expenses").
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		Where(p.Predicate("expense_date")).
		GroupBy("expense_type").
		OrderBy("amount DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.ExpenseByType
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("expense totals: %w", err)
	}
	return rows, nil
}

// ProductionTotals sums period production.
func (r *OverviewRepo) ProductionTotals(ctx context.Context, p reports.Period) (reports.ProductionTotals, error) {
	sql, args, err := r.builder().
		Select(
			"COUNT(DISTINCT pb.id) AS batches",
			"COALESCE(SUM(pi.quantity), 0)::bigint AS quantity",
		).
		From("production_batches pb").
		LeftJoin("production_items pi ON pi.batch_id = pb.id").
		Where(squirrel.Eq{"pb.tenant_id": appctx.GetTenantID(ctx)}).
		Where(p.Predicate("pb.production_date")).
		ToSql()
	if err != nil {
		return reports.ProductionTotals{}, fmt.Errorf("build query: %w", err)
	}

	var t reports.ProductionTotals
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&t.Batches, &t.Quantity); err != nil {
		return reports.ProductionTotals{}, fmt.Errorf("production totals: %w", err)
	}
	return t, nil
}

// ProductionByProduct breaks period production down per product.
func (r *OverviewRepo) ProductionByProduct(ctx context.Context, p reports.Period) ([]reports.ProductionByProduct, error) {
	sql, args, err := r.builder().
		Select(
			"pi.product_id",
			"pr.name AS product_name",
			"SUM(pi.quantity)::bigint AS quantity",
		).
		From("production_items pi").
		Join("production_batches pb ON pb.id = pi.batch_id").
		Join("products pr ON pr.id = pi.product_id").
		Where(squirrel.Eq{"pb.tenant_id": appctx.GetTenantID(ctx)}).
		Where(p.Predicate("pb.production_date")).
		GroupBy("pi.product_id", "pr.name").
		OrderBy("quantity DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.ProductionByProduct
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("production by product: %w", err)
	}
	return rows, nil
}

// OutletTransferRevenue values accepted transfer items sent to outlet
// branches, per destination branch.
func (r *OverviewRepo) OutletTransferRevenue(ctx context.Context, p reports.Period) ([]reports.BranchAmount, error) {
	sql, args, err := r.builder().
		Select(
			"t.to_branch_id AS branch_id",
			"b.name AS branch_name",
			lineValueExpr("ti.quantity", "ti.unit_value")+" AS amount",
		).
		From("transfer_items ti").
		Join("transfers t ON t.id = ti.transfer_id").
		Join("branches b ON b.id = t.to_branch_id").
		Where(squirrel.Eq{"t.tenant_id": appctx.GetTenantID(ctx)}).
		Where(squirrel.Eq{"ti.status": "ACCEPTED"}).
		Where(squirrel.Eq{"b.branch_type": "OUTLET"}).
		Where(p.Predicate("t.transfer_date")).
		GroupBy("t.to_branch_id", "b.name").
		OrderBy("b.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.BranchAmount
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("outlet transfer revenue: %w", err)
	}
	return rows, nil
}

// ReturnsByProduct values accepted period returns per product.
func (r *OverviewRepo) ReturnsByProduct(ctx context.Context, p reports.Period) ([]reports.ProductAmount, error) {
	sql, args, err := r.builder().
		Select(
			"ri.product_id",
			"pr.name AS product_name",
			lineValueExpr("ri.quantity", "ri.unit_value")+" AS amount",
		).
		From("return_items ri").
		Join("returns rt ON rt.id = ri.return_id").
		Join("products pr ON pr.id = ri.product_id").
		Where(squirrel.Eq{"rt.tenant_id": appctx.GetTenantID(ctx)}).
		Where(squirrel.Eq{"ri.status": "ACCEPTED"}).
		Where(p.Predicate("rt.return_date")).
		GroupBy("ri.product_id", "pr.name").
		OrderBy("amount DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.ProductAmount
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("returns by product: %w", err)
	}
	return rows, nil
}

// ReturnsByBranch values accepted period returns per branch. Returns
// without a branch fall out of this breakdown but still count in the
// global figure built from the per-product rows.
func (r *OverviewRepo) ReturnsByBranch(ctx context.Context, p reports.Period) ([]reports.BranchAmount, error) {
	sql, args, err := r.builder().
		Select(
			"rt.branch_id",
			"b.name AS branch_name",
			lineValueExpr("ri.quantity", "ri.unit_value")+" AS amount",
		).
		From("return_items ri").
		Join("returns rt ON rt.id = ri.return_id").
		Join("branches b ON b.id = rt.branch_id").
		Where(squirrel.Eq{"rt.tenant_id": appctx.GetTenantID(ctx)}).
		Where(squirrel.Eq{"ri.status": "ACCEPTED"}).
		Where(p.Predicate("rt.return_date")).
		GroupBy("rt.branch_id", "b.name").
		OrderBy("b.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.BranchAmount
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("returns by branch: %w", err)
	}
	return rows, nil
}

// CashEntriesByBranch sums signed period cash entries per branch.
func (r *OverviewRepo) CashEntriesByBranch(ctx context.Context, p reports.Period) ([]reports.BranchAmount, error) {
	sql, args, err := r.builder().
		Select(
			"ce.branch_id",
			"b.name AS branch_name",
			"COALESCE(SUM(ce.amount), 0)::bigint AS amount",
		).
		From("cash_entries ce").
		Join("branches b ON b.id = ce.branch_id").
		Where(squirrel.Eq{"ce.tenant_id": appctx.GetTenantID(ctx)}).
		Where(p.Predicate("ce.cash_date")).
		GroupBy("ce.branch_id", "b.name").
		OrderBy("b.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.BranchAmount
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("cash entries by branch: %w", err)
	}
	return rows, nil
}

// allTimeQuery computes the debt inputs since tenant inception. No
// period predicate here: debt is a running balance-sheet figure.
var allTimeQuery = `
	SELECT
		(SELECT COALESCE(SUM(total_amount), 0) FROM sales WHERE tenant_id = $1)::bigint AS sales,
		(SELECT ` + lineValueExpr("ti.quantity", "ti.unit_value") + `
		   FROM transfer_items ti
		   JOIN transfers t ON t.id = ti.transfer_id
		   JOIN branches b ON b.id = t.to_branch_id
		  WHERE t.tenant_id = $1 AND ti.status = 'ACCEPTED' AND b.branch_type = 'OUTLET') AS outlet_transfers,
		(SELECT ` + lineValueExpr("ri.quantity", "ri.unit_value") + `
		   FROM return_items ri
		   JOIN returns rt ON rt.id = ri.return_id
		  WHERE rt.tenant_id = $1 AND ri.status = 'ACCEPTED') AS returns,
		(SELECT COALESCE(SUM(amount), 0) FROM cash_entries WHERE tenant_id = $1)::bigint AS cash_entries`

// AllTime runs allTimeQuery for the calling tenant.
func (r *OverviewRepo) AllTime(ctx context.Context) (reports.AllTimeTotals, error) {
	var t reports.AllTimeTotals
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, allTimeQuery, appctx.GetTenantID(ctx)).
		Scan(&t.Sales, &t.OutletTransfers, &t.Returns, &t.CashEntries)
	if err != nil {
		return reports.AllTimeTotals{}, fmt.Errorf("all-time totals: %w", err)
	}
	return t, nil
}
