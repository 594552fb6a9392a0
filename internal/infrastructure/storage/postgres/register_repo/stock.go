package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"sweetflow/internal/core/appctx"
	"sweetflow/internal/core/id"
	"sweetflow/internal/domain/warehouse"
	"sweetflow/internal/infrastructure/storage/postgres"
)

// logicalBranchExpr routes a movement to its pooled location: central
// (NULL) when the row has no branch, or when the owning branch is an
// outlet or linked to central stock. Evaluated per query so the routing
// always reflects the current branch configuration.
const logicalBranchExpr = "CASE WHEN m.branch_id IS NULL" +
	" OR ob.branch_type = 'OUTLET'" +
	" OR ob.use_central_stock" +
	" THEN NULL ELSE m.branch_id END"

// signedSumExpr folds movement direction into the quantity sum.
const signedSumExpr = "SUM(CASE WHEN m.movement_type = 'OUT'" +
	" THEN -m.quantity ELSE m.quantity END)::bigint"

// StockRepo implements warehouse.Repository by replaying the ledger.
type StockRepo struct {
	txm *postgres.TxManager
}

var _ warehouse.Repository = (*StockRepo)(nil)

// NewStockRepo creates a new stock repository.
func NewStockRepo(txm *postgres.TxManager) *StockRepo {
	return &StockRepo{txm: txm}
}

// stockQuery builds the derived-stock query for a tenant and a
// pre-resolved logical filter.
func stockQuery(tenantID id.ID, filter warehouse.LogicalFilter) (string, []any, error) {
	q := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select(
			"m.product_id",
			"p.name AS product_name",
			"p.unit",
			logicalBranchExpr+" AS branch_id",
			"COALESCE(b.name, '') AS branch_name",
			signedSumExpr+" AS quantity",
		).
		From(movementTable + " m").
		Join("products p ON p.id = m.product_id").
		LeftJoin("branches ob ON ob.id = m.branch_id").
		LeftJoin("branches b ON b.id = " + logicalBranchExpr).
		Where(squirrel.Eq{"m.tenant_id": tenantID}).
		GroupBy("m.product_id", "p.name", "p.unit", logicalBranchExpr, "b.name").
		Having(signedSumExpr + " <> 0").
		OrderBy("p.name ASC", "branch_name ASC")

	switch filter.Kind {
	case warehouse.FilterCentralOnly:
		q = q.Where(squirrel.Expr(logicalBranchExpr + " IS NULL"))
	case warehouse.FilterBranchOnly:
		q = q.Where(squirrel.Expr(logicalBranchExpr+" = ?", filter.BranchID))
	}

	return q.ToSql()
}

// CurrentStock sums signed quantities per (product, logical location),
// dropping exact-zero rows.
func (r *StockRepo) CurrentStock(ctx context.Context, filter warehouse.LogicalFilter) ([]warehouse.StockRow, error) {
	sql, args, err := stockQuery(appctx.GetTenantID(ctx), filter)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []warehouse.StockRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("current stock: %w", err)
	}
	return rows, nil
}
