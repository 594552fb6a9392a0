package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"sweetflow/internal/core/appctx"
	"sweetflow/internal/core/id"
	"sweetflow/internal/domain/cash"
	"sweetflow/internal/domain/reports"
	"sweetflow/internal/infrastructure/storage/postgres"
)

const cashTable = "cash_entries"

// CashRepo implements cash.Repository.
type CashRepo struct {
	txm  *postgres.TxManager
	cols []string
}

var _ cash.Repository = (*CashRepo)(nil)

// NewCashRepo creates a new cash repository.
func NewCashRepo(txm *postgres.TxManager) *CashRepo {
	return &CashRepo{
		txm:  txm,
		cols: postgres.ExtractDBColumns[cash.Entry](),
	}
}

func (r *CashRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Append inserts one signed entry.
func (r *CashRepo) Append(ctx context.Context, e *cash.Entry) error {
	sql, args, err := r.builder().
		Insert(cashTable).
		SetMap(postgres.StructToMap(e)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert cash entry: %w", err)
	}
	return nil
}

// listQuery builds the entry listing for a tenant. The branch type
// filter resolves against the branches catalog at query time, so a
// reconfigured branch retroactively moves its history.
func (r *CashRepo) listQuery(tenantID id.ID, filter cash.ListFilter) (string, []any, error) {
	q := r.builder().
		Select(r.cols...).
		From(cashTable).
		Where(squirrel.Eq{"tenant_id": tenantID})
	if filter.BranchID != nil {
		q = q.Where(squirrel.Eq{"branch_id": *filter.BranchID})
	}
	if filter.BranchType != nil {
		q = q.Where(squirrel.Expr(
			"branch_id IN (SELECT id FROM branches WHERE tenant_id = ? AND branch_type = ?)",
			tenantID, *filter.BranchType))
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"cash_date": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.Lt{"cash_date": *filter.To})
	}
	q = q.OrderBy("cash_date DESC", "created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}
	return q.ToSql()
}

// List retrieves entries matching the filter, newest first.
func (r *CashRepo) List(ctx context.Context, filter cash.ListFilter) ([]*cash.Entry, error) {
	sql, args, err := r.listQuery(appctx.GetTenantID(ctx), filter)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*cash.Entry
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list cash entries: %w", err)
	}
	return items, nil
}

// summarizeQuery builds the reconciliation query. The period binds only
// the FILTER clauses of the subtotal columns; the totals feeding
// current_amount carry no date predicate at all.
func summarizeQuery(tenantID id.ID, period reports.Period, filter cash.SummaryFilter) (string, []any) {
	from, to := period.Range()
	args := []any{tenantID, from, to}

	where := "b.tenant_id = $1"
	if filter.BranchType != nil {
		args = append(args, *filter.BranchType)
		where += fmt.Sprintf(" AND b.branch_type = $%d", len(args))
	}
	if filter.BranchID != nil {
		args = append(args, *filter.BranchID)
		where += fmt.Sprintf(" AND b.id = $%d", len(args))
	}

	query := `
		SELECT
			b.id AS branch_id,
			b.name AS branch_name,
			b.branch_type,
			COALESCE(s.total, 0) + COALESCE(c.total, 0) AS current_amount,
			COALESCE(s.period_amount, 0) AS sales_amount_period,
			COALESCE(c.in_period, 0) AS cash_in_period,
			COALESCE(c.out_period, 0) AS cash_out_period
		FROM branches b
		LEFT JOIN (
			SELECT branch_id,
				SUM(total_amount)::bigint AS total,
				COALESCE(SUM(total_amount) FILTER (WHERE sale_date >= $2 AND sale_date < $3), 0)::bigint AS period_amount
			FROM sales
			WHERE tenant_id = $1
			GROUP BY branch_id
		) s ON s.branch_id = b.id
		LEFT JOIN (
			SELECT branch_id,
				SUM(amount)::bigint AS total,
				COALESCE(SUM(amount) FILTER (WHERE amount > 0 AND cash_date >= $2 AND cash_date < $3), 0)::bigint AS in_period,
				COALESCE(SUM(-amount) FILTER (WHERE amount < 0 AND cash_date >= $2 AND cash_date < $3), 0)::bigint AS out_period
			FROM ` + cashTable + `
			WHERE tenant_id = $1
			GROUP BY branch_id
		) c ON c.branch_id = b.id
		WHERE ` + where + `
		  AND (s.branch_id IS NOT NULL OR c.branch_id IS NOT NULL)
		ORDER BY b.name ASC`

	return query, args
}

// Summarize computes per-branch reconciliation rows. current_amount is
// the all-time balance; the period only scopes the subtotal columns.
// Branches with neither sales nor cash history are omitted.
func (r *CashRepo) Summarize(ctx context.Context, period reports.Period, filter cash.SummaryFilter) ([]cash.BranchSummary, error) {
	query, args := summarizeQuery(appctx.GetTenantID(ctx), period, filter)

	var rows []cash.BranchSummary
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("summarize cash: %w", err)
	}
	return rows, nil
}
