// Package register_repo provides PostgreSQL implementations for the
// append-only registers: the stock movement ledger, the derived stock
// view, and the cash ledger.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"sweetflow/internal/core/appctx"
	"sweetflow/internal/core/id"
	"sweetflow/internal/domain/ledger"
	"sweetflow/internal/infrastructure/storage/postgres"
)

const movementTable = "stock_movements"

// MovementRepo implements ledger.Repository.
type MovementRepo struct {
	txm  *postgres.TxManager
	cols []string
}

var _ ledger.Repository = (*MovementRepo)(nil)

// NewMovementRepo creates a new movement repository.
func NewMovementRepo(txm *postgres.TxManager) *MovementRepo {
	return &MovementRepo{
		txm:  txm,
		cols: postgres.ExtractDBColumns[ledger.Movement](),
	}
}

func (r *MovementRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Append batch-inserts movements in one statement.
func (r *MovementRepo) Append(ctx context.Context, movements []ledger.Movement) error {
	if len(movements) == 0 {
		return nil
	}

	q := r.builder().
		Insert(movementTable).
		Columns(r.cols...)
	for i := range movements {
		data := postgres.StructToMap(&movements[i])
		row := make([]any, 0, len(r.cols))
		for _, col := range r.cols {
			row = append(row, data[col])
		}
		q = q.Values(row...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}
	return nil
}

// DeleteBySource removes all movements of a source document.
func (r *MovementRepo) DeleteBySource(ctx context.Context, source ledger.SourceType, sourceID id.ID) error {
	sql, args, err := r.builder().
		Delete(movementTable).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		Where(squirrel.Eq{"source_type": source}).
		Where(squirrel.Eq{"source_id": sourceID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}
	return nil
}

// ListBySource retrieves a source document's movements, oldest first.
func (r *MovementRepo) ListBySource(ctx context.Context, source ledger.SourceType, sourceID id.ID) ([]ledger.Movement, error) {
	sql, args, err := r.builder().
		Select(r.cols...).
		From(movementTable).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		Where(squirrel.Eq{"source_type": source}).
		Where(squirrel.Eq{"source_id": sourceID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []ledger.Movement
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return items, nil
}
