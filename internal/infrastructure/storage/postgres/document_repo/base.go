// Package document_repo provides PostgreSQL implementations for
// document repositories (transfers, returns, production, sales,
// expenses). Documents are header rows plus line-item rows; multi-row
// writes rely on the caller's transaction.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"sweetflow/internal/infrastructure/storage/postgres"
)

type baseRepo struct {
	txm *postgres.TxManager
}

func (r *baseRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// insertRow inserts one entity using its db tags.
func (r *baseRepo) insertRow(ctx context.Context, table string, entity any) error {
	sql, args, err := r.builder().
		Insert(table).
		SetMap(postgres.StructToMap(entity)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// insertRows batch-inserts entities sharing one column set.
func (r *baseRepo) insertRows(ctx context.Context, table string, cols []string, entities []any) error {
	if len(entities) == 0 {
		return nil
	}

	q := r.builder().Insert(table).Columns(cols...)
	for _, e := range entities {
		data := postgres.StructToMap(e)
		row := make([]any, 0, len(cols))
		for _, col := range cols {
			row = append(row, data[col])
		}
		q = q.Values(row...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}
