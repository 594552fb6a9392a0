// Package catalog_repo provides PostgreSQL implementations for
// catalog repositories. All tables carry a tenant_id column; every
// query is scoped to the tenant taken from the request context.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/appctx"
	"sweetflow/internal/core/id"
	"sweetflow/internal/infrastructure/storage/postgres"
)

// baseRepo holds what every catalog repo needs: the transaction
// manager, the table, and the column list derived from db tags.
type baseRepo struct {
	txm        *postgres.TxManager
	tableName  string
	selectCols []string
}

func newBaseRepo(txm *postgres.TxManager, tableName string, selectCols []string) baseRepo {
	return baseRepo{txm: txm, tableName: tableName, selectCols: selectCols}
}

// builder returns a squirrel builder with PostgreSQL placeholders.
func (r *baseRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// baseSelect creates a tenant-scoped SELECT builder.
func (r *baseRepo) baseSelect(ctx context.Context) squirrel.SelectBuilder {
	return r.builder().
		Select(r.selectCols...).
		From(r.tableName).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)})
}

// insert builds and executes an INSERT from the entity's db tags.
func (r *baseRepo) insert(ctx context.Context, entity any) error {
	data := postgres.StructToMap(entity)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	sql, args, err := r.builder().
		Insert(r.tableName).
		SetMap(data).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", r.tableName, err)
	}
	return nil
}

// update builds and executes a tenant-scoped UPDATE of all columns.
func (r *baseRepo) update(ctx context.Context, entity any, entityID id.ID) error {
	data := postgres.StructToMap(entity)
	delete(data, "id")
	delete(data, "tenant_id")
	delete(data, "created_at")

	sql, args, err := r.builder().
		Update(r.tableName).
		SetMap(data).
		Where(squirrel.Eq{"id": entityID}).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.tableName, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.tableName, entityID.String())
	}
	return nil
}

// getByID loads one row into dest.
func (r *baseRepo) getByID(ctx context.Context, dest any, entityID id.ID) error {
	sql, args, err := r.baseSelect(ctx).
		Where(squirrel.Eq{"id": entityID}).
		Limit(1).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), dest, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return apperror.NewNotFound(r.tableName, entityID.String())
		}
		return fmt.Errorf("get by id: %w", err)
	}
	return nil
}

// setActive flips the is_active flag.
func (r *baseRepo) setActive(ctx context.Context, entityID id.ID, active bool) error {
	sql, args, err := r.builder().
		Update(r.tableName).
		Set("is_active", active).
		Where(squirrel.Eq{"id": entityID}).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.tableName, entityID.String())
	}
	return nil
}
