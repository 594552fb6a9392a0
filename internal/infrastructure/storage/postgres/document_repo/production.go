package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/appctx"
	"sweetflow/internal/core/id"
	"sweetflow/internal/domain/production"
	"sweetflow/internal/infrastructure/storage/postgres"
)

const (
	batchTable     = "production_batches"
	batchItemTable = "production_items"
)

// ProductionRepo implements production.Repository.
type ProductionRepo struct {
	baseRepo
	headerCols []string
	itemCols   []string
}

var _ production.Repository = (*ProductionRepo)(nil)

// NewProductionRepo creates a new production repository.
func NewProductionRepo(txm *postgres.TxManager) *ProductionRepo {
	return &ProductionRepo{
		baseRepo:   baseRepo{txm: txm},
		headerCols: postgres.ExtractDBColumns[production.Batch](),
		itemCols:   postgres.ExtractDBColumns[production.Item](),
	}
}

// Create inserts the header and all items.
func (r *ProductionRepo) Create(ctx context.Context, b *production.Batch) error {
	if err := r.insertRow(ctx, batchTable, b); err != nil {
		return err
	}
	return r.insertItems(ctx, b)
}

func (r *ProductionRepo) insertItems(ctx context.Context, b *production.Batch) error {
	items := make([]any, len(b.Items))
	for i := range b.Items {
		items[i] = &b.Items[i]
	}
	return r.insertRows(ctx, batchItemTable, r.itemCols, items)
}

// GetByID loads a batch with its items.
func (r *ProductionRepo) GetByID(ctx context.Context, batchID id.ID) (*production.Batch, error) {
	sql, args, err := r.builder().
		Select(r.headerCols...).
		From(batchTable).
		Where(squirrel.Eq{"id": batchID}).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var b production.Batch
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("production batch", batchID.String())
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}

	items, err := r.listItems(ctx, batchID)
	if err != nil {
		return nil, err
	}
	b.Items = items
	return &b, nil
}

func (r *ProductionRepo) listItems(ctx context.Context, batchID id.ID) ([]production.Item, error) {
	sql, args, err := r.builder().
		Select(r.itemCols...).
		From(batchItemTable).
		Where(squirrel.Eq{"batch_id": batchID}).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []production.Item
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list batch items: %w", err)
	}
	return items, nil
}

// List retrieves batches matching the filter, newest first.
func (r *ProductionRepo) List(ctx context.Context, filter production.ListFilter) ([]*production.Batch, error) {
	q := r.builder().
		Select(r.headerCols...).
		From(batchTable).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)})
	if filter.BranchID != nil {
		q = q.Where(squirrel.Eq{"branch_id": *filter.BranchID})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"production_date": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.Lt{"production_date": *filter.To})
	}
	q = q.OrderBy("production_date DESC", "created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var headers []*production.Batch
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &headers, sql, args...); err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	for _, b := range headers {
		items, err := r.listItems(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		b.Items = items
	}
	return headers, nil
}

// ReplaceItems rewrites the batch's lines and bumps the header.
func (r *ProductionRepo) ReplaceItems(ctx context.Context, b *production.Batch) error {
	delSQL, delArgs, err := r.builder().
		Delete(batchItemTable).
		Where(squirrel.Eq{"batch_id": b.ID}).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("delete batch items: %w", err)
	}

	if err := r.insertItems(ctx, b); err != nil {
		return err
	}

	updSQL, updArgs, err := r.builder().
		Update(batchTable).
		Set("production_date", b.ProductionDate).
		Set("branch_id", b.BranchID).
		Set("note", b.Note).
		Set("updated_at", b.UpdatedAt).
		Where(squirrel.Eq{"id": b.ID}).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, updSQL, updArgs...)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("production batch", b.ID.String())
	}
	return nil
}

// Delete removes a batch and its lines.
func (r *ProductionRepo) Delete(ctx context.Context, batchID id.ID) error {
	delItems, delItemsArgs, err := r.builder().
		Delete(batchItemTable).
		Where(squirrel.Eq{"batch_id": batchID}).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, delItems, delItemsArgs...); err != nil {
		return fmt.Errorf("delete batch items: %w", err)
	}

	delHeader, delHeaderArgs, err := r.builder().
		Delete(batchTable).
		Where(squirrel.Eq{"id": batchID}).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, delHeader, delHeaderArgs...)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("production batch", batchID.String())
	}
	return nil
}
