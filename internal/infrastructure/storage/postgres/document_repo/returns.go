package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/appctx"
	"sweetflow/internal/core/id"
	"sweetflow/internal/domain/returns"
	"sweetflow/internal/infrastructure/storage/postgres"
)

const (
	returnTable     = "returns"
	returnItemTable = "return_items"
)

// ReturnRepo implements returns.Repository.
type ReturnRepo struct {
	baseRepo
	headerCols []string
	itemCols   []string
}

var _ returns.Repository = (*ReturnRepo)(nil)

// NewReturnRepo creates a new return repository.
func NewReturnRepo(txm *postgres.TxManager) *ReturnRepo {
	return &ReturnRepo{
		baseRepo:   baseRepo{txm: txm},
		headerCols: postgres.ExtractDBColumns[returns.Return](),
		itemCols:   postgres.ExtractDBColumns[returns.Item](),
	}
}

// Create inserts the header and all items.
func (r *ReturnRepo) Create(ctx context.Context, ret *returns.Return) error {
	if err := r.insertRow(ctx, returnTable, ret); err != nil {
		return err
	}
	items := make([]any, len(ret.Items))
	for i := range ret.Items {
		items[i] = &ret.Items[i]
	}
	return r.insertRows(ctx, returnItemTable, r.itemCols, items)
}

// GetByID loads a return with its items.
func (r *ReturnRepo) GetByID(ctx context.Context, returnID id.ID) (*returns.Return, error) {
	sql, args, err := r.builder().
		Select(r.headerCols...).
		From(returnTable).
		Where(squirrel.Eq{"id": returnID}).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var ret returns.Return
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &ret, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("return", returnID.String())
		}
		return nil, fmt.Errorf("get return: %w", err)
	}

	items, err := r.ListItems(ctx, returnID)
	if err != nil {
		return nil, err
	}
	ret.Items = items
	return &ret, nil
}

// GetItem loads one item, verifying return membership.
func (r *ReturnRepo) GetItem(ctx context.Context, returnID, itemID id.ID) (*returns.Item, error) {
	sql, args, err := r.builder().
		Select(r.itemCols...).
		From(returnItemTable).
		Where(squirrel.Eq{"id": itemID}).
		Where(squirrel.Eq{"return_id": returnID}).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var item returns.Item
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("return item", itemID.String())
		}
		return nil, fmt.Errorf("get return item: %w", err)
	}
	return &item, nil
}

// ListItems loads all items of a return.
func (r *ReturnRepo) ListItems(ctx context.Context, returnID id.ID) ([]returns.Item, error) {
	sql, args, err := r.builder().
		Select(r.itemCols...).
		From(returnItemTable).
		Where(squirrel.Eq{"return_id": returnID}).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []returns.Item
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list return items: %w", err)
	}
	return items, nil
}

// List retrieves returns matching the filter, newest first.
func (r *ReturnRepo) List(ctx context.Context, filter returns.ListFilter) ([]*returns.Return, error) {
	q := r.builder().
		Select(r.headerCols...).
		From(returnTable).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)})
	if filter.BranchID != nil {
		q = q.Where(squirrel.Eq{"branch_id": *filter.BranchID})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"return_date": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.Lt{"return_date": *filter.To})
	}
	q = q.OrderBy("return_date DESC", "created_at DESC")
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

	var headers []*returns.Return
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &headers, sql, args...); err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	for _, ret := range headers {
		items, err := r.ListItems(ctx, ret.ID)
		if err != nil {
			return nil, err
		}
		ret.Items = items
	}
	return headers, nil
}

// DecideItemIfPending is the PENDING→terminal compare-and-swap.
func (r *ReturnRepo) DecideItemIfPending(ctx context.Context, itemID id.ID, to returns.ItemStatus, decidedBy id.ID, decidedAt time.Time) (bool, error) {
	sql, args, err := r.builder().
		Update(returnItemTable).
		Set("status", to).
		Set("decided_by", decidedBy).
		Set("decided_at", decidedAt).
		Where(squirrel.Eq{"id": itemID}).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		Where(squirrel.Eq{"status": returns.ItemPending}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("decide return item: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

// UpdateStatus persists the derived header status.
func (r *ReturnRepo) UpdateStatus(ctx context.Context, returnID id.ID, status returns.Status) error {
	sql, args, err := r.builder().
		Update(returnTable).
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": returnID}).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update return status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("return", returnID.String())
	}
	return nil
}
