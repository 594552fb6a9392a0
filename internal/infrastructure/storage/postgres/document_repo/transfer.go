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
	"sweetflow/internal/domain/transfer"
	"sweetflow/internal/infrastructure/storage/postgres"
)

const (
	transferTable     = "transfers"
	transferItemTable = "transfer_items"
)

// TransferRepo implements transfer.Repository.
type TransferRepo struct {
	baseRepo
	headerCols []string
	itemCols   []string
}

var _ transfer.Repository = (*TransferRepo)(nil)

// NewTransferRepo creates a new transfer repository.
func NewTransferRepo(txm *postgres.TxManager) *TransferRepo {
	return &TransferRepo{
		baseRepo:   baseRepo{txm: txm},
		headerCols: postgres.ExtractDBColumns[transfer.Transfer](),
		itemCols:   postgres.ExtractDBColumns[transfer.Item](),
	}
}

// Create inserts the header and all items.
func (r *TransferRepo) Create(ctx context.Context, t *transfer.Transfer) error {
	if err := r.insertRow(ctx, transferTable, t); err != nil {
		return err
	}
	items := make([]any, len(t.Items))
	for i := range t.Items {
		items[i] = &t.Items[i]
	}
	return r.insertRows(ctx, transferItemTable, r.itemCols, items)
}

// GetByID loads a transfer with its items.
func (r *TransferRepo) GetByID(ctx context.Context, transferID id.ID) (*transfer.Transfer, error) {
	sql, args, err := r.builder().
		Select(r.headerCols...).
		From(transferTable).
		Where(squirrel.Eq{"id": transferID}).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var t transfer.Transfer
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &t, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("transfer", transferID.String())
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}

	items, err := r.ListItems(ctx, transferID)
	if err != nil {
		return nil, err
	}
	t.Items = items
	return &t, nil
}

// GetItem loads one item, verifying transfer membership.
func (r *TransferRepo) GetItem(ctx context.Context, transferID, itemID id.ID) (*transfer.Item, error) {
	sql, args, err := r.builder().
		Select(r.itemCols...).
		From(transferItemTable).
		Where(squirrel.Eq{"id": itemID}).
		Where(squirrel.Eq{"transfer_id": transferID}).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var item transfer.Item
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("transfer item", itemID.String())
		}
		return nil, fmt.Errorf("get transfer item: %w", err)
	}
	return &item, nil
}

// ListItems loads all items of a transfer, in insertion order.
func (r *TransferRepo) ListItems(ctx context.Context, transferID id.ID) ([]transfer.Item, error) {
	sql, args, err := r.builder().
		Select(r.itemCols...).
		From(transferItemTable).
		Where(squirrel.Eq{"transfer_id": transferID}).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []transfer.Item
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list transfer items: %w", err)
	}
	return items, nil
}

// ListIncoming returns transfers destined for a branch, newest first.
func (r *TransferRepo) ListIncoming(ctx context.Context, branchID id.ID) ([]*transfer.Transfer, error) {
	sql, args, err := r.builder().
		Select(r.headerCols...).
		From(transferTable).
		Where(squirrel.Eq{"to_branch_id": branchID}).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		OrderBy("transfer_date DESC", "created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var headers []*transfer.Transfer
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &headers, sql, args...); err != nil {
		return nil, fmt.Errorf("list incoming transfers: %w", err)
	}

	for _, t := range headers {
		items, err := r.ListItems(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		t.Items = items
	}
	return headers, nil
}

// DecideItemIfPending is the PENDING→terminal compare-and-swap.
func (r *TransferRepo) DecideItemIfPending(ctx context.Context, itemID id.ID, to transfer.ItemStatus, decidedBy id.ID, decidedAt time.Time) (bool, error) {
	sql, args, err := r.builder().
		Update(transferItemTable).
		Set("status", to).
		Set("decided_by", decidedBy).
		Set("decided_at", decidedAt).
		Where(squirrel.Eq{"id": itemID}).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		Where(squirrel.Eq{"status": transfer.ItemPending}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("decide transfer item: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

// UpdateStatus persists the derived header status.
func (r *TransferRepo) UpdateStatus(ctx context.Context, transferID id.ID, status transfer.Status) error {
	sql, args, err := r.builder().
		Update(transferTable).
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": transferID}).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update transfer status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("transfer", transferID.String())
	}
	return nil
}
