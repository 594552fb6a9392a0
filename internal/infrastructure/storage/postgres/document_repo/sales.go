package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/appctx"
	"sweetflow/internal/core/id"
	"sweetflow/internal/domain/sales"
	"sweetflow/internal/infrastructure/storage/postgres"
)

const (
	saleTable     = "sales"
	saleItemTable = "sale_items"
)

// SaleRepo implements sales.Repository.
type SaleRepo struct {
	baseRepo
	headerCols []string
	itemCols   []string
}

var _ sales.Repository = (*SaleRepo)(nil)

// NewSaleRepo creates a new sales repository.
func NewSaleRepo(txm *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		baseRepo:   baseRepo{txm: txm},
		headerCols: postgres.ExtractDBColumns[sales.Sale](),
		itemCols:   postgres.ExtractDBColumns[sales.Item](),
	}
}

// Create inserts the header and all lines.
func (r *SaleRepo) Create(ctx context.Context, s *sales.Sale) error {
	if err := r.insertRow(ctx, saleTable, s); err != nil {
		return err
	}
	items := make([]any, len(s.Items))
	for i := range s.Items {
		items[i] = &s.Items[i]
	}
	return r.insertRows(ctx, saleItemTable, r.itemCols, items)
}

// GetByID loads a sale with its lines.
func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (*sales.Sale, error) {
	sql, args, err := r.builder().
		Select(r.headerCols...).
		From(saleTable).
		Where(squirrel.Eq{"id": saleID}).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s sales.Sale
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sale", saleID.String())
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	items, err := r.listItems(ctx, saleID)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}

func (r *SaleRepo) listItems(ctx context.Context, saleID id.ID) ([]sales.Item, error) {
	sql, args, err := r.builder().
		Select(r.itemCols...).
		From(saleItemTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []sales.Item
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	return items, nil
}

// List retrieves sales matching the filter, newest first. Lines are
// not loaded: listings only need the headers.
func (r *SaleRepo) List(ctx context.Context, filter sales.ListFilter) ([]*sales.Sale, error) {
	q := r.builder().
		Select(r.headerCols...).
		From(saleTable).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)})
	if filter.BranchID != nil {
		q = q.Where(squirrel.Eq{"branch_id": *filter.BranchID})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"sale_date": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.Lt{"sale_date": *filter.To})
	}
	q = q.OrderBy("sale_date DESC", "created_at DESC")
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

	var headers []*sales.Sale
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &headers, sql, args...); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return headers, nil
}

// Delete removes a sale and its lines.
func (r *SaleRepo) Delete(ctx context.Context, saleID id.ID) error {
	delItems, delItemsArgs, err := r.builder().
		Delete(saleItemTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, delItems, delItemsArgs...); err != nil {
		return fmt.Errorf("delete sale items: %w", err)
	}

	delHeader, delHeaderArgs, err := r.builder().
		Delete(saleTable).
		Where(squirrel.Eq{"id": saleID}).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, delHeader, delHeaderArgs...)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("sale", saleID.String())
	}
	return nil
}
