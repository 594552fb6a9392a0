// Package platform_repo provides PostgreSQL implementations for the
// platform tier: tenants, plans, and user accounts. These tables are
// not tenant-scoped by context; tenants and plans are the platform's
// own data.
package platform_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/id"
	"sweetflow/internal/core/types"
	"sweetflow/internal/domain/platform"
	"sweetflow/internal/infrastructure/storage/postgres"
)

const tenantTable = "tenants"

// TenantRepo implements platform.TenantRepository.
type TenantRepo struct {
	txm  *postgres.TxManager
	cols []string
}

var _ platform.TenantRepository = (*TenantRepo)(nil)

// NewTenantRepo creates a new tenant repository.
func NewTenantRepo(txm *postgres.TxManager) *TenantRepo {
	return &TenantRepo{
		txm:  txm,
		cols: postgres.ExtractDBColumns[platform.Tenant](),
	}
}

func (r *TenantRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a tenant.
func (r *TenantRepo) Create(ctx context.Context, t *platform.Tenant) error {
	sql, args, err := r.builder().
		Insert(tenantTable).
		SetMap(postgres.StructToMap(t)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

// GetByID retrieves a tenant.
func (r *TenantRepo) GetByID(ctx context.Context, tenantID id.ID) (*platform.Tenant, error) {
	sql, args, err := r.builder().
		Select(r.cols...).
		From(tenantTable).
		Where(squirrel.Eq{"id": tenantID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var t platform.Tenant
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &t, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("tenant", tenantID.String())
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return &t, nil
}

// List retrieves all tenants ordered by name.
func (r *TenantRepo) List(ctx context.Context) ([]*platform.Tenant, error) {
	sql, args, err := r.builder().
		Select(r.cols...).
		From(tenantTable).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*platform.Tenant
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	return items, nil
}

// Update modifies a tenant.
func (r *TenantRepo) Update(ctx context.Context, t *platform.Tenant) error {
	data := postgres.StructToMap(t)
	delete(data, "id")
	delete(data, "created_at")

	sql, args, err := r.builder().
		Update(tenantTable).
		SetMap(data).
		Where(squirrel.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update tenant: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("tenant", t.ID.String())
	}
	return nil
}

// TopUp adds funds and reactivates the tenant when the new balance is
// non-negative, all in one statement.
func (r *TenantRepo) TopUp(ctx context.Context, tenantID id.ID, amount types.Money) (*platform.Tenant, error) {
	const query = `
		UPDATE tenants
		SET wallet_balance = wallet_balance + $2,
		    unpaid = CASE WHEN wallet_balance + $2 >= 0 THEN false ELSE unpaid END,
		    status = CASE WHEN wallet_balance + $2 >= 0 THEN 'ACTIVE' ELSE status END,
		    updated_at = now()
		WHERE id = $1`

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, query, tenantID, amount)
	if err != nil {
		return nil, fmt.Errorf("top up tenant: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, apperror.NewNotFound("tenant", tenantID.String())
	}
	return r.GetByID(ctx, tenantID)
}

// ChargeIfSufficient deducts the plan price only when covered.
func (r *TenantRepo) ChargeIfSufficient(ctx context.Context, tenantID id.ID, price types.Money, billedAt time.Time) (bool, error) {
	const query = `
		UPDATE tenants
		SET wallet_balance = wallet_balance - $2,
		    last_billed_at = $3,
		    updated_at = now()
		WHERE id = $1 AND wallet_balance >= $2`

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, query, tenantID, price, billedAt)
	if err != nil {
		return false, fmt.Errorf("charge tenant: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

// MarkSuspended flags the tenant unpaid and suspended.
func (r *TenantRepo) MarkSuspended(ctx context.Context, tenantID id.ID) error {
	sql, args, err := r.builder().
		Update(tenantTable).
		Set("unpaid", true).
		Set("status", platform.TenantSuspended).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": tenantID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("suspend tenant: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("tenant", tenantID.String())
	}
	return nil
}
