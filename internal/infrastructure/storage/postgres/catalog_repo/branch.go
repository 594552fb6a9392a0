package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"sweetflow/internal/core/appctx"
	"sweetflow/internal/core/id"
	"sweetflow/internal/domain/catalogs/branch"
	"sweetflow/internal/infrastructure/storage/postgres"
)

const branchTable = "branches"

// BranchRepo implements branch.Repository.
type BranchRepo struct {
	baseRepo
}

var _ branch.Repository = (*BranchRepo)(nil)

// NewBranchRepo creates a new branch repository.
func NewBranchRepo(txm *postgres.TxManager) *BranchRepo {
	return &BranchRepo{
		baseRepo: newBaseRepo(txm, branchTable, postgres.ExtractDBColumns[branch.Branch]()),
	}
}

// Create inserts a branch.
func (r *BranchRepo) Create(ctx context.Context, b *branch.Branch) error {
	return r.insert(ctx, b)
}

// GetByID retrieves a branch.
func (r *BranchRepo) GetByID(ctx context.Context, branchID id.ID) (*branch.Branch, error) {
	var b branch.Branch
	if err := r.getByID(ctx, &b, branchID); err != nil {
		return nil, err
	}
	return &b, nil
}

// Update modifies a branch.
func (r *BranchRepo) Update(ctx context.Context, b *branch.Branch) error {
	return r.update(ctx, b, b.ID)
}

// Deactivate marks a branch inactive.
func (r *BranchRepo) Deactivate(ctx context.Context, branchID id.ID) error {
	return r.setActive(ctx, branchID, false)
}

// List retrieves branches matching the filter, ordered by name.
func (r *BranchRepo) List(ctx context.Context, filter branch.ListFilter) ([]*branch.Branch, error) {
	q := r.baseSelect(ctx)
	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"branch_type": *filter.Type})
	}
	if filter.ActiveOnly {
		q = q.Where(squirrel.Eq{"is_active": true})
	}
	q = q.OrderBy("name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*branch.Branch
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return items, nil
}

// Counts returns active branch and outlet totals for report headers.
func (r *BranchRepo) Counts(ctx context.Context) (branches, outlets int, err error) {
	sql, args, err := r.builder().
		Select(
			fmt.Sprintf("COUNT(*) FILTER (WHERE branch_type = '%s') AS branches", branch.TypeBranch),
			fmt.Sprintf("COUNT(*) FILTER (WHERE branch_type = '%s') AS outlets", branch.TypeOutlet),
		).
		From(branchTable).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		Where(squirrel.Eq{"is_active": true}).
		ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("build query: %w", err)
	}

	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&branches, &outlets); err != nil {
		return 0, 0, fmt.Errorf("count branches: %w", err)
	}
	return branches, outlets, nil
}
