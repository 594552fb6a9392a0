package platform_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/id"
	"sweetflow/internal/domain/platform"
	"sweetflow/internal/infrastructure/storage/postgres"
)

const planTable = "plans"

// PlanRepo implements platform.PlanRepository. The features column is
// JSONB: a map of flag name to CEL rule.
type PlanRepo struct {
	txm  *postgres.TxManager
	cols []string
}

var _ platform.PlanRepository = (*PlanRepo)(nil)

// NewPlanRepo creates a new plan repository.
func NewPlanRepo(txm *postgres.TxManager) *PlanRepo {
	return &PlanRepo{
		txm:  txm,
		cols: postgres.ExtractDBColumns[platform.Plan](),
	}
}

func (r *PlanRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a plan.
func (r *PlanRepo) Create(ctx context.Context, p *platform.Plan) error {
	sql, args, err := r.builder().
		Insert(planTable).
		SetMap(postgres.StructToMap(p)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

// GetByID retrieves a plan.
func (r *PlanRepo) GetByID(ctx context.Context, planID id.ID) (*platform.Plan, error) {
	sql, args, err := r.builder().
		Select(r.cols...).
		From(planTable).
		Where(squirrel.Eq{"id": planID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p platform.Plan
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("plan", planID.String())
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return &p, nil
}

// List retrieves all plans ordered by price.
func (r *PlanRepo) List(ctx context.Context) ([]*platform.Plan, error) {
	sql, args, err := r.builder().
		Select(r.cols...).
		From(planTable).
		OrderBy("price ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*platform.Plan
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return items, nil
}

// Update modifies a plan.
func (r *PlanRepo) Update(ctx context.Context, p *platform.Plan) error {
	data := postgres.StructToMap(p)
	delete(data, "id")
	delete(data, "created_at")

	sql, args, err := r.builder().
		Update(planTable).
		SetMap(data).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("plan", p.ID.String())
	}
	return nil
}
