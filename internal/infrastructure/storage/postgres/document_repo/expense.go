package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/appctx"
	"sweetflow/internal/core/id"
	"sweetflow/internal/domain/expense"
	"sweetflow/internal/infrastructure/storage/postgres"
)

const expenseTable = "expenses"

// ExpenseRepo implements expense.Repository.
type ExpenseRepo struct {
	baseRepo
	cols []string
}

var _ expense.Repository = (*ExpenseRepo)(nil)

// NewExpenseRepo creates a new expense repository.
func NewExpenseRepo(txm *postgres.TxManager) *ExpenseRepo {
	return &ExpenseRepo{
		baseRepo: baseRepo{txm: txm},
		cols:     postgres.ExtractDBColumns[expense.Expense](),
	}
}

// Create inserts an expense entry.
func (r *ExpenseRepo) Create(ctx context.Context, e *expense.Expense) error {
	return r.insertRow(ctx, expenseTable, e)
}

// GetByID retrieves an expense entry.
func (r *ExpenseRepo) GetByID(ctx context.Context, expenseID id.ID) (*expense.Expense, error) {
	sql, args, err := r.builder().
		Select(r.cols...).
		From(expenseTable).
		Where(squirrel.Eq{"id": expenseID}).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var e expense.Expense
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &e, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("expense", expenseID.String())
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return &e, nil
}

// List retrieves expenses matching the filter, newest first.
func (r *ExpenseRepo) List(ctx context.Context, filter expense.ListFilter) ([]*expense.Expense, error) {
	q := r.builder().
		Select(r.cols...).
		From(expenseTable).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)})
	if filter.BranchID != nil {
		q = q.Where(squirrel.Eq{"branch_id": *filter.BranchID})
	}
	if filter.ExpenseType != "" {
		q = q.Where(squirrel.Eq{"expense_type": filter.ExpenseType})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"expense_date": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.Lt{"expense_date": *filter.To})
	}
	q = q.OrderBy("expense_date DESC", "created_at DESC")
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

	var items []*expense.Expense
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return items, nil
}

// Delete removes an expense entry.
func (r *ExpenseRepo) Delete(ctx context.Context, expenseID id.ID) error {
	sql, args, err := r.builder().
		Delete(expenseTable).
		Where(squirrel.Eq{"id": expenseID}).
		Where(squirrel.Eq{"tenant_id": appctx.GetTenantID(ctx)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("expense", expenseID.String())
	}
	return nil
}
