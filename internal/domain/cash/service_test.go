package cash

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/appctx"
	"sweetflow/internal/core/clock"
	"sweetflow/internal/core/id"
	"sweetflow/internal/core/types"
	"sweetflow/internal/domain/catalogs/branch"
	"sweetflow/internal/domain/reports"
)

type fakeRepo struct {
	entries []*Entry
	rows    []BranchSummary
}

func (r *fakeRepo) Append(ctx context.Context, e *Entry) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) ([]*Entry, error) {
	return r.entries, nil
}

func (r *fakeRepo) Summarize(ctx context.Context, period reports.Period, filter SummaryFilter) ([]BranchSummary, error) {
	return r.rows, nil
}

type fakeBranchRepo struct {
	branches map[id.ID]*branch.Branch
}

func (r *fakeBranchRepo) Create(ctx context.Context, b *branch.Branch) error   { return nil }
func (r *fakeBranchRepo) Update(ctx context.Context, b *branch.Branch) error   { return nil }
func (r *fakeBranchRepo) Deactivate(ctx context.Context, branchID id.ID) error { return nil }
func (r *fakeBranchRepo) List(ctx context.Context, filter branch.ListFilter) ([]*branch.Branch, error) {
	return nil, nil
}
func (r *fakeBranchRepo) Counts(ctx context.Context) (int, int, error) { return 0, 0, nil }
func (r *fakeBranchRepo) GetByID(ctx context.Context, branchID id.ID) (*branch.Branch, error) {
	b, ok := r.branches[branchID]
	if !ok {
		return nil, apperror.NewNotFound("branch", branchID.String())
	}
	return b, nil
}

func setup(t *testing.T) (*Service, *fakeRepo, id.ID, context.Context) {
	t.Helper()

	tenantID := id.New()
	b := branch.New(tenantID, "Chilonzor", branch.TypeBranch)
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeBranchRepo{branches: map[id.ID]*branch.Branch{b.ID: b}}, clock.At("2025-06-10"))

	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:   id.New(),
		TenantID: tenantID,
		Role:     appctx.RoleTenantAdmin,
	})
	return svc, repo, b.ID, ctx
}

func TestCashIn_StoresPositiveAmount(t *testing.T) {
	svc, repo, branchID, ctx := setup(t)

	e, err := svc.CashIn(ctx, branchID, 150000, "", "opening float")
	require.NoError(t, err)

	assert.Equal(t, types.MinorUnits(150000), e.Amount)
	assert.Equal(t, "opening float", e.Note)
	require.Len(t, repo.entries, 1)
	// Date defaults to the clock's today.
	assert.Equal(t, clock.At("2025-06-10").Now(), e.CashDate)
}

func TestCashOut_StoresNegatedAmount(t *testing.T) {
	svc, repo, branchID, ctx := setup(t)

	e, err := svc.CashOut(ctx, branchID, 50000, "2025-06-09", "owner withdrawal")
	require.NoError(t, err)

	// The caller sends a positive amount; the ledger row carries the sign.
	assert.Equal(t, types.MinorUnits(-50000), e.Amount)
	assert.Equal(t, "2025-06-09", e.CashDate.Format("2006-01-02"))
	require.Len(t, repo.entries, 1)
}

func TestCashIn_RejectsNonPositiveAmount(t *testing.T) {
	svc, repo, branchID, ctx := setup(t)

	_, err := svc.CashIn(ctx, branchID, 0, "", "")
	require.Error(t, err)

	_, err = svc.CashIn(ctx, branchID, -100, "", "")
	require.Error(t, err)
	assert.Empty(t, repo.entries)
}

func TestCashOut_RejectsNonPositiveAmount(t *testing.T) {
	svc, repo, branchID, ctx := setup(t)

	_, err := svc.CashOut(ctx, branchID, -100, "", "")
	require.Error(t, err)
	assert.Empty(t, repo.entries)
}

func TestAppend_UnknownBranchRejected(t *testing.T) {
	svc, repo, _, ctx := setup(t)

	_, err := svc.CashIn(ctx, id.New(), 1000, "", "")
	require.Error(t, err)
	assert.Empty(t, repo.entries)
}

func TestAppend_BadDateRejected(t *testing.T) {
	svc, _, branchID, ctx := setup(t)

	_, err := svc.CashIn(ctx, branchID, 1000, "10.06.2025", "")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestSummary_TotalsSumBranchRows(t *testing.T) {
	svc, repo, _, ctx := setup(t)
	repo.rows = []BranchSummary{
		{BranchName: "Chilonzor", CurrentAmount: 1_200_000, SalesAmountPeriod: 300_000, CashInPeriod: 50_000, CashOutPeriod: -100_000},
		{BranchName: "Yunusobod", CurrentAmount: 800_000, SalesAmountPeriod: 150_000, CashInPeriod: 0, CashOutPeriod: -20_000},
	}

	period, err := reports.NewPeriod(reports.ModeDay, clock.At("2025-06-10").Now())
	require.NoError(t, err)

	sum, err := svc.Summary(ctx, period, SummaryFilter{})
	require.NoError(t, err)

	assert.Len(t, sum.ByBranch, 2)
	assert.Equal(t, types.MinorUnits(2_000_000), sum.Totals.CurrentAmount)
	assert.Equal(t, types.MinorUnits(450_000), sum.Totals.SalesAmountPeriod)
	assert.Equal(t, types.MinorUnits(50_000), sum.Totals.CashInPeriod)
	assert.Equal(t, types.MinorUnits(-120_000), sum.Totals.CashOutPeriod)
}

func TestList_ClampsLimit(t *testing.T) {
	svc, repo, _, ctx := setup(t)
	repo.entries = []*Entry{{ID: id.New()}}

	got, err := svc.List(ctx, ListFilter{Limit: -5})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
