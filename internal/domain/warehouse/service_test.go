package warehouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweetflow/internal/core/appctx"
	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/id"
	"sweetflow/internal/core/types"
	"sweetflow/internal/domain/catalogs/branch"
	"sweetflow/internal/domain/ledger"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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

type fakeStockRepo struct {
	lastFilter LogicalFilter
	rows       []StockRow
}

func (r *fakeStockRepo) CurrentStock(ctx context.Context, filter LogicalFilter) ([]StockRow, error) {
	r.lastFilter = filter
	return r.rows, nil
}

type fakeLedgerRepo struct {
	movements []ledger.Movement
}

func (r *fakeLedgerRepo) Append(ctx context.Context, movements []ledger.Movement) error {
	r.movements = append(r.movements, movements...)
	return nil
}

func (r *fakeLedgerRepo) DeleteBySource(ctx context.Context, source ledger.SourceType, sourceID id.ID) error {
	return nil
}

func (r *fakeLedgerRepo) ListBySource(ctx context.Context, source ledger.SourceType, sourceID id.ID) ([]ledger.Movement, error) {
	return nil, nil
}

func seededContext(tenantID id.ID) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:   id.New(),
		TenantID: tenantID,
		Role:     appctx.RoleManager,
	})
}

func TestCurrentStock_BranchResolvesToOwnPool(t *testing.T) {
	tenantID := id.New()
	b := branch.New(tenantID, "Chilonzor", branch.TypeBranch)

	stockRepo := &fakeStockRepo{}
	svc := NewService(stockRepo, &fakeBranchRepo{branches: map[id.ID]*branch.Branch{b.ID: b}}, ledger.NewService(&fakeLedgerRepo{}), fakeTxManager{})

	_, err := svc.CurrentStock(seededContext(tenantID), Branch(b.ID))
	require.NoError(t, err)
	assert.Equal(t, FilterBranchOnly, stockRepo.lastFilter.Kind)
	assert.Equal(t, b.ID, stockRepo.lastFilter.BranchID)
}

func TestCurrentStock_OutletPoolsToCentral(t *testing.T) {
	tenantID := id.New()
	outlet := branch.New(tenantID, "Bozor do'koni", branch.TypeOutlet)

	stockRepo := &fakeStockRepo{}
	svc := NewService(stockRepo, &fakeBranchRepo{branches: map[id.ID]*branch.Branch{outlet.ID: outlet}}, ledger.NewService(&fakeLedgerRepo{}), fakeTxManager{})

	_, err := svc.CurrentStock(seededContext(tenantID), Branch(outlet.ID))
	require.NoError(t, err)
	assert.Equal(t, FilterCentralOnly, stockRepo.lastFilter.Kind)
}

func TestCurrentStock_UseCentralStockFlagPools(t *testing.T) {
	tenantID := id.New()
	b := branch.New(tenantID, "Yunusobod", branch.TypeBranch)
	b.UseCentralStock = true

	stockRepo := &fakeStockRepo{}
	svc := NewService(stockRepo, &fakeBranchRepo{branches: map[id.ID]*branch.Branch{b.ID: b}}, ledger.NewService(&fakeLedgerRepo{}), fakeTxManager{})

	_, err := svc.CurrentStock(seededContext(tenantID), Branch(b.ID))
	require.NoError(t, err)
	assert.Equal(t, FilterCentralOnly, stockRepo.lastFilter.Kind)
}

func TestCurrentStock_UnknownBranchYieldsEmpty(t *testing.T) {
	stockRepo := &fakeStockRepo{rows: []StockRow{{ProductName: "should not leak"}}}
	svc := NewService(stockRepo, &fakeBranchRepo{branches: map[id.ID]*branch.Branch{}}, ledger.NewService(&fakeLedgerRepo{}), fakeTxManager{})

	rows, err := svc.CurrentStock(seededContext(id.New()), Branch(id.New()))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCurrentStock_AllAndCentralSelectors(t *testing.T) {
	stockRepo := &fakeStockRepo{}
	svc := NewService(stockRepo, &fakeBranchRepo{}, ledger.NewService(&fakeLedgerRepo{}), fakeTxManager{})
	ctx := seededContext(id.New())

	_, err := svc.CurrentStock(ctx, All())
	require.NoError(t, err)
	assert.Equal(t, FilterAll, stockRepo.lastFilter.Kind)

	_, err = svc.CurrentStock(ctx, Central())
	require.NoError(t, err)
	assert.Equal(t, FilterCentralOnly, stockRepo.lastFilter.Kind)
}

func TestAdjust_PositiveWritesIn(t *testing.T) {
	tenantID := id.New()
	ledgerRepo := &fakeLedgerRepo{}
	svc := NewService(&fakeStockRepo{}, &fakeBranchRepo{}, ledger.NewService(ledgerRepo), fakeTxManager{})

	err := svc.Adjust(seededContext(tenantID), AdjustInput{
		ProductID: id.New(),
		Quantity:  types.NewQuantityFromFloat64(2.5),
		Reason:    "stocktake surplus",
	})
	require.NoError(t, err)

	require.Len(t, ledgerRepo.movements, 1)
	mov := ledgerRepo.movements[0]
	assert.Equal(t, ledger.TypeIn, mov.Type)
	assert.Equal(t, ledger.SourceAdjustment, mov.SourceType)
	assert.Equal(t, types.NewQuantityFromFloat64(2.5), mov.Quantity)
	assert.Nil(t, mov.BranchID) // central
	assert.Equal(t, tenantID, mov.TenantID)
}

func TestAdjust_NegativeWritesOutWithPositiveQuantity(t *testing.T) {
	tenantID := id.New()
	b := branch.New(tenantID, "Chilonzor", branch.TypeBranch)
	ledgerRepo := &fakeLedgerRepo{}
	svc := NewService(&fakeStockRepo{}, &fakeBranchRepo{branches: map[id.ID]*branch.Branch{b.ID: b}}, ledger.NewService(ledgerRepo), fakeTxManager{})

	err := svc.Adjust(seededContext(tenantID), AdjustInput{
		ProductID: id.New(),
		BranchID:  &b.ID,
		Quantity:  types.NewQuantityFromFloat64(-3),
		Reason:    "damaged goods",
	})
	require.NoError(t, err)

	require.Len(t, ledgerRepo.movements, 1)
	mov := ledgerRepo.movements[0]
	assert.Equal(t, ledger.TypeOut, mov.Type)
	// The ledger stores magnitude; direction lives in the type.
	assert.True(t, mov.Quantity.IsPositive())
	assert.Equal(t, types.NewQuantityFromFloat64(3), mov.Quantity)
}

func TestAdjust_ZeroQuantityRejected(t *testing.T) {
	ledgerRepo := &fakeLedgerRepo{}
	svc := NewService(&fakeStockRepo{}, &fakeBranchRepo{}, ledger.NewService(ledgerRepo), fakeTxManager{})

	err := svc.Adjust(seededContext(id.New()), AdjustInput{
		ProductID: id.New(),
		Quantity:  0,
	})
	require.Error(t, err)
	assert.Empty(t, ledgerRepo.movements)
}

func TestAdjust_UnknownBranchRejected(t *testing.T) {
	ledgerRepo := &fakeLedgerRepo{}
	svc := NewService(&fakeStockRepo{}, &fakeBranchRepo{branches: map[id.ID]*branch.Branch{}}, ledger.NewService(ledgerRepo), fakeTxManager{})

	unknown := id.New()
	err := svc.Adjust(seededContext(id.New()), AdjustInput{
		ProductID: id.New(),
		BranchID:  &unknown,
		Quantity:  types.NewQuantityFromFloat64(1),
	})
	require.Error(t, err)
	assert.Empty(t, ledgerRepo.movements)
}
