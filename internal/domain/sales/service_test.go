package sales

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
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	sales map[id.ID]*Sale
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{sales: make(map[id.ID]*Sale)}
}

func (r *fakeRepo) Create(ctx context.Context, s *Sale) error {
	r.sales[s.ID] = s
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	s, ok := r.sales[saleID]
	if !ok {
		return nil, apperror.NewNotFound("sale", saleID.String())
	}
	return s, nil
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) ([]*Sale, error) {
	var out []*Sale
	for _, s := range r.sales {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeRepo) Delete(ctx context.Context, saleID id.ID) error {
	if _, ok := r.sales[saleID]; !ok {
		return apperror.NewNotFound("sale", saleID.String())
	}
	delete(r.sales, saleID)
	return nil
}

func testContext() context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:   id.New(),
		TenantID: id.New(),
		Role:     appctx.RoleSeller,
	})
}

func TestCreate_RecomputesLineAmountsAndTotal(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTxManager{}, clock.At("2025-06-10"))
	ctx := testContext()

	sale := &Sale{
		BranchID: id.New(),
		Items: []Item{
			// Client-supplied amounts are ignored and recomputed.
			{ProductID: id.New(), Quantity: types.NewQuantityFromFloat64(2), UnitPrice: 50000, Amount: 1},
			{ProductID: id.New(), Quantity: types.NewQuantityFromFloat64(0.5), UnitPrice: 38000},
		},
	}
	require.NoError(t, svc.Create(ctx, sale))

	assert.Equal(t, types.MinorUnits(100000), sale.Items[0].Amount)
	assert.Equal(t, types.MinorUnits(19000), sale.Items[1].Amount)
	assert.Equal(t, types.MinorUnits(119000), sale.TotalAmount)
	assert.Equal(t, appctx.GetTenantID(ctx), sale.TenantID)
	assert.Len(t, repo.sales, 1)
}

func TestCreate_DefaultsSaleDateToToday(t *testing.T) {
	svc := NewService(newFakeRepo(), fakeTxManager{}, clock.At("2025-06-10"))

	sale := &Sale{
		BranchID: id.New(),
		Items:    []Item{{ProductID: id.New(), Quantity: types.NewQuantityFromFloat64(1), UnitPrice: 1000}},
	}
	require.NoError(t, svc.Create(testContext(), sale))
	assert.Equal(t, "2025-06-10", sale.SaleDate.Format("2006-01-02"))
}

func TestCreate_RejectsEmptyItems(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTxManager{}, clock.At("2025-06-10"))

	err := svc.Create(testContext(), &Sale{BranchID: id.New()})
	require.Error(t, err)
	assert.Empty(t, repo.sales)
}

func TestCreate_RejectsNonPositiveQuantity(t *testing.T) {
	svc := NewService(newFakeRepo(), fakeTxManager{}, clock.At("2025-06-10"))

	err := svc.Create(testContext(), &Sale{
		BranchID: id.New(),
		Items:    []Item{{ProductID: id.New(), Quantity: 0, UnitPrice: 1000}},
	})
	require.Error(t, err)
}

func TestLineAmount_RoundsHalfUp(t *testing.T) {
	tests := []struct {
		name  string
		qty   types.Quantity
		price types.MinorUnits
		want  types.MinorUnits
	}{
		{"whole units", types.NewQuantityFromFloat64(3), 1500, 4500},
		{"fractional quantity", types.NewQuantityFromFloat64(1.5), 333, 500},  // 499.5 rounds up
		{"rounds down below half", types.NewQuantityFromFloat64(0.333), 1000, 333},
		{"tiny quantity", types.NewQuantityFromInt64Scaled(1), 1, 0}, // 0.0001 * 1 rounds to 0
		{"zero price", types.NewQuantityFromFloat64(10), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lineAmount(tt.qty, tt.price))
		})
	}
}

func TestDelete_RemovesSale(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTxManager{}, clock.At("2025-06-10"))
	ctx := testContext()

	sale := &Sale{
		BranchID: id.New(),
		Items:    []Item{{ProductID: id.New(), Quantity: types.NewQuantityFromFloat64(1), UnitPrice: 1000}},
	}
	require.NoError(t, svc.Create(ctx, sale))

	require.NoError(t, svc.Delete(ctx, sale.ID))
	_, err := svc.GetByID(ctx, sale.ID)
	require.Error(t, err)
}
