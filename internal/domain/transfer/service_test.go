package transfer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/clock"
	"sweetflow/internal/core/id"
	"sweetflow/internal/core/types"
	"sweetflow/internal/domain/catalogs/branch"
	"sweetflow/internal/domain/catalogs/product"
	"sweetflow/internal/domain/ledger"
)

// --- In-memory fakes ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	transfers map[id.ID]*Transfer
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{transfers: make(map[id.ID]*Transfer)}
}

func (r *fakeRepo) Create(ctx context.Context, t *Transfer) error {
	cp := *t
	cp.Items = append([]Item(nil), t.Items...)
	r.transfers[t.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, transferID id.ID) (*Transfer, error) {
	t, ok := r.transfers[transferID]
	if !ok {
		return nil, apperror.NewNotFound("transfer", transferID.String())
	}
	cp := *t
	cp.Items = append([]Item(nil), t.Items...)
	return &cp, nil
}

func (r *fakeRepo) GetItem(ctx context.Context, transferID, itemID id.ID) (*Item, error) {
	t, ok := r.transfers[transferID]
	if !ok {
		return nil, apperror.NewNotFound("transfer", transferID.String())
	}
	for i := range t.Items {
		if t.Items[i].ID == itemID {
			cp := t.Items[i]
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("transfer item", itemID.String())
}

func (r *fakeRepo) ListItems(ctx context.Context, transferID id.ID) ([]Item, error) {
	t, ok := r.transfers[transferID]
	if !ok {
		return nil, apperror.NewNotFound("transfer", transferID.String())
	}
	return append([]Item(nil), t.Items...), nil
}

func (r *fakeRepo) ListIncoming(ctx context.Context, branchID id.ID) ([]*Transfer, error) {
	var out []*Transfer
	for _, t := range r.transfers {
		if t.ToBranchID == branchID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeRepo) DecideItemIfPending(ctx context.Context, itemID id.ID, to ItemStatus, decidedBy id.ID, decidedAt time.Time) (bool, error) {
	for _, t := range r.transfers {
		for i := range t.Items {
			if t.Items[i].ID != itemID {
				continue
			}
			if t.Items[i].Status != ItemPending {
				return false, nil
			}
			t.Items[i].Status = to
			t.Items[i].DecidedBy = &decidedBy
			t.Items[i].DecidedAt = &decidedAt
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, transferID id.ID, status Status) error {
	t, ok := r.transfers[transferID]
	if !ok {
		return apperror.NewNotFound("transfer", transferID.String())
	}
	t.Status = status
	return nil
}

type fakeBranchRepo struct {
	branches map[id.ID]*branch.Branch
}

func (r *fakeBranchRepo) Create(ctx context.Context, b *branch.Branch) error { return nil }
func (r *fakeBranchRepo) Update(ctx context.Context, b *branch.Branch) error { return nil }
func (r *fakeBranchRepo) Deactivate(ctx context.Context, branchID id.ID) error {
	return nil
}
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

type fakeProductRepo struct {
	products map[id.ID]*product.Product
}

func (r *fakeProductRepo) Create(ctx context.Context, p *product.Product) error { return nil }
func (r *fakeProductRepo) Update(ctx context.Context, p *product.Product) error { return nil }
func (r *fakeProductRepo) Deactivate(ctx context.Context, productID id.ID) error {
	return nil
}
func (r *fakeProductRepo) List(ctx context.Context, filter product.ListFilter) ([]*product.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) Count(ctx context.Context) (int, error) { return 0, nil }
func (r *fakeProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	return p, nil
}
func (r *fakeProductRepo) GetByBarcode(ctx context.Context, barcode string) (*product.Product, error) {
	for _, p := range r.products {
		if p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, apperror.NewNotFound("product", barcode)
}

type fakeLedgerRepo struct {
	movements []ledger.Movement
}

func (r *fakeLedgerRepo) Append(ctx context.Context, movements []ledger.Movement) error {
	r.movements = append(r.movements, movements...)
	return nil
}

func (r *fakeLedgerRepo) DeleteBySource(ctx context.Context, source ledger.SourceType, sourceID id.ID) error {
	kept := r.movements[:0]
	for _, m := range r.movements {
		if m.SourceType == source && m.SourceID != nil && *m.SourceID == sourceID {
			continue
		}
		kept = append(kept, m)
	}
	r.movements = kept
	return nil
}

func (r *fakeLedgerRepo) ListBySource(ctx context.Context, source ledger.SourceType, sourceID id.ID) ([]ledger.Movement, error) {
	var out []ledger.Movement
	for _, m := range r.movements {
		if m.SourceType == source && m.SourceID != nil && *m.SourceID == sourceID {
			out = append(out, m)
		}
	}
	return out, nil
}

// --- Test fixture ---

type fixture struct {
	service  *Service
	repo     *fakeRepo
	ledger   *fakeLedgerRepo
	tenantID id.ID
	central  *id.ID // nil = central source
	dest     id.ID
	prodA    id.ID
	prodB    id.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tenantID := id.New()
	dest := branch.New(tenantID, "Chilonzor", branch.TypeBranch)

	prodA := product.New(tenantID, "Napoleon Cake", "dona")
	prodA.Barcode = "4780000000011"
	prodA.RetailPrice = 50000
	prodA.WholesalePrice = 42000
	prodB := product.New(tenantID, "Medovik", "dona")
	prodB.RetailPrice = 38000

	repo := newFakeRepo()
	ledgerRepo := &fakeLedgerRepo{}
	branches := &fakeBranchRepo{branches: map[id.ID]*branch.Branch{dest.ID: dest}}
	products := &fakeProductRepo{products: map[id.ID]*product.Product{
		prodA.ID: prodA,
		prodB.ID: prodB,
	}}

	svc := NewService(repo, branches, products, ledger.NewService(ledgerRepo), fakeTxManager{}, clock.At("2025-06-10"))

	return &fixture{
		service:  svc,
		repo:     repo,
		ledger:   ledgerRepo,
		tenantID: tenantID,
		dest:     dest.ID,
		prodA:    prodA.ID,
		prodB:    prodB.ID,
	}
}

func (f *fixture) createTransfer(t *testing.T) *Transfer {
	t.Helper()

	tr := &Transfer{
		TenantID:   f.tenantID,
		ToBranchID: f.dest,
		CreatedBy:  id.New(),
		Items: []Item{
			{ProductID: f.prodA, Quantity: types.NewQuantityFromFloat64(5)},
			{ProductID: f.prodB, Quantity: types.NewQuantityFromFloat64(3)},
		},
	}
	require.NoError(t, f.service.Create(context.Background(), tr))
	return tr
}

// --- Tests ---

func TestCreate_WritesNoMovements(t *testing.T) {
	f := newFixture(t)
	tr := f.createTransfer(t)

	// Creation keeps the quantity attributed to the source until a
	// decision lands.
	assert.Empty(t, f.ledger.movements)
	assert.Equal(t, StatusPending, tr.Status)
	for _, item := range tr.Items {
		assert.Equal(t, ItemPending, item.Status)
	}
}

func TestCreate_UsesWholesaleValueWhenSet(t *testing.T) {
	f := newFixture(t)
	tr := f.createTransfer(t)

	byProduct := map[id.ID]types.MinorUnits{}
	for _, item := range tr.Items {
		byProduct[item.ProductID] = item.UnitValue
	}
	assert.Equal(t, types.MinorUnits(42000), byProduct[f.prodA]) // wholesale wins
	assert.Equal(t, types.MinorUnits(38000), byProduct[f.prodB]) // falls back to retail
}

func TestCreate_InactiveDestinationRejected(t *testing.T) {
	f := newFixture(t)

	inactive := branch.New(f.tenantID, "Closed", branch.TypeBranch)
	inactive.IsActive = false
	f.service.branches.(*fakeBranchRepo).branches[inactive.ID] = inactive

	tr := &Transfer{
		TenantID:   f.tenantID,
		ToBranchID: inactive.ID,
		CreatedBy:  id.New(),
		Items:      []Item{{ProductID: f.prodA, Quantity: types.NewQuantityFromFloat64(1)}},
	}
	err := f.service.Create(context.Background(), tr)
	require.Error(t, err)
}

func TestAcceptItem_CreditsDestination(t *testing.T) {
	f := newFixture(t)
	tr := f.createTransfer(t)

	got, err := f.service.AcceptItem(context.Background(), tr.ID, tr.Items[0].ID, f.dest)
	require.NoError(t, err)

	require.Len(t, f.ledger.movements, 1)
	mov := f.ledger.movements[0]
	assert.Equal(t, ledger.TypeIn, mov.Type)
	require.NotNil(t, mov.BranchID)
	assert.Equal(t, f.dest, *mov.BranchID)
	assert.Equal(t, tr.Items[0].Quantity, mov.Quantity)

	assert.Equal(t, StatusPartial, got.Status)
}

func TestRejectItem_CreditsSourceNotDestination(t *testing.T) {
	f := newFixture(t)
	tr := f.createTransfer(t)

	_, err := f.service.RejectItem(context.Background(), tr.ID, tr.Items[0].ID, f.dest)
	require.NoError(t, err)

	require.Len(t, f.ledger.movements, 1)
	mov := f.ledger.movements[0]
	assert.Equal(t, ledger.TypeIn, mov.Type)
	// FromBranchID is nil (central source), so the credit lands on the
	// central pool, never the destination.
	assert.Nil(t, mov.BranchID)
}

func TestDecideItem_SecondDecisionConflicts(t *testing.T) {
	f := newFixture(t)
	tr := f.createTransfer(t)

	_, err := f.service.AcceptItem(context.Background(), tr.ID, tr.Items[0].ID, f.dest)
	require.NoError(t, err)

	_, err = f.service.RejectItem(context.Background(), tr.ID, tr.Items[0].ID, f.dest)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeStateConflict, appErr.Code)

	// No second movement was written.
	assert.Len(t, f.ledger.movements, 1)
}

func TestDecideItem_WrongBranchRejected(t *testing.T) {
	f := newFixture(t)
	tr := f.createTransfer(t)

	_, err := f.service.AcceptItem(context.Background(), tr.ID, tr.Items[0].ID, id.New())
	require.Error(t, err)
	assert.Empty(t, f.ledger.movements)
}

func TestHeaderStatus_FollowsItemDecisions(t *testing.T) {
	f := newFixture(t)
	tr := f.createTransfer(t)
	ctx := context.Background()

	got, err := f.service.AcceptItem(ctx, tr.ID, tr.Items[0].ID, f.dest)
	require.NoError(t, err)
	assert.Equal(t, StatusPartial, got.Status)

	got, err = f.service.AcceptItem(ctx, tr.ID, tr.Items[1].ID, f.dest)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
}

func TestHeaderStatus_AllRejectedCancels(t *testing.T) {
	f := newFixture(t)
	tr := f.createTransfer(t)
	ctx := context.Background()

	_, err := f.service.RejectItem(ctx, tr.ID, tr.Items[0].ID, f.dest)
	require.NoError(t, err)
	got, err := f.service.RejectItem(ctx, tr.ID, tr.Items[1].ID, f.dest)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)
}

func TestAcceptByBarcode_AcceptsUniqueMatch(t *testing.T) {
	f := newFixture(t)
	tr := f.createTransfer(t)

	got, err := f.service.AcceptByBarcode(context.Background(), tr.ID, "4780000000011", f.dest)
	require.NoError(t, err)

	var accepted int
	for _, item := range got.Items {
		if item.Status == ItemAccepted {
			accepted++
			assert.Equal(t, f.prodA, item.ProductID)
		}
	}
	assert.Equal(t, 1, accepted)
}

func TestAcceptByBarcode_NoPendingMatchConflicts(t *testing.T) {
	f := newFixture(t)
	tr := f.createTransfer(t)
	ctx := context.Background()

	_, err := f.service.AcceptByBarcode(ctx, tr.ID, "4780000000011", f.dest)
	require.NoError(t, err)

	// The only item for this product is already accepted.
	_, err = f.service.AcceptByBarcode(ctx, tr.ID, "4780000000011", f.dest)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeStateConflict, appErr.Code)
}

func TestAcceptByBarcode_AmbiguousMatchConflicts(t *testing.T) {
	f := newFixture(t)

	tr := &Transfer{
		TenantID:   f.tenantID,
		ToBranchID: f.dest,
		CreatedBy:  id.New(),
		Items: []Item{
			{ProductID: f.prodA, Quantity: types.NewQuantityFromFloat64(2)},
			{ProductID: f.prodA, Quantity: types.NewQuantityFromFloat64(4)},
		},
	}
	require.NoError(t, f.service.Create(context.Background(), tr))

	_, err := f.service.AcceptByBarcode(context.Background(), tr.ID, "4780000000011", f.dest)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeStateConflict, appErr.Code)
	assert.Empty(t, f.ledger.movements)
}

func TestCancel_RejectsAllPendingItems(t *testing.T) {
	f := newFixture(t)
	tr := f.createTransfer(t)

	got, err := f.service.Cancel(context.Background(), tr.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, got.Status)
	for _, item := range got.Items {
		assert.Equal(t, ItemRejected, item.Status)
	}
	// Every quantity goes back to the source pool.
	require.Len(t, f.ledger.movements, 2)
	for _, mov := range f.ledger.movements {
		assert.Equal(t, ledger.TypeIn, mov.Type)
		assert.Nil(t, mov.BranchID)
	}
}

func TestCancel_ConflictsAfterAnyDecision(t *testing.T) {
	f := newFixture(t)
	tr := f.createTransfer(t)

	_, err := f.service.AcceptItem(context.Background(), tr.ID, tr.Items[0].ID, f.dest)
	require.NoError(t, err)

	_, err = f.service.Cancel(context.Background(), tr.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeStateConflict, appErr.Code)
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []ItemStatus
		want     Status
	}{
		{"empty", nil, StatusPending},
		{"all pending", []ItemStatus{ItemPending, ItemPending}, StatusPending},
		{"all accepted", []ItemStatus{ItemAccepted, ItemAccepted}, StatusCompleted},
		{"all rejected", []ItemStatus{ItemRejected, ItemRejected}, StatusCancelled},
		{"mixed decisions", []ItemStatus{ItemAccepted, ItemRejected}, StatusPartial},
		{"partially decided", []ItemStatus{ItemAccepted, ItemPending}, StatusPartial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]Item, len(tt.statuses))
			for i, s := range tt.statuses {
				items[i] = Item{Status: s}
			}
			assert.Equal(t, tt.want, DeriveStatus(items))
		})
	}
}
