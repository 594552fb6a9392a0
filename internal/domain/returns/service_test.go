package returns

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/appctx"
	"sweetflow/internal/core/clock"
	"sweetflow/internal/core/id"
	"sweetflow/internal/core/types"
	"sweetflow/internal/domain/catalogs/product"
	"sweetflow/internal/domain/ledger"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	returns map[id.ID]*Return
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{returns: make(map[id.ID]*Return)}
}

func (r *fakeRepo) Create(ctx context.Context, doc *Return) error {
	cp := *doc
	cp.Items = append([]Item(nil), doc.Items...)
	r.returns[doc.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, returnID id.ID) (*Return, error) {
	doc, ok := r.returns[returnID]
	if !ok {
		return nil, apperror.NewNotFound("return", returnID.String())
	}
	cp := *doc
	cp.Items = append([]Item(nil), doc.Items...)
	return &cp, nil
}

func (r *fakeRepo) GetItem(ctx context.Context, returnID, itemID id.ID) (*Item, error) {
	doc, ok := r.returns[returnID]
	if !ok {
		return nil, apperror.NewNotFound("return", returnID.String())
	}
	for i := range doc.Items {
		if doc.Items[i].ID == itemID {
			cp := doc.Items[i]
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("return item", itemID.String())
}

func (r *fakeRepo) ListItems(ctx context.Context, returnID id.ID) ([]Item, error) {
	doc, ok := r.returns[returnID]
	if !ok {
		return nil, apperror.NewNotFound("return", returnID.String())
	}
	return append([]Item(nil), doc.Items...), nil
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) ([]*Return, error) {
	var out []*Return
	for _, doc := range r.returns {
		out = append(out, doc)
	}
	return out, nil
}

func (r *fakeRepo) DecideItemIfPending(ctx context.Context, itemID id.ID, to ItemStatus, decidedBy id.ID, decidedAt time.Time) (bool, error) {
	for _, doc := range r.returns {
		for i := range doc.Items {
			if doc.Items[i].ID != itemID {
				continue
			}
			if doc.Items[i].Status != ItemPending {
				return false, nil
			}
			doc.Items[i].Status = to
			doc.Items[i].DecidedBy = &decidedBy
			doc.Items[i].DecidedAt = &decidedAt
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, returnID id.ID, status Status) error {
	doc, ok := r.returns[returnID]
	if !ok {
		return apperror.NewNotFound("return", returnID.String())
	}
	doc.Status = status
	return nil
}

type fakeProductRepo struct {
	products map[id.ID]*product.Product
}

func (r *fakeProductRepo) Create(ctx context.Context, p *product.Product) error   { return nil }
func (r *fakeProductRepo) Update(ctx context.Context, p *product.Product) error   { return nil }
func (r *fakeProductRepo) Deactivate(ctx context.Context, productID id.ID) error  { return nil }
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
	return nil
}

func (r *fakeLedgerRepo) ListBySource(ctx context.Context, source ledger.SourceType, sourceID id.ID) ([]ledger.Movement, error) {
	return nil, nil
}

type fixture struct {
	service  *Service
	ledger   *fakeLedgerRepo
	tenantID id.ID
	branchID id.ID
	prodID   id.ID
	ctx      context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tenantID := id.New()
	p := product.New(tenantID, "Napoleon Cake", "dona")
	p.RetailPrice = 50000

	ledgerRepo := &fakeLedgerRepo{}
	svc := NewService(
		newFakeRepo(),
		&fakeProductRepo{products: map[id.ID]*product.Product{p.ID: p}},
		ledger.NewService(ledgerRepo),
		fakeTxManager{},
		clock.At("2025-06-10"),
	)

	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:   id.New(),
		TenantID: tenantID,
		Role:     appctx.RoleManager,
	})

	return &fixture{
		service:  svc,
		ledger:   ledgerRepo,
		tenantID: tenantID,
		branchID: id.New(),
		prodID:   p.ID,
		ctx:      ctx,
	}
}

func (f *fixture) createReturn(t *testing.T, branchID *id.ID) *Return {
	t.Helper()

	doc := &Return{
		BranchID: branchID,
		Items: []Item{
			{ProductID: f.prodID, Quantity: types.NewQuantityFromFloat64(2)},
		},
	}
	require.NoError(t, f.service.Create(f.ctx, doc))
	return doc
}

func TestCreate_NoMovementUntilDecision(t *testing.T) {
	f := newFixture(t)
	doc := f.createReturn(t, &f.branchID)

	assert.Empty(t, f.ledger.movements)
	assert.Equal(t, StatusPending, doc.Status)
	assert.Equal(t, types.MinorUnits(50000), doc.Items[0].UnitValue)
	assert.Equal(t, f.tenantID, doc.TenantID)
}

func TestAcceptItem_WritesInAtBranch(t *testing.T) {
	f := newFixture(t)
	doc := f.createReturn(t, &f.branchID)

	got, err := f.service.AcceptItem(f.ctx, doc.ID, doc.Items[0].ID)
	require.NoError(t, err)

	require.Len(t, f.ledger.movements, 1)
	mov := f.ledger.movements[0]
	assert.Equal(t, ledger.TypeIn, mov.Type)
	assert.Equal(t, ledger.SourceReturn, mov.SourceType)
	require.NotNil(t, mov.BranchID)
	assert.Equal(t, f.branchID, *mov.BranchID)
	assert.Equal(t, StatusCompleted, got.Status)
}

func TestAcceptItem_CentralReturn(t *testing.T) {
	f := newFixture(t)
	doc := f.createReturn(t, nil)

	_, err := f.service.AcceptItem(f.ctx, doc.ID, doc.Items[0].ID)
	require.NoError(t, err)

	require.Len(t, f.ledger.movements, 1)
	assert.Nil(t, f.ledger.movements[0].BranchID)
}

func TestRejectItem_WritesNothing(t *testing.T) {
	f := newFixture(t)
	doc := f.createReturn(t, &f.branchID)

	got, err := f.service.RejectItem(f.ctx, doc.ID, doc.Items[0].ID)
	require.NoError(t, err)

	// A rejected return never touches stock: the goods were not taken back.
	assert.Empty(t, f.ledger.movements)
	assert.Equal(t, StatusCancelled, got.Status)
}

func TestDecideItem_SecondDecisionConflicts(t *testing.T) {
	f := newFixture(t)
	doc := f.createReturn(t, &f.branchID)

	_, err := f.service.AcceptItem(f.ctx, doc.ID, doc.Items[0].ID)
	require.NoError(t, err)

	_, err = f.service.RejectItem(f.ctx, doc.ID, doc.Items[0].ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeStateConflict, appErr.Code)
	assert.Len(t, f.ledger.movements, 1)
}

func TestCreate_RejectsEmptyItems(t *testing.T) {
	f := newFixture(t)

	err := f.service.Create(f.ctx, &Return{BranchID: &f.branchID})
	require.Error(t, err)
}
