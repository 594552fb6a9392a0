package platform

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweetflow/internal/core/clock"
	"sweetflow/internal/core/id"
	"sweetflow/internal/core/types"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeTenantRepo struct {
	tenants map[id.ID]*Tenant
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{tenants: make(map[id.ID]*Tenant)}
}

func (r *fakeTenantRepo) Create(ctx context.Context, t *Tenant) error {
	r.tenants[t.ID] = t
	return nil
}

func (r *fakeTenantRepo) GetByID(ctx context.Context, tenantID id.ID) (*Tenant, error) {
	t, ok := r.tenants[tenantID]
	if !ok {
		return nil, errNotFound(tenantID)
	}
	return t, nil
}

func (r *fakeTenantRepo) List(ctx context.Context) ([]*Tenant, error) {
	var out []*Tenant
	for _, t := range r.tenants {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTenantRepo) Update(ctx context.Context, t *Tenant) error {
	r.tenants[t.ID] = t
	return nil
}

func (r *fakeTenantRepo) TopUp(ctx context.Context, tenantID id.ID, amount types.Money) (*Tenant, error) {
	t, ok := r.tenants[tenantID]
	if !ok {
		return nil, errNotFound(tenantID)
	}
	t.WalletBalance = t.WalletBalance.Add(amount)
	if !t.WalletBalance.IsNegative() {
		t.Unpaid = false
		t.Status = TenantActive
	}
	return t, nil
}

func (r *fakeTenantRepo) ChargeIfSufficient(ctx context.Context, tenantID id.ID, price types.Money, billedAt time.Time) (bool, error) {
	t, ok := r.tenants[tenantID]
	if !ok {
		return false, errNotFound(tenantID)
	}
	if t.WalletBalance.LessThan(price) {
		return false, nil
	}
	t.WalletBalance = t.WalletBalance.Sub(price)
	t.LastBilledAt = &billedAt
	return true, nil
}

func (r *fakeTenantRepo) MarkSuspended(ctx context.Context, tenantID id.ID) error {
	t, ok := r.tenants[tenantID]
	if !ok {
		return errNotFound(tenantID)
	}
	t.Unpaid = true
	t.Status = TenantSuspended
	return nil
}

type fakePlanRepo struct {
	plans map[id.ID]*Plan
}

func (r *fakePlanRepo) Create(ctx context.Context, p *Plan) error {
	r.plans[p.ID] = p
	return nil
}

func (r *fakePlanRepo) GetByID(ctx context.Context, planID id.ID) (*Plan, error) {
	p, ok := r.plans[planID]
	if !ok {
		return nil, errNotFound(planID)
	}
	return p, nil
}

func (r *fakePlanRepo) List(ctx context.Context) ([]*Plan, error) {
	var out []*Plan
	for _, p := range r.plans {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePlanRepo) Update(ctx context.Context, p *Plan) error {
	r.plans[p.ID] = p
	return nil
}

func errNotFound(entityID id.ID) error {
	return notFoundError{id: entityID}
}

type notFoundError struct{ id id.ID }

func (e notFoundError) Error() string { return "not found: " + e.id.String() }

func setup() (*Service, *fakeTenantRepo, *fakePlanRepo, *Plan) {
	plan := &Plan{
		ID:    id.New(),
		Name:  "Standard",
		Code:  "standard",
		Price: types.MustMoney("99.90"),
	}
	tenants := newFakeTenantRepo()
	plans := &fakePlanRepo{plans: map[id.ID]*Plan{plan.ID: plan}}
	svc := NewService(tenants, plans, fakeTxManager{}, clock.At("2025-06-10"))
	return svc, tenants, plans, plan
}

func newTenant(planID id.ID, balance string, billingDay int) *Tenant {
	return &Tenant{
		ID:            id.New(),
		Name:          "Shirin Bakery",
		PlanID:        planID,
		WalletBalance: types.MustMoney(balance),
		BillingDay:    billingDay,
		Status:        TenantActive,
	}
}

func TestCreateTenant_StartsActiveWithZeroWallet(t *testing.T) {
	svc, tenants, _, plan := setup()

	tenant := &Tenant{Name: "Shirin Bakery", PlanID: plan.ID, BillingDay: 5}
	require.NoError(t, svc.CreateTenant(context.Background(), tenant))

	assert.Equal(t, TenantActive, tenant.Status)
	assert.True(t, tenant.WalletBalance.IsZero())
	assert.Len(t, tenants.tenants, 1)
}

func TestCreateTenant_UnknownPlanRejected(t *testing.T) {
	svc, tenants, _, _ := setup()

	tenant := &Tenant{Name: "Shirin Bakery", PlanID: id.New(), BillingDay: 5}
	require.Error(t, svc.CreateTenant(context.Background(), tenant))
	assert.Empty(t, tenants.tenants)
}

func TestCreateTenant_BillingDayOutOfRange(t *testing.T) {
	svc, _, _, plan := setup()

	err := svc.CreateTenant(context.Background(), &Tenant{Name: "X", PlanID: plan.ID, BillingDay: 29})
	require.Error(t, err)
	err = svc.CreateTenant(context.Background(), &Tenant{Name: "X", PlanID: plan.ID, BillingDay: 0})
	require.Error(t, err)
}

func TestTopUpWallet_RejectsNonPositive(t *testing.T) {
	svc, _, _, _ := setup()

	_, err := svc.TopUpWallet(context.Background(), id.New(), types.MustMoney("0"))
	require.Error(t, err)
	_, err = svc.TopUpWallet(context.Background(), id.New(), types.MustMoney("-10"))
	require.Error(t, err)
}

func TestTopUpWallet_AddsBalance(t *testing.T) {
	svc, tenants, _, plan := setup()
	tenant := newTenant(plan.ID, "10.00", 5)
	tenants.tenants[tenant.ID] = tenant

	got, err := svc.TopUpWallet(context.Background(), tenant.ID, types.MustMoney("50.00"))
	require.NoError(t, err)
	assert.True(t, got.WalletBalance.Equal(types.MustMoney("60.00")))
}

func TestPlanCodeFor_ResolvesThroughTenant(t *testing.T) {
	svc, tenants, _, plan := setup()
	tenant := newTenant(plan.ID, "0", 5)
	tenants.tenants[tenant.ID] = tenant

	code, err := svc.PlanCodeFor(context.Background(), tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "standard", code)
}

func TestDueFor(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	thisMonth := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		tenant Tenant
		want   bool
	}{
		{"never billed, day reached", Tenant{Status: TenantActive, BillingDay: 10}, true},
		{"never billed, day not reached", Tenant{Status: TenantActive, BillingDay: 15}, false},
		{"billed last month", Tenant{Status: TenantActive, BillingDay: 10, LastBilledAt: &lastMonth}, true},
		{"already billed this month", Tenant{Status: TenantActive, BillingDay: 5, LastBilledAt: &thisMonth}, false},
		{"suspended never due", Tenant{Status: TenantSuspended, BillingDay: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tenant.DueFor(now))
		})
	}
}

func TestChargeDueTenants_ChargesAndStampsMonth(t *testing.T) {
	svc, tenants, _, plan := setup()
	tenant := newTenant(plan.ID, "150.00", 5)
	tenants.tenants[tenant.ID] = tenant

	result, err := svc.ChargeDueTenants(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Charged)
	assert.Equal(t, 0, result.Suspended)
	assert.True(t, tenant.WalletBalance.Equal(types.MustMoney("50.10")))
	require.NotNil(t, tenant.LastBilledAt)
	assert.Equal(t, time.June, tenant.LastBilledAt.Month())
}

func TestChargeDueTenants_SuspendsInsufficientBalance(t *testing.T) {
	svc, tenants, _, plan := setup()
	tenant := newTenant(plan.ID, "20.00", 5)
	tenants.tenants[tenant.ID] = tenant

	result, err := svc.ChargeDueTenants(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Suspended)
	assert.Equal(t, TenantSuspended, tenant.Status)
	assert.True(t, tenant.Unpaid)
	// The wallet is never driven negative.
	assert.True(t, tenant.WalletBalance.Equal(types.MustMoney("20.00")))
}

func TestChargeDueTenants_SkipsNotDue(t *testing.T) {
	svc, tenants, _, plan := setup()
	tenant := newTenant(plan.ID, "150.00", 25) // billing day not reached on the 10th
	tenants.tenants[tenant.ID] = tenant

	result, err := svc.ChargeDueTenants(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Charged)
	assert.Nil(t, tenant.LastBilledAt)
}

func TestChargeDueTenants_SecondSweepSameMonthSkips(t *testing.T) {
	svc, tenants, _, plan := setup()
	tenant := newTenant(plan.ID, "500.00", 5)
	tenants.tenants[tenant.ID] = tenant

	_, err := svc.ChargeDueTenants(context.Background())
	require.NoError(t, err)
	result, err := svc.ChargeDueTenants(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Charged)
	assert.Equal(t, 1, result.Skipped)
	assert.True(t, tenant.WalletBalance.Equal(types.MustMoney("400.10")))
}

func TestTopUp_ReactivatesSuspendedTenant(t *testing.T) {
	svc, tenants, _, plan := setup()
	tenant := newTenant(plan.ID, "20.00", 5)
	tenants.tenants[tenant.ID] = tenant

	_, err := svc.ChargeDueTenants(context.Background())
	require.NoError(t, err)
	require.Equal(t, TenantSuspended, tenant.Status)

	got, err := svc.TopUpWallet(context.Background(), tenant.ID, types.MustMoney("100.00"))
	require.NoError(t, err)
	assert.Equal(t, TenantActive, got.Status)
	assert.False(t, got.Unpaid)
}
