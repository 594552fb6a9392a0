package platform

import (
	"context"
	"time"

	"sweetflow/internal/core/id"
	"sweetflow/internal/core/types"
)

// TenantRepository defines storage operations for tenants.
type TenantRepository interface {
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, tenantID id.ID) (*Tenant, error)
	List(ctx context.Context) ([]*Tenant, error)
	Update(ctx context.Context, t *Tenant) error

	// TopUp atomically adds to the wallet balance and clears unpaid /
	// reactivates when the new balance is non-negative.
	TopUp(ctx context.Context, tenantID id.ID, amount types.Money) (*Tenant, error)

	// ChargeIfSufficient atomically deducts price from the wallet only
	// when the balance covers it, stamping last_billed_at. Returns
	// false when the balance was insufficient.
	ChargeIfSufficient(ctx context.Context, tenantID id.ID, price types.Money, billedAt time.Time) (bool, error)

	// MarkSuspended flags the tenant unpaid and SUSPENDED.
	MarkSuspended(ctx context.Context, tenantID id.ID) error
}

// PlanRepository defines storage operations for plans.
type PlanRepository interface {
	Create(ctx context.Context, p *Plan) error
	GetByID(ctx context.Context, planID id.ID) (*Plan, error)
	List(ctx context.Context) ([]*Plan, error)
	Update(ctx context.Context, p *Plan) error
}
