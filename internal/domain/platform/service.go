package platform

import (
	"context"
	"fmt"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/clock"
	"sweetflow/internal/core/id"
	"sweetflow/internal/core/tx"
	"sweetflow/internal/core/types"
	"sweetflow/pkg/logger"
)

// Service provides platform administration and the billing sweep.
type Service struct {
	tenants TenantRepository
	plans   PlanRepository
	txm     tx.Manager
	clk     clock.Clock
}

// NewService creates a new platform service.
func NewService(tenants TenantRepository, plans PlanRepository, txm tx.Manager, clk clock.Clock) *Service {
	return &Service{tenants: tenants, plans: plans, txm: txm, clk: clk}
}

// CreateTenant provisions a tenant on a plan.
func (s *Service) CreateTenant(ctx context.Context, t *Tenant) error {
	if err := t.Validate(ctx); err != nil {
		return err
	}
	if _, err := s.plans.GetByID(ctx, t.PlanID); err != nil {
		return fmt.Errorf("resolve plan: %w", err)
	}

	now := s.clk.Now()
	t.ID = id.New()
	t.Status = TenantActive
	t.WalletBalance = types.Zero()
	t.CreatedAt = now
	t.UpdatedAt = now

	if err := s.tenants.Create(ctx, t); err != nil {
		return fmt.Errorf("create tenant: %w", err)
	}

	logger.Info(ctx, "tenant created", "id", t.ID, "name", t.Name)
	return nil
}

// GetTenant retrieves a tenant.
func (s *Service) GetTenant(ctx context.Context, tenantID id.ID) (*Tenant, error) {
	return s.tenants.GetByID(ctx, tenantID)
}

// ListTenants returns all tenants.
func (s *Service) ListTenants(ctx context.Context) ([]*Tenant, error) {
	return s.tenants.List(ctx)
}

// TopUpWallet adds funds to a tenant wallet.
func (s *Service) TopUpWallet(ctx context.Context, tenantID id.ID, amount types.Money) (*Tenant, error) {
	if !amount.IsPositive() {
		return nil, apperror.NewValidation("top-up amount must be positive").
			WithDetail("field", "amount")
	}

	t, err := s.tenants.TopUp(ctx, tenantID, amount)
	if err != nil {
		return nil, fmt.Errorf("top up wallet: %w", err)
	}

	logger.Info(ctx, "wallet topped up",
		"tenant_id", tenantID,
		"amount", amount.String(),
		"balance", t.WalletBalance.String(),
	)
	return t, nil
}

// CreatePlan registers a subscription plan.
func (s *Service) CreatePlan(ctx context.Context, p *Plan) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}
	now := s.clk.Now()
	p.ID = id.New()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.plans.Create(ctx, p); err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	logger.Info(ctx, "plan created", "id", p.ID, "code", p.Code)
	return nil
}

// GetPlan retrieves a plan.
func (s *Service) GetPlan(ctx context.Context, planID id.ID) (*Plan, error) {
	return s.plans.GetByID(ctx, planID)
}

// ListPlans returns all plans.
func (s *Service) ListPlans(ctx context.Context) ([]*Plan, error) {
	return s.plans.List(ctx)
}

// PlanCodeFor resolves a tenant's plan code. Used by feature gating.
func (s *Service) PlanCodeFor(ctx context.Context, tenantID id.ID) (string, error) {
	t, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return "", err
	}
	plan, err := s.plans.GetByID(ctx, t.PlanID)
	if err != nil {
		return "", err
	}
	return plan.Code, nil
}

// ChargeDueTenants runs one billing sweep. Each due tenant is charged
// its plan price in a single conditional update; a tenant whose wallet
// cannot cover the price is suspended and flagged unpaid. Failures on
// one tenant do not stop the sweep.
func (s *Service) ChargeDueTenants(ctx context.Context) (*ChargeResult, error) {
	now := s.clk.Now()

	tenants, err := s.tenants.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}

	result := &ChargeResult{}
	for _, t := range tenants {
		if !t.DueFor(now) {
			result.Skipped++
			continue
		}

		plan, err := s.plans.GetByID(ctx, t.PlanID)
		if err != nil {
			logger.Error(ctx, "billing: resolve plan failed",
				"tenant_id", t.ID, "error", err)
			result.Skipped++
			continue
		}

		err = s.txm.RunInTransaction(ctx, func(txCtx context.Context) error {
			ok, err := s.tenants.ChargeIfSufficient(txCtx, t.ID, plan.Price, now)
			if err != nil {
				return err
			}
			if !ok {
				if err := s.tenants.MarkSuspended(txCtx, t.ID); err != nil {
					return err
				}
				result.Suspended++
				logger.Warn(txCtx, "tenant suspended for insufficient balance",
					"tenant_id", t.ID, "price", plan.Price.String())
				return nil
			}
			result.Charged++
			return nil
		})
		if err != nil {
			logger.Error(ctx, "billing: charge failed",
				"tenant_id", t.ID, "error", err)
			result.Skipped++
		}
	}

	logger.Info(ctx, "billing sweep finished",
		"charged", result.Charged,
		"suspended", result.Suspended,
		"skipped", result.Skipped,
	)
	return result, nil
}
