// Package platform manages tenants, subscription plans, and the
// wallet-based billing sweep.
package platform

import (
	"context"
	"time"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/id"
	"sweetflow/internal/core/types"
)

// TenantStatus gates whether a tenant's users may operate.
type TenantStatus string

const (
	TenantActive    TenantStatus = "ACTIVE"
	TenantSuspended TenantStatus = "SUSPENDED"
)

// Tenant is one provisioned customer account.
type Tenant struct {
	ID     id.ID  `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	PlanID id.ID  `db:"plan_id" json:"planId"`

	// WalletBalance uses decimal arithmetic: fractional plan prices
	// deducted over many cycles must stay exact.
	WalletBalance types.Money  `db:"wallet_balance" json:"walletBalance"`
	BillingDay    int          `db:"billing_day" json:"billingDay"` // 1..28
	LastBilledAt  *time.Time   `db:"last_billed_at" json:"lastBilledAt,omitempty"`
	Unpaid        bool         `db:"unpaid" json:"unpaid"`
	Status        TenantStatus `db:"status" json:"status"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks tenant invariants.
func (t *Tenant) Validate(ctx context.Context) error {
	if t.Name == "" {
		return apperror.NewValidation("tenant name is required").
			WithDetail("field", "name")
	}
	if id.IsNil(t.PlanID) {
		return apperror.NewValidation("plan is required").
			WithDetail("field", "planId")
	}
	if t.BillingDay < 1 || t.BillingDay > 28 {
		return apperror.NewValidation("billing day must be between 1 and 28").
			WithDetail("field", "billingDay")
	}
	return nil
}

// DueFor reports whether the tenant should be charged at the given
// instant: active, billing day reached this month, and not yet billed
// within the current month.
func (t *Tenant) DueFor(now time.Time) bool {
	if t.Status != TenantActive {
		return false
	}
	if now.Day() < t.BillingDay {
		return false
	}
	if t.LastBilledAt == nil {
		return true
	}
	ly, lm, _ := t.LastBilledAt.Date()
	ny, nm, _ := now.Date()
	return ly != ny || lm != nm
}

// Plan is a subscription tier. Features is the raw CEL rule set keyed
// by flag name, evaluated by the feature-flag provider.
type Plan struct {
	Name     string            `db:"name" json:"name"`
	ID       id.ID             `db:"id" json:"id"`
	Code     string            `db:"code" json:"code"` // e.g. "starter", "standard", "pro"
	Price    types.Money       `db:"price" json:"price"`
	Features map[string]string `db:"features" json:"features"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks plan invariants.
func (p *Plan) Validate(ctx context.Context) error {
	if p.Name == "" || p.Code == "" {
		return apperror.NewValidation("plan name and code are required")
	}
	if p.Price.IsNegative() {
		return apperror.NewValidation("plan price must not be negative").
			WithDetail("field", "price")
	}
	return nil
}

// ChargeResult summarizes one billing sweep.
type ChargeResult struct {
	Charged   int `json:"charged"`
	Suspended int `json:"suspended"`
	Skipped   int `json:"skipped"`
}
