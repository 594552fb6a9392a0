package dto

import (
	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/id"
	"sweetflow/internal/core/types"
	"sweetflow/internal/domain/platform"
)

// CreateTenantRequest provisions a tenant on a plan.
type CreateTenantRequest struct {
	Name       string `json:"name" binding:"required"`
	PlanID     string `json:"planId" binding:"required"`
	BillingDay int    `json:"billingDay" binding:"required,min=1,max=28"`
}

// ToEntity converts the request into a tenant.
func (r CreateTenantRequest) ToEntity() (*platform.Tenant, error) {
	planID, err := id.Parse(r.PlanID)
	if err != nil {
		return nil, apperror.NewValidation("invalid planId format").
			WithDetail("value", r.PlanID)
	}
	return &platform.Tenant{
		Name:       r.Name,
		PlanID:     planID,
		BillingDay: r.BillingDay,
		Status:     platform.TenantActive,
	}, nil
}

// TopUpRequest adds funds to a tenant wallet.
type TopUpRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// ParseAmount converts the decimal string.
func (r TopUpRequest) ParseAmount() (types.Money, error) {
	amount, err := types.NewMoneyFromString(r.Amount)
	if err != nil {
		return types.Zero(), apperror.NewValidation("invalid amount").
			WithDetail("value", r.Amount)
	}
	return amount, nil
}

// CreatePlanRequest defines a subscription plan. Features maps flag
// names to CEL rules evaluated at request time.
type CreatePlanRequest struct {
	Code     string            `json:"code" binding:"required"`
	Name     string            `json:"name" binding:"required"`
	Price    string            `json:"price" binding:"required"`
	Features map[string]string `json:"features"`
}

// ToEntity converts the request into a plan.
func (r CreatePlanRequest) ToEntity() (*platform.Plan, error) {
	price, err := types.NewMoneyFromString(r.Price)
	if err != nil {
		return nil, apperror.NewValidation("invalid price").
			WithDetail("value", r.Price)
	}
	return &platform.Plan{
		Code:     r.Code,
		Name:     r.Name,
		Price:    price,
		Features: r.Features,
	}, nil
}
