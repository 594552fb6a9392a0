package handlers

import (
	"github.com/gin-gonic/gin"

	"sweetflow/internal/domain/platform"
	"sweetflow/internal/infrastructure/http/v1/dto"
)

// PlatformHandler handles platform administration: tenants, plans, and
// wallet billing. Routes are gated to platform administrators.
type PlatformHandler struct {
	*BaseHandler
	service *platform.Service
}

// NewPlatformHandler creates a new platform handler.
func NewPlatformHandler(base *BaseHandler, service *platform.Service) *PlatformHandler {
	return &PlatformHandler{BaseHandler: base, service: service}
}

// ListTenants handles GET /platform/tenants
func (h *PlatformHandler) ListTenants(c *gin.Context) {
	ctx := c.Request.Context()

	tenants, err := h.service.ListTenants(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, tenants)
}

// CreateTenant handles POST /platform/tenants
func (h *PlatformHandler) CreateTenant(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateTenantRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.CreateTenant(ctx, t); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, t.ID.String())
}

// GetTenant handles GET /platform/tenants/:id
func (h *PlatformHandler) GetTenant(c *gin.Context) {
	ctx := c.Request.Context()

	tenantID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	t, err := h.service.GetTenant(ctx, tenantID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, t)
}

// TopUp handles POST /platform/tenants/:id/top-up
func (h *PlatformHandler) TopUp(c *gin.Context) {
	ctx := c.Request.Context()

	tenantID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.TopUpRequest
	if !h.BindJSON(c, &req) {
		return
	}
	amount, err := req.ParseAmount()
	if err != nil {
		h.Error(c, err)
		return
	}

	t, err := h.service.TopUpWallet(ctx, tenantID, amount)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, t)
}

// ListPlans handles GET /platform/plans
func (h *PlatformHandler) ListPlans(c *gin.Context) {
	ctx := c.Request.Context()

	plans, err := h.service.ListPlans(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, plans)
}

// CreatePlan handles POST /platform/plans
func (h *PlatformHandler) CreatePlan(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreatePlanRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.CreatePlan(ctx, p); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p.ID.String())
}

// RunBilling handles POST /platform/billing/run
//
// Sweeps all tenants once, charging those due today. Also runs from
// the billing command on a schedule; this endpoint exists for manual
// reruns after an incident.
func (h *PlatformHandler) RunBilling(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := h.service.ChargeDueTenants(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}
