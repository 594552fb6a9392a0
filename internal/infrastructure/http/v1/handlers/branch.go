package handlers

import (
	"github.com/gin-gonic/gin"

	"sweetflow/internal/domain/catalogs/branch"
	"sweetflow/internal/infrastructure/http/v1/dto"
)

// BranchHandler handles branch directory endpoints.
type BranchHandler struct {
	*BaseHandler
	service *branch.Service
}

// NewBranchHandler creates a new branch handler.
func NewBranchHandler(base *BaseHandler, service *branch.Service) *BranchHandler {
	return &BranchHandler{BaseHandler: base, service: service}
}

// List handles GET /branches
func (h *BranchHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := branch.ListFilter{
		ActiveOnly: c.Query("includeInactive") != "true",
	}
	if t := c.Query("type"); t != "" {
		branchType := branch.Type(t)
		filter.Type = &branchType
	}

	branches, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, branches)
}

// Create handles POST /branches
func (h *BranchHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateBranchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b := req.ToEntity()
	if err := h.service.Create(ctx, b); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, b.ID.String())
}

// Get handles GET /branches/:id
func (h *BranchHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	branchID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	b, err := h.service.GetByID(ctx, branchID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, b)
}

// Update handles PUT /branches/:id
func (h *BranchHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	branchID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.UpdateBranchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b, err := h.service.GetByID(ctx, branchID)
	if err != nil {
		h.Error(c, err)
		return
	}
	req.ApplyTo(b)

	if err := h.service.Update(ctx, b); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, b)
}

// Delete handles DELETE /branches/:id (soft delete).
func (h *BranchHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	branchID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Deactivate(ctx, branchID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
