package handlers

import (
	"github.com/gin-gonic/gin"

	"sweetflow/internal/domain/production"
	"sweetflow/internal/infrastructure/http/v1/dto"
)

// ProductionHandler handles production batch endpoints.
type ProductionHandler struct {
	*BaseHandler
	service *production.Service
}

// NewProductionHandler creates a new production handler.
func NewProductionHandler(base *BaseHandler, service *production.Service) *ProductionHandler {
	return &ProductionHandler{BaseHandler: base, service: service}
}

// Create handles POST /production
func (h *ProductionHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ProductionBatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	batch, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(ctx, batch); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, batch.ID.String())
}

// Get handles GET /production/:id
func (h *ProductionHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	batchID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	batch, err := h.service.GetByID(ctx, batchID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, batch)
}

// List handles GET /production
func (h *ProductionHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := production.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}
	branchID, err := dto.ParseOptionalID(c.Query("branch_id"), "branch_id")
	if err != nil {
		h.Error(c, err)
		return
	}
	filter.BranchID = branchID

	items, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: items, Limit: filter.Limit, Offset: filter.Offset})
}

// Update handles PUT /production/:id
//
// Replaces the batch lines; ledger movements for the old lines are
// removed and re-posted so derived stock follows the edit.
func (h *ProductionHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	batchID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.ProductionBatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	batch, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}
	batch.ID = batchID

	if err := h.service.Update(ctx, batch); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, batch)
}

// Delete handles DELETE /production/:id
func (h *ProductionHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	batchID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Delete(ctx, batchID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
