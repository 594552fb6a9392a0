package handlers

import (
	"github.com/gin-gonic/gin"

	"sweetflow/internal/domain/sales"
	"sweetflow/internal/infrastructure/http/v1/dto"
)

// SalesHandler handles sale document endpoints.
type SalesHandler struct {
	*BaseHandler
	service *sales.Service
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(base *BaseHandler, service *sales.Service) *SalesHandler {
	return &SalesHandler{BaseHandler: base, service: service}
}

// Create handles POST /sales
func (h *SalesHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sale, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(ctx, sale); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, sale.ID.String())
}

// Get handles GET /sales/:id
func (h *SalesHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	saleID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	sale, err := h.service.GetByID(ctx, saleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sale)
}

// List handles GET /sales
func (h *SalesHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter, err := h.listFilter(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	items, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: items, Limit: filter.Limit, Offset: filter.Offset})
}

// Delete handles DELETE /sales/:id
func (h *SalesHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	saleID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Delete(ctx, saleID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

func (h *SalesHandler) listFilter(c *gin.Context) (sales.ListFilter, error) {
	filter := sales.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	branchID, err := dto.ParseOptionalID(c.Query("branch_id"), "branch_id")
	if err != nil {
		return filter, err
	}
	filter.BranchID = branchID

	if from, err := dto.ParseDate(c.Query("from")); err != nil {
		return filter, err
	} else if !from.IsZero() {
		filter.From = &from
	}
	if to, err := dto.ParseDate(c.Query("to")); err != nil {
		return filter, err
	} else if !to.IsZero() {
		filter.To = &to
	}
	return filter, nil
}
