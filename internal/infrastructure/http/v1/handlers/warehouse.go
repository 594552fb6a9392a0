package handlers

import (
	"github.com/gin-gonic/gin"

	"sweetflow/internal/domain/warehouse"
	"sweetflow/internal/infrastructure/http/v1/dto"
)

// WarehouseHandler exposes derived stock levels and manual adjustments.
type WarehouseHandler struct {
	*BaseHandler
	service *warehouse.Service
}

// NewWarehouseHandler creates a new warehouse handler.
func NewWarehouseHandler(base *BaseHandler, service *warehouse.Service) *WarehouseHandler {
	return &WarehouseHandler{BaseHandler: base, service: service}
}

// GetStock handles GET /warehouse
//
// branch_id selects the view: omitted = all pools, "central" = the
// central pool only, a UUID = that branch's own pool.
func (h *WarehouseHandler) GetStock(c *gin.Context) {
	ctx := c.Request.Context()

	sel := warehouse.All()
	switch raw := c.Query("branch_id"); raw {
	case "":
	case "central":
		sel = warehouse.Central()
	default:
		branchID, err := dto.ParseID(raw, "branch_id")
		if err != nil {
			h.Error(c, err)
			return
		}
		sel = warehouse.Branch(branchID)
	}

	rows, err := h.service.CurrentStock(ctx, sel)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rows)
}

// Adjust handles POST /warehouse/adjustments
func (h *WarehouseHandler) Adjust(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Adjust(ctx, in); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "stock adjusted")
}
