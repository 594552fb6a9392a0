package handlers

import (
	"github.com/gin-gonic/gin"

	"sweetflow/internal/core/id"
	"sweetflow/internal/domain/returns"
	"sweetflow/internal/infrastructure/http/v1/dto"
	"sweetflow/internal/infrastructure/storage/postgres"
	"sweetflow/pkg/logger"
)

// ReturnsHandler handles return document endpoints.
type ReturnsHandler struct {
	*BaseHandler
	service *returns.Service
	audit   *postgres.AuditService
}

// NewReturnsHandler creates a new returns handler.
func NewReturnsHandler(base *BaseHandler, service *returns.Service, audit *postgres.AuditService) *ReturnsHandler {
	return &ReturnsHandler{BaseHandler: base, service: service, audit: audit}
}

// Create handles POST /returns
func (h *ReturnsHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ret, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(ctx, ret); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, ret.ID.String())
}

// Get handles GET /returns/:id
func (h *ReturnsHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	returnID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	ret, err := h.service.GetByID(ctx, returnID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, ret)
}

// List handles GET /returns
func (h *ReturnsHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := returns.ListFilter{
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

// AcceptItem handles POST /returns/:id/items/:itemId/accept
func (h *ReturnsHandler) AcceptItem(c *gin.Context) {
	h.decideItem(c, returns.ItemAccepted)
}

// RejectItem handles POST /returns/:id/items/:itemId/reject
func (h *ReturnsHandler) RejectItem(c *gin.Context) {
	h.decideItem(c, returns.ItemRejected)
}

func (h *ReturnsHandler) decideItem(c *gin.Context, to returns.ItemStatus) {
	ctx := c.Request.Context()

	returnID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}
	itemID, err := dto.ParseID(c.Param("itemId"), "itemId")
	if err != nil {
		h.Error(c, err)
		return
	}

	var ret *returns.Return
	if to == returns.ItemAccepted {
		ret, err = h.service.AcceptItem(ctx, returnID, itemID)
	} else {
		ret, err = h.service.RejectItem(ctx, returnID, itemID)
	}
	if err != nil {
		h.Error(c, err)
		return
	}

	h.logAudit(c, returnID, map[string]any{
		"item_id":  itemID,
		"decision": to,
	})
	h.OK(c, ret)
}

func (h *ReturnsHandler) logAudit(c *gin.Context, entityID id.ID, payload map[string]any) {
	ctx := c.Request.Context()
	if err := h.audit.LogChange(ctx, "return", entityID, postgres.AuditActionDecide, payload); err != nil {
		logger.Warn(ctx, "audit write failed", "entity_id", entityID, "error", err)
	}
}
