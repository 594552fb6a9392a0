package handlers

import (
	"github.com/gin-gonic/gin"

	"sweetflow/internal/core/id"
	"sweetflow/internal/domain/transfer"
	"sweetflow/internal/infrastructure/http/v1/dto"
	"sweetflow/internal/infrastructure/storage/postgres"
	"sweetflow/pkg/logger"
)

// TransferHandler handles transfer document endpoints.
type TransferHandler struct {
	*BaseHandler
	service *transfer.Service
	audit   *postgres.AuditService
}

// NewTransferHandler creates a new transfer handler.
func NewTransferHandler(base *BaseHandler, service *transfer.Service, audit *postgres.AuditService) *TransferHandler {
	return &TransferHandler{BaseHandler: base, service: service, audit: audit}
}

// Create handles POST /transfers
func (h *TransferHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateTransferRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(ctx, t); err != nil {
		h.Error(c, err)
		return
	}

	h.logAudit(c, t.ID, postgres.AuditActionCreate, map[string]any{
		"to_branch_id": t.ToBranchID,
		"items":        len(t.Items),
	})
	h.Created(c, t.ID.String())
}

// Get handles GET /transfers/:id
func (h *TransferHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	transferID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	t, err := h.service.GetByID(ctx, transferID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, t)
}

// ListIncoming handles GET /transfers/incoming/branch/:branchId
func (h *TransferHandler) ListIncoming(c *gin.Context) {
	ctx := c.Request.Context()

	branchID, err := dto.ParseID(c.Param("branchId"), "branchId")
	if err != nil {
		h.Error(c, err)
		return
	}

	transfers, err := h.service.ListIncoming(ctx, branchID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, transfers)
}

// AcceptItem handles POST /transfers/:id/items/:itemId/accept
func (h *TransferHandler) AcceptItem(c *gin.Context) {
	h.decideItem(c, transfer.ItemAccepted)
}

// RejectItem handles POST /transfers/:id/items/:itemId/reject
func (h *TransferHandler) RejectItem(c *gin.Context) {
	h.decideItem(c, transfer.ItemRejected)
}

func (h *TransferHandler) decideItem(c *gin.Context, to transfer.ItemStatus) {
	ctx := c.Request.Context()

	transferID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}
	itemID, err := dto.ParseID(c.Param("itemId"), "itemId")
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.DecideItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	branchID, err := dto.ParseID(req.BranchID, "branchId")
	if err != nil {
		h.Error(c, err)
		return
	}

	var t *transfer.Transfer
	if to == transfer.ItemAccepted {
		t, err = h.service.AcceptItem(ctx, transferID, itemID, branchID)
	} else {
		t, err = h.service.RejectItem(ctx, transferID, itemID, branchID)
	}
	if err != nil {
		h.Error(c, err)
		return
	}

	h.logAudit(c, transferID, postgres.AuditActionDecide, map[string]any{
		"item_id":   itemID,
		"decision":  to,
		"branch_id": branchID,
	})
	h.OK(c, t)
}

// AcceptByBarcode handles POST /transfers/:id/accept-barcode
func (h *TransferHandler) AcceptByBarcode(c *gin.Context) {
	ctx := c.Request.Context()

	transferID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.BarcodeAcceptRequest
	if !h.BindJSON(c, &req) {
		return
	}
	branchID, err := dto.ParseID(req.BranchID, "branchId")
	if err != nil {
		h.Error(c, err)
		return
	}

	t, err := h.service.AcceptByBarcode(ctx, transferID, req.Barcode, branchID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.logAudit(c, transferID, postgres.AuditActionDecide, map[string]any{
		"barcode":   req.Barcode,
		"branch_id": branchID,
	})
	h.OK(c, t)
}

// Cancel handles POST /transfers/:id/cancel
func (h *TransferHandler) Cancel(c *gin.Context) {
	ctx := c.Request.Context()

	transferID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	t, err := h.service.Cancel(ctx, transferID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.logAudit(c, transferID, postgres.AuditActionUpdate, map[string]any{
		"status": t.Status,
	})
	h.OK(c, t)
}

// History handles GET /transfers/:id/history
func (h *TransferHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	transferID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	entries, err := h.audit.GetEntityHistory(ctx, "transfer", transferID, h.ParseIntQuery(c, "limit", 50))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entries)
}

// logAudit is best-effort: a failed audit write never fails the request.
func (h *TransferHandler) logAudit(c *gin.Context, entityID id.ID, action postgres.AuditAction, payload map[string]any) {
	ctx := c.Request.Context()
	if err := h.audit.LogChange(ctx, "transfer", entityID, action, payload); err != nil {
		logger.Warn(ctx, "audit write failed", "entity_id", entityID, "error", err)
	}
}
