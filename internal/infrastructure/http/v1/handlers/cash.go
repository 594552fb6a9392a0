package handlers

import (
	"github.com/gin-gonic/gin"

	"sweetflow/internal/core/id"
	"sweetflow/internal/domain/cash"
	"sweetflow/internal/domain/catalogs/branch"
	"sweetflow/internal/domain/reports"
	"sweetflow/internal/infrastructure/http/v1/dto"
	"sweetflow/internal/infrastructure/storage/postgres"
	"sweetflow/pkg/logger"
)

// CashHandler handles cash ledger endpoints.
type CashHandler struct {
	*BaseHandler
	service *cash.Service
	periods *reports.Service
	audit   *postgres.AuditService
}

// NewCashHandler creates a new cash handler.
func NewCashHandler(base *BaseHandler, service *cash.Service, periods *reports.Service, audit *postgres.AuditService) *CashHandler {
	return &CashHandler{BaseHandler: base, service: service, periods: periods, audit: audit}
}

// List handles GET /cash?date=&mode=&branch_type=&branch_id=
//
// Entries are listed for one reporting window, the same date/mode
// parameters the summary takes.
func (h *CashHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	p, err := h.periods.Period(c.DefaultQuery("mode", "day"), c.Query("date"))
	if err != nil {
		h.Error(c, err)
		return
	}
	from, to := p.Range()

	filter := cash.ListFilter{
		From:   &from,
		To:     &to,
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}
	if t := c.Query("branch_type"); t != "" {
		branchType := branch.Type(t)
		filter.BranchType = &branchType
	}
	branchID, err := dto.ParseOptionalID(c.Query("branch_id"), "branch_id")
	if err != nil {
		h.Error(c, err)
		return
	}
	filter.BranchID = branchID

	entries, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: entries, Limit: filter.Limit, Offset: filter.Offset})
}

// CashIn handles POST /cash/in
func (h *CashHandler) CashIn(c *gin.Context) {
	ctx := c.Request.Context()

	req, branchID, ok := h.bindEntry(c)
	if !ok {
		return
	}

	entry, err := h.service.CashIn(ctx, branchID, req.Amount, req.CashDate, req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entry)
}

// CashOut handles POST /cash/out
//
// Records money physically taken from a branch till; the stored amount
// is negative so reconciliation is a plain sum.
func (h *CashHandler) CashOut(c *gin.Context) {
	ctx := c.Request.Context()

	req, branchID, ok := h.bindEntry(c)
	if !ok {
		return
	}

	entry, err := h.service.CashOut(ctx, branchID, req.Amount, req.CashDate, req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.logAudit(c, entry.ID, map[string]any{
		"branch_id": branchID,
		"amount":    req.Amount,
	})
	h.OK(c, entry)
}

// Summary handles GET /cash/summary?date=&mode=&branch_type=&branch_id=
//
// current_amount per branch is all-time; only the period subtotals
// follow the requested mode.
func (h *CashHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	p, err := h.periods.Period(c.DefaultQuery("mode", "day"), c.Query("date"))
	if err != nil {
		h.Error(c, err)
		return
	}

	filter := cash.SummaryFilter{}
	if t := c.Query("branch_type"); t != "" {
		branchType := branch.Type(t)
		filter.BranchType = &branchType
	}
	branchID, err := dto.ParseOptionalID(c.Query("branch_id"), "branch_id")
	if err != nil {
		h.Error(c, err)
		return
	}
	filter.BranchID = branchID

	summary, err := h.service.Summary(ctx, p, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summary)
}

func (h *CashHandler) bindEntry(c *gin.Context) (dto.CashEntryRequest, id.ID, bool) {
	var req dto.CashEntryRequest
	if !h.BindJSON(c, &req) {
		return req, id.Nil(), false
	}
	branchID, err := dto.ParseID(req.BranchID, "branchId")
	if err != nil {
		h.Error(c, err)
		return req, id.Nil(), false
	}
	return req, branchID, true
}

func (h *CashHandler) logAudit(c *gin.Context, entryID id.ID, payload map[string]any) {
	ctx := c.Request.Context()
	if err := h.audit.LogChange(ctx, "cash_entry", entryID, postgres.AuditActionCashOut, payload); err != nil {
		logger.Warn(ctx, "audit write failed", "entity_id", entryID, "error", err)
	}
}
