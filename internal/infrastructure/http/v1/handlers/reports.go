package handlers

import (
	"github.com/gin-gonic/gin"

	"sweetflow/internal/domain/reports"
)

// ReportsHandler handles reporting endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// Overview handles GET /reports/overview?date=YYYY-MM-DD&mode=day|week|month|year
//
// All period subtotals share one reference date; debt figures are
// all-time regardless of the requested mode.
func (h *ReportsHandler) Overview(c *gin.Context) {
	ctx := c.Request.Context()

	p, err := h.service.Period(c.DefaultQuery("mode", "day"), c.Query("date"))
	if err != nil {
		h.Error(c, err)
		return
	}

	overview, err := h.service.Overview(ctx, p)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, overview)
}
