package dto

import (
	"sweetflow/internal/core/types"
)

// CashEntryRequest records a cash movement at a branch.
// Amount is always positive; direction comes from the endpoint.
type CashEntryRequest struct {
	BranchID string           `json:"branchId" binding:"required"`
	Amount   types.MinorUnits `json:"amount" binding:"required"`
	CashDate string           `json:"cashDate"`
	Note     string           `json:"note"`
}
