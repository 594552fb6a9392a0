package dto

import (
	"sweetflow/internal/core/types"
	"sweetflow/internal/domain/warehouse"
)

// AdjustStockRequest posts a manual stock correction. Quantity is
// signed: positive adds, negative removes.
type AdjustStockRequest struct {
	ProductID string         `json:"productId" binding:"required"`
	BranchID  string         `json:"branchId"`
	Quantity  types.Quantity `json:"quantity" binding:"required"`
	Reason    string         `json:"reason" binding:"required"`
}

// ToInput converts the request into an adjustment input.
func (r AdjustStockRequest) ToInput() (warehouse.AdjustInput, error) {
	productID, err := ParseID(r.ProductID, "productId")
	if err != nil {
		return warehouse.AdjustInput{}, err
	}
	branchID, err := ParseOptionalID(r.BranchID, "branchId")
	if err != nil {
		return warehouse.AdjustInput{}, err
	}
	return warehouse.AdjustInput{
		ProductID: productID,
		BranchID:  branchID,
		Quantity:  r.Quantity,
		Reason:    r.Reason,
	}, nil
}
