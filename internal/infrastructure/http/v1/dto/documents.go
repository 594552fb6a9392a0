package dto

import (
	"sweetflow/internal/core/types"
	"sweetflow/internal/domain/expense"
	"sweetflow/internal/domain/production"
	"sweetflow/internal/domain/returns"
	"sweetflow/internal/domain/sales"
	"sweetflow/internal/domain/transfer"
)

// --- Transfers ---

// TransferItemRequest is one line of a new transfer.
type TransferItemRequest struct {
	ProductID string         `json:"productId" binding:"required"`
	Quantity  types.Quantity `json:"quantity" binding:"required"`
}

// CreateTransferRequest dispatches goods from a source to a branch.
// An absent fromBranchId means the central pool.
type CreateTransferRequest struct {
	TransferDate string                `json:"transferDate"`
	FromBranchID string                `json:"fromBranchId"`
	ToBranchID   string                `json:"toBranchId" binding:"required"`
	Note         string                `json:"note"`
	Items        []TransferItemRequest `json:"items" binding:"required,min=1"`
}

// ToEntity converts the request into a transfer document.
func (r CreateTransferRequest) ToEntity() (*transfer.Transfer, error) {
	date, err := ParseDate(r.TransferDate)
	if err != nil {
		return nil, err
	}
	from, err := ParseOptionalID(r.FromBranchID, "fromBranchId")
	if err != nil {
		return nil, err
	}
	to, err := ParseID(r.ToBranchID, "toBranchId")
	if err != nil {
		return nil, err
	}

	t := &transfer.Transfer{
		TransferDate: date,
		FromBranchID: from,
		ToBranchID:   to,
		Note:         r.Note,
		Items:        make([]transfer.Item, 0, len(r.Items)),
	}
	for _, item := range r.Items {
		productID, err := ParseID(item.ProductID, "productId")
		if err != nil {
			return nil, err
		}
		t.Items = append(t.Items, transfer.Item{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}
	return t, nil
}

// DecideItemRequest accepts or rejects a transfer item at a branch.
type DecideItemRequest struct {
	BranchID string `json:"branchId" binding:"required"`
}

// BarcodeAcceptRequest accepts a transfer item by scanned barcode.
type BarcodeAcceptRequest struct {
	BranchID string `json:"branchId" binding:"required"`
	Barcode  string `json:"barcode" binding:"required"`
}

// --- Sales ---

// SaleItemRequest is one line of a new sale.
type SaleItemRequest struct {
	ProductID string           `json:"productId" binding:"required"`
	Quantity  types.Quantity   `json:"quantity" binding:"required"`
	UnitPrice types.MinorUnits `json:"unitPrice"`
}

// CreateSaleRequest records a sale at a branch.
type CreateSaleRequest struct {
	SaleDate string            `json:"saleDate"`
	BranchID string            `json:"branchId" binding:"required"`
	Note     string            `json:"note"`
	Items    []SaleItemRequest `json:"items" binding:"required,min=1"`
}

// ToEntity converts the request into a sale document.
func (r CreateSaleRequest) ToEntity() (*sales.Sale, error) {
	date, err := ParseDate(r.SaleDate)
	if err != nil {
		return nil, err
	}
	branchID, err := ParseID(r.BranchID, "branchId")
	if err != nil {
		return nil, err
	}

	sale := &sales.Sale{
		SaleDate: date,
		BranchID: branchID,
		Note:     r.Note,
		Items:    make([]sales.Item, 0, len(r.Items)),
	}
	for _, item := range r.Items {
		productID, err := ParseID(item.ProductID, "productId")
		if err != nil {
			return nil, err
		}
		sale.Items = append(sale.Items, sales.Item{
			ProductID: productID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return sale, nil
}

// --- Production ---

// ProductionItemRequest is one produced line.
type ProductionItemRequest struct {
	ProductID string         `json:"productId" binding:"required"`
	Quantity  types.Quantity `json:"quantity" binding:"required"`
}

// ProductionBatchRequest creates or replaces a production batch.
// An absent branchId means produced into the central pool.
type ProductionBatchRequest struct {
	ProductionDate string                  `json:"productionDate"`
	BranchID       string                  `json:"branchId"`
	Note           string                  `json:"note"`
	Items          []ProductionItemRequest `json:"items" binding:"required,min=1"`
}

// ToEntity converts the request into a production batch.
func (r ProductionBatchRequest) ToEntity() (*production.Batch, error) {
	date, err := ParseDate(r.ProductionDate)
	if err != nil {
		return nil, err
	}
	branchID, err := ParseOptionalID(r.BranchID, "branchId")
	if err != nil {
		return nil, err
	}

	b := &production.Batch{
		ProductionDate: date,
		BranchID:       branchID,
		Note:           r.Note,
		Items:          make([]production.Item, 0, len(r.Items)),
	}
	for _, item := range r.Items {
		productID, err := ParseID(item.ProductID, "productId")
		if err != nil {
			return nil, err
		}
		b.Items = append(b.Items, production.Item{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}
	return b, nil
}

// --- Returns ---

// ReturnItemRequest is one returned line.
type ReturnItemRequest struct {
	ProductID string         `json:"productId" binding:"required"`
	Quantity  types.Quantity `json:"quantity" binding:"required"`
}

// CreateReturnRequest registers goods coming back from a branch.
type CreateReturnRequest struct {
	ReturnDate string              `json:"returnDate"`
	BranchID   string              `json:"branchId"`
	Note       string              `json:"note"`
	Items      []ReturnItemRequest `json:"items" binding:"required,min=1"`
}

// ToEntity converts the request into a return document.
func (r CreateReturnRequest) ToEntity() (*returns.Return, error) {
	date, err := ParseDate(r.ReturnDate)
	if err != nil {
		return nil, err
	}
	branchID, err := ParseOptionalID(r.BranchID, "branchId")
	if err != nil {
		return nil, err
	}

	ret := &returns.Return{
		ReturnDate: date,
		BranchID:   branchID,
		Note:       r.Note,
		Items:      make([]returns.Item, 0, len(r.Items)),
	}
	for _, item := range r.Items {
		productID, err := ParseID(item.ProductID, "productId")
		if err != nil {
			return nil, err
		}
		ret.Items = append(ret.Items, returns.Item{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}
	return ret, nil
}

// --- Expenses ---

// CreateExpenseRequest records an operating expense.
type CreateExpenseRequest struct {
	ExpenseDate string           `json:"expenseDate"`
	BranchID    string           `json:"branchId"`
	ExpenseType string           `json:"expenseType" binding:"required"`
	Amount      types.MinorUnits `json:"amount" binding:"required"`
	Note        string           `json:"note"`
}

// ToEntity converts the request into an expense entry.
func (r CreateExpenseRequest) ToEntity() (*expense.Expense, error) {
	date, err := ParseDate(r.ExpenseDate)
	if err != nil {
		return nil, err
	}
	branchID, err := ParseOptionalID(r.BranchID, "branchId")
	if err != nil {
		return nil, err
	}
	return &expense.Expense{
		ExpenseDate: date,
		BranchID:    branchID,
		ExpenseType: r.ExpenseType,
		Amount:      r.Amount,
		Note:        r.Note,
	}, nil
}
