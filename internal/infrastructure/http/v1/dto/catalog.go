package dto

import (
	"sweetflow/internal/core/types"
	"sweetflow/internal/domain/catalogs/branch"
	"sweetflow/internal/domain/catalogs/product"
)

// --- Branch ---

// CreateBranchRequest for creating branches.
type CreateBranchRequest struct {
	Name            string `json:"name" binding:"required"`
	BranchType      string `json:"branchType" binding:"required"`
	UseCentralStock bool   `json:"useCentralStock"`
}

// ToEntity converts the request into a branch.
func (r CreateBranchRequest) ToEntity() *branch.Branch {
	return &branch.Branch{
		Name:            r.Name,
		Type:            branch.Type(r.BranchType),
		UseCentralStock: r.UseCentralStock,
		IsActive:        true,
	}
}

// UpdateBranchRequest for updating branches.
type UpdateBranchRequest struct {
	Name            *string `json:"name"`
	BranchType      *string `json:"branchType"`
	UseCentralStock *bool   `json:"useCentralStock"`
	IsActive        *bool   `json:"isActive"`
}

// ApplyTo merges provided fields into an existing branch.
func (r UpdateBranchRequest) ApplyTo(b *branch.Branch) {
	if r.Name != nil {
		b.Name = *r.Name
	}
	if r.BranchType != nil {
		b.Type = branch.Type(*r.BranchType)
	}
	if r.UseCentralStock != nil {
		b.UseCentralStock = *r.UseCentralStock
	}
	if r.IsActive != nil {
		b.IsActive = *r.IsActive
	}
}

// --- Product ---

// CreateProductRequest for creating products.
type CreateProductRequest struct {
	Name           string           `json:"name" binding:"required"`
	Unit           string           `json:"unit" binding:"required"`
	Barcode        string           `json:"barcode"`
	RetailPrice    types.MinorUnits `json:"retailPrice"`
	WholesalePrice types.MinorUnits `json:"wholesalePrice"`
}

// ToEntity converts the request into a product.
func (r CreateProductRequest) ToEntity() *product.Product {
	return &product.Product{
		Name:           r.Name,
		Unit:           r.Unit,
		Barcode:        r.Barcode,
		RetailPrice:    r.RetailPrice,
		WholesalePrice: r.WholesalePrice,
		IsActive:       true,
	}
}

// UpdateProductRequest for updating products.
type UpdateProductRequest struct {
	Name           *string           `json:"name"`
	Unit           *string           `json:"unit"`
	Barcode        *string           `json:"barcode"`
	RetailPrice    *types.MinorUnits `json:"retailPrice"`
	WholesalePrice *types.MinorUnits `json:"wholesalePrice"`
	IsActive       *bool             `json:"isActive"`
}

// ApplyTo merges provided fields into an existing product.
func (r UpdateProductRequest) ApplyTo(p *product.Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Unit != nil {
		p.Unit = *r.Unit
	}
	if r.Barcode != nil {
		p.Barcode = *r.Barcode
	}
	if r.RetailPrice != nil {
		p.RetailPrice = *r.RetailPrice
	}
	if r.WholesalePrice != nil {
		p.WholesalePrice = *r.WholesalePrice
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
}
