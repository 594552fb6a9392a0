// Package branch provides the branch directory.
// A branch is a selling location; outlets are branches that never keep
// their own stock and always draw from the central pool.
package branch

import (
	"context"
	"time"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/id"
)

// Type defines the branch category.
type Type string

const (
	TypeBranch Type = "BRANCH"
	TypeOutlet Type = "OUTLET"
)

// Branch represents a selling location of a tenant.
type Branch struct {
	ID       id.ID `db:"id" json:"id"`
	TenantID id.ID `db:"tenant_id" json:"tenantId"`

	Name string `db:"name" json:"name"`
	Type Type   `db:"branch_type" json:"branchType"`

	// UseCentralStock folds this branch's movements into the central
	// pool even though it is a regular branch. Outlets always pool.
	UseCentralStock bool `db:"use_central_stock" json:"useCentralStock"`

	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates an active branch for a tenant.
func New(tenantID id.ID, name string, branchType Type) *Branch {
	now := time.Now().UTC()
	return &Branch{
		ID:        id.New(),
		TenantID:  tenantID,
		Name:      name,
		Type:      branchType,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// PoolsToCentral reports whether stock movements attributed to this
// branch belong to the central logical pool. This is the routing rule
// the stock resolver applies at query time; it is never stored.
func (b *Branch) PoolsToCentral() bool {
	return b.Type == TypeOutlet || b.UseCentralStock
}

// Validate checks branch invariants.
func (b *Branch) Validate(ctx context.Context) error {
	if b.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if b.Type != TypeBranch && b.Type != TypeOutlet {
		return apperror.NewValidation("invalid branch type").
			WithDetail("field", "branchType").
			WithDetail("value", string(b.Type))
	}
	return nil
}
