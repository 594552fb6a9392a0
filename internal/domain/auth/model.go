// Package auth provides authentication and identity for API requests.
package auth

import (
	"context"
	"time"

	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/id"
)

// User is an account scoped to a tenant. Sellers are additionally
// bound to one branch.
type User struct {
	ID       id.ID  `db:"id" json:"id"`
	TenantID id.ID  `db:"tenant_id" json:"tenantId"`
	BranchID *id.ID `db:"branch_id" json:"branchId,omitempty"`

	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
	Role         string `db:"role" json:"role"`
	IsActive     bool   `db:"is_active" json:"isActive"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks account invariants.
func (u *User) Validate(ctx context.Context) error {
	if u.Email == "" {
		return apperror.NewValidation("email is required").
			WithDetail("field", "email")
	}
	if u.Role == "" {
		return apperror.NewValidation("role is required").
			WithDetail("field", "role")
	}
	return nil
}

// Credentials is the login request payload.
type Credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest creates a new account within the current tenant.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
	BranchID *id.ID `json:"branchId,omitempty"`
}

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Repository defines storage operations for user accounts.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	GetByEmail(ctx context.Context, tenantID id.ID, email string) (*User, error)
	Exists(ctx context.Context, tenantID id.ID, email string) (bool, error)
	Update(ctx context.Context, u *User) error
	List(ctx context.Context, tenantID id.ID) ([]*User, error)
	Count(ctx context.Context, tenantID id.ID) (int, error)
}
