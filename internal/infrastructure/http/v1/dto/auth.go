package dto

import (
	"time"

	"sweetflow/internal/domain/auth"
)

// LoginRequest authenticates a user within a tenant.
type LoginRequest struct {
	TenantID string `json:"tenantId" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	BranchID *string `json:"branchId,omitempty"`
	IsActive bool    `json:"isActive"`
}

// FromUser converts a user, dropping the password hash.
func FromUser(u *auth.User) UserResponse {
	resp := UserResponse{
		ID:       u.ID.String(),
		Email:    u.Email,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
	if u.BranchID != nil {
		s := u.BranchID.String()
		resp.BranchID = &s
	}
	return resp
}

// LoginResponse carries the issued token and the account.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        UserResponse `json:"user"`
}
