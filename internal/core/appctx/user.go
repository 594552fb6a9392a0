// Package appctx provides request-scoped values extraction.
package appctx

import (
	"context"

	"sweetflow/internal/core/id"
)

// Role names used across the API.
const (
	RolePlatformAdmin = "platform_admin"
	RoleTenantAdmin   = "tenant_admin"
	RoleManager       = "manager"
	RoleSeller        = "seller"
)

// UserContext contains authenticated user information.
// It is populated by the auth middleware from JWT claims; domain code
// trusts tenant and branch as already validated upstream.
type UserContext struct {
	UserID   id.ID
	TenantID id.ID
	BranchID *id.ID // nil for head-office users not bound to a branch
	Email    string
	Role     string
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or nil UUID.
func GetUserID(ctx context.Context) id.ID {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return id.Nil()
}

// GetTenantID returns tenant ID from context or nil UUID.
func GetTenantID(ctx context.Context) id.ID {
	if u := GetUser(ctx); u != nil {
		return u.TenantID
	}
	return id.Nil()
}

// GetBranchID returns the user's branch binding, or nil.
func GetBranchID(ctx context.Context) *id.ID {
	if u := GetUser(ctx); u != nil {
		return u.BranchID
	}
	return nil
}

// HasRole checks if user has the given role.
func HasRole(ctx context.Context, role string) bool {
	u := GetUser(ctx)
	return u != nil && u.Role == role
}

// IsPlatformAdmin reports whether the caller belongs to the platform tier.
func IsPlatformAdmin(ctx context.Context) bool {
	return HasRole(ctx, RolePlatformAdmin)
}
