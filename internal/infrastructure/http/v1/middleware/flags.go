package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"sweetflow/internal/core/appctx"
	"sweetflow/internal/core/apperror"
	"sweetflow/internal/core/id"
	"sweetflow/internal/core/security"
)

// PlanResolver resolves the plan code for a tenant. Backed by the
// platform service in production.
type PlanResolver interface {
	PlanCodeFor(ctx context.Context, tenantID id.ID) (string, error)
}

// RequireFlag gates a route behind a feature flag. The flag rule sees
// the caller's tenant, plan, and role. Gating fails closed: an
// unresolvable plan or a false rule yields 403.
func RequireFlag(flags security.FlagProvider, plans PlanResolver, flag string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		user := appctx.GetUser(ctx)
		if user == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}

		planCode, err := plans.PlanCodeFor(ctx, user.TenantID)
		if err != nil {
			_ = c.Error(apperror.NewForbidden("feature not available").
				WithDetail("flag", flag).
				WithCause(err))
			c.Abort()
			return
		}

		enabled := flags.IsEnabled(ctx, flag, security.FlagAttributes{
			TenantID: user.TenantID.String(),
			Plan:     planCode,
			Role:     user.Role,
		})
		if !enabled {
			_ = c.Error(apperror.NewForbidden("feature not available").
				WithDetail("flag", flag))
			c.Abort()
			return
		}

		c.Next()
	}
}
