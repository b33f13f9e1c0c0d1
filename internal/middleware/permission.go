package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/leminhha/salespipe/internal/permissions"
	"github.com/leminhha/salespipe/pkg/errors"
	"github.com/leminhha/salespipe/pkg/metrics"
	"github.com/leminhha/salespipe/pkg/response"
)

// RequirePermission checks that the authenticated principal holds the exact
// (resource, action) permission. Must run after RequireAuthenticated. The
// 403 payload names the missing permission for operator debugging; the
// decision itself never depends on what the client already knows.
func RequirePermission(resolver *permissions.Resolver, resource, action string) gin.HandlerFunc {
	name := resource + "." + action
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			response.Error(c, errors.ErrAuthenticationRequired)
			c.Abort()
			return
		}

		if !resolver.IsAllowed(principal, resource, action) {
			metrics.PermissionChecks.WithLabelValues(name, "denied").Inc()
			response.Error(c, errors.ErrInsufficientPermission.WithDetails(map[string]any{
				"permission": name,
			}))
			c.Abort()
			return
		}

		metrics.PermissionChecks.WithLabelValues(name, "allowed").Inc()
		c.Next()
	}
}
