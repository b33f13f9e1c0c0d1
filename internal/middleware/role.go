package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/leminhha/salespipe/internal/permissions"
	"github.com/leminhha/salespipe/pkg/errors"
	"github.com/leminhha/salespipe/pkg/response"
)

// RequireRole checks that the authenticated principal holds one of the
// builtin roles. Must run after RequireAuthenticated.
func RequireRole(roles ...permissions.Role) gin.HandlerFunc {
	allowed := make(map[permissions.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			response.Error(c, errors.ErrAuthenticationRequired)
			c.Abort()
			return
		}

		if _, ok := allowed[principal.Role]; !ok {
			response.Error(c, errors.ErrInsufficientPermission)
			c.Abort()
			return
		}

		c.Next()
	}
}
