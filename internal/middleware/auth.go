package middleware

import (
	"github.com/gin-gonic/gin"

	iauth "github.com/leminhha/salespipe/internal/auth"
	"github.com/leminhha/salespipe/internal/permissions"
	"github.com/leminhha/salespipe/pkg/errors"
	"github.com/leminhha/salespipe/pkg/response"
)

const (
	// CtxPrincipalKey stores the resolved principal for downstream handlers.
	CtxPrincipalKey = "authPrincipal"
)

// RequireAuthenticated resolves the principal and aborts with 401 when the
// request carries no usable identity. The resolved principal is stored in
// the request context for handlers and later guards.
func RequireAuthenticated(resolver *iauth.PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := resolver.Resolve(c)
		if err != nil {
			response.Error(c, errors.ErrInternalServer.WithInternal(err))
			c.Abort()
			return
		}
		if principal == nil {
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrAuthenticationRequired)
			c.Abort()
			return
		}

		c.Set(CtxPrincipalKey, principal)
		c.Next()
	}
}

// PrincipalFrom returns the principal stored by RequireAuthenticated.
func PrincipalFrom(c *gin.Context) (*permissions.Principal, bool) {
	v, ok := c.Get(CtxPrincipalKey)
	if !ok {
		return nil, false
	}
	principal, ok := v.(*permissions.Principal)
	return principal, ok && principal != nil
}
