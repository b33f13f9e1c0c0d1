package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	iauth "github.com/leminhha/salespipe/internal/auth"
	"github.com/leminhha/salespipe/internal/middleware"
	"github.com/leminhha/salespipe/internal/permissions"
	"github.com/leminhha/salespipe/internal/services"
	"github.com/leminhha/salespipe/pkg/errors"
	"github.com/leminhha/salespipe/pkg/metrics"
	"github.com/leminhha/salespipe/pkg/response"
)

// AuthHandler manages the session lifecycle (login/logout/me).
type AuthHandler struct {
	users    *services.UserService
	tokens   *iauth.TokenService
	resolver *permissions.Resolver
	cookies  iauth.CookieConfig
}

func NewAuthHandler(users *services.UserService, tokens *iauth.TokenService, resolver *permissions.Resolver, cookies iauth.CookieConfig) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, resolver: resolver, cookies: cookies}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.users.Authenticate(requestContext(c), req.Email, req.Password)
	if err != nil {
		// Normalise auth failures to 401 without leaking identity existence
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, errors.ErrInvalidCredentials)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, errors.ErrInternalServer.WithInternal(err))
		return
	}

	iauth.SetSessionCookie(c, h.cookies, token)
	metrics.AuthAttempts.WithLabelValues("success").Inc()

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	iauth.ClearSessionCookie(c, h.cookies)
	response.Success(c, http.StatusOK, gin.H{"logged_out": true})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.Error(c, errors.ErrAuthenticationRequired)
		return
	}

	granted := effectivePermissions(h.resolver, principal)

	response.Success(c, http.StatusOK, gin.H{
		"id":             principal.ID,
		"email":          principal.Email,
		"name":           principal.Name,
		"role":           principal.Role,
		"custom_role_id": principal.CustomRoleID,
		"permissions":    granted,
		"data_scopes":    effectiveScopes(h.resolver, principal),
	})
}

// effectivePermissions evaluates the full catalog against the principal.
func effectivePermissions(resolver *permissions.Resolver, principal *permissions.Principal) []string {
	var granted []string
	for _, def := range permissions.All() {
		if resolver.IsAllowed(principal, def.Resource, def.Action) {
			granted = append(granted, def.Name())
		}
	}
	sort.Strings(granted)
	return granted
}

// effectiveScopes reports, per assignable record resource, whether the
// principal sees every row or only owned/assigned ones. Clients use this to
// pick between "all records" and "my records" views. Products carry no
// assignment columns and are not scoped.
func effectiveScopes(resolver *permissions.Resolver, principal *permissions.Principal) map[string]string {
	scopes := make(map[string]string)
	for _, resource := range []string{
		permissions.ResourceCustomers,
		permissions.ResourceLeads,
		permissions.ResourceQuotations,
	} {
		filter := resolver.ScopeFor(principal, resource)
		metrics.ScopeResolutions.WithLabelValues(resource, string(filter.Kind)).Inc()
		scopes[resource] = string(filter.Kind)
	}
	return scopes
}
