package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/leminhha/salespipe/internal/models"
	"github.com/leminhha/salespipe/internal/permissions"
)

// PrincipalResolver recovers a live, verified principal from a raw request.
// The user row is re-fetched from storage on every resolution so that
// deactivation, archiving and role edits take effect on the very next
// request, regardless of outstanding signed tokens.
type PrincipalResolver struct {
	db     *gorm.DB
	tokens *TokenService
}

// NewPrincipalResolver constructs a resolver backed by the credential store.
func NewPrincipalResolver(db *gorm.DB, tokens *TokenService) (*PrincipalResolver, error) {
	if db == nil {
		return nil, errors.New("auth: db is required")
	}
	if tokens == nil {
		return nil, errors.New("auth: token service is required")
	}
	return &PrincipalResolver{db: db, tokens: tokens}, nil
}

// Resolve extracts the session credential and returns the current principal.
// The Authorization header takes precedence over the session cookie. A
// missing credential, an invalid or expired token, and a missing, inactive
// or archived user all yield (nil, nil): "not logged in" is an expected
// state, not an error. Only storage failures return a non-nil error.
func (r *PrincipalResolver) Resolve(c *gin.Context) (*permissions.Principal, error) {
	token := extractToken(c)
	if token == "" {
		return nil, nil
	}

	claims, err := r.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return nil, nil
		}
		return nil, err
	}

	return r.lookup(c.Request.Context(), claims.Subject)
}

// lookup re-fetches the principal snapshot by subject id.
func (r *PrincipalResolver) lookup(ctx context.Context, subjectID string) (*permissions.Principal, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var user models.User
	err := r.db.WithContext(ctx).
		Preload("CustomRole.Permissions").
		First(&user, "id = ?", subjectID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("auth: load principal: %w", err)
	}

	// Freshness overrides signature validity.
	if !user.IsActive || user.IsArchived {
		return nil, nil
	}

	principal := &permissions.Principal{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  permissions.Role(user.Role),
	}

	if user.CustomRoleID != nil && *user.CustomRoleID != "" {
		principal.CustomRoleID = *user.CustomRoleID
		if user.CustomRole != nil {
			names := make([]string, 0, len(user.CustomRole.Permissions))
			for _, perm := range user.CustomRole.Permissions {
				names = append(names, perm.Name())
			}
			principal.CustomRolePermissions = names
		}
	}

	return principal, nil
}

// extractToken pulls the raw credential from the Authorization header,
// falling back to the session cookie.
func extractToken(c *gin.Context) string {
	authz := c.GetHeader("Authorization")
	if len(authz) >= 8 && strings.EqualFold(authz[:7], "Bearer ") {
		return strings.TrimSpace(authz[7:])
	}

	cookie, err := c.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie)
}
