package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/leminhha/salespipe/internal/models"
	apperrors "github.com/leminhha/salespipe/pkg/errors"
)

var (
	// ErrRoleNotFound indicates the requested custom role does not exist.
	ErrRoleNotFound = apperrors.New("ROLE_NOT_FOUND", "Role not found", http.StatusNotFound)
)

// RoleService manages the custom role graph: administrator-defined roles and
// their many-to-many links into the permission catalog.
type RoleService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewRoleService constructs a RoleService using the provided database handle.
func NewRoleService(db *gorm.DB, audit *AuditService) (*RoleService, error) {
	if db == nil {
		return nil, errors.New("role service: db is required")
	}
	return &RoleService{
		db:           db,
		auditService: audit,
	}, nil
}

// CreateRoleInput describes the payload accepted by CreateRole.
type CreateRoleInput struct {
	Name          string
	Description   string
	PermissionIDs []string
}

// UpdateRoleInput describes mutable fields on a role. Nil pointers leave the
// field untouched.
type UpdateRoleInput struct {
	Name        *string
	Description *string
}

// RoleWithUsage pairs a role with the number of users currently assigned to it.
type RoleWithUsage struct {
	models.CustomRole
	UserCount int64 `json:"user_count"`
}

// CreateRole registers a new custom role and links the supplied catalog
// permissions. Name collisions are exact, case-sensitive matches.
func (s *RoleService) CreateRole(ctx context.Context, input CreateRoleInput) (*models.CustomRole, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidation("role name is required")
	}

	var role *models.CustomRole
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.CustomRole{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("role service: check name: %w", err)
		}
		if count > 0 {
			return apperrors.NewConflict(fmt.Sprintf("role %q already exists", name))
		}

		perms, err := resolveCatalogPermissions(tx, input.PermissionIDs)
		if err != nil {
			return err
		}

		role = &models.CustomRole{
			Name:        name,
			Description: strings.TrimSpace(input.Description),
			IsSystem:    false,
			IsActive:    true,
		}

		if err := tx.Create(role).Error; err != nil {
			if isUniqueConstraintError(err) {
				return apperrors.NewConflict(fmt.Sprintf("role %q already exists", name))
			}
			return fmt.Errorf("role service: create role: %w", err)
		}

		if len(perms) > 0 {
			if err := tx.Model(role).Association("Permissions").Replace(perms); err != nil {
				return fmt.Errorf("role service: link permissions: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "role.create",
		Resource: role.ID,
		Result:   "success",
		Metadata: map[string]any{
			"name":           role.Name,
			"permission_ids": input.PermissionIDs,
		},
	})

	return role, nil
}

// UpdateRole modifies role metadata. Renaming a system role to a different
// name is rejected; renaming it to its current name is a no-op.
func (s *RoleService) UpdateRole(ctx context.Context, roleID string, input UpdateRoleInput) (*models.CustomRole, error) {
	ctx = ensureContext(ctx)

	var role models.CustomRole
	if err := s.db.WithContext(ctx).First(&role, "id = ?", roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("role service: load role: %w", err)
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidation("role name is required")
		}
		if name != role.Name {
			if role.IsSystem {
				return nil, apperrors.NewValidation("cannot rename system roles")
			}
			var count int64
			if err := s.db.WithContext(ctx).Model(&models.CustomRole{}).
				Where("name = ? AND id <> ?", name, role.ID).Count(&count).Error; err != nil {
				return nil, fmt.Errorf("role service: check name: %w", err)
			}
			if count > 0 {
				return nil, apperrors.NewConflict(fmt.Sprintf("role %q already exists", name))
			}
			updates["name"] = name
		}
	}
	if input.Description != nil {
		if desc := strings.TrimSpace(*input.Description); desc != role.Description {
			updates["description"] = desc
		}
	}

	if len(updates) == 0 {
		return &role, nil
	}

	if err := s.db.WithContext(ctx).Model(&role).Updates(updates).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewConflict("role name already exists")
		}
		return nil, fmt.Errorf("role service: update role: %w", err)
	}

	if err := s.db.WithContext(ctx).First(&role, "id = ?", roleID).Error; err != nil {
		return nil, fmt.Errorf("role service: reload role: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "role.update",
		Resource: role.ID,
		Result:   "success",
		Metadata: updates,
	})

	return &role, nil
}

// ReplacePermissions atomically clears and relinks the role's permission
// set. Any unknown id aborts the whole operation; applying the same set
// twice yields the same links as once.
func (s *RoleService) ReplacePermissions(ctx context.Context, roleID string, permissionIDs []string) error {
	ctx = ensureContext(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role models.CustomRole
		if err := tx.First(&role, "id = ?", roleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoleNotFound
			}
			return fmt.Errorf("role service: load role: %w", err)
		}

		perms, err := resolveCatalogPermissions(tx, permissionIDs)
		if err != nil {
			return err
		}

		if len(perms) == 0 {
			return tx.Model(&role).Association("Permissions").Clear()
		}
		if err := tx.Model(&role).Association("Permissions").Replace(perms); err != nil {
			return fmt.Errorf("role service: replace permissions: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "role.replace_permissions",
		Resource: roleID,
		Result:   "success",
		Metadata: map[string]any{
			"permission_ids": permissionIDs,
		},
	})

	return nil
}

// DeleteRole hard-deletes a custom role and its permission links. System
// roles cannot be deleted; roles still referenced by users are reported as a
// conflict carrying the exact assigned-user count.
func (s *RoleService) DeleteRole(ctx context.Context, roleID string) error {
	ctx = ensureContext(ctx)

	var name string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role models.CustomRole
		if err := tx.First(&role, "id = ?", roleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoleNotFound
			}
			return fmt.Errorf("role service: load role: %w", err)
		}

		if role.IsSystem {
			return apperrors.NewValidation("cannot delete system roles")
		}

		var userCount int64
		if err := tx.Model(&models.User{}).Where("custom_role_id = ?", role.ID).Count(&userCount).Error; err != nil {
			return fmt.Errorf("role service: count assigned users: %w", err)
		}
		if userCount > 0 {
			return apperrors.NewConflict(fmt.Sprintf("role is assigned to %d user(s)", userCount)).
				WithDetails(map[string]any{"user_count": userCount})
		}

		if err := tx.Model(&role).Association("Permissions").Clear(); err != nil {
			return fmt.Errorf("role service: clear permissions: %w", err)
		}
		if err := tx.Delete(&role).Error; err != nil {
			return fmt.Errorf("role service: delete role: %w", err)
		}

		name = role.Name
		return nil
	})
	if err != nil {
		return err
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "role.delete",
		Resource: roleID,
		Result:   "success",
		Metadata: map[string]any{
			"name": name,
		},
	})

	return nil
}

// SetActive toggles listing visibility. Deactivation does not revoke
// effective permissions for users already assigned to the role.
func (s *RoleService) SetActive(ctx context.Context, roleID string, active bool) (*models.CustomRole, error) {
	ctx = ensureContext(ctx)

	var role models.CustomRole
	if err := s.db.WithContext(ctx).First(&role, "id = ?", roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("role service: load role: %w", err)
	}

	if role.IsActive == active {
		return &role, nil
	}

	if err := s.db.WithContext(ctx).Model(&role).Update("is_active", active).Error; err != nil {
		return nil, fmt.Errorf("role service: set active: %w", err)
	}
	role.IsActive = active

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "role.set_active",
		Resource: role.ID,
		Result:   "success",
		Metadata: map[string]any{
			"is_active": active,
		},
	})

	return &role, nil
}

// GetRole loads a role with its linked permissions and assigned-user count.
func (s *RoleService) GetRole(ctx context.Context, roleID string) (*RoleWithUsage, error) {
	ctx = ensureContext(ctx)

	var role models.CustomRole
	if err := s.db.WithContext(ctx).Preload("Permissions").First(&role, "id = ?", roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("role service: load role: %w", err)
	}

	var userCount int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("custom_role_id = ?", role.ID).Count(&userCount).Error; err != nil {
		return nil, fmt.Errorf("role service: count assigned users: %w", err)
	}

	return &RoleWithUsage{CustomRole: role, UserCount: userCount}, nil
}

// ListRoles returns roles ordered by creation date. Inactive roles are
// hidden unless includeInactive is set.
func (s *RoleService) ListRoles(ctx context.Context, includeInactive bool) ([]RoleWithUsage, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Preload("Permissions").Order("created_at ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var roles []models.CustomRole
	if err := query.Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("role service: list roles: %w", err)
	}

	out := make([]RoleWithUsage, 0, len(roles))
	for _, role := range roles {
		var userCount int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).Where("custom_role_id = ?", role.ID).Count(&userCount).Error; err != nil {
			return nil, fmt.Errorf("role service: count assigned users: %w", err)
		}
		out = append(out, RoleWithUsage{CustomRole: role, UserCount: userCount})
	}
	return out, nil
}

// resolveCatalogPermissions loads catalog rows for the supplied ids,
// rejecting duplicates silently and unknown ids loudly.
func resolveCatalogPermissions(tx *gorm.DB, permissionIDs []string) ([]models.Permission, error) {
	seen := make(map[string]struct{}, len(permissionIDs))
	ids := make([]string, 0, len(permissionIDs))
	for _, id := range permissionIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, nil
	}

	var perms []models.Permission
	if err := tx.Where("id IN ?", ids).Find(&perms).Error; err != nil {
		return nil, fmt.Errorf("role service: load permissions: %w", err)
	}

	if len(perms) != len(ids) {
		found := make(map[string]struct{}, len(perms))
		for _, perm := range perms {
			found[perm.ID] = struct{}{}
		}
		var unknown []string
		for _, id := range ids {
			if _, ok := found[id]; !ok {
				unknown = append(unknown, id)
			}
		}
		sort.Strings(unknown)
		return nil, apperrors.NewValidation("unknown permission ids").
			WithDetails(map[string]any{"permission_ids": unknown})
	}

	return perms, nil
}
