package permissions

// Principal is the authenticated projection of a user consumed by the
// resolver. It is rebuilt from current storage on every request; the
// resolver itself never caches or re-reads state, keeping each decision a
// pure function of the snapshot it is handed.
type Principal struct {
	ID           string
	Email        string
	Name         string
	Role         Role
	CustomRoleID string

	// CustomRolePermissions holds the "resource.action" names linked to the
	// principal's custom role at resolution time. Empty when no custom role
	// is assigned.
	CustomRolePermissions []string
}

// HasCustomRole reports whether a custom role is assigned.
func (p *Principal) HasCustomRole() bool {
	return p != nil && p.CustomRoleID != ""
}

// Resolver answers allow/deny questions for (principal, resource, action).
type Resolver struct {
	policy IdentityPolicy
}

// NewResolver builds a resolver enforcing the supplied identity policy.
func NewResolver(policy IdentityPolicy) *Resolver {
	if policy == "" {
		policy = IdentityPolicySuperAdminOnly
	}
	return &Resolver{policy: policy}
}

// IsAllowed decides whether the principal may perform action on resource.
// Resolution order, first match wins:
//  1. SUPERADMIN: identity resources only; the ceiling cannot be widened by
//     any custom role.
//  2. ADMIN: every non-identity resource; identity resources per the
//     configured IdentityPolicy.
//  3. Assigned custom role: exact (resource, action) membership.
//  4. No custom role: the static builtin-role table, exact match.
//  5. Deny.
func (r *Resolver) IsAllowed(p *Principal, resource, action string) bool {
	if p == nil {
		return false
	}
	if _, ok := Lookup(resource, action); !ok {
		return false
	}

	switch p.Role {
	case RoleSuperAdmin:
		return IsIdentityResource(resource)
	case RoleAdmin:
		if IsIdentityResource(resource) {
			return r.policy == IdentityPolicySharedWithAdmin
		}
		return true
	}

	if p.HasCustomRole() {
		name := resource + "." + action
		for _, held := range p.CustomRolePermissions {
			if held == name {
				return true
			}
		}
		return false
	}

	return StaticRoleHolds(p.Role, resource, action)
}
