package permissions

import "fmt"

// IdentityPolicy names the ADMIN/identity-management boundary rule. The
// source system shipped two contradictory behaviours for whether ADMIN may
// manage users and roles, so the boundary is an explicit configuration
// choice rather than a hardcoded branch.
type IdentityPolicy string

const (
	// IdentityPolicySuperAdminOnly keeps user and role management exclusive
	// to SUPERADMIN. This is the default.
	IdentityPolicySuperAdminOnly IdentityPolicy = "superadmin_only"

	// IdentityPolicySharedWithAdmin additionally grants ADMIN the identity
	// permissions it would otherwise be denied.
	IdentityPolicySharedWithAdmin IdentityPolicy = "shared_with_admin"
)

// ParseIdentityPolicy validates a configured policy value, defaulting the
// empty string to superadmin_only.
func ParseIdentityPolicy(value string) (IdentityPolicy, error) {
	switch IdentityPolicy(value) {
	case "":
		return IdentityPolicySuperAdminOnly, nil
	case IdentityPolicySuperAdminOnly, IdentityPolicySharedWithAdmin:
		return IdentityPolicy(value), nil
	}
	return "", fmt.Errorf("permissions: unknown identity policy %q", value)
}
