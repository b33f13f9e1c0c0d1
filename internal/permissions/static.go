package permissions

// Role is one of the builtin roles. The set is closed; builtin roles are
// constants, not database rows.
type Role string

const (
	RoleSuperAdmin Role = "SUPERADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleManager    Role = "MANAGER"
	RoleSales      Role = "SALES"
)

// Valid reports whether the role belongs to the builtin set.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleManager, RoleSales:
		return true
	}
	return false
}

// staticRoleTable is the single immutable builtin-role configuration map,
// assembled once at package init and iterated generically by the resolver.
// SUPERADMIN and ADMIN are answered by dedicated resolver rules before this
// table is consulted; their entries exist so the table remains the one
// authoritative listing of builtin grants.
var staticRoleTable map[Role]map[string]struct{}

func init() {
	grants := map[Role][]string{
		RoleSuperAdmin: {
			ResourceUsers + "." + ActionView,
			ResourceUsers + "." + ActionCreate,
			ResourceUsers + "." + ActionEdit,
			ResourceUsers + "." + ActionDelete,
			ResourceRoles + "." + ActionView,
			ResourceRoles + "." + ActionCreate,
			ResourceRoles + "." + ActionEdit,
			ResourceRoles + "." + ActionDelete,
		},
		RoleManager: {},
		RoleSales:   {},
	}

	for _, resource := range []string{ResourceCustomers, ResourceLeads, ResourceQuotations} {
		grants[RoleManager] = append(grants[RoleManager],
			resource+"."+ActionViewAll,
			resource+"."+ActionViewAssigned,
			resource+"."+ActionCreate,
			resource+"."+ActionEditAll,
			resource+"."+ActionEditAssigned,
		)
		grants[RoleSales] = append(grants[RoleSales],
			resource+"."+ActionViewAssigned,
			resource+"."+ActionCreate,
			resource+"."+ActionEditAssigned,
		)
	}

	grants[RoleManager] = append(grants[RoleManager],
		ResourceProducts+"."+ActionViewAll,
		ResourceProducts+"."+ActionCreate,
		ResourceProducts+"."+ActionEditAll,
	)
	grants[RoleSales] = append(grants[RoleSales],
		ResourceProducts+"."+ActionViewAll,
	)

	staticRoleTable = make(map[Role]map[string]struct{}, len(grants))
	for role, names := range grants {
		set := make(map[string]struct{}, len(names))
		for _, name := range names {
			if _, ok := catalogByName[name]; !ok {
				panic("permissions: static grant references unknown permission " + name)
			}
			set[name] = struct{}{}
		}
		staticRoleTable[role] = set
	}
}

// StaticRoleHolds reports whether the builtin role's fixed permission set
// contains the exact (resource, action) pair.
func StaticRoleHolds(role Role, resource, action string) bool {
	set, ok := staticRoleTable[role]
	if !ok {
		return false
	}
	_, ok = set[resource+"."+action]
	return ok
}

// StaticRolePermissions returns the fixed permission names granted to the
// builtin role.
func StaticRolePermissions(role Role) []string {
	set, ok := staticRoleTable[role]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	return out
}
