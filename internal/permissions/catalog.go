package permissions

import "sort"

// Resource names understood by the catalog. Users and roles form the
// identity-management boundary reserved for SUPERADMIN.
const (
	ResourceCustomers  = "customers"
	ResourceLeads      = "leads"
	ResourceQuotations = "quotations"
	ResourceProducts   = "products"
	ResourceUsers      = "users"
	ResourceRoles      = "roles"
)

// Actions. view_all and view_assigned are distinct entitlements: holding one
// never implies the other.
const (
	ActionViewAll      = "view_all"
	ActionViewAssigned = "view_assigned"
	ActionCreate       = "create"
	ActionEditAll      = "edit_all"
	ActionEditAssigned = "edit_assigned"
	ActionDelete       = "delete"
	ActionView         = "view"
	ActionEdit         = "edit"
)

// Catalog categories.
const (
	CategorySales    = "sales"
	CategoryCatalog  = "catalog"
	CategoryIdentity = "identity"
)

// Definition describes one catalog entry. The catalog is the fixed universe
// of (resource, action) pairs; it is declared here and mirrored into the
// database at startup so custom roles can link against stable rows.
type Definition struct {
	Resource    string
	Action      string
	Category    string
	Description string
}

// Name returns the canonical "resource.action" identifier.
func (d Definition) Name() string {
	return d.Resource + "." + d.Action
}

var catalog []Definition

var catalogByName map[string]Definition

func init() {
	salesActions := []struct {
		action      string
		description string
	}{
		{ActionViewAll, "View all records"},
		{ActionViewAssigned, "View assigned or owned records"},
		{ActionCreate, "Create records"},
		{ActionEditAll, "Edit all records"},
		{ActionEditAssigned, "Edit assigned or owned records"},
		{ActionDelete, "Delete records"},
	}

	for _, resource := range []string{ResourceCustomers, ResourceLeads, ResourceQuotations} {
		for _, a := range salesActions {
			catalog = append(catalog, Definition{
				Resource:    resource,
				Action:      a.action,
				Category:    CategorySales,
				Description: a.description,
			})
		}
	}

	catalog = append(catalog,
		Definition{ResourceProducts, ActionViewAll, CategoryCatalog, "View product catalog"},
		Definition{ResourceProducts, ActionCreate, CategoryCatalog, "Create products"},
		Definition{ResourceProducts, ActionEditAll, CategoryCatalog, "Edit products"},
		Definition{ResourceProducts, ActionDelete, CategoryCatalog, "Delete products"},

		Definition{ResourceUsers, ActionView, CategoryIdentity, "View user accounts"},
		Definition{ResourceUsers, ActionCreate, CategoryIdentity, "Create user accounts"},
		Definition{ResourceUsers, ActionEdit, CategoryIdentity, "Edit user accounts"},
		Definition{ResourceUsers, ActionDelete, CategoryIdentity, "Delete user accounts"},

		Definition{ResourceRoles, ActionView, CategoryIdentity, "View roles"},
		Definition{ResourceRoles, ActionCreate, CategoryIdentity, "Create roles"},
		Definition{ResourceRoles, ActionEdit, CategoryIdentity, "Edit roles"},
		Definition{ResourceRoles, ActionDelete, CategoryIdentity, "Delete roles"},
	)

	catalogByName = make(map[string]Definition, len(catalog))
	for _, def := range catalog {
		if _, exists := catalogByName[def.Name()]; exists {
			panic("permissions: duplicate catalog entry " + def.Name())
		}
		catalogByName[def.Name()] = def
	}
}

// All returns a copy of the full catalog.
func All() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup reports whether the (resource, action) pair exists in the catalog.
func Lookup(resource, action string) (Definition, bool) {
	def, ok := catalogByName[resource+"."+action]
	return def, ok
}

// ByCategory groups the catalog by category, each group sorted by name.
func ByCategory() map[string][]Definition {
	out := make(map[string][]Definition)
	for _, def := range catalog {
		out[def.Category] = append(out[def.Category], def)
	}
	for _, defs := range out {
		sort.Slice(defs, func(i, j int) bool { return defs[i].Name() < defs[j].Name() })
	}
	return out
}

// IsIdentityResource reports whether the resource belongs to the
// SUPERADMIN-governed identity-management boundary.
func IsIdentityResource(resource string) bool {
	return resource == ResourceUsers || resource == ResourceRoles
}
