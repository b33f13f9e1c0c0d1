package permissions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogPairsAreUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for _, def := range All() {
		name := def.Name()
		_, dup := seen[name]
		require.False(t, dup, "duplicate catalog entry %s", name)
		seen[name] = struct{}{}
	}
}

func TestLookup(t *testing.T) {
	def, ok := Lookup(ResourceLeads, ActionViewAll)
	require.True(t, ok)
	require.Equal(t, CategorySales, def.Category)

	_, ok = Lookup(ResourceLeads, "teleport")
	require.False(t, ok)

	// view is an identity action; it does not exist on sales resources
	_, ok = Lookup(ResourceLeads, ActionView)
	require.False(t, ok)
}

func TestByCategoryCoversWholeCatalog(t *testing.T) {
	grouped := ByCategory()

	var total int
	for _, defs := range grouped {
		total += len(defs)
	}
	require.Equal(t, len(All()), total)

	require.Contains(t, grouped, CategorySales)
	require.Contains(t, grouped, CategoryCatalog)
	require.Contains(t, grouped, CategoryIdentity)
}

func TestIsIdentityResource(t *testing.T) {
	require.True(t, IsIdentityResource(ResourceUsers))
	require.True(t, IsIdentityResource(ResourceRoles))
	require.False(t, IsIdentityResource(ResourceCustomers))
	require.False(t, IsIdentityResource(ResourceProducts))
}

func TestStaticRoleTableReferencesCatalogOnly(t *testing.T) {
	for _, role := range []Role{RoleSuperAdmin, RoleManager, RoleSales} {
		for _, name := range StaticRolePermissions(role) {
			_, ok := catalogByName[name]
			require.True(t, ok, "static grant %s for %s not in catalog", name, role)
		}
	}
}
