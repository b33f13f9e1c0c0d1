package permissions

import "gorm.io/gorm"

// FilterKind discriminates the DataScopeFilter variants.
type FilterKind string

const (
	FilterNoRestriction   FilterKind = "no_restriction"
	FilterOwnedOrAssigned FilterKind = "owned_or_assigned"
)

// DataScopeFilter is the row-level visibility restriction derived from a
// principal's view entitlements. Storage adapters translate it into their
// own query form; Scope covers the gorm case.
type DataScopeFilter struct {
	Kind        FilterKind
	PrincipalID string
}

// NoRestriction grants visibility of every row.
func NoRestriction() DataScopeFilter {
	return DataScopeFilter{Kind: FilterNoRestriction}
}

// OwnedOrAssigned restricts visibility to rows assigned to or created by the
// principal.
func OwnedOrAssigned(principalID string) DataScopeFilter {
	return DataScopeFilter{Kind: FilterOwnedOrAssigned, PrincipalID: principalID}
}

// IsRestricted reports whether the filter narrows visibility at all.
func (f DataScopeFilter) IsRestricted() bool {
	return f.Kind == FilterOwnedOrAssigned
}

// Matches reports whether a row with the given assignment and ownership
// columns is visible under the filter. Ownership and assignment are distinct
// relations; either one satisfies the restricted variant.
func (f DataScopeFilter) Matches(assignedToID, createdByID string) bool {
	if f.Kind != FilterOwnedOrAssigned {
		return true
	}
	return assignedToID == f.PrincipalID || createdByID == f.PrincipalID
}

// Scope returns a gorm scope applying the filter to a query.
func (f DataScopeFilter) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Kind != FilterOwnedOrAssigned {
			return db
		}
		return db.Where("assigned_to_id = ? OR created_by_id = ?", f.PrincipalID, f.PrincipalID)
	}
}

// ScopeFor derives the row filter for the principal on the given resource.
// Builtin roles without a custom role follow the business shortcut: ADMIN
// and MANAGER see everything, SALES sees owned or assigned rows. Otherwise
// the decision follows the view entitlements: view_all lifts the
// restriction, view_assigned narrows it. A principal holding neither must
// already have been denied by a permission guard; the resolver still answers
// with the most restrictive filter and never errors.
func (r *Resolver) ScopeFor(p *Principal, resource string) DataScopeFilter {
	if p == nil {
		return OwnedOrAssigned("")
	}

	if !p.HasCustomRole() {
		switch p.Role {
		case RoleAdmin, RoleManager:
			return NoRestriction()
		case RoleSales:
			return OwnedOrAssigned(p.ID)
		}
	}

	if r.IsAllowed(p, resource, ActionViewAll) {
		return NoRestriction()
	}
	return OwnedOrAssigned(p.ID)
}
