package models

// Permission is a catalog entry pairing a resource with an action. The
// catalog is seeded at startup and read-only afterwards; (resource, action)
// is unique across the table.
type Permission struct {
	BaseModel

	Resource    string `gorm:"not null;uniqueIndex:idx_permissions_resource_action" json:"resource"`
	Action      string `gorm:"not null;uniqueIndex:idx_permissions_resource_action" json:"action"`
	Category    string `gorm:"not null;index" json:"category"`
	Description string `json:"description"`

	Roles []CustomRole `gorm:"many2many:custom_role_permissions;" json:"roles,omitempty"`
}

// Name returns the canonical "resource.action" identifier used in logs,
// metrics and API payloads.
func (p Permission) Name() string {
	return p.Resource + "." + p.Action
}
