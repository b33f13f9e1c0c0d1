package models

// CustomRole is an administrator-defined role linked to an arbitrary subset
// of the permission catalog. System roles are seeded and protected from
// rename and deletion. IsActive only controls listing visibility; it does
// not revoke permissions from users still assigned to the role.
type CustomRole struct {
	BaseModel

	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
	IsSystem    bool   `gorm:"default:false" json:"is_system"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	Permissions []Permission `gorm:"many2many:custom_role_permissions;" json:"permissions,omitempty"`
	Users       []User       `gorm:"foreignKey:CustomRoleID" json:"users,omitempty"`
}
