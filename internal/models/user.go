package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User describes a platform account. The authorization layer reads users as
// principals: the row is re-fetched on every request so deactivation and
// archiving take effect immediately, regardless of outstanding tokens.
type User struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Name     string `json:"name"`
	Password string `gorm:"not null" json:"-"`

	// Role holds the builtin role name (SUPERADMIN, ADMIN, MANAGER, SALES).
	Role         string      `gorm:"not null;index" json:"role"`
	CustomRoleID *string     `gorm:"type:uuid;index" json:"custom_role_id"`
	CustomRole   *CustomRole `json:"custom_role,omitempty"`

	IsActive   bool `gorm:"default:true" json:"is_active"`
	IsArchived bool `gorm:"default:false" json:"is_archived"`

	LastLoginAt *time.Time `json:"last_login_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate ensures a UUID is present before persisting.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
