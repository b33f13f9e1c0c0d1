package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/leminhha/salespipe/internal/models"
	"github.com/leminhha/salespipe/internal/permissions"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.CustomRole{},
		&models.Permission{},
		&models.AuditLog{},
	)
}

// SeedData mirrors the permission catalog into the database and creates the
// protected system roles.
func SeedData(db *gorm.DB) error {
	ctx := context.Background()

	if err := permissions.Sync(ctx, db); err != nil {
		return err
	}

	return seedSystemRoles(db)
}

// seedSystemRoles creates the shipped custom roles. They are created once;
// administrators cannot rename or delete them.
func seedSystemRoles(db *gorm.DB) error {
	systemRoles := []struct {
		name        string
		description string
		grants      [][2]string // (resource, action)
	}{
		{
			name:        "Read Only",
			description: "View access to all sales and catalog records",
			grants: [][2]string{
				{permissions.ResourceCustomers, permissions.ActionViewAll},
				{permissions.ResourceLeads, permissions.ActionViewAll},
				{permissions.ResourceQuotations, permissions.ActionViewAll},
				{permissions.ResourceProducts, permissions.ActionViewAll},
			},
		},
	}

	for _, seed := range systemRoles {
		var existing models.CustomRole
		err := db.Where("name = ?", seed.name).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("seed system role %q: %w", seed.name, err)
		}

		role := models.CustomRole{
			Name:        seed.name,
			Description: seed.description,
			IsSystem:    true,
			IsActive:    true,
		}
		if err := db.Create(&role).Error; err != nil {
			return fmt.Errorf("seed system role %q: %w", seed.name, err)
		}

		var perms []models.Permission
		for _, grant := range seed.grants {
			var perm models.Permission
			if err := db.Where("resource = ? AND action = ?", grant[0], grant[1]).First(&perm).Error; err != nil {
				return fmt.Errorf("seed system role %q: permission %s.%s: %w", seed.name, grant[0], grant[1], err)
			}
			perms = append(perms, perm)
		}
		if len(perms) > 0 {
			if err := db.Model(&role).Association("Permissions").Replace(perms); err != nil {
				return fmt.Errorf("seed system role %q: link permissions: %w", seed.name, err)
			}
		}
	}

	return nil
}
