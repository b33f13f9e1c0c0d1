package permissions

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/leminhha/salespipe/internal/models"
)

// Sync mirrors the in-code catalog into the permissions table so custom
// roles can link against stable rows. Existing rows keep their IDs; category
// and description drift is corrected in place. Rows are never deleted: the
// catalog only grows across releases.
func Sync(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("permissions: db is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	tx := db.WithContext(ctx)
	for _, def := range catalog {
		record := models.Permission{
			Resource:    def.Resource,
			Action:      def.Action,
			Category:    def.Category,
			Description: def.Description,
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "resource"}, {Name: "action"}},
			DoUpdates: clause.AssignmentColumns([]string{"category", "description"}),
		}).Create(&record).Error; err != nil {
			return fmt.Errorf("permissions: sync %s: %w", def.Name(), err)
		}
	}

	return nil
}

// LoadCatalog reads the persisted catalog keyed by permission ID.
func LoadCatalog(ctx context.Context, db *gorm.DB) (map[string]models.Permission, error) {
	if db == nil {
		return nil, errors.New("permissions: db is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var rows []models.Permission
	if err := db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("permissions: load catalog: %w", err)
	}

	out := make(map[string]models.Permission, len(rows))
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}
