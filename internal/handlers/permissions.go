package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/leminhha/salespipe/internal/models"
	"github.com/leminhha/salespipe/pkg/errors"
	"github.com/leminhha/salespipe/pkg/response"
)

// PermissionHandler exposes the read-only permission catalog.
type PermissionHandler struct {
	db *gorm.DB
}

func NewPermissionHandler(db *gorm.DB) *PermissionHandler {
	return &PermissionHandler{db: db}
}

type catalogEntry struct {
	ID          string `json:"id"`
	Resource    string `json:"resource"`
	Action      string `json:"action"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GET /api/permissions
//
// Returns the persisted catalog grouped by category so role-management UIs
// can render permission pickers against stable row IDs.
func (h *PermissionHandler) List(c *gin.Context) {
	var rows []models.Permission
	if err := h.db.WithContext(requestContext(c)).Order("category, resource, action").Find(&rows).Error; err != nil {
		response.Error(c, errors.ErrInternalServer.WithInternal(err))
		return
	}

	grouped := make(map[string][]catalogEntry)
	for _, row := range rows {
		grouped[row.Category] = append(grouped[row.Category], catalogEntry{
			ID:          row.ID,
			Resource:    row.Resource,
			Action:      row.Action,
			Name:        row.Name(),
			Description: row.Description,
		})
	}

	categories := make([]string, 0, len(grouped))
	for category := range grouped {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	response.Success(c, http.StatusOK, gin.H{
		"categories": categories,
		"catalog":    grouped,
	})
}
