package repositories

import (
	"assetflow/internal/models"
)

// CategoryRepository defines the interface for category data access.
//
// Update and Delete carry the in-use guards: implementations must reject
// deactivating a category that still has non-decommissioned assets, and
// deleting one that has any assets at all, returning *models.CategoryInUseError
// in both cases. The check and the write run within one transaction so a
// concurrent asset insert cannot slip past the guard.
type CategoryRepository interface {
	List(onlyActive bool, search string) ([]models.Category, error)
	GetByID(id string) (*models.Category, error)
	Create(category *models.Category) error
	Update(category *models.Category) error
	Delete(id string) error
}
