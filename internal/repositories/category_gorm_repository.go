package repositories

import (
	"errors"
	"fmt"
	"strings"

	"assetflow/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{
		db: db,
	}
}

// List retrieves categories ordered by name, optionally restricted to active
// ones and/or matching a free-text search over name, code and description.
func (r *GORMCategoryRepository) List(onlyActive bool, search string) ([]models.Category, error) {
	var categories []models.Category
	query := r.db.Order("name")
	if onlyActive {
		query = query.Where("active = ?", true)
	}
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR code LIKE ? OR description LIKE ?", like, like, like)
	}
	if err := query.Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetByID retrieves a single category by its ID from the database.
func (r *GORMCategoryRepository) GetByID(id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "category", ID: id}
		}
		return nil, fmt.Errorf("failed to get category by ID %s: %w", id, err)
	}
	return &category, nil
}

// Create creates a new category in the database.
func (r *GORMCategoryRepository) Create(category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if err := r.db.Create(category).Error; err != nil {
		if isDuplicateErr(err) {
			return fmt.Errorf("category name or code taken: %w", models.ErrDuplicate)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// Update updates an existing category. When the update deactivates the
// category, the blocking-asset count check and the write share one
// transaction.
func (r *GORMCategoryRepository) Update(category *models.Category) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var current models.Category
		if err := tx.First(&current, "id = ?", category.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &models.NotFoundError{Resource: "category", ID: category.ID}
			}
			return err
		}
		if current.Active && !category.Active {
			var blocking int64
			if err := tx.Model(&models.Asset{}).
				Where("category_id = ? AND status <> ?", category.ID, models.StatusDecommissioned).
				Count(&blocking).Error; err != nil {
				return err
			}
			if blocking > 0 {
				return &models.CategoryInUseError{Name: current.Name, Count: blocking}
			}
		}
		return tx.Save(category).Error
	})
	if err != nil {
		var inUse *models.CategoryInUseError
		var notFound *models.NotFoundError
		if errors.As(err, &inUse) || errors.As(err, &notFound) {
			return err
		}
		if isDuplicateErr(err) {
			return fmt.Errorf("category name or code taken: %w", models.ErrDuplicate)
		}
		return fmt.Errorf("failed to update category %s: %w", category.ID, err)
	}
	return nil
}

// Delete deletes a category, refusing while any asset still references it.
// The count check and the delete share one transaction; a foreign-key
// rejection from the store is reported the same way as a failed count check.
func (r *GORMCategoryRepository) Delete(id string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &models.NotFoundError{Resource: "category", ID: id}
			}
			return err
		}
		var count int64
		if err := tx.Model(&models.Asset{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &models.CategoryInUseError{Name: category.Name, Count: count}
		}
		if err := tx.Delete(&models.Category{}, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				// An asset was inserted between the count and the delete.
				return &models.CategoryInUseError{Name: category.Name, Count: 1}
			}
			return err
		}
		return nil
	})
	if err != nil {
		var inUse *models.CategoryInUseError
		var notFound *models.NotFoundError
		if errors.As(err, &inUse) || errors.As(err, &notFound) {
			return err
		}
		return fmt.Errorf("failed to delete category %s: %w", id, err)
	}
	return nil
}

// isDuplicateErr recognizes uniqueness violations across the supported
// drivers (gorm's translated error plus the raw sqlite/postgres messages).
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
