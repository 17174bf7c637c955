package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"assetflow/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GORMAssetRepository is a GORM implementation of AssetRepository.
type GORMAssetRepository struct {
	db *gorm.DB
}

// NewGORMAssetRepository creates a new instance of GORMAssetRepository.
func NewGORMAssetRepository(db *gorm.DB) *GORMAssetRepository {
	return &GORMAssetRepository{
		db: db,
	}
}

// List retrieves assets matching the filter, newest acquisition first, with
// the category preloaded.
func (r *GORMAssetRepository) List(filter AssetFilter) ([]models.Asset, error) {
	var assets []models.Asset
	query := r.db.Preload("Category").Order("acquisition_date DESC")

	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.MinValue != nil {
		query = query.Where("initial_value >= ?", filter.MinValue)
	}
	if filter.MaxValue != nil {
		query = query.Where("initial_value <= ?", filter.MaxValue)
	}
	if filter.HighValue {
		query = query.Where("initial_value > ?", models.HighValueThreshold)
	}
	if filter.NeedsReview {
		cutoff := time.Now().AddDate(-models.ReviewAgeYears, 0, 0)
		query = query.Where("acquisition_date <= ?", cutoff)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"name LIKE ? OR description LIKE ? OR serial_number LIKE ? OR location LIKE ?",
			like, like, like, like,
		)
	}

	if err := query.Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return assets, nil
}

// GetByID retrieves a single asset with its category preloaded.
func (r *GORMAssetRepository) GetByID(id string) (*models.Asset, error) {
	var asset models.Asset
	if err := r.db.Preload("Category").First(&asset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "asset", ID: id}
		}
		return nil, fmt.Errorf("failed to get asset by ID %s: %w", id, err)
	}
	return &asset, nil
}

// Create creates a new asset in the database.
func (r *GORMAssetRepository) Create(asset *models.Asset) error {
	if asset.ID == "" {
		asset.ID = uuid.New().String()
	}
	if err := r.db.Create(asset).Error; err != nil {
		if isDuplicateErr(err) {
			return fmt.Errorf("serial number taken: %w", models.ErrDuplicate)
		}
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

// Update saves all fields of an existing asset.
func (r *GORMAssetRepository) Update(asset *models.Asset) error {
	// Detach the preloaded association so Save does not cascade into the
	// category row.
	asset.Category = nil
	res := r.db.Save(asset)
	if res.Error != nil {
		if isDuplicateErr(res.Error) {
			return fmt.Errorf("serial number taken: %w", models.ErrDuplicate)
		}
		return fmt.Errorf("failed to update asset: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &models.NotFoundError{Resource: "asset", ID: asset.ID}
	}
	return nil
}

// Delete removes an asset by its ID. Asset deletion is unconditional.
func (r *GORMAssetRepository) Delete(id string) error {
	res := r.db.Delete(&models.Asset{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete asset %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return &models.NotFoundError{Resource: "asset", ID: id}
	}
	return nil
}

// BulkUpdateStatus sets the status on every existing asset in ids with a
// single UPDATE. Field-level validation is not re-run on this path.
func (r *GORMAssetRepository) BulkUpdateStatus(ids []string, status models.AssetStatus) (int64, error) {
	res := r.db.Model(&models.Asset{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to bulk update asset status: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// CountByCategory counts the assets referencing a category.
func (r *GORMAssetRepository) CountByCategory(categoryID string, excludeDecommissioned bool) (int64, error) {
	var count int64
	query := r.db.Model(&models.Asset{}).Where("category_id = ?", categoryID)
	if excludeDecommissioned {
		query = query.Where("status <> ?", models.StatusDecommissioned)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count assets for category %s: %w", categoryID, err)
	}
	return count, nil
}

// SumValueByCategory sums initial values over a category's assets.
func (r *GORMAssetRepository) SumValueByCategory(categoryID string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.Model(&models.Asset{}).
		Where("category_id = ?", categoryID).
		Select("SUM(initial_value)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum asset values for category %s: %w", categoryID, err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
