package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"assetflow/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemoryAssetRepository is an in-memory implementation of AssetRepository,
// used when no database is configured and in tests.
type MemoryAssetRepository struct {
	mu         sync.RWMutex
	assets     map[string]models.Asset
	categories *MemoryCategoryRepository
}

// NewMemoryRepositories creates the in-memory category and asset repositories
// wired to each other: categories consult assets for the in-use guards,
// assets consult categories to attach the category on reads.
func NewMemoryRepositories() (*MemoryCategoryRepository, *MemoryAssetRepository) {
	assets := &MemoryAssetRepository{assets: make(map[string]models.Asset)}
	categories := NewMemoryCategoryRepository(assets)
	assets.categories = categories
	return categories, assets
}

// List returns assets matching the filter, newest acquisition first.
func (r *MemoryAssetRepository) List(filter AssetFilter) ([]models.Asset, error) {
	r.mu.RLock()
	list := make([]models.Asset, 0, len(r.assets))
	for _, a := range r.assets {
		if matchesFilter(&a, filter) {
			list = append(list, a)
		}
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].AcquisitionDate.After(list[j].AcquisitionDate)
	})
	for i := range list {
		r.attachCategory(&list[i])
	}
	return list, nil
}

// GetByID returns an asset by its ID with its category attached.
func (r *MemoryAssetRepository) GetByID(id string) (*models.Asset, error) {
	r.mu.RLock()
	asset, ok := r.assets[id]
	r.mu.RUnlock()
	if !ok {
		return nil, &models.NotFoundError{Resource: "asset", ID: id}
	}
	r.attachCategory(&asset)
	return &asset, nil
}

// Create adds a new asset, enforcing serial-number uniqueness.
func (r *MemoryAssetRepository) Create(asset *models.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	asset.Normalize()
	if asset.ID == "" {
		asset.ID = uuid.New().String()
	}
	if err := r.checkSerialUnique(asset); err != nil {
		return err
	}
	now := time.Now()
	asset.CreatedAt = now
	asset.UpdatedAt = now
	stored := *asset
	stored.Category = nil
	r.assets[asset.ID] = stored
	return nil
}

// Update modifies an existing asset.
func (r *MemoryAssetRepository) Update(asset *models.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.assets[asset.ID]
	if !ok {
		return &models.NotFoundError{Resource: "asset", ID: asset.ID}
	}
	asset.Normalize()
	if err := r.checkSerialUnique(asset); err != nil {
		return err
	}
	asset.CreatedAt = current.CreatedAt
	asset.UpdatedAt = time.Now()
	stored := *asset
	stored.Category = nil
	r.assets[asset.ID] = stored
	return nil
}

// Delete removes an asset by its ID.
func (r *MemoryAssetRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.assets[id]; !ok {
		return &models.NotFoundError{Resource: "asset", ID: id}
	}
	delete(r.assets, id)
	return nil
}

// BulkUpdateStatus sets the status on every existing asset in ids. Like the
// GORM implementation this is a direct write: validation is not re-run.
func (r *MemoryAssetRepository) BulkUpdateStatus(ids []string, status models.AssetStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var updated int64
	for _, id := range ids {
		asset, ok := r.assets[id]
		if !ok {
			continue
		}
		asset.Status = status
		asset.UpdatedAt = time.Now()
		r.assets[id] = asset
		updated++
	}
	return updated, nil
}

// CountByCategory counts the assets referencing a category.
func (r *MemoryAssetRepository) CountByCategory(categoryID string, excludeDecommissioned bool) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, a := range r.assets {
		if a.CategoryID != categoryID {
			continue
		}
		if excludeDecommissioned && a.Status == models.StatusDecommissioned {
			continue
		}
		count++
	}
	return count, nil
}

// SumValueByCategory sums initial values over a category's assets.
func (r *MemoryAssetRepository) SumValueByCategory(categoryID string) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := decimal.Zero
	for _, a := range r.assets {
		if a.CategoryID == categoryID {
			total = total.Add(a.InitialValue)
		}
	}
	return total, nil
}

// snapshot returns a copy of all stored assets, for the category guards.
func (r *MemoryAssetRepository) snapshot() []models.Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Asset, 0, len(r.assets))
	for _, a := range r.assets {
		list = append(list, a)
	}
	return list
}

func (r *MemoryAssetRepository) attachCategory(asset *models.Asset) {
	if r.categories == nil {
		return
	}
	if category, err := r.categories.GetByID(asset.CategoryID); err == nil {
		asset.Category = category
	}
}

// checkSerialUnique must be called with the write lock held.
func (r *MemoryAssetRepository) checkSerialUnique(asset *models.Asset) error {
	if asset.SerialNumber == nil {
		return nil
	}
	for id, existing := range r.assets {
		if id == asset.ID || existing.SerialNumber == nil {
			continue
		}
		if *existing.SerialNumber == *asset.SerialNumber {
			return fmt.Errorf("serial number taken: %w", models.ErrDuplicate)
		}
	}
	return nil
}

func matchesFilter(a *models.Asset, filter AssetFilter) bool {
	if filter.CategoryID != "" && a.CategoryID != filter.CategoryID {
		return false
	}
	if filter.Status != "" && a.Status != filter.Status {
		return false
	}
	if filter.MinValue != nil && a.InitialValue.LessThan(*filter.MinValue) {
		return false
	}
	if filter.MaxValue != nil && a.InitialValue.GreaterThan(*filter.MaxValue) {
		return false
	}
	if filter.HighValue && !a.IsHighValue() {
		return false
	}
	if filter.NeedsReview {
		cutoff := time.Now().AddDate(-models.ReviewAgeYears, 0, 0)
		if a.AcquisitionDate.After(cutoff) {
			return false
		}
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		if !strings.Contains(strings.ToLower(a.Name), search) &&
			!strings.Contains(strings.ToLower(a.Description), search) &&
			!strings.Contains(strings.ToLower(a.Serial()), search) &&
			!strings.Contains(strings.ToLower(a.Location), search) {
			return false
		}
	}
	return true
}
