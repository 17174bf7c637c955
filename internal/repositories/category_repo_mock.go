package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"assetflow/internal/models"

	"github.com/google/uuid"
)

// MemoryCategoryRepository is an in-memory implementation of
// CategoryRepository, used when no database is configured and in tests.
// The guards behave like the GORM implementation: the mutex stands in for
// the store transaction.
type MemoryCategoryRepository struct {
	mu         sync.RWMutex
	categories map[string]models.Category
	assets     *MemoryAssetRepository
}

// NewMemoryCategoryRepository creates an in-memory category repository. The
// asset repository is consulted for the in-use guards and may be nil in tests
// that never exercise them.
func NewMemoryCategoryRepository(assets *MemoryAssetRepository) *MemoryCategoryRepository {
	return &MemoryCategoryRepository{
		categories: make(map[string]models.Category),
		assets:     assets,
	}
}

// List returns categories ordered by name.
func (r *MemoryCategoryRepository) List(onlyActive bool, search string) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search = strings.ToLower(strings.TrimSpace(search))
	list := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		if onlyActive && !c.Active {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.Code), search) &&
			!strings.Contains(strings.ToLower(c.Description), search) {
			continue
		}
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// GetByID returns a category by its ID.
func (r *MemoryCategoryRepository) GetByID(id string) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, ok := r.categories[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "category", ID: id}
	}
	return &category, nil
}

// Create adds a new category, enforcing name/code uniqueness.
func (r *MemoryCategoryRepository) Create(category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	category.Normalize()
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	for _, existing := range r.categories {
		if existing.Name == category.Name || existing.Code == category.Code {
			return fmt.Errorf("category name or code taken: %w", models.ErrDuplicate)
		}
	}
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now
	r.categories[category.ID] = *category
	return nil
}

// Update modifies an existing category, applying the deactivation guard.
func (r *MemoryCategoryRepository) Update(category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.categories[category.ID]
	if !ok {
		return &models.NotFoundError{Resource: "category", ID: category.ID}
	}
	category.Normalize()
	for id, existing := range r.categories {
		if id == category.ID {
			continue
		}
		if existing.Name == category.Name || existing.Code == category.Code {
			return fmt.Errorf("category name or code taken: %w", models.ErrDuplicate)
		}
	}
	if current.Active && !category.Active {
		blocking := r.countAssets(category.ID, true)
		if blocking > 0 {
			return &models.CategoryInUseError{Name: current.Name, Count: blocking}
		}
	}
	category.CreatedAt = current.CreatedAt
	category.UpdatedAt = time.Now()
	r.categories[category.ID] = *category
	return nil
}

// Delete removes a category, refusing while assets still reference it.
func (r *MemoryCategoryRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	category, ok := r.categories[id]
	if !ok {
		return &models.NotFoundError{Resource: "category", ID: id}
	}
	if count := r.countAssets(id, false); count > 0 {
		return &models.CategoryInUseError{Name: category.Name, Count: count}
	}
	delete(r.categories, id)
	return nil
}

// countAssets counts assets referencing the category, optionally skipping
// decommissioned ones.
func (r *MemoryCategoryRepository) countAssets(categoryID string, excludeDecommissioned bool) int64 {
	if r.assets == nil {
		return 0
	}
	var count int64
	for _, a := range r.assets.snapshot() {
		if a.CategoryID != categoryID {
			continue
		}
		if excludeDecommissioned && a.Status == models.StatusDecommissioned {
			continue
		}
		count++
	}
	return count
}
