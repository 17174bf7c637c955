package repositories

import (
	"assetflow/internal/models"

	"github.com/shopspring/decimal"
)

// AssetFilter narrows the working set of assets for listing and reporting.
// Zero values mean "no restriction".
type AssetFilter struct {
	CategoryID  string
	Status      models.AssetStatus
	MinValue    *decimal.Decimal
	MaxValue    *decimal.Decimal
	HighValue   bool
	NeedsReview bool
	Search      string
}

// AssetRepository defines the interface for asset data access. List results
// are ordered by acquisition date, newest first, with the category preloaded.
type AssetRepository interface {
	List(filter AssetFilter) ([]models.Asset, error)
	GetByID(id string) (*models.Asset, error)
	Create(asset *models.Asset) error
	Update(asset *models.Asset) error
	Delete(id string) error
	// BulkUpdateStatus sets the status on every existing asset in ids and
	// returns the number of records updated.
	BulkUpdateStatus(ids []string, status models.AssetStatus) (int64, error)
	// CountByCategory counts assets referencing the category, optionally
	// excluding decommissioned ones.
	CountByCategory(categoryID string, excludeDecommissioned bool) (int64, error)
	// SumValueByCategory sums initial values over the category's assets,
	// zero when there are none.
	SumValueByCategory(categoryID string) (decimal.Decimal, error)
}
