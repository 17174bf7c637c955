package services

import (
	"math"

	"assetflow/internal/models"
	"assetflow/internal/repositories"

	"github.com/shopspring/decimal"
)

// ReportService computes read-only aggregates over the asset store.
type ReportService struct {
	assetRepo    repositories.AssetRepository
	categoryRepo repositories.CategoryRepository
}

// NewReportService creates a new ReportService.
func NewReportService(assetRepo repositories.AssetRepository, categoryRepo repositories.CategoryRepository) *ReportService {
	return &ReportService{
		assetRepo:    assetRepo,
		categoryRepo: categoryRepo,
	}
}

// StatusBreakdown counts assets per lifecycle status.
type StatusBreakdown struct {
	Active         int `json:"active"`
	Maintenance    int `json:"maintenance"`
	Decommissioned int `json:"decommissioned"`
	InRepair       int `json:"in_repair"`
}

func (b *StatusBreakdown) add(status models.AssetStatus) {
	switch status {
	case models.StatusActive:
		b.Active++
	case models.StatusMaintenance:
		b.Maintenance++
	case models.StatusDecommissioned:
		b.Decommissioned++
	case models.StatusInRepair:
		b.InRepair++
	}
}

// MostValuableAsset identifies the single highest-value asset of a category.
type MostValuableAsset struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// OldestAsset identifies the asset with the earliest acquisition date.
type OldestAsset struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Date       string  `json:"date"`
	AgeInYears float64 `json:"age_in_years"`
}

// CategoryStatistics is the per-category report.
type CategoryStatistics struct {
	Category     string             `json:"category"`
	Code         string             `json:"code"`
	TotalAssets  int                `json:"total_assets"`
	TotalValue   decimal.Decimal    `json:"total_value"`
	ByStatus     StatusBreakdown    `json:"assets_by_status"`
	MostValuable *MostValuableAsset `json:"most_valuable"`
	Oldest       *OldestAsset       `json:"oldest"`
}

// CategoryStatistics computes the report for one category. Ties on "most
// valuable" and "oldest" go to the first asset encountered in store order.
func (s *ReportService) CategoryStatistics(categoryID string) (*CategoryStatistics, error) {
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return nil, err
	}
	assets, err := s.assetRepo.List(repositories.AssetFilter{CategoryID: categoryID})
	if err != nil {
		return nil, err
	}

	stats := &CategoryStatistics{
		Category:   category.Name,
		Code:       category.Code,
		TotalValue: decimal.Zero,
	}
	var oldest *models.Asset
	for i := range assets {
		a := &assets[i]
		stats.TotalAssets++
		stats.TotalValue = stats.TotalValue.Add(a.InitialValue)
		stats.ByStatus.add(a.Status)

		// Strict comparisons: on a tie the first asset encountered wins.
		if stats.MostValuable == nil || a.InitialValue.GreaterThan(stats.MostValuable.Value) {
			stats.MostValuable = &MostValuableAsset{ID: a.ID, Name: a.Name, Value: a.InitialValue}
		}
		if oldest == nil || a.AcquisitionDate.Before(oldest.AcquisitionDate) {
			oldest = a
		}
	}
	if oldest != nil {
		stats.Oldest = &OldestAsset{
			ID:         oldest.ID,
			Name:       oldest.Name,
			Date:       oldest.AcquisitionDate.Format("2006-01-02"),
			AgeInYears: math.Round(float64(oldest.AgeInDays())/365.25*100) / 100,
		}
	}
	return stats, nil
}

// ValueBands counts assets within three fixed value bands.
type ValueBands struct {
	Under1000       int `json:"under_1000"`
	From1000To10000 int `json:"from_1000_to_10000"`
	AtLeast10000    int `json:"at_least_10000"`
}

// CategorySubtotal is a per-category slice of the global summary.
type CategorySubtotal struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Count      int             `json:"count"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// Summary is the global report over the (optionally filtered) working set.
type Summary struct {
	TotalAssets int                `json:"total_assets"`
	TotalValue  decimal.Decimal    `json:"total_value"`
	ByStatus    StatusBreakdown    `json:"by_status"`
	ValueBands  ValueBands         `json:"value_bands"`
	ByCategory  []CategorySubtotal `json:"by_category"`
}

var (
	band1000  = decimal.NewFromInt(1000)
	band10000 = decimal.NewFromInt(10000)
)

// Summary computes the global report. Per-category subtotals include only
// categories with at least one matching asset, ordered by category name.
func (s *ReportService) Summary(filter repositories.AssetFilter) (*Summary, error) {
	assets, err := s.assetRepo.List(filter)
	if err != nil {
		return nil, err
	}

	summary := &Summary{TotalValue: decimal.Zero}
	type subtotal struct {
		count int
		value decimal.Decimal
	}
	byCategory := make(map[string]*subtotal)

	for i := range assets {
		a := &assets[i]
		summary.TotalAssets++
		summary.TotalValue = summary.TotalValue.Add(a.InitialValue)
		summary.ByStatus.add(a.Status)

		switch {
		case a.InitialValue.LessThan(band1000):
			summary.ValueBands.Under1000++
		case a.InitialValue.LessThan(band10000):
			summary.ValueBands.From1000To10000++
		default:
			summary.ValueBands.AtLeast10000++
		}

		st, ok := byCategory[a.CategoryID]
		if !ok {
			st = &subtotal{value: decimal.Zero}
			byCategory[a.CategoryID] = st
		}
		st.count++
		st.value = st.value.Add(a.InitialValue)
	}

	categories, err := s.categoryRepo.List(false, "")
	if err != nil {
		return nil, err
	}
	summary.ByCategory = make([]CategorySubtotal, 0, len(byCategory))
	for i := range categories {
		c := &categories[i]
		st, ok := byCategory[c.ID]
		if !ok {
			continue
		}
		summary.ByCategory = append(summary.ByCategory, CategorySubtotal{
			ID:         c.ID,
			Name:       c.Name,
			Count:      st.count,
			TotalValue: st.value,
		})
	}
	return summary, nil
}
