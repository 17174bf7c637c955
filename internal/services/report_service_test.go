package services_test

import (
	"testing"
	"time"

	"assetflow/internal/models"
	"assetflow/internal/repositories"
	"assetflow/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReportFixture(t *testing.T) (*services.ReportService, *models.Category, []*models.Asset) {
	t.Helper()

	categories, assets := repositories.NewMemoryRepositories()
	category := &models.Category{Name: "Machinery", Code: "MACH", Active: true}
	require.NoError(t, categories.Create(category))

	fixture := []struct {
		name   string
		value  int64
		status models.AssetStatus
		years  int
	}{
		{"Drill Press", 500, models.StatusActive, 1},
		{"Lathe", 1500, models.StatusMaintenance, 3},
		{"CNC Mill", 12000, models.StatusActive, 6},
	}
	created := make([]*models.Asset, 0, len(fixture))
	for _, f := range fixture {
		asset := &models.Asset{
			Name:            f.name,
			AcquisitionDate: time.Now().AddDate(-f.years, 0, 0),
			InitialValue:    decimal.NewFromInt(f.value),
			CategoryID:      category.ID,
			Status:          f.status,
		}
		if f.value > 5000 {
			asset.SetSerial(f.name)
		}
		require.NoError(t, assets.Create(asset))
		created = append(created, asset)
	}
	return services.NewReportService(assets, categories), category, created
}

func TestReportService_Summary(t *testing.T) {
	service, _, _ := seedReportFixture(t)

	summary, err := service.Summary(repositories.AssetFilter{})

	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalAssets)
	assert.True(t, summary.TotalValue.Equal(decimal.NewFromInt(14000)),
		"total value = %s", summary.TotalValue)
	assert.Equal(t, 2, summary.ByStatus.Active)
	assert.Equal(t, 1, summary.ByStatus.Maintenance)
	assert.Equal(t, 0, summary.ByStatus.Decommissioned)

	assert.Equal(t, 1, summary.ValueBands.Under1000)
	assert.Equal(t, 1, summary.ValueBands.From1000To10000)
	assert.Equal(t, 1, summary.ValueBands.AtLeast10000)

	require.Len(t, summary.ByCategory, 1)
	assert.Equal(t, "Machinery", summary.ByCategory[0].Name)
	assert.Equal(t, 3, summary.ByCategory[0].Count)
	assert.True(t, summary.ByCategory[0].TotalValue.Equal(decimal.NewFromInt(14000)))
}

func TestReportService_SummaryBandBoundaries(t *testing.T) {
	categories, assets := repositories.NewMemoryRepositories()
	category := &models.Category{Name: "Tools", Code: "TOOL", Active: true}
	require.NoError(t, categories.Create(category))

	// Exactly 1000 falls in the middle band, exactly 10000 in the top one.
	for i, value := range []int64{999, 1000, 9999, 10000} {
		asset := &models.Asset{
			Name:            "Boundary Tool " + string(rune('A'+i)),
			AcquisitionDate: time.Now().AddDate(-1, 0, 0),
			InitialValue:    decimal.NewFromInt(value),
			CategoryID:      category.ID,
			Status:          models.StatusActive,
		}
		if value > 5000 {
			asset.SetSerial(asset.Name)
		}
		require.NoError(t, assets.Create(asset))
	}
	service := services.NewReportService(assets, categories)

	summary, err := service.Summary(repositories.AssetFilter{})

	require.NoError(t, err)
	assert.Equal(t, 1, summary.ValueBands.Under1000)
	assert.Equal(t, 2, summary.ValueBands.From1000To10000)
	assert.Equal(t, 1, summary.ValueBands.AtLeast10000)
}

func TestReportService_SummaryRespectsFilter(t *testing.T) {
	service, _, _ := seedReportFixture(t)

	summary, err := service.Summary(repositories.AssetFilter{HighValue: true})

	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalAssets)
	assert.True(t, summary.TotalValue.Equal(decimal.NewFromInt(12000)))
	require.Len(t, summary.ByCategory, 1)
	assert.Equal(t, 1, summary.ByCategory[0].Count)
}

func TestReportService_SummaryEmptyStore(t *testing.T) {
	categories, assets := repositories.NewMemoryRepositories()
	service := services.NewReportService(assets, categories)

	summary, err := service.Summary(repositories.AssetFilter{})

	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalAssets)
	assert.True(t, summary.TotalValue.IsZero())
	assert.Empty(t, summary.ByCategory)
}

func TestReportService_CategoryStatistics(t *testing.T) {
	service, category, created := seedReportFixture(t)

	stats, err := service.CategoryStatistics(category.ID)

	require.NoError(t, err)
	assert.Equal(t, "Machinery", stats.Category)
	assert.Equal(t, "MACH", stats.Code)
	assert.Equal(t, 3, stats.TotalAssets)
	assert.True(t, stats.TotalValue.Equal(decimal.NewFromInt(14000)))
	assert.Equal(t, 2, stats.ByStatus.Active)
	assert.Equal(t, 1, stats.ByStatus.Maintenance)

	require.NotNil(t, stats.MostValuable)
	assert.Equal(t, "CNC Mill", stats.MostValuable.Name)
	assert.True(t, stats.MostValuable.Value.Equal(decimal.NewFromInt(12000)))

	require.NotNil(t, stats.Oldest)
	assert.Equal(t, "CNC Mill", stats.Oldest.Name)
	assert.Equal(t, created[2].AcquisitionDate.Format("2006-01-02"), stats.Oldest.Date)
	assert.InDelta(t, 6.0, stats.Oldest.AgeInYears, 0.02)
}

func TestReportService_CategoryStatisticsTieBreaksFirstEncountered(t *testing.T) {
	categories, assets := repositories.NewMemoryRepositories()
	category := &models.Category{Name: "Vehicles", Code: "VEH", Active: true}
	require.NoError(t, categories.Create(category))

	// Same value, the newer one lists first (store order is newest
	// acquisition first) and must win the tie.
	newer := &models.Asset{
		Name:            "Van Two",
		AcquisitionDate: time.Now().AddDate(-1, 0, 0),
		InitialValue:    decimal.NewFromInt(2500),
		CategoryID:      category.ID,
		Status:          models.StatusActive,
	}
	older := &models.Asset{
		Name:            "Van One",
		AcquisitionDate: time.Now().AddDate(-3, 0, 0),
		InitialValue:    decimal.NewFromInt(2500),
		CategoryID:      category.ID,
		Status:          models.StatusActive,
	}
	require.NoError(t, assets.Create(newer))
	require.NoError(t, assets.Create(older))
	service := services.NewReportService(assets, categories)

	stats, err := service.CategoryStatistics(category.ID)

	require.NoError(t, err)
	require.NotNil(t, stats.MostValuable)
	assert.Equal(t, "Van Two", stats.MostValuable.Name)
	require.NotNil(t, stats.Oldest)
	assert.Equal(t, "Van One", stats.Oldest.Name)
}

func TestReportService_CategoryStatisticsUnknownCategory(t *testing.T) {
	categories, assets := repositories.NewMemoryRepositories()
	service := services.NewReportService(assets, categories)

	_, err := service.CategoryStatistics("missing")

	var notFound *models.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "category", notFound.Resource)
}

func TestReportService_CategoryStatisticsEmptyCategory(t *testing.T) {
	categories, assets := repositories.NewMemoryRepositories()
	category := &models.Category{Name: "Furniture", Code: "FURN", Active: true}
	require.NoError(t, categories.Create(category))
	service := services.NewReportService(assets, categories)

	stats, err := service.CategoryStatistics(category.ID)

	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalAssets)
	assert.Nil(t, stats.MostValuable)
	assert.Nil(t, stats.Oldest)
}
