package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"assetflow/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetStatus(t *testing.T) {
	assert.True(t, models.StatusActive.Valid())
	assert.True(t, models.StatusDecommissioned.Valid())
	assert.False(t, models.AssetStatus("XX").Valid())
	assert.False(t, models.AssetStatus("").Valid())

	assert.Equal(t, "Active", models.StatusActive.Display())
	assert.Equal(t, "Maintenance", models.StatusMaintenance.Display())
	assert.Equal(t, "Decommissioned", models.StatusDecommissioned.Display())
	assert.Equal(t, "In Repair", models.StatusInRepair.Display())
	// Unknown codes fall back to the raw value.
	assert.Equal(t, "XX", models.AssetStatus("XX").Display())

	valid := models.ValidStatuses()
	assert.Len(t, valid, 4)
	assert.Equal(t, "In Repair", valid["RE"])
}

func TestAssetAge(t *testing.T) {
	asset := models.Asset{AcquisitionDate: time.Now().AddDate(0, 0, -10)}
	assert.Equal(t, 10, asset.AgeInDays())

	// Acquired today counts as zero days regardless of time of day.
	asset.AcquisitionDate = time.Now()
	assert.Equal(t, 0, asset.AgeInDays())

	asset.AcquisitionDate = time.Now().AddDate(0, 0, 3)
	assert.Equal(t, -3, asset.AgeInDays())

	// 18 months is 1.5 years after rounding to one decimal.
	asset.AcquisitionDate = time.Now().AddDate(0, -18, 0)
	assert.InDelta(t, 1.5, asset.AgeInYears(), 0.05)
}

func TestAssetIsHighValue(t *testing.T) {
	asset := models.Asset{InitialValue: decimal.NewFromInt(5000)}
	// Exactly at the threshold is not high-value.
	assert.False(t, asset.IsHighValue())

	asset.InitialValue = decimal.NewFromFloat(5000.01)
	assert.True(t, asset.IsHighValue())

	asset.InitialValue = decimal.NewFromInt(4999)
	assert.False(t, asset.IsHighValue())
}

func TestAssetNeedsReview(t *testing.T) {
	asset := models.Asset{AcquisitionDate: time.Now().AddDate(-6, 0, 0)}
	assert.True(t, asset.NeedsReview())

	asset.AcquisitionDate = time.Now().AddDate(-4, 0, 0)
	assert.False(t, asset.NeedsReview())
}

func TestAssetSerial(t *testing.T) {
	var asset models.Asset
	assert.Equal(t, "", asset.Serial())

	asset.SetSerial("  srv-001 ")
	assert.Equal(t, "SRV-001", asset.Serial())

	asset.SetSerial("   ")
	assert.Nil(t, asset.SerialNumber)
	assert.Equal(t, "", asset.Serial())
}

func TestAssetNormalize(t *testing.T) {
	serial := " abc-123 "
	asset := models.Asset{Name: "  Ladder  ", SerialNumber: &serial}

	asset.Normalize()

	// Normalize trims but never title-cases; that only happens on the
	// validated-input path.
	assert.Equal(t, "Ladder", asset.Name)
	assert.Equal(t, "ABC-123", asset.Serial())
}

func TestCategoryNormalize(t *testing.T) {
	category := models.Category{Name: "  office supplies ", Code: " sup "}

	category.Normalize()

	assert.Equal(t, "office supplies", category.Name)
	assert.Equal(t, "SUP", category.Code)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, "$0.00"},
		{999.5, "$999.50"},
		{1200, "$1,200.00"},
		{1234567.89, "$1,234,567.89"},
		{-1200, "-$1,200.00"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, models.FormatMoney(decimal.NewFromFloat(tc.value)))
	}
}

func TestValidationErrorsFields(t *testing.T) {
	verrs := models.ValidationErrors{
		{Field: "name", Message: "name must be at least 3 characters long"},
		{Field: "code", Message: "code cannot contain spaces"},
	}

	fields := verrs.Fields()
	assert.Equal(t, "code cannot contain spaces", fields["code"])
	assert.Contains(t, verrs.Error(), "name")
}

func TestAssetDetailProjection(t *testing.T) {
	acquired := time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC)
	asset := models.Asset{
		ID:              "a-1",
		Name:            "CNC Mill",
		AcquisitionDate: acquired,
		InitialValue:    decimal.NewFromInt(12000),
		CategoryID:      "c-1",
		Status:          models.StatusActive,
		Category:        &models.Category{ID: "c-1", Name: "Machinery", Code: "MACH"},
	}
	asset.SetSerial("cnc-01")

	detail := models.NewAssetDetail(&asset)

	assert.Equal(t, "2020-03-15", detail.AcquisitionDate)
	assert.Equal(t, "15/03/2020", detail.AcquisitionDateFormatted)
	assert.Equal(t, "$12,000.00", detail.InitialValueFormatted)
	assert.Equal(t, "Machinery", detail.CategoryName)
	assert.Equal(t, "MACH", detail.CategoryCode)
	assert.Equal(t, "Active", detail.StatusDisplay)
	assert.Equal(t, "CNC-01", detail.SerialNumber)
	assert.True(t, detail.IsHighValue)
	assert.True(t, detail.NeedsReview)

	// Decimal values marshal as bare numbers in quotes.
	body, err := json.Marshal(detail)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"initial_value":"12000"`)
}

func TestAssetListItemProjection(t *testing.T) {
	asset := models.Asset{
		ID:              "a-1",
		Name:            "Drill Press",
		AcquisitionDate: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		InitialValue:    decimal.NewFromInt(500),
		Status:          models.StatusMaintenance,
	}

	item := models.NewAssetListItem(&asset)

	assert.Equal(t, "Maintenance", item.StatusDisplay)
	assert.Equal(t, "$500.00", item.InitialValueFormatted)
	assert.Equal(t, "2023-01-02", item.AcquisitionDate)
	// Without a preloaded category the name stays empty.
	assert.Equal(t, "", item.CategoryName)
}
