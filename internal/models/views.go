package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// The three Asset projections below replace a serializer hierarchy: one
// lightweight shape for listings, one full shape for detail views, and the
// create/update input handled separately in the services package.

// AssetListItem is the lightweight projection used by list endpoints.
type AssetListItem struct {
	ID                    string          `json:"id"`
	Name                  string          `json:"name"`
	InitialValue          decimal.Decimal `json:"initial_value"`
	InitialValueFormatted string          `json:"initial_value_formatted"`
	CategoryName          string          `json:"category_name"`
	StatusDisplay         string          `json:"status_display"`
	AcquisitionDate       string          `json:"acquisition_date"`
}

// NewAssetListItem builds the list projection. The asset's Category must be
// preloaded; a missing category leaves the name empty.
func NewAssetListItem(a *Asset) AssetListItem {
	item := AssetListItem{
		ID:                    a.ID,
		Name:                  a.Name,
		InitialValue:          a.InitialValue,
		InitialValueFormatted: FormatMoney(a.InitialValue),
		StatusDisplay:         a.Status.Display(),
		AcquisitionDate:       a.AcquisitionDate.Format("2006-01-02"),
	}
	if a.Category != nil {
		item.CategoryName = a.Category.Name
	}
	return item
}

// AssetDetail is the full projection with derived and formatted fields.
type AssetDetail struct {
	ID                       string          `json:"id"`
	Name                     string          `json:"name"`
	Description              string          `json:"description"`
	AcquisitionDate          string          `json:"acquisition_date"`
	AcquisitionDateFormatted string          `json:"acquisition_date_formatted"`
	InitialValue             decimal.Decimal `json:"initial_value"`
	InitialValueFormatted    string          `json:"initial_value_formatted"`
	CategoryID               string          `json:"category_id"`
	CategoryName             string          `json:"category_name"`
	CategoryCode             string          `json:"category_code"`
	Status                   string          `json:"status"`
	StatusDisplay            string          `json:"status_display"`
	SerialNumber             string          `json:"serial_number"`
	Location                 string          `json:"location"`
	Responsible              string          `json:"responsible"`
	AgeInDays                int             `json:"age_in_days"`
	AgeInYears               float64         `json:"age_in_years"`
	IsHighValue              bool            `json:"is_high_value"`
	NeedsReview              bool            `json:"needs_review"`
	CreatedAt                string          `json:"created_at"`
	UpdatedAt                string          `json:"updated_at"`
}

// NewAssetDetail builds the full projection. The asset's Category must be
// preloaded for the category name/code fields.
func NewAssetDetail(a *Asset) AssetDetail {
	detail := AssetDetail{
		ID:                       a.ID,
		Name:                     a.Name,
		Description:              a.Description,
		AcquisitionDate:          a.AcquisitionDate.Format("2006-01-02"),
		AcquisitionDateFormatted: a.AcquisitionDate.Format("02/01/2006"),
		InitialValue:             a.InitialValue,
		InitialValueFormatted:    FormatMoney(a.InitialValue),
		CategoryID:               a.CategoryID,
		Status:                   string(a.Status),
		StatusDisplay:            a.Status.Display(),
		SerialNumber:             a.Serial(),
		Location:                 a.Location,
		Responsible:              a.Responsible,
		AgeInDays:                a.AgeInDays(),
		AgeInYears:               a.AgeInYears(),
		IsHighValue:              a.IsHighValue(),
		NeedsReview:              a.NeedsReview(),
		CreatedAt:                a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:                a.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if a.Category != nil {
		detail.CategoryName = a.Category.Name
		detail.CategoryCode = a.Category.Code
	}
	return detail
}

// CategoryView is the read projection of a category, including the derived
// totals over its assets.
type CategoryView struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Active      bool            `json:"active"`
	TotalAssets int64           `json:"total_assets"`
	TotalValue  decimal.Decimal `json:"total_value"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

// NewCategoryView builds the category projection from the record plus the
// aggregates computed by the store.
func NewCategoryView(c *Category, totalAssets int64, totalValue decimal.Decimal) CategoryView {
	return CategoryView{
		ID:          c.ID,
		Name:        c.Name,
		Code:        c.Code,
		Description: c.Description,
		Active:      c.Active,
		TotalAssets: totalAssets,
		TotalValue:  totalValue,
		CreatedAt:   c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   c.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// FormatMoney renders a decimal amount as a currency string, e.g. "$1,200.00".
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := "$" + b.String() + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
