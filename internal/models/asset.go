package models

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AssetStatus is the lifecycle state of an asset. The stored values are the
// two-letter codes used on the wire; Display returns the readable name.
type AssetStatus string

const (
	StatusActive         AssetStatus = "AC"
	StatusMaintenance    AssetStatus = "MA"
	StatusDecommissioned AssetStatus = "DB"
	StatusInRepair       AssetStatus = "RE"
)

var statusDisplayNames = map[AssetStatus]string{
	StatusActive:         "Active",
	StatusMaintenance:    "Maintenance",
	StatusDecommissioned: "Decommissioned",
	StatusInRepair:       "In Repair",
}

// Valid reports whether s is one of the four defined statuses.
func (s AssetStatus) Valid() bool {
	_, ok := statusDisplayNames[s]
	return ok
}

// Display returns the human-readable name for the status code.
func (s AssetStatus) Display() string {
	if name, ok := statusDisplayNames[s]; ok {
		return name
	}
	return string(s)
}

// ValidStatuses returns the code -> display-name map of all defined statuses.
func ValidStatuses() map[string]string {
	valid := make(map[string]string, len(statusDisplayNames))
	for code, name := range statusDisplayNames {
		valid[string(code)] = name
	}
	return valid
}

// Value thresholds used by the validation and reporting rules.
var (
	// HighValueThreshold marks an asset as high-value; above it a serial
	// number becomes mandatory.
	HighValueThreshold = decimal.NewFromInt(5000)
	// MaxInitialValue is the sanity ceiling on acquisition value.
	MaxInitialValue = decimal.NewFromInt(10_000_000)
)

// MaxAcquisitionAgeDays caps how far in the past an acquisition date may lie
// (roughly 50 years).
const MaxAcquisitionAgeDays = 18250

// MinDecommissionAgeDays is the minimum age before an asset may be
// decommissioned.
const MinDecommissionAgeDays = 7

// ReviewAgeYears is the age after which an asset needs review.
const ReviewAgeYears = 5

// Asset is a tracked item of value: equipment, property, vehicles, etc.
type Asset struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name            string          `json:"name" gorm:"index;type:varchar(200)" validate:"required,min=3,max=200"`
	Description     string          `json:"description"`
	AcquisitionDate time.Time       `json:"acquisition_date" gorm:"index;type:date"`
	InitialValue    decimal.Decimal `json:"initial_value" gorm:"index;type:decimal(12,2)"`
	CategoryID      string          `json:"category_id" gorm:"index;type:varchar(36)" validate:"required"`
	Status          AssetStatus     `json:"status" gorm:"index;type:varchar(2);default:AC"`
	SerialNumber    *string         `json:"serial_number" gorm:"uniqueIndex;type:varchar(100)"`
	Location        string          `json:"location" gorm:"type:varchar(200)"`
	Responsible     string          `json:"responsible" gorm:"type:varchar(200)"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Category *Category `json:"-" gorm:"foreignKey:CategoryID"`
}

// Serial returns the serial number or "" when absent.
func (a *Asset) Serial() string {
	if a.SerialNumber == nil {
		return ""
	}
	return *a.SerialNumber
}

// SetSerial stores a normalized serial number, or clears it when empty.
func (a *Asset) SetSerial(serial string) {
	serial = strings.ToUpper(strings.TrimSpace(serial))
	if serial == "" {
		a.SerialNumber = nil
		return
	}
	a.SerialNumber = &serial
}

// AgeInDays returns the number of whole days since acquisition.
func (a *Asset) AgeInDays() int {
	return daysBetween(a.AcquisitionDate, time.Now())
}

// AgeInYears returns the age in years (days / 365.25) rounded to one decimal.
func (a *Asset) AgeInYears() float64 {
	return math.Round(float64(a.AgeInDays())/365.25*10) / 10
}

// IsHighValue reports whether the asset is worth more than the high-value
// threshold.
func (a *Asset) IsHighValue() bool {
	return a.InitialValue.GreaterThan(HighValueThreshold)
}

// NeedsReview reports whether the asset is older than the review threshold.
func (a *Asset) NeedsReview() bool {
	return a.AgeInYears() > ReviewAgeYears
}

// Normalize trims the name and canonicalizes the serial number.
func (a *Asset) Normalize() {
	a.Name = strings.TrimSpace(a.Name)
	if a.SerialNumber != nil {
		a.SetSerial(*a.SerialNumber)
	}
}

// BeforeSave runs the normalization on every GORM write path.
func (a *Asset) BeforeSave(tx *gorm.DB) error {
	a.Normalize()
	return nil
}

// daysBetween counts whole calendar days from a to b, ignoring time of day.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
