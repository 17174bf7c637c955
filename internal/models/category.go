package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Category groups assets (e.g. Electronics, Vehicles, Real Estate).
// Deactivating a category keeps it around for historical assets without
// allowing new ones to be filed under it.
type Category struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string    `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Code        string    `json:"code" gorm:"uniqueIndex;type:varchar(10)" validate:"required,max=10"`
	Description string    `json:"description"`
	Active      bool      `json:"active" gorm:"index;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Assets []Asset `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
}

// Normalize canonicalizes the stored form: name trimmed, code upper-cased and
// trimmed. Title-casing of the name happens only on the validated-input path
// (see services.CategoryService), not here.
func (c *Category) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
}

// BeforeSave runs the normalization on every GORM write path.
func (c *Category) BeforeSave(tx *gorm.DB) error {
	c.Normalize()
	return nil
}
