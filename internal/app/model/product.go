package model

import (
	"time"

	"gorm.io/gorm"
)

type ScentStrength string // fragrance concentration tier

const (
	StrengthLight    ScentStrength = "light"    // eau fraiche / cologne
	StrengthModerate ScentStrength = "moderate" // eau de toilette
	StrengthStrong   ScentStrength = "strong"   // eau de parfum and above
)

// StringList is stored as a JSON array in a single text column so the
// same model works on both Postgres and SQLite.
type StringList []string

type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`                   // product ID
	Name          string         `gorm:"uniqueIndex;not null" json:"name"`       // product name (unique across catalog)
	Brand         string         `gorm:"not null;index" json:"brand"`            // brand / house name
	Category      string         `gorm:"not null;index" json:"category"`         // fragrance family (floral, woody, citrus, ...)
	Notes         StringList     `gorm:"serializer:json" json:"notes"`           // fragrance notes (jasmine, sandalwood, ...)
	Price         float64        `gorm:"not null" json:"price"`                  // unit price
	SizeML        int            `gorm:"not null" json:"size_ml"`                // bottle size in milliliters
	Description   string         `gorm:"type:text" json:"description"`           // marketing description
	ScentStrength ScentStrength  `gorm:"type:varchar(20)" json:"scent_strength"` // concentration tier
	Season        string         `gorm:"type:varchar(20);index" json:"season"`   // best-suited season (spring, summer, fall, winter)
	ImageURL      string         `json:"image_url"`                              // product image URL
	Stock         int            `gorm:"not null;default:0" json:"stock"`        // units in stock
	CreatedAt     time.Time      `json:"created_at"`                             // creation time
	UpdatedAt     time.Time      `json:"updated_at"`                             // last update time
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                         // soft delete time
}

func (Product) TableName() string {
	return "products"
}
