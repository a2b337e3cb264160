package model

import (
	"time"

	"gorm.io/gorm"
)

type PriceRange string // preferred price bucket

const (
	PriceRangeLow    PriceRange = "low-range" // under 50
	PriceRangeMid    PriceRange = "mid-range" // 50 to under 150
	PriceRangeLuxury PriceRange = "luxury"    // 150 and up
)

// ValidPriceRange reports whether s names a known price bucket.
func ValidPriceRange(s string) bool {
	switch PriceRange(s) {
	case PriceRangeLow, PriceRangeMid, PriceRangeLuxury:
		return true
	}
	return false
}

type Preference struct {
	ID                  uint           `gorm:"primarykey" json:"id"`                        // preference ID
	UserID              uint           `gorm:"uniqueIndex;not null" json:"user_id"`         // owner user ID (one profile per user)
	FavoriteNotes       StringList     `gorm:"serializer:json" json:"favorite_notes"`       // preferred fragrance notes
	PreferredCategories StringList     `gorm:"serializer:json" json:"preferred_categories"` // preferred fragrance families
	PreferredBrands     StringList     `gorm:"serializer:json" json:"preferred_brands"`     // preferred brands
	PriceRange          PriceRange     `gorm:"type:varchar(20)" json:"price_range"`         // preferred price bucket
	SeasonalPreference  string         `gorm:"type:varchar(20)" json:"seasonal_preference"` // preferred season
	ScentStrength       ScentStrength  `gorm:"type:varchar(20)" json:"scent_strength"`      // preferred concentration
	CreatedAt           time.Time      `json:"created_at"`                                  // creation time
	UpdatedAt           time.Time      `json:"updated_at"`                                  // last update time
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`                              // soft delete time

	User User `gorm:"foreignKey:UserID" json:"-"` // owner
}

func (Preference) TableName() string {
	return "preferences"
}
