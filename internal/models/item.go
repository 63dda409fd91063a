package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Item tags
const (
	TagNew     = "new"
	TagVegan   = "vegan"
	TagSpicy   = "spicy"
	TagPopular = "popular"
)

var allowedTags = map[string]bool{
	TagNew:     true,
	TagVegan:   true,
	TagSpicy:   true,
	TagPopular: true,
}

// IsValidTag reports whether tag belongs to the known tag set
func IsValidTag(tag string) bool {
	return allowedTags[tag]
}

// Item is a sellable menu product
type Item struct {
	ID           uint                        `gorm:"primaryKey" json:"id"`
	VenueID      uint                        `gorm:"index;not null" json:"venue_id"`
	CategoryID   uint                        `gorm:"index" json:"category_id"`
	Name         string                      `gorm:"not null" json:"name" binding:"required"`
	Description  string                      `json:"description"`
	Price        decimal.Decimal             `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL     string                      `json:"image_url"`
	Variants     []Variant                   `gorm:"constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	Addons       []Addon                     `gorm:"constraint:OnDelete:CASCADE" json:"addons,omitempty"`
	Tags         datatypes.JSONSlice[string] `json:"tags"`
	Translations datatypes.JSONMap           `json:"translations,omitempty"`
	Available    bool                        `json:"available"`
	Featured     bool                        `json:"featured"`

	// Nutrition per serving, nil when unknown
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fat      *float64 `json:"fat"`
	Fiber    *float64 `json:"fiber"`
	Sugar    *float64 `json:"sugar"`
	Sodium   *float64 `json:"sodium"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LocalizedName returns the translated name for lang, falling back to Name
func (i Item) LocalizedName(lang string) string {
	if lang == "" || i.Translations == nil {
		return i.Name
	}
	if name, ok := i.Translations[lang].(string); ok && name != "" {
		return name
	}
	return i.Name
}

// Variant is a mutually exclusive size or type option with a price delta
type Variant struct {
	ID     uint            `gorm:"primaryKey" json:"id"`
	ItemID uint            `gorm:"index;not null" json:"item_id"`
	Name   string          `gorm:"not null" json:"name"`
	Delta  decimal.Decimal `gorm:"type:decimal(10,2)" json:"delta"`
}

// Addon is an optional extra attached to an order line
type Addon struct {
	ID     uint            `gorm:"primaryKey" json:"id"`
	ItemID uint            `gorm:"index;not null" json:"item_id"`
	Name   string          `gorm:"not null" json:"name"`
	Price  decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
}
