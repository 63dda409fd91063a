package models

import "time"

// Membership plans
const (
	PlanFree    = "free"
	PlanPremium = "premium"
)

// Venue is a tenant restaurant or cafe with its own menu and slug
type Venue struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Slug       string     `gorm:"uniqueIndex;not null" json:"slug" binding:"required"`
	Name       string     `gorm:"not null" json:"name" binding:"required"`
	OwnerID    uint       `gorm:"index" json:"owner_id"`
	Plan       string     `gorm:"default:'free'" json:"plan"`
	Currency   string     `gorm:"default:'USD'" json:"currency"`
	Active     bool       `json:"active"`
	Categories []Category `json:"categories,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// IsPremium reports whether the venue is on the premium membership plan
func (v Venue) IsPremium() bool {
	return v.Plan == PlanPremium
}

// Category groups items on a venue menu
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VenueID   uint      `gorm:"index;not null" json:"venue_id"`
	Name      string    `gorm:"not null" json:"name" binding:"required"`
	SortOrder int       `json:"sort_order"`
	Items     []Item    `json:"items,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Table is a physical table whose QR code carries Token
type Table struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VenueID   uint      `gorm:"index;not null" json:"venue_id"`
	Label     string    `gorm:"not null" json:"label"`
	Token     string    `gorm:"uniqueIndex;not null" json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// Slider is a homepage banner shown on the public menu
type Slider struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VenueID   uint      `gorm:"index;not null" json:"venue_id"`
	Title     string    `json:"title"`
	ImageURL  string    `gorm:"not null" json:"image_url" binding:"required"`
	LinkURL   string    `json:"link_url"`
	SortOrder int       `json:"sort_order"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
