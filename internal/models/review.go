package models

import "time"

// Review is a customer rating of an item, hidden until approved by an admin
type Review struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ItemID       uint      `gorm:"index;not null" json:"item_id"`
	VenueID      uint      `gorm:"index;not null" json:"venue_id"`
	CustomerName string    `gorm:"not null" json:"customer_name"`
	Rating       int       `gorm:"not null" json:"rating"`
	Comment      string    `json:"comment"`
	Approved     bool      `gorm:"index" json:"approved"`
	CreatedAt    time.Time `json:"created_at"`
}

// ReviewSummary is the review listing of one item with its aggregate rating
type ReviewSummary struct {
	Reviews       []Review `json:"reviews"`
	AverageRating float64  `json:"averageRating"`
	TotalReviews  int64    `json:"totalReviews"`
}
