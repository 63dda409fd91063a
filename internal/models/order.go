package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderStatus is the fulfilment state of an order
type OrderStatus string

const (
	OrderPlaced    OrderStatus = "placed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
)

var orderStatusRank = map[OrderStatus]int{
	OrderPlaced:    0,
	OrderPreparing: 1,
	OrderReady:     2,
	OrderDelivered: 3,
}

// Valid reports whether s is one of the known statuses
func (s OrderStatus) Valid() bool {
	_, ok := orderStatusRank[s]
	return ok
}

// Terminal reports whether no further transition is possible
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered
}

// CanTransitionTo allows forward moves only
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	from, ok := orderStatusRank[s]
	if !ok {
		return false
	}
	to, ok := orderStatusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// Order is a placed customer order for a table
type Order struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	VenueID    uint            `gorm:"index;not null" json:"venue_id"`
	TableLabel string          `json:"table"`
	Lines      []OrderLine     `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	Total      decimal.Decimal `gorm:"type:decimal(10,2)" json:"total"`
	Status     OrderStatus     `gorm:"index;not null" json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// OrderLine is one ordered item with its chosen variant and add-ons
type OrderLine struct {
	ID        uint                      `gorm:"primaryKey" json:"id"`
	OrderID   uint                      `gorm:"index;not null" json:"order_id"`
	ItemID    uint                      `gorm:"not null" json:"item_id"`
	ItemName  string                    `json:"item_name"`
	Quantity  int                       `gorm:"not null" json:"quantity"`
	VariantID *uint                     `json:"variant_id,omitempty"`
	AddonIDs  datatypes.JSONSlice[uint] `json:"addon_ids"`
	Note      string                    `json:"note"`
	UnitPrice decimal.Decimal           `gorm:"type:decimal(10,2)" json:"unit_price"`
	LineTotal decimal.Decimal           `gorm:"type:decimal(10,2)" json:"line_total"`
}

// Waiter call statuses
const (
	WaiterCallPending   = "pending"
	WaiterCallCompleted = "completed"
)

// WaiterCall is a customer request for staff assistance at a table
type WaiterCall struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	VenueID     uint       `gorm:"index;not null" json:"venue_id"`
	TableLabel  string     `json:"table"`
	Message     string     `json:"message"`
	Status      string     `gorm:"index;not null" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
