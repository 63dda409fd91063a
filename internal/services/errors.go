package services

import "errors"

var (
	ErrVenueNotFound      = errors.New("venue not found")
	ErrForbidden          = errors.New("forbidden")
	ErrItemNotFound       = errors.New("item not found")
	ErrItemUnavailable    = errors.New("item not available")
	ErrInvalidItem        = errors.New("invalid item data")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryNotEmpty   = errors.New("category still has items")
	ErrTableNotFound      = errors.New("table not found")
	ErrSliderNotFound     = errors.New("slider not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyOrder         = errors.New("order has no items")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidTransition  = errors.New("invalid or conflicting status transition")
	ErrWaiterCallNotFound = errors.New("waiter call not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrInvalidPlan        = errors.New("invalid membership plan")
	ErrInvalidSlug        = errors.New("slug must be lowercase letters, digits and single dashes")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrClientNotFound     = errors.New("client not found")
	ErrInvalidScope       = errors.New("invalid scope")
)

var (
	ErrPremiumRequired = errors.New("feature requires a premium plan")
	ErrAIBusy          = errors.New("service busy, retry shortly")
	ErrAIFailed        = errors.New("enrichment failed")
	ErrInvalidUpload   = errors.New("invalid upload")
)
