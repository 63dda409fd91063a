package models

// APIError represents a standardized error response for the API
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error code constants
const (
	// General errors
	ErrBadRequest       = "BAD_REQUEST"
	ErrUnauthorized     = "UNAUTHORIZED"
	ErrForbidden        = "FORBIDDEN"
	ErrNotFound         = "NOT_FOUND"
	ErrConflict         = "CONFLICT"
	ErrInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrValidationFailed = "VALIDATION_FAILED"

	// Menu errors
	ErrVenueNotFound    = "VENUE_NOT_FOUND"
	ErrItemNotFound     = "ITEM_NOT_FOUND"
	ErrItemInvalidData  = "ITEM_INVALID_DATA"
	ErrCategoryNotFound = "CATEGORY_NOT_FOUND"
	ErrTableNotFound    = "TABLE_NOT_FOUND"

	// Order errors
	ErrOrderNotFound      = "ORDER_NOT_FOUND"
	ErrOrderInvalidStatus = "ORDER_INVALID_STATUS"
	ErrOrderTransition    = "ORDER_INVALID_TRANSITION"
	ErrCartEmpty          = "CART_EMPTY"
	ErrCartEntryNotFound  = "CART_ENTRY_NOT_FOUND"
	ErrWaiterCallNotFound = "WAITER_CALL_NOT_FOUND"
	ErrReviewNotFound     = "REVIEW_NOT_FOUND"
	ErrPremiumRequired    = "PREMIUM_REQUIRED"
	ErrAIBusy             = "AI_BUSY"
	ErrAIFailed           = "AI_FAILED"
	ErrUploadInvalid      = "UPLOAD_INVALID"
)

// NewAPIError creates a new API error with the given code and message
func NewAPIError(code, message string, details ...map[string]interface{}) APIError {
	err := APIError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// OAuth2Error represents an OAuth2 error response (RFC 6749)
type OAuth2Error struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	ErrorURI         string `json:"error_uri,omitempty"`
}

// NewOAuth2Error creates a new OAuth2 error response
func NewOAuth2Error(error, description string) OAuth2Error {
	return OAuth2Error{
		Error:            error,
		ErrorDescription: description,
	}
}
