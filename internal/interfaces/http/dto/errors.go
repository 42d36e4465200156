package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// Validation and input error codes
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeTooLarge     = "PAYLOAD_TOO_LARGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeTokenExpired       = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "TOKEN_INVALID"
	ErrCodeTokenRevoked       = "TOKEN_REVOKED"
	ErrCodeForbidden          = "FORBIDDEN"
)

// Resource error codes
const (
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeAlreadyExists     = "ALREADY_EXISTS"
	ErrCodeAlreadyReviewed   = "ALREADY_REVIEWED"
	ErrCodeAlreadyInWishlist = "ALREADY_IN_WISHLIST"
)

// Business rule error codes
const (
	ErrCodeEmptyOrder        = "EMPTY_ORDER"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeInvalidState      = "INVALID_STATE"
	ErrCodeInvalidStatus     = "INVALID_STATUS"
	ErrCodeInvalidRole       = "INVALID_ROLE"
	ErrCodeInvalidOperation  = "INVALID_OPERATION"
)

// Payment and storage error codes
const (
	ErrCodePaymentNotCompleted = "PAYMENT_NOT_COMPLETED"
	ErrCodePaymentError        = "PAYMENT_ERROR"
	ErrCodePaymentUnavailable  = "PAYMENT_UNAVAILABLE"
	ErrCodeWebhook             = "WEBHOOK_ERROR"
	ErrCodeStorageDisabled     = "STORAGE_DISABLED"
)

// ErrCodeRateLimited is used when the client exceeded its request budget
const ErrCodeRateLimited = "RATE_LIMITED"

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// Domain rule violations answer 400 like validation failures.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,

	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeAlreadyExists:     http.StatusBadRequest,
	ErrCodeAlreadyReviewed:   http.StatusBadRequest,
	ErrCodeAlreadyInWishlist: http.StatusBadRequest,

	ErrCodeEmptyOrder:        http.StatusBadRequest,
	ErrCodeInsufficientStock: http.StatusBadRequest,
	ErrCodeInvalidState:      http.StatusBadRequest,
	ErrCodeInvalidStatus:     http.StatusBadRequest,
	ErrCodeInvalidRole:       http.StatusBadRequest,
	ErrCodeInvalidOperation:  http.StatusBadRequest,

	ErrCodePaymentNotCompleted: http.StatusBadRequest,
	ErrCodePaymentError:        http.StatusBadRequest,
	ErrCodePaymentUnavailable:  http.StatusServiceUnavailable,
	ErrCodeWebhook:             http.StatusBadRequest,
	ErrCodeStorageDisabled:     http.StatusServiceUnavailable,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
