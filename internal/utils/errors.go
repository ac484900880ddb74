package utils

import "errors"

// Common application errors used across services and handlers.
var (
	ErrFetchFailed     = errors.New("FETCH_FAILED")
	ErrProductNotFound = errors.New("PRODUCT_NOT_FOUND")
	ErrOutOfStock      = errors.New("OUT_OF_STOCK")
	ErrInvalidQuantity = errors.New("INVALID_QUANTITY")
	ErrInvalidSort     = errors.New("INVALID_SORT")
	ErrRetryNotAllowed = errors.New("RETRY_NOT_ALLOWED")
)
