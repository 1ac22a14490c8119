package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable error code
type ErrorCode string

const (
	// Store Errors (STORE_*)
	ErrorCodeStoreError          ErrorCode = "STORE_ERROR"
	ErrorCodeStoreNetworkError   ErrorCode = "STORE_NETWORK_ERROR"
	ErrorCodeBillingUnavailable  ErrorCode = "STORE_BILLING_UNAVAILABLE"
	ErrorCodeFeatureNotSupported ErrorCode = "STORE_FEATURE_NOT_SUPPORTED"

	// Purchase Errors (PURCHASE_*)
	ErrorCodePurchaseCanceled ErrorCode = "PURCHASE_CANCELED"
	ErrorCodePurchasing       ErrorCode = "PURCHASE_FAILED"

	// Product Errors (PRODUCT_*)
	ErrorCodeProductUnavailable  ErrorCode = "PRODUCT_UNAVAILABLE"
	ErrorCodeProductAlreadyOwned ErrorCode = "PRODUCT_ALREADY_OWNED"
	ErrorCodeProductNotOwned     ErrorCode = "PRODUCT_NOT_OWNED"

	// Internal Errors (INTERNAL_*)
	ErrorCodeUnknown ErrorCode = "INTERNAL_UNKNOWN"
)

// DomainError represents a structured domain error with error code and context
type DomainError struct {
	Err     error
	Details map[string]interface{}
	Code    ErrorCode
	Message string
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithDetail adds a detail field to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with a domain error code
func WrapError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Err:     err,
	}
}

// IsDomainError checks if an error is a DomainError with the given code
func IsDomainError(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error, returns empty string if not a DomainError
func GetErrorCode(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// IsStoreError checks if an error originates from the store connection itself
// rather than from a particular product or purchase
func IsStoreError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeStoreError ||
		code == ErrorCodeStoreNetworkError ||
		code == ErrorCodeBillingUnavailable ||
		code == ErrorCodeFeatureNotSupported
}

// IsProductError checks if an error is related to product ownership or availability
func IsProductError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeProductUnavailable ||
		code == ErrorCodeProductAlreadyOwned ||
		code == ErrorCodeProductNotOwned
}

// Common domain errors
var (
	ErrNoOfferFound         = errors.New("no offer found for product")
	ErrStoreDetailsNotFound = errors.New("store details not found for purchase")
	ErrNoExistingPurchase   = errors.New("no existing purchase for product")
	ErrMissingPurchaseToken = errors.New("purchase token is missing")
)
