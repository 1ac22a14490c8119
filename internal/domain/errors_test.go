package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestDomainErrors_SentinelErrors tests the sentinel errors used in billing error messages
func TestDomainErrors_SentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{
			name:     "no_offer_found",
			err:      ErrNoOfferFound,
			contains: "no offer found",
		},
		{
			name:     "store_details_not_found",
			err:      ErrStoreDetailsNotFound,
			contains: "store details not found",
		},
		{
			name:     "no_existing_purchase",
			err:      ErrNoExistingPurchase,
			contains: "no existing purchase",
		},
		{
			name:     "missing_purchase_token",
			err:      ErrMissingPurchaseToken,
			contains: "purchase token is missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Errorf("expected error to be defined, got nil")
			}
			if !strings.Contains(strings.ToLower(tt.err.Error()), tt.contains) {
				t.Errorf("error message %q does not contain %q", tt.err.Error(), tt.contains)
			}
		})
	}
}

// TestDomainError_Wrapping tests errors.Is / errors.As through DomainError
func TestDomainError_Wrapping(t *testing.T) {
	wrapped := WrapError(ErrorCodeProductNotOwned, "replace failed", ErrNoExistingPurchase)
	outer := fmt.Errorf("purchase: %w", wrapped)

	if !errors.Is(outer, ErrNoExistingPurchase) {
		t.Errorf("expected errors.Is to find the wrapped sentinel")
	}
	if !IsDomainError(outer, ErrorCodeProductNotOwned) {
		t.Errorf("expected IsDomainError to match %s", ErrorCodeProductNotOwned)
	}
	if IsDomainError(outer, ErrorCodeStoreError) {
		t.Errorf("expected IsDomainError not to match %s", ErrorCodeStoreError)
	}
	if got := GetErrorCode(outer); got != ErrorCodeProductNotOwned {
		t.Errorf("GetErrorCode() = %s, want %s", got, ErrorCodeProductNotOwned)
	}
	if got := GetErrorCode(errors.New("plain")); got != "" {
		t.Errorf("GetErrorCode() on plain error = %q, want empty", got)
	}
}

// TestDomainError_Message tests the rendered error message
func TestDomainError_Message(t *testing.T) {
	plain := NewDomainError(ErrorCodeStoreError, "store failed")
	if plain.Error() != "STORE_ERROR: store failed" {
		t.Errorf("unexpected message %q", plain.Error())
	}

	wrapped := WrapError(ErrorCodeStoreError, "store failed", errors.New("timeout"))
	if wrapped.Error() != "STORE_ERROR: store failed: timeout" {
		t.Errorf("unexpected message %q", wrapped.Error())
	}

	withDetail := plain.WithDetail("response_code", 2)
	if withDetail.Details["response_code"] != 2 {
		t.Errorf("expected detail to be recorded, got %v", withDetail.Details)
	}
}

// TestDomainError_Categories tests the store and product error helpers
func TestDomainError_Categories(t *testing.T) {
	tests := []struct {
		code    ErrorCode
		store   bool
		product bool
	}{
		{ErrorCodeStoreError, true, false},
		{ErrorCodeStoreNetworkError, true, false},
		{ErrorCodeBillingUnavailable, true, false},
		{ErrorCodeFeatureNotSupported, true, false},
		{ErrorCodeProductUnavailable, false, true},
		{ErrorCodeProductAlreadyOwned, false, true},
		{ErrorCodeProductNotOwned, false, true},
		{ErrorCodePurchaseCanceled, false, false},
		{ErrorCodePurchasing, false, false},
		{ErrorCodeUnknown, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := NewDomainError(tt.code, "test")
			if got := IsStoreError(err); got != tt.store {
				t.Errorf("IsStoreError() = %v, want %v", got, tt.store)
			}
			if got := IsProductError(err); got != tt.product {
				t.Errorf("IsProductError() = %v, want %v", got, tt.product)
			}
		})
	}
}
