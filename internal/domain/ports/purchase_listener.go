package ports

import (
	"github.com/kevin07696/store-billing/internal/domain"
)

// PurchaseUpdateListener receives purchases pushed by the provider outside of any request
type PurchaseUpdateListener interface {
	OnPurchasesCompleted(purchases []*domain.PurchaseRecord)
	OnPurchasesFailed(purchases []*domain.PurchaseRecord, err *domain.BillingError)
}

// NormalizedPurchaseListener receives pushed purchases after normalization
type NormalizedPurchaseListener interface {
	OnPurchasesCompleted(purchases []*domain.Purchase)
	OnPurchasesFailed(purchases []*domain.Purchase, err *domain.BillingError)
}

// TokenExtractor pulls the details token out of a serialized product descriptor.
// It returns an empty string for absent or invalid input and never fails.
type TokenExtractor interface {
	Extract(serialized string) string
}
