package ports

import (
	"context"

	"github.com/kevin07696/store-billing/internal/domain"
	domainports "github.com/kevin07696/store-billing/internal/domain/ports"
)

// ProductLoader loads product descriptors by id
type ProductLoader interface {
	// LoadProducts fetches descriptors of subscriptions and one-time products
	LoadProducts(productIDs []string, done func([]*domain.ProductDescriptor, error))
}

// BillingService defines the business operations of the billing connection.
// Every operation completes through its callback exactly once; callbacks may run on
// any goroutine.
type BillingService interface {
	ProductLoader

	// QueryPurchases returns the active purchases of both product types
	QueryPurchases(done func([]*domain.PurchaseRecord, error))

	// QueryPurchaseHistory returns the most recent purchase of every product
	QueryPurchaseHistory(done func([]*domain.PurchaseHistory, error))

	// Consume consumes a one-time purchase
	Consume(purchaseToken string, done func(error))

	// Acknowledge acknowledges a purchase
	Acknowledge(purchaseToken string, done func(error))

	// Purchase launches the purchase flow
	Purchase(params domain.PurchaseParams, done func(error))

	// ReplaceOldPurchase launches a purchase replacing the subscriber's purchase of oldProduct
	ReplaceOldPurchase(params domain.PurchaseParams, oldProduct *domain.ProductDescriptor, prorationMode domain.ProrationMode, done func(error))

	// SetPurchaseUpdateListener registers the receiver of pushed purchases
	SetPurchaseUpdateListener(listener domainports.PurchaseUpdateListener)
}

// BlockingBillingService exposes the billing operations as blocking calls bounded by a context
type BlockingBillingService interface {
	LoadProductsContext(ctx context.Context, productIDs []string) ([]*domain.ProductDescriptor, error)
	QueryPurchasesContext(ctx context.Context) ([]*domain.PurchaseRecord, error)
	QueryPurchaseHistoryContext(ctx context.Context) ([]*domain.PurchaseHistory, error)
	ConsumeContext(ctx context.Context, purchaseToken string) error
	AcknowledgeContext(ctx context.Context, purchaseToken string) error
	PurchaseContext(ctx context.Context, params domain.PurchaseParams) error
	ReplaceOldPurchaseContext(ctx context.Context, params domain.PurchaseParams, oldProduct *domain.ProductDescriptor, prorationMode domain.ProrationMode) error
}
