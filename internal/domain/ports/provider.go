package ports

import (
	"github.com/kevin07696/store-billing/internal/domain"
)

// ConnectionListener receives the provider's connection callbacks
type ConnectionListener interface {
	// OnSetupFinished is called once per StartConnection attempt
	OnSetupFinished(result domain.BillingResult)
	// OnDisconnected is called when an established connection is lost
	OnDisconnected()
}

// PurchasesUpdatedFunc is the provider's out-of-band purchase push callback.
// purchases is nil when the provider passed no payload.
type PurchasesUpdatedFunc func(result domain.BillingResult, purchases []*domain.PurchaseRecord)

// Result callbacks. A nil slice paired with an OK result means the provider returned
// no payload at all, which is different from an empty, non-nil slice.
type (
	ProductsCallback  func(result domain.BillingResult, products []*domain.ProductDescriptor)
	PurchasesCallback func(result domain.BillingResult, purchases []*domain.PurchaseRecord)
	HistoryCallback   func(result domain.BillingResult, records []*domain.PurchaseHistoryRecord)
	ConsumeCallback   func(result domain.BillingResult, purchaseToken string)
	ResultCallback    func(result domain.BillingResult)
)

// Provider is a handle on the store billing client.
//
// Callbacks may be invoked on any goroutine, including synchronously from within the call.
type Provider interface {
	// StartConnection begins connecting. The outcome is reported to listener.
	StartConnection(listener ConnectionListener)
	// EndConnection releases the handle
	EndConnection()
	// IsReady reports whether the connection is established
	IsReady() bool

	QueryProductDetails(productIDs []string, productType domain.ProductType, callback ProductsCallback)
	QueryPurchases(productType domain.ProductType, callback PurchasesCallback)
	QueryPurchaseHistory(productType domain.ProductType, callback HistoryCallback)
	Consume(purchaseToken string, callback ConsumeCallback)
	Acknowledge(purchaseToken string, callback ResultCallback)

	// LaunchPurchaseFlow starts a purchase. The purchase outcome arrives through the
	// purchases updated listener; the returned result only reports whether the flow started.
	LaunchPurchaseFlow(params domain.PurchaseFlowParams) domain.BillingResult

	// SetPurchasesUpdatedListener installs the purchase push callback
	SetPurchasesUpdatedListener(listener PurchasesUpdatedFunc)
}
