package billing

import (
	"errors"
	"fmt"

	"github.com/kevin07696/store-billing/internal/domain"
	"github.com/kevin07696/store-billing/pkg/observability"
)

// Operation names used for metrics
const (
	opLoadProducts         = "load_products"
	opQueryPurchases       = "query_purchases"
	opQueryPurchaseHistory = "query_purchase_history"
	opConsume              = "consume"
	opAcknowledge          = "acknowledge"
	opPurchase             = "purchase"
	opReplacePurchase      = "replace_purchase"
)

const nullPayloadMessage = "The provider returned no payload for a successful result."

// LoadProducts fetches product descriptors. Subscriptions are queried first, then
// the ids not found among them are queried as one-time products.
func (m *ConnectionManager) LoadProducts(productIDs []string, done func([]*domain.ProductDescriptor, error)) {
	fail := func(err *domain.BillingError) {
		m.recordOutcome(opLoadProducts, err)
		done(nil, err)
	}

	// Nothing to query, but an unavailable or closed connection still reports its error.
	if len(productIDs) == 0 {
		if err := m.storedSetupError(); err != nil {
			fail(err)
			return
		}
		m.recordOutcome(opLoadProducts, nil)
		done([]*domain.ProductDescriptor{}, nil)
		return
	}

	m.queryProductDetails(productIDs, domain.ProductTypeSubscription, func(subscriptions []*domain.ProductDescriptor) {
		remaining := missingProductIDs(productIDs, subscriptions)
		if len(remaining) == 0 {
			m.recordOutcome(opLoadProducts, nil)
			done(subscriptions, nil)
			return
		}

		m.queryProductDetails(remaining, domain.ProductTypeInApp, func(inApp []*domain.ProductDescriptor) {
			products := make([]*domain.ProductDescriptor, 0, len(subscriptions)+len(inApp))
			products = append(products, subscriptions...)
			products = append(products, inApp...)
			m.recordOutcome(opLoadProducts, nil)
			done(products, nil)
		}, fail)
	}, fail)
}

// QueryPurchases returns the active purchases of both product types
func (m *ConnectionManager) QueryPurchases(done func([]*domain.PurchaseRecord, error)) {
	fail := func(err *domain.BillingError) {
		m.recordOutcome(opQueryPurchases, err)
		done(nil, err)
	}

	m.queryPurchases(domain.ProductTypeSubscription, func(subscriptions []*domain.PurchaseRecord) {
		m.queryPurchases(domain.ProductTypeInApp, func(inApp []*domain.PurchaseRecord) {
			purchases := make([]*domain.PurchaseRecord, 0, len(subscriptions)+len(inApp))
			purchases = append(purchases, subscriptions...)
			purchases = append(purchases, inApp...)
			m.recordOutcome(opQueryPurchases, nil)
			done(purchases, nil)
		}, fail)
	}, fail)
}

// QueryPurchaseHistory returns the most recent purchase of every product, subscriptions first
func (m *ConnectionManager) QueryPurchaseHistory(done func([]*domain.PurchaseHistory, error)) {
	fail := func(err *domain.BillingError) {
		m.recordOutcome(opQueryPurchaseHistory, err)
		done(nil, err)
	}

	m.queryPurchaseHistory(domain.ProductTypeSubscription, func(subscriptions []*domain.PurchaseHistoryRecord) {
		m.queryPurchaseHistory(domain.ProductTypeInApp, func(inApp []*domain.PurchaseHistoryRecord) {
			history := make([]*domain.PurchaseHistory, 0, len(subscriptions)+len(inApp))
			history = appendHistory(history, domain.ProductTypeSubscription, subscriptions)
			history = appendHistory(history, domain.ProductTypeInApp, inApp)
			m.recordOutcome(opQueryPurchaseHistory, nil)
			done(history, nil)
		}, fail)
	}, fail)
}

// Consume consumes a one-time purchase so it can be bought again. done may be nil.
func (m *ConnectionManager) Consume(purchaseToken string, done func(error)) {
	complete := m.completion(opConsume, done)

	m.enqueue(func(setupErr *domain.BillingError) {
		if setupErr != nil {
			complete(setupErr)
			return
		}
		provider, err := m.readyProvider()
		if err != nil {
			complete(err)
			return
		}

		observe := observability.ObserveProviderCall(opConsume)
		provider.Consume(purchaseToken, func(result domain.BillingResult, _ string) {
			observe(result.ResponseCode.String())
			if !result.IsOK() {
				complete(domain.NewBillingError(result.ResponseCode, "Failed to consume purchase. "+result.Description()))
				return
			}
			complete(nil)
		})
	})
}

// Acknowledge acknowledges a purchase. done may be nil.
func (m *ConnectionManager) Acknowledge(purchaseToken string, done func(error)) {
	complete := m.completion(opAcknowledge, done)

	m.enqueue(func(setupErr *domain.BillingError) {
		if setupErr != nil {
			complete(setupErr)
			return
		}
		provider, err := m.readyProvider()
		if err != nil {
			complete(err)
			return
		}

		observe := observability.ObserveProviderCall(opAcknowledge)
		provider.Acknowledge(purchaseToken, func(result domain.BillingResult) {
			observe(result.ResponseCode.String())
			if !result.IsOK() {
				complete(domain.NewBillingError(result.ResponseCode, "Failed to acknowledge purchase. "+result.Description()))
				return
			}
			complete(nil)
		})
	})
}

// Purchase launches the purchase flow. done reports whether the flow started; the
// purchase itself arrives through the purchase update listener.
func (m *ConnectionManager) Purchase(params domain.PurchaseParams, done func(error)) {
	complete := m.completion(opPurchase, done)

	flow, err := purchaseFlowParams(params)
	if err != nil {
		complete(err)
		return
	}
	m.launchPurchaseFlow(flow, complete)
}

// launchPurchaseFlow enqueues the launch of an already resolved purchase flow
func (m *ConnectionManager) launchPurchaseFlow(flow domain.PurchaseFlowParams, complete func(*domain.BillingError)) {
	m.enqueue(func(setupErr *domain.BillingError) {
		if setupErr != nil {
			complete(setupErr)
			return
		}
		provider, err := m.readyProvider()
		if err != nil {
			complete(err)
			return
		}

		observe := observability.ObserveProviderCall(opPurchase)
		result := provider.LaunchPurchaseFlow(flow)
		observe(result.ResponseCode.String())
		if !result.IsOK() {
			complete(domain.NewBillingError(result.ResponseCode, "Failed to launch billing flow. "+result.Description()))
			return
		}
		complete(nil)
	})
}

// purchaseFlowParams resolves the offer to buy
func purchaseFlowParams(params domain.PurchaseParams) (domain.PurchaseFlowParams, *domain.BillingError) {
	product := params.Product
	if product == nil {
		return domain.PurchaseFlowParams{}, domain.NewBillingError(domain.ResponseCodeDeveloperError, "No product was passed for the purchase.")
	}

	flow := domain.PurchaseFlowParams{Product: product}
	if product.IsInApp() {
		return flow, nil
	}

	switch {
	case params.ApplyOffer != nil && !*params.ApplyOffer:
		flow.Offer = product.BasePlanOffer()
	case params.OfferID != "":
		flow.Offer = product.FindOffer(params.OfferID)
	default:
		flow.Offer = product.DefaultOffer()
	}

	if flow.Offer == nil {
		message := fmt.Sprintf("%s: %s", domain.ErrNoOfferFound, product.ProductID)
		if params.OfferID != "" {
			message = fmt.Sprintf("%s: %s (offer %s)", domain.ErrNoOfferFound, product.ProductID, params.OfferID)
		}
		return flow, domain.NewBillingError(domain.ResponseCodeItemUnavailable, message)
	}
	return flow, nil
}

// Single-hop provider calls. Each one is a deferred operation of its own.

func (m *ConnectionManager) queryProductDetails(
	productIDs []string,
	productType domain.ProductType,
	onCompleted func([]*domain.ProductDescriptor),
	onFailed func(*domain.BillingError),
) {
	m.enqueue(func(setupErr *domain.BillingError) {
		if setupErr != nil {
			onFailed(setupErr)
			return
		}
		provider, err := m.readyProvider()
		if err != nil {
			onFailed(err)
			return
		}

		observe := observability.ObserveProviderCall(opLoadProducts)
		provider.QueryProductDetails(productIDs, productType, func(result domain.BillingResult, products []*domain.ProductDescriptor) {
			observe(result.ResponseCode.String())
			if result.IsOK() && products != nil {
				onCompleted(products)
				return
			}
			onFailed(callbackError(fmt.Sprintf("Failed to fetch %s products %v. ", productType, productIDs), result, products == nil))
		})
	})
}

func (m *ConnectionManager) queryPurchases(
	productType domain.ProductType,
	onCompleted func([]*domain.PurchaseRecord),
	onFailed func(*domain.BillingError),
) {
	m.enqueue(func(setupErr *domain.BillingError) {
		if setupErr != nil {
			onFailed(setupErr)
			return
		}
		provider, err := m.readyProvider()
		if err != nil {
			onFailed(err)
			return
		}

		observe := observability.ObserveProviderCall(opQueryPurchases)
		provider.QueryPurchases(productType, func(result domain.BillingResult, purchases []*domain.PurchaseRecord) {
			observe(result.ResponseCode.String())
			if result.IsOK() && purchases != nil {
				onCompleted(purchases)
				return
			}
			onFailed(callbackError(fmt.Sprintf("Failed to query %s purchases. ", productType), result, purchases == nil))
		})
	})
}

func (m *ConnectionManager) queryPurchaseHistory(
	productType domain.ProductType,
	onCompleted func([]*domain.PurchaseHistoryRecord),
	onFailed func(*domain.BillingError),
) {
	m.enqueue(func(setupErr *domain.BillingError) {
		if setupErr != nil {
			onFailed(setupErr)
			return
		}
		provider, err := m.readyProvider()
		if err != nil {
			onFailed(err)
			return
		}

		observe := observability.ObserveProviderCall(opQueryPurchaseHistory)
		provider.QueryPurchaseHistory(productType, func(result domain.BillingResult, records []*domain.PurchaseHistoryRecord) {
			observe(result.ResponseCode.String())
			if result.IsOK() && records != nil {
				onCompleted(records)
				return
			}
			onFailed(callbackError(fmt.Sprintf("Failed to query %s purchase history. ", productType), result, records == nil))
		})
	})
}

// callbackError builds the error for a failed query callback. An OK result without a
// payload is reported as ERROR, it is not an empty result.
func callbackError(prefix string, result domain.BillingResult, nullPayload bool) *domain.BillingError {
	if result.IsOK() && nullPayload {
		return domain.NewBillingError(domain.ResponseCodeError, prefix+nullPayloadMessage)
	}
	return domain.NewBillingError(result.ResponseCode, prefix+result.Description())
}

// completion wraps a caller callback with metrics. The wrapped callback never passes a
// typed nil error.
func (m *ConnectionManager) completion(operation string, done func(error)) func(*domain.BillingError) {
	return func(err *domain.BillingError) {
		m.recordOutcome(operation, err)
		if done == nil {
			return
		}
		if err != nil {
			done(err)
			return
		}
		done(nil)
	}
}

func (m *ConnectionManager) recordOutcome(operation string, err *domain.BillingError) {
	if err == nil {
		observability.RecordBillingOperation(operation, "success", domain.ResponseCodeOK.String())
		return
	}
	observability.RecordBillingOperation(operation, "failed", err.ResponseCode.String())
}

func missingProductIDs(requested []string, found []*domain.ProductDescriptor) []string {
	foundIDs := make(map[string]struct{}, len(found))
	for _, product := range found {
		foundIDs[product.ProductID] = struct{}{}
	}

	var missing []string
	for _, id := range requested {
		if _, ok := foundIDs[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func appendHistory(history []*domain.PurchaseHistory, productType domain.ProductType, records []*domain.PurchaseHistoryRecord) []*domain.PurchaseHistory {
	for _, record := range records {
		history = append(history, &domain.PurchaseHistory{Type: productType, Record: record})
	}
	return history
}

// AsBillingError extracts the billing error carried by err
func AsBillingError(err error) (*domain.BillingError, bool) {
	var billingErr *domain.BillingError
	if errors.As(err, &billingErr) {
		return billingErr, true
	}
	return nil, false
}
