package billing

import (
	"context"

	"github.com/kevin07696/store-billing/internal/domain"
)

type outcome[T any] struct {
	value T
	err   error
}

// await starts a callback operation and waits for its result or for ctx to end.
// The operation keeps running when ctx ends first; its late result is discarded.
func await[T any](ctx context.Context, start func(done func(T, error))) (T, error) {
	results := make(chan outcome[T], 1)
	start(func(value T, err error) {
		select {
		case results <- outcome[T]{value: value, err: err}:
		default:
		}
	})

	select {
	case result := <-results:
		return result.value, result.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func awaitErr(ctx context.Context, start func(done func(error))) error {
	_, err := await(ctx, func(done func(struct{}, error)) {
		start(func(err error) { done(struct{}{}, err) })
	})
	return err
}

// LoadProductsContext is the blocking form of LoadProducts
func (m *ConnectionManager) LoadProductsContext(ctx context.Context, productIDs []string) ([]*domain.ProductDescriptor, error) {
	return await(ctx, func(done func([]*domain.ProductDescriptor, error)) {
		m.LoadProducts(productIDs, done)
	})
}

// QueryPurchasesContext is the blocking form of QueryPurchases
func (m *ConnectionManager) QueryPurchasesContext(ctx context.Context) ([]*domain.PurchaseRecord, error) {
	return await(ctx, m.QueryPurchases)
}

// QueryPurchaseHistoryContext is the blocking form of QueryPurchaseHistory
func (m *ConnectionManager) QueryPurchaseHistoryContext(ctx context.Context) ([]*domain.PurchaseHistory, error) {
	return await(ctx, m.QueryPurchaseHistory)
}

// ConsumeContext is the blocking form of Consume
func (m *ConnectionManager) ConsumeContext(ctx context.Context, purchaseToken string) error {
	return awaitErr(ctx, func(done func(error)) {
		m.Consume(purchaseToken, done)
	})
}

// AcknowledgeContext is the blocking form of Acknowledge
func (m *ConnectionManager) AcknowledgeContext(ctx context.Context, purchaseToken string) error {
	return awaitErr(ctx, func(done func(error)) {
		m.Acknowledge(purchaseToken, done)
	})
}

// PurchaseContext is the blocking form of Purchase
func (m *ConnectionManager) PurchaseContext(ctx context.Context, params domain.PurchaseParams) error {
	return awaitErr(ctx, func(done func(error)) {
		m.Purchase(params, done)
	})
}

// ReplaceOldPurchaseContext is the blocking form of ReplaceOldPurchase
func (m *ConnectionManager) ReplaceOldPurchaseContext(
	ctx context.Context,
	params domain.PurchaseParams,
	oldProduct *domain.ProductDescriptor,
	prorationMode domain.ProrationMode,
) error {
	return awaitErr(ctx, func(done func(error)) {
		m.ReplaceOldPurchase(params, oldProduct, prorationMode, done)
	})
}
