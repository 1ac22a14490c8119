package billing

import (
	"go.uber.org/zap"

	"github.com/kevin07696/store-billing/internal/domain"
	"github.com/kevin07696/store-billing/internal/domain/ports"
	"github.com/kevin07696/store-billing/pkg/observability"
)

const noPurchasePassedMessage = "No purchase was passed for successful billing result."

// SetPurchaseUpdateListener registers the receiver of purchases pushed by the provider.
// Only one listener is kept; registering again replaces it and nil removes it.
func (m *ConnectionManager) SetPurchaseUpdateListener(listener ports.PurchaseUpdateListener) {
	m.listenerMu.Lock()
	defer m.listenerMu.Unlock()
	m.purchasesListener = listener
}

func (m *ConnectionManager) purchaseUpdateListener() ports.PurchaseUpdateListener {
	m.listenerMu.RLock()
	defer m.listenerMu.RUnlock()
	return m.purchasesListener
}

// purchasesUpdatedHandler returns the push callback for the provider of the given generation
func (m *ConnectionManager) purchasesUpdatedHandler(generation uint64) ports.PurchasesUpdatedFunc {
	return func(result domain.BillingResult, purchases []*domain.PurchaseRecord) {
		m.mu.Lock()
		current := generation == m.generation
		m.mu.Unlock()
		if !current {
			m.logger.Debug("Ignoring purchase update of a replaced provider",
				zap.Uint64("generation", generation))
			return
		}

		m.dispatchPurchasesUpdated(result, purchases)
	}
}

func (m *ConnectionManager) dispatchPurchasesUpdated(result domain.BillingResult, purchases []*domain.PurchaseRecord) {
	listener := m.purchaseUpdateListener()
	if listener == nil {
		observability.RecordPurchaseUpdate("dropped")
		m.logger.Debug("No purchase update listener, dropping update",
			zap.Stringer("response_code", result.ResponseCode),
			zap.Int("purchases", len(purchases)))
		return
	}

	switch {
	case result.IsOK() && purchases != nil:
		observability.RecordPurchaseUpdate("completed")
		listener.OnPurchasesCompleted(purchases)

	case result.IsOK():
		observability.RecordPurchaseUpdate("failed")
		listener.OnPurchasesFailed([]*domain.PurchaseRecord{},
			domain.NewBillingError(domain.ResponseCodeError, noPurchasePassedMessage))

	default:
		if purchases == nil {
			purchases = []*domain.PurchaseRecord{}
		}
		observability.RecordPurchaseUpdate("failed")
		listener.OnPurchasesFailed(purchases, domain.NewBillingError(result.ResponseCode, result.Description()))
	}
}
