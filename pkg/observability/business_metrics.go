package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Connection states as exported on the billing_connection_state gauge
var connectionStates = []string{"disconnected", "connecting", "ready", "unavailable"}

var (
	// Connection metrics
	connectionState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "billing_connection_state",
		Help: "Current billing connection state (1 for the active state)",
	}, []string{
		"state", // disconnected, connecting, ready, unavailable
	})

	connectionTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_connection_transitions_total",
		Help: "Total billing connection state transitions",
	}, []string{
		"state",
	})

	// Deferred request queue metrics
	deferredQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "billing_deferred_queue_depth",
		Help: "Number of operations waiting for the billing connection",
	})

	deferredOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_deferred_operations_total",
		Help: "Total deferred operations run by the queue",
	}, []string{
		"outcome", // executed, rejected
	})

	// Operation metrics
	billingOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_operations_total",
		Help: "Total completed billing operations",
	}, []string{
		"operation",
		"status", // success, failed
		"response_code",
	})

	// Purchase push metrics
	purchaseUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_purchase_updates_total",
		Help: "Total purchase updates pushed by the provider",
	}, []string{
		"status", // completed, failed, dropped
	})

	purchasesConvertedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_purchases_converted_total",
		Help: "Total purchase records handled by the converter",
	}, []string{
		"result", // converted, dropped
	})
)

// SetConnectionState marks state as the active connection state and counts the transition
func SetConnectionState(state string) {
	for _, s := range connectionStates {
		value := 0.0
		if s == state {
			value = 1
		}
		connectionState.WithLabelValues(s).Set(value)
	}
	connectionTransitionsTotal.WithLabelValues(state).Inc()
}

// SetDeferredQueueDepth updates the number of waiting operations
func SetDeferredQueueDepth(depth int) {
	deferredQueueDepth.Set(float64(depth))
}

// RecordDeferredOperation records a deferred operation leaving the queue.
// Rejected operations were completed with the stored connection error.
func RecordDeferredOperation(rejected bool) {
	outcome := "executed"
	if rejected {
		outcome = "rejected"
	}
	deferredOperationsTotal.WithLabelValues(outcome).Inc()
}

// RecordBillingOperation records the completion of a public billing operation
func RecordBillingOperation(operation, status, responseCode string) {
	billingOperationsTotal.WithLabelValues(operation, status, responseCode).Inc()
}

// RecordPurchaseUpdate records a purchase push from the provider
func RecordPurchaseUpdate(status string) {
	purchaseUpdatesTotal.WithLabelValues(status).Inc()
}

// RecordPurchaseConversion records the outcome of converting a batch of purchase records
func RecordPurchaseConversion(converted, dropped int) {
	purchasesConvertedTotal.WithLabelValues("converted").Add(float64(converted))
	purchasesConvertedTotal.WithLabelValues("dropped").Add(float64(dropped))
}
