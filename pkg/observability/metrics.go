package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Provider call metrics
	providerCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_provider_calls_total",
			Help: "Total number of billing provider calls",
		},
		[]string{"operation", "response_code"},
	)

	providerCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "billing_provider_call_duration_seconds",
			Help:    "Time from issuing a provider call until its callback fires",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	providerCallsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "billing_provider_calls_in_flight",
			Help: "Number of provider calls waiting for their callback",
		},
	)
)

// ProviderCallObserver finishes the measurement of one provider call
type ProviderCallObserver func(responseCode string)

// ObserveProviderCall starts measuring a provider call. The returned observer must be
// called exactly once, from the provider callback.
func ObserveProviderCall(operation string) ProviderCallObserver {
	start := time.Now()
	providerCallsInFlight.Inc()

	return func(responseCode string) {
		providerCallsInFlight.Dec()
		providerCallDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		providerCallsTotal.WithLabelValues(operation, responseCode).Inc()
	}
}
