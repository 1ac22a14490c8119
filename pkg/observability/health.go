package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// HealthStatus represents the health status of the service
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// ConnectionStateSource reports the current billing connection state
type ConnectionStateSource interface {
	StateName() string
}

// HealthChecker manages health checks for the service
type HealthChecker struct {
	billing ConnectionStateSource
}

// NewHealthChecker creates a new HealthChecker
func NewHealthChecker(billing ConnectionStateSource) *HealthChecker {
	return &HealthChecker{
		billing: billing,
	}
}

// Check performs health checks and returns the status.
// A connecting manager is healthy: its operations are queued, not lost.
func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	checks := make(map[string]string)
	overallStatus := "healthy"

	if h.billing != nil {
		state := h.billing.StateName()
		switch state {
		case "ready", "connecting":
			checks["billing"] = state
		default:
			checks["billing"] = "unhealthy: " + state
			overallStatus = "unhealthy"
		}
	} else {
		checks["billing"] = "not configured"
	}

	return HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now(),
		Checks:    checks,
	}
}

// HealthHandler returns an HTTP handler for health checks
func (h *HealthChecker) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := h.Check(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if status.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		json.NewEncoder(w).Encode(status)
	}
}
