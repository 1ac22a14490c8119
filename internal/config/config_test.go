package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/store-billing/internal/domain"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "com.example.sandbox", cfg.Billing.PackageName)
	assert.Equal(t, "configs/sandbox-catalog.yaml", cfg.Billing.CatalogPath)
	assert.Equal(t, domain.ResponseCodeOK, cfg.Billing.SetupResponseCode)
	assert.True(t, cfg.Billing.AsyncCallbacks)
	assert.Equal(t, []string{"premium", "basic", "coins"}, cfg.Billing.ProductIDs)
	assert.Zero(t, cfg.Billing.RenewalInterval)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.False(t, cfg.Logger.Development)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9090, cfg.Metrics.Port)
	assert.Equal(t, 10*time.Second, cfg.Shutdown.Timeout)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("BILLING_PACKAGE_NAME", "com.example.app")
	t.Setenv("BILLING_CATALOG_PATH", "/etc/catalog.yaml")
	t.Setenv("BILLING_SETUP_RESPONSE_CODE", "3")
	t.Setenv("BILLING_ASYNC_CALLBACKS", "false")
	t.Setenv("BILLING_PRODUCT_IDS", " gold, ,silver ")
	t.Setenv("BILLING_RENEWAL_INTERVAL", "30s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_DEVELOPMENT", "true")
	t.Setenv("METRICS_PORT", "9100")
	t.Setenv("SHUTDOWN_TIMEOUT", "2s")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "com.example.app", cfg.Billing.PackageName)
	assert.Equal(t, "/etc/catalog.yaml", cfg.Billing.CatalogPath)
	assert.Equal(t, domain.ResponseCodeBillingUnavailable, cfg.Billing.SetupResponseCode)
	assert.False(t, cfg.Billing.AsyncCallbacks)
	assert.Equal(t, []string{"gold", "silver"}, cfg.Billing.ProductIDs)
	assert.Equal(t, 30*time.Second, cfg.Billing.RenewalInterval)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.True(t, cfg.Logger.Development)
	assert.Equal(t, 9100, cfg.Metrics.Port)
	assert.Equal(t, 2*time.Second, cfg.Shutdown.Timeout)
}

func TestLoadFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("METRICS_PORT", "not-a-number")
	t.Setenv("BILLING_ASYNC_CALLBACKS", "maybe")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	t.Setenv("BILLING_PRODUCT_IDS", ",,")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Metrics.Port)
	assert.True(t, cfg.Billing.AsyncCallbacks)
	assert.Equal(t, 10*time.Second, cfg.Shutdown.Timeout)
	assert.Equal(t, []string{"premium", "basic", "coins"}, cfg.Billing.ProductIDs)
}

func TestLoadFromEnv_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		message string
	}{
		{
			name:    "unknown setup response code",
			env:     map[string]string{"BILLING_SETUP_RESPONSE_CODE": "42"},
			message: "BILLING_SETUP_RESPONSE_CODE",
		},
		{
			name:    "negative renewal interval",
			env:     map[string]string{"BILLING_RENEWAL_INTERVAL": "-1m"},
			message: "BILLING_RENEWAL_INTERVAL",
		},
		{
			name:    "metrics port out of range",
			env:     map[string]string{"METRICS_PORT": "70000"},
			message: "METRICS_PORT",
		},
		{
			name:    "zero shutdown timeout",
			env:     map[string]string{"SHUTDOWN_TIMEOUT": "0s"},
			message: "SHUTDOWN_TIMEOUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := LoadFromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidate_MetricsPortIgnoredWhenDisabled(t *testing.T) {
	cfg := &Config{
		Billing:  BillingConfig{CatalogPath: "catalog.yaml"},
		Metrics:  MetricsConfig{Enabled: false, Port: 0},
		Shutdown: ShutdownConfig{Timeout: time.Second},
	}
	assert.NoError(t, cfg.Validate())

	cfg.Billing.CatalogPath = ""
	assert.ErrorContains(t, cfg.Validate(), "BILLING_CATALOG_PATH")
}
