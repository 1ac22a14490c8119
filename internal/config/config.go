package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kevin07696/store-billing/internal/domain"
)

// Config holds all application configuration
type Config struct {
	Billing  BillingConfig
	Logger   LoggerConfig
	Metrics  MetricsConfig
	Shutdown ShutdownConfig
}

// BillingConfig holds the sandbox billing provider configuration
type BillingConfig struct {
	PackageName string
	CatalogPath string
	// SetupResponseCode is the provider response code reported on connection
	SetupResponseCode domain.ResponseCode
	AsyncCallbacks    bool
	// ProductIDs are loaded at startup
	ProductIDs []string
	// RenewalInterval renews owned subscriptions periodically, 0 disables renewals
	RenewalInterval time.Duration
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// MetricsConfig holds the metrics and health server configuration
type MetricsConfig struct {
	Enabled bool
	Port    int
}

// ShutdownConfig holds graceful shutdown configuration
type ShutdownConfig struct {
	Timeout time.Duration
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Billing: BillingConfig{
			PackageName:       getEnv("BILLING_PACKAGE_NAME", "com.example.sandbox"),
			CatalogPath:       getEnv("BILLING_CATALOG_PATH", "configs/sandbox-catalog.yaml"),
			SetupResponseCode: domain.ResponseCode(getEnvAsInt("BILLING_SETUP_RESPONSE_CODE", int(domain.ResponseCodeOK))),
			AsyncCallbacks:    getEnvAsBool("BILLING_ASYNC_CALLBACKS", true),
			ProductIDs:        getEnvAsSlice("BILLING_PRODUCT_IDS", []string{"premium", "basic", "coins"}),
			RenewalInterval:   getEnvAsDuration("BILLING_RENEWAL_INTERVAL", 0),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("METRICS_ENABLED", true),
			Port:    getEnvAsInt("METRICS_PORT", 9090),
		},
		Shutdown: ShutdownConfig{
			Timeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	if c.Billing.CatalogPath == "" {
		return fmt.Errorf("BILLING_CATALOG_PATH is required")
	}
	if domain.GetResponseCodeInfo(c.Billing.SetupResponseCode).ErrorCode == domain.ErrorCodeUnknown {
		return fmt.Errorf("BILLING_SETUP_RESPONSE_CODE %d is not a known response code", c.Billing.SetupResponseCode)
	}
	if c.Billing.RenewalInterval < 0 {
		return fmt.Errorf("BILLING_RENEWAL_INTERVAL must not be negative")
	}
	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		return fmt.Errorf("METRICS_PORT %d is out of range", c.Metrics.Port)
	}
	if c.Shutdown.Timeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice splits a comma separated value, dropping empty items
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			values = append(values, item)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
