package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kevin07696/store-billing/internal/adapters/sandbox"
	"github.com/kevin07696/store-billing/internal/config"
	"github.com/kevin07696/store-billing/internal/converters"
	"github.com/kevin07696/store-billing/internal/domain"
	"github.com/kevin07696/store-billing/internal/services/billing"
	"github.com/kevin07696/store-billing/pkg/logging"
	"github.com/kevin07696/store-billing/pkg/observability"
	"github.com/kevin07696/store-billing/pkg/shutdown"
	"github.com/kevin07696/store-billing/pkg/timeutil"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		zap.NewExample().Fatal("Invalid configuration", zap.Error(err))
	}

	logger := initLogger(cfg.Logger)
	defer logger.Sync()

	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logger.Warn("Failed to load .env file", zap.Error(envErr))
	}

	logger.Info("Starting billing sandbox",
		zap.String("catalog", cfg.Billing.CatalogPath),
		zap.Stringer("setup_response_code", cfg.Billing.SetupResponseCode),
		zap.Bool("async_callbacks", cfg.Billing.AsyncCallbacks),
	)

	shutdownManager := shutdown.NewManager(logger, cfg.Shutdown.Timeout)

	provider, tracker, err := initProvider(cfg.Billing, logger)
	if err != nil {
		logger.Fatal("Failed to initialize sandbox provider", zap.Error(err))
	}
	if tracker != nil {
		shutdownManager.Register("sandbox-callbacks", tracker.Shutdown)
	}

	manager := billing.NewConnectionManager(provider, logger.Named("billing"))
	shutdownManager.RegisterNoErr("billing-connection", manager.Close)

	converter := converters.NewPurchaseConverter(converters.NewDetailsTokenExtractor())
	receipts := &receiptLogger{acknowledger: manager, logger: logger.Named("receipts")}
	manager.SetPurchaseUpdateListener(billing.NewPurchaseNormalizer(manager, converter, receipts, logger.Named("normalizer")))

	if cfg.Metrics.Enabled {
		server := observability.StartMetricsServer(strconv.Itoa(cfg.Metrics.Port), observability.NewHealthChecker(manager), logger)
		shutdownManager.RegisterHTTPServer("metrics-server", server)
	}

	if cfg.Billing.RenewalInterval > 0 {
		renewals := shutdown.NewPeriodicWorker("sandbox-renewals", cfg.Billing.RenewalInterval, logger)
		renewals.Start(func(ctx context.Context) { renewSubscriptions(provider, logger) })
		shutdownManager.Register("sandbox-renewals", renewals.Shutdown)
	}

	go runSession(context.Background(), manager, cfg.Billing.ProductIDs, logger.Named("session"))

	if err := shutdownManager.WaitForShutdown(context.Background()); err != nil {
		logger.Error("Shutdown finished with errors", zap.Error(err))
		os.Exit(1)
	}
}

// initLogger initializes the logger
func initLogger(cfg config.LoggerConfig) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return zap.NewExample()
	}
	return logger
}

// initProvider loads the catalog and creates the sandbox provider.
// The tracker is nil when callbacks are synchronous.
func initProvider(cfg config.BillingConfig, logger *zap.Logger) (*sandbox.Provider, *shutdown.InFlightTracker, error) {
	catalog, err := sandbox.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, nil, err
	}

	var tracker *shutdown.InFlightTracker
	if cfg.AsyncCallbacks {
		tracker = shutdown.NewInFlightTracker("sandbox-callbacks", logger)
	}

	provider, err := sandbox.NewProvider(catalog, sandbox.Config{
		PackageName:       cfg.PackageName,
		SetupResponseCode: cfg.SetupResponseCode,
		Clock:             timeutil.Now,
	}, tracker, logging.NewZapLogger(logger).Named("sandbox"))
	if err != nil {
		return nil, nil, err
	}
	return provider, tracker, nil
}

// runSession loads the configured products, lists owned purchases and buys every
// product that is not owned yet. Receipts arrive through the purchase update listener.
func runSession(ctx context.Context, manager *billing.ConnectionManager, productIDs []string, logger *zap.Logger) {
	products, err := manager.LoadProductsContext(ctx, productIDs)
	if err != nil {
		logBillingError(logger, "Failed to load products", err)
		return
	}
	for _, product := range products {
		fields := []zap.Field{
			zap.String("product_id", product.ProductID),
			zap.String("business_type", string(product.BusinessType())),
		}
		if price := product.RegularPrice(); price != nil {
			fields = append(fields, zap.String("regular_price", price.Formatted))
		}
		if offer := product.DefaultOffer(); offer != nil && !offer.IsBasePlanOnly() {
			fields = append(fields, zap.String("default_offer", offer.OfferID))
		}
		logger.Info("Product loaded", fields...)
	}

	owned, err := manager.QueryPurchasesContext(ctx)
	if err != nil {
		logBillingError(logger, "Failed to query purchases", err)
		return
	}
	ownedIDs := make(map[string]bool, len(owned))
	for _, record := range owned {
		ownedIDs[record.ProductID()] = true
		logger.Info("Purchase owned", zap.String("purchase", record.Description()))
	}

	for _, product := range products {
		if ownedIDs[product.ProductID] {
			continue
		}
		if err := manager.PurchaseContext(ctx, domain.PurchaseParams{Product: product}); err != nil {
			logBillingError(logger, "Failed to launch purchase", err, zap.String("product_id", product.ProductID))
		}
	}
}

// renewSubscriptions renews every owned sandbox subscription once
func renewSubscriptions(provider *sandbox.Provider, logger *zap.Logger) {
	for _, token := range provider.SubscriptionTokens() {
		if err := provider.SimulateRenewal(token); err != nil {
			logger.Warn("Failed to renew sandbox subscription", zap.Error(err))
		}
	}
}

func logBillingError(logger *zap.Logger, msg string, err error, fields ...zap.Field) {
	if billingErr, ok := billing.AsBillingError(err); ok {
		domainErr := billingErr.ToDomainError()
		fields = append(fields,
			zap.String("error_code", string(domainErr.Code)),
			zap.Stringer("response_code", billingErr.ResponseCode))
	}
	logger.Error(msg, append(fields, zap.Error(err))...)
}
