package billing

import (
	"go.uber.org/zap"

	"github.com/kevin07696/store-billing/internal/converters"
	"github.com/kevin07696/store-billing/internal/domain"
	domainports "github.com/kevin07696/store-billing/internal/domain/ports"
	"github.com/kevin07696/store-billing/internal/services/ports"
	"github.com/kevin07696/store-billing/pkg/observability"
)

// PurchaseNormalizer receives raw pushed purchases, loads the descriptors of the
// purchased products and forwards normalized purchases downstream.
type PurchaseNormalizer struct {
	products   ports.ProductLoader
	converter  *converters.PurchaseConverter
	downstream domainports.NormalizedPurchaseListener
	logger     *zap.Logger
}

// NewPurchaseNormalizer creates a normalizer forwarding to downstream
func NewPurchaseNormalizer(
	products ports.ProductLoader,
	converter *converters.PurchaseConverter,
	downstream domainports.NormalizedPurchaseListener,
	logger *zap.Logger,
) *PurchaseNormalizer {
	return &PurchaseNormalizer{
		products:   products,
		converter:  converter,
		downstream: downstream,
		logger:     logger,
	}
}

// OnPurchasesCompleted implements domainports.PurchaseUpdateListener
func (n *PurchaseNormalizer) OnPurchasesCompleted(records []*domain.PurchaseRecord) {
	n.normalize(records, func(purchases []*domain.Purchase, err *domain.BillingError) {
		if err != nil {
			n.downstream.OnPurchasesFailed([]*domain.Purchase{}, err)
			return
		}
		n.downstream.OnPurchasesCompleted(purchases)
	})
}

// OnPurchasesFailed implements domainports.PurchaseUpdateListener. The purchases that
// came with the failure are normalized when possible; the original error is kept.
func (n *PurchaseNormalizer) OnPurchasesFailed(records []*domain.PurchaseRecord, err *domain.BillingError) {
	n.normalize(records, func(purchases []*domain.Purchase, loadErr *domain.BillingError) {
		if loadErr != nil {
			n.logger.Debug("Failed to load products of failed purchases",
				zap.Stringer("response_code", loadErr.ResponseCode))
			purchases = []*domain.Purchase{}
		}
		n.downstream.OnPurchasesFailed(purchases, err)
	})
}

func (n *PurchaseNormalizer) normalize(records []*domain.PurchaseRecord, done func([]*domain.Purchase, *domain.BillingError)) {
	productIDs := uniqueProductIDs(records)
	if len(productIDs) == 0 {
		done([]*domain.Purchase{}, nil)
		return
	}

	n.products.LoadProducts(productIDs, func(products []*domain.ProductDescriptor, err error) {
		if err != nil {
			billingErr, ok := AsBillingError(err)
			if !ok {
				billingErr = domain.NewBillingError(domain.ResponseCodeError, err.Error())
			}
			done(nil, billingErr)
			return
		}

		purchases := n.converter.ConvertPurchases(converters.ProductsByID(products), records)
		observability.RecordPurchaseConversion(len(purchases), len(records)-len(purchases))
		if dropped := len(records) - len(purchases); dropped > 0 {
			n.logger.Debug("Dropped purchases without product details",
				zap.Int("dropped", dropped))
		}
		done(purchases, nil)
	})
}

func uniqueProductIDs(records []*domain.PurchaseRecord) []string {
	seen := make(map[string]struct{}, len(records))
	var ids []string
	for _, record := range records {
		if record == nil {
			continue
		}
		for _, id := range record.ProductIDs {
			if _, ok := seen[id]; ok || id == "" {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

var (
	_ ports.BillingService               = (*ConnectionManager)(nil)
	_ ports.BlockingBillingService       = (*ConnectionManager)(nil)
	_ domainports.PurchaseUpdateListener = (*PurchaseNormalizer)(nil)
)
