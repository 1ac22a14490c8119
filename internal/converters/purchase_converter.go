package converters

import (
	"strings"

	"github.com/kevin07696/store-billing/internal/domain"
	"github.com/kevin07696/store-billing/internal/domain/ports"
)

// renewalSuffixSeparator splits a renewal order id ("GPA.1234..0") from its original order id
const renewalSuffixSeparator = ".."

// introPriceWithTrial is reported as the introductory price when the offer starts with a free trial
const introPriceWithTrial = "0.0"

// PurchaseConverter joins product descriptors with provider purchase records
type PurchaseConverter struct {
	extractor ports.TokenExtractor
}

// NewPurchaseConverter creates a converter using the given details token extractor
func NewPurchaseConverter(extractor ports.TokenExtractor) *PurchaseConverter {
	return &PurchaseConverter{extractor: extractor}
}

// ConvertPurchases converts every record that has a matching descriptor.
// Records for unknown products and malformed records are dropped; the rest of the
// batch is still converted.
func (c *PurchaseConverter) ConvertPurchases(
	details map[string]*domain.ProductDescriptor,
	records []*domain.PurchaseRecord,
) []*domain.Purchase {
	result := make([]*domain.Purchase, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		descriptor, ok := details[record.ProductID()]
		if !ok || descriptor == nil {
			continue
		}
		if purchase := c.ConvertPurchase(descriptor, record); purchase != nil {
			result = append(result, purchase)
		}
	}
	return result
}

// ConvertPurchase converts one (descriptor, record) pair.
// Returns nil when the record lacks a product id or a purchase token.
func (c *PurchaseConverter) ConvertPurchase(
	details *domain.ProductDescriptor,
	record *domain.PurchaseRecord,
) *domain.Purchase {
	productID := record.ProductID()
	if productID == "" || record.PurchaseToken == "" {
		return nil
	}

	purchase := &domain.Purchase{
		DetailsToken:           c.extractor.Extract(details.OriginalJSON),
		Title:                  details.Title,
		Description:            details.Description,
		ProductID:              productID,
		Type:                   details.Type,
		IntroductoryPeriodUnit: domain.PeriodUnitDay,
		OrderID:                record.OrderID,
		OriginalOrderID:        originalOrderID(record.OrderID),
		PackageName:            record.PackageName,
		PurchaseTime:           record.PurchaseTime / 1000,
		PurchaseState:          record.PurchaseState,
		PurchaseToken:          record.PurchaseToken,
		Acknowledged:           record.Acknowledged,
		AutoRenewing:           record.AutoRenewing,
		PaymentMode:            domain.PaymentModePayAsYouGo,
	}

	// Price, period and trial fields all describe the base plan of the default offer.
	offer := details.DefaultOffer()
	priced := details
	if offer != nil && details.BasePlanID == "" {
		priced = details.ForBasePlan(offer.BasePlanID)
	}

	if price := priced.RegularPrice(); price != nil {
		purchase.OriginalPrice = price.Formatted
		purchase.OriginalPriceAmountMicros = price.AmountMicros
		purchase.PriceCurrencyCode = price.CurrencyCode
		purchase.Price = formatPrice(price.AmountMicros)
		purchase.PriceAmountMicros = price.AmountMicros
	}

	if offer == nil {
		return purchase
	}

	if base := offer.BasePlanPhase(); base != nil && base.BillingPeriod.IsKnown() {
		unit := base.BillingPeriod.Unit
		count := base.BillingPeriod.Count
		purchase.PeriodUnit = &unit
		purchase.PeriodUnitsCount = &count
	}

	applyIntroductoryFields(purchase, offer.TrialPhase(), offer.IntroPhase())

	return purchase
}

// applyIntroductoryFields fills the trial and intro fields from the offer's phases.
// A trial takes precedence: with a trial the intro price is reported as free.
func applyIntroductoryFields(purchase *domain.Purchase, trial, intro *domain.PricingPhase) {
	if intro != nil {
		purchase.IntroductoryAvailable = true
		purchase.IntroductoryPriceAmountMicros = intro.Price.AmountMicros
	}

	var introPeriod string
	switch {
	case trial != nil:
		purchase.FreeTrialPeriod = trial.BillingPeriod.ISO
		purchase.IntroductoryPrice = introPriceWithTrial
		purchase.PaymentMode = domain.PaymentModeFreeTrial
		introPeriod = trial.BillingPeriod.ISO
	case intro != nil:
		purchase.IntroductoryPrice = formatPrice(intro.Price.AmountMicros)
		purchase.IntroductoryPriceCycles = intro.BillingCycleCount
		introPeriod = intro.BillingPeriod.ISO
	default:
		purchase.IntroductoryPrice = formatPrice(0)
		return
	}

	days := domain.PeriodDays(introPeriod)
	purchase.IntroductoryPeriodUnitsCount = &days
}

func formatPrice(micros int64) string {
	return domain.Price{AmountMicros: micros}.Amount().StringFixed(2)
}

func originalOrderID(orderID string) string {
	if i := strings.Index(orderID, renewalSuffixSeparator); i >= 0 {
		return orderID[:i]
	}
	return orderID
}

// ProductsByID indexes descriptors by product id. Later descriptors win on duplicates.
func ProductsByID(products []*domain.ProductDescriptor) map[string]*domain.ProductDescriptor {
	result := make(map[string]*domain.ProductDescriptor, len(products))
	for _, product := range products {
		if product != nil {
			result[product.ProductID] = product
		}
	}
	return result
}
