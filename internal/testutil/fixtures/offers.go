package fixtures

import "github.com/kevin07696/store-billing/internal/domain"

// DefaultCurrency is used by every price built here.
const DefaultCurrency = "USD"

// BasePhase returns an infinitely recurring regular phase.
func BasePhase(micros int64, period string) domain.PricingPhase {
	return domain.NewPricingPhase(domain.RawPricingPhase{
		PriceAmountMicros: micros,
		PriceCurrencyCode: DefaultCurrency,
		FormattedPrice:    FormatMicros(micros),
		BillingPeriod:     period,
		RecurrenceMode:    int(domain.RecurrenceModeInfiniteRecurring),
	})
}

// TrialPhase returns a free phase lasting one period.
func TrialPhase(period string) domain.PricingPhase {
	return domain.NewPricingPhase(domain.RawPricingPhase{
		PriceAmountMicros: 0,
		PriceCurrencyCode: DefaultCurrency,
		FormattedPrice:    "Free",
		BillingPeriod:     period,
		BillingCycleCount: 1,
		RecurrenceMode:    int(domain.RecurrenceModeFiniteRecurring),
	})
}

// IntroPhase returns a discounted phase repeated cycles times.
func IntroPhase(micros int64, period string, cycles int) domain.PricingPhase {
	return domain.NewPricingPhase(domain.RawPricingPhase{
		PriceAmountMicros: micros,
		PriceCurrencyCode: DefaultCurrency,
		FormattedPrice:    FormatMicros(micros),
		BillingPeriod:     period,
		BillingCycleCount: cycles,
		RecurrenceMode:    int(domain.RecurrenceModeFiniteRecurring),
	})
}

// FormatMicros renders micros as a dollar amount.
func FormatMicros(micros int64) string {
	return "$" + domain.Price{AmountMicros: micros}.Amount().StringFixed(2)
}

// OfferBuilder provides fluent API for building test offers.
type OfferBuilder struct {
	offer domain.Offer
}

// NewOffer creates a base plan offer builder with a monthly 9.99 price.
func NewOffer(basePlanID string) *OfferBuilder {
	return &OfferBuilder{
		offer: domain.Offer{
			BasePlanID:    basePlanID,
			OfferToken:    basePlanID + "-token",
			PricingPhases: []domain.PricingPhase{BasePhase(9_990_000, "P1M")},
		},
	}
}

func (b *OfferBuilder) WithOfferID(offerID string) *OfferBuilder {
	b.offer.OfferID = offerID
	b.offer.OfferToken = b.offer.BasePlanID + "-" + offerID + "-token"
	return b
}

func (b *OfferBuilder) WithToken(token string) *OfferBuilder {
	b.offer.OfferToken = token
	return b
}

func (b *OfferBuilder) WithTags(tags ...string) *OfferBuilder {
	b.offer.Tags = tags
	return b
}

// WithPhases replaces the pricing phases. The regular phase must come last.
func (b *OfferBuilder) WithPhases(phases ...domain.PricingPhase) *OfferBuilder {
	b.offer.PricingPhases = phases
	return b
}

func (b *OfferBuilder) Build() domain.Offer {
	return b.offer
}
