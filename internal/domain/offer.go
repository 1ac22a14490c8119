package domain

import (
	"github.com/shopspring/decimal"
)

// maxBillingPhasesDurationYears bounds the horizon used to compare offers.
// Three years of trial plus 52 years of discounted payments is the longest
// schedule a store accepts.
const maxBillingPhasesDurationYears = 55

// unboundedPeriods stands in for the number of base plan periods when the
// base plan period could not be parsed.
var unboundedPeriods = decimal.New(1, 18)

// RawOffer is the provider representation of a subscription offer
type RawOffer struct {
	BasePlanID    string            `json:"basePlanId" yaml:"base_plan_id"`
	OfferID       string            `json:"offerId,omitempty" yaml:"offer_id"`
	OfferToken    string            `json:"offerToken" yaml:"offer_token"`
	OfferTags     []string          `json:"offerTags,omitempty" yaml:"offer_tags"`
	PricingPhases []RawPricingPhase `json:"pricingPhases" yaml:"pricing_phases"`
}

// Offer is one purchasable configuration of a subscription base plan.
// An empty OfferID means the plain base plan.
type Offer struct {
	BasePlanID    string
	OfferID       string
	OfferToken    string
	Tags          []string
	PricingPhases []PricingPhase
}

// NewOffer normalizes a raw provider offer
func NewOffer(raw RawOffer) Offer {
	phases := make([]PricingPhase, 0, len(raw.PricingPhases))
	for _, p := range raw.PricingPhases {
		phases = append(phases, NewPricingPhase(p))
	}
	return Offer{
		BasePlanID:    raw.BasePlanID,
		OfferID:       raw.OfferID,
		OfferToken:    raw.OfferToken,
		Tags:          append([]string(nil), raw.OfferTags...),
		PricingPhases: phases,
	}
}

// IsBasePlanOnly reports whether the offer carries no concrete offer on top of the base plan
func (o *Offer) IsBasePlanOnly() bool {
	return o.OfferID == ""
}

// BasePlanPhase returns the regular phase of the offer, if any
func (o *Offer) BasePlanPhase() *PricingPhase {
	return o.findPhase(PricingPhase.IsBasePlan)
}

// TrialPhase returns the free trial phase of the offer, if any
func (o *Offer) TrialPhase() *PricingPhase {
	return o.findPhase(PricingPhase.IsTrial)
}

// IntroPhase returns the discounted single or recurring phase, if any
func (o *Offer) IntroPhase() *PricingPhase {
	return o.findPhase(PricingPhase.IsIntro)
}

func (o *Offer) HasTrial() bool {
	return o.TrialPhase() != nil
}

func (o *Offer) HasIntro() bool {
	return o.IntroPhase() != nil
}

func (o *Offer) HasTrialOrIntro() bool {
	return o.HasTrial() || o.HasIntro()
}

func (o *Offer) findPhase(match func(PricingPhase) bool) *PricingPhase {
	for i := range o.PricingPhases {
		if match(o.PricingPhases[i]) {
			return &o.PricingPhases[i]
		}
	}
	return nil
}

// PricePerMaxDuration is the total amount, in micros, a subscriber would pay over the
// capped horizon when taking this offer. Trial and intro phases consume days from the
// horizon, then the base plan fills the remaining days.
func (o *Offer) PricePerMaxDuration() decimal.Decimal {
	totalDays := int64(PeriodUnitYear.InDays() * maxBillingPhasesDurationYears)
	total := decimal.Zero

	for _, phase := range o.PricingPhases {
		micros := decimal.NewFromInt(phase.Price.AmountMicros)

		// The base plan is the last phase.
		if phase.IsBasePlan() {
			remaining := unboundedPeriods
			if days := phase.BillingPeriod.DurationDays(); days != 0 {
				remaining = decimal.NewFromInt(totalDays).Div(decimal.NewFromInt(int64(days)))
			}
			total = total.Add(micros.Mul(remaining))
			break
		}

		totalDays -= int64(phase.DurationDays())

		if !phase.IsTrial() {
			total = total.Add(micros.Mul(decimal.NewFromInt(int64(phase.BillingCycleCount))))
		}
	}

	return total
}

// CheapestOffer returns the offer with the lowest PricePerMaxDuration.
// On a tie the earliest offer wins. Returns nil for an empty slice.
func CheapestOffer(offers []*Offer) *Offer {
	var cheapest *Offer
	var cheapestPrice decimal.Decimal
	for _, offer := range offers {
		price := offer.PricePerMaxDuration()
		if cheapest == nil || price.LessThan(cheapestPrice) {
			cheapest = offer
			cheapestPrice = price
		}
	}
	return cheapest
}
