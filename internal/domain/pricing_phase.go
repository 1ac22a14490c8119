package domain

import (
	"github.com/shopspring/decimal"
)

// microsExponent converts micro-units into currency units
const microsExponent = -6

// RecurrenceMode describes how a pricing phase repeats
type RecurrenceMode int

const (
	RecurrenceModeUnknown           RecurrenceMode = -1
	RecurrenceModeInfiniteRecurring RecurrenceMode = 1
	RecurrenceModeFiniteRecurring   RecurrenceMode = 2
	RecurrenceModeNonRecurring      RecurrenceMode = 3
)

// RecurrenceModeFromCode maps a provider recurrence code, unknown codes map to RecurrenceModeUnknown
func RecurrenceModeFromCode(code int) RecurrenceMode {
	switch mode := RecurrenceMode(code); mode {
	case RecurrenceModeInfiniteRecurring, RecurrenceModeFiniteRecurring, RecurrenceModeNonRecurring:
		return mode
	default:
		return RecurrenceModeUnknown
	}
}

func (m RecurrenceMode) String() string {
	switch m {
	case RecurrenceModeInfiniteRecurring:
		return "infinite_recurring"
	case RecurrenceModeFiniteRecurring:
		return "finite_recurring"
	case RecurrenceModeNonRecurring:
		return "non_recurring"
	default:
		return "unknown"
	}
}

// PhaseType is the classification of a single pricing phase
type PhaseType int

const (
	// PhaseTypeRegular is a plain price without trial or discount
	PhaseTypeRegular PhaseType = iota
	// PhaseTypeFreeTrial is a free phase
	PhaseTypeFreeTrial
	// PhaseTypeSinglePayment is a discounted payment for a single period
	PhaseTypeSinglePayment
	// PhaseTypeDiscountedRecurring is a discounted payment for several periods
	PhaseTypeDiscountedRecurring
	PhaseTypeUnknown
)

func (t PhaseType) String() string {
	switch t {
	case PhaseTypeRegular:
		return "regular"
	case PhaseTypeFreeTrial:
		return "free_trial"
	case PhaseTypeSinglePayment:
		return "single_payment"
	case PhaseTypeDiscountedRecurring:
		return "discounted_recurring"
	default:
		return "unknown"
	}
}

// ClassifyPhase derives a phase type from its recurrence, price and cycle count.
// The free check must stay ahead of the cycle count checks: a free finite phase
// is a trial whatever its number of cycles.
func ClassifyPhase(mode RecurrenceMode, isFree bool, cycleCount int) PhaseType {
	switch {
	case mode != RecurrenceModeFiniteRecurring:
		return PhaseTypeRegular
	case isFree:
		return PhaseTypeFreeTrial
	case cycleCount == 1:
		return PhaseTypeSinglePayment
	case cycleCount > 1:
		return PhaseTypeDiscountedRecurring
	default:
		return PhaseTypeUnknown
	}
}

// Price is a store price in micro-units
type Price struct {
	AmountMicros int64
	CurrencyCode string
	Formatted    string
}

// IsFree reports whether the price is zero
func (p Price) IsFree() bool {
	return p.AmountMicros == 0
}

// Amount returns the price in currency units
func (p Price) Amount() decimal.Decimal {
	return decimal.New(p.AmountMicros, microsExponent)
}

// PricingPhase is one segment of an offer's price schedule
type PricingPhase struct {
	Price             Price
	BillingPeriod     Period
	BillingCycleCount int
	RecurrenceMode    RecurrenceMode
}

// RawPricingPhase is the provider representation of a pricing phase
type RawPricingPhase struct {
	PriceAmountMicros int64  `json:"priceAmountMicros" yaml:"price_amount_micros"`
	PriceCurrencyCode string `json:"priceCurrencyCode" yaml:"price_currency_code"`
	FormattedPrice    string `json:"formattedPrice" yaml:"formatted_price"`
	BillingPeriod     string `json:"billingPeriod" yaml:"billing_period"`
	BillingCycleCount int    `json:"billingCycleCount" yaml:"billing_cycle_count"`
	RecurrenceMode    int    `json:"recurrenceMode" yaml:"recurrence_mode"`
}

// NewPricingPhase normalizes a raw provider phase
func NewPricingPhase(raw RawPricingPhase) PricingPhase {
	return PricingPhase{
		Price: Price{
			AmountMicros: raw.PriceAmountMicros,
			CurrencyCode: raw.PriceCurrencyCode,
			Formatted:    raw.FormattedPrice,
		},
		BillingPeriod:     ParsePeriod(raw.BillingPeriod),
		BillingCycleCount: raw.BillingCycleCount,
		RecurrenceMode:    RecurrenceModeFromCode(raw.RecurrenceMode),
	}
}

// Type classifies the phase. It is always computed from the phase fields.
func (p PricingPhase) Type() PhaseType {
	return ClassifyPhase(p.RecurrenceMode, p.Price.IsFree(), p.BillingCycleCount)
}

// IsTrial reports whether the phase is a free trial
func (p PricingPhase) IsTrial() bool {
	return p.Type() == PhaseTypeFreeTrial
}

// IsIntro reports whether the phase is a paid introductory discount
func (p PricingPhase) IsIntro() bool {
	t := p.Type()
	return t == PhaseTypeSinglePayment || t == PhaseTypeDiscountedRecurring
}

// IsBasePlan reports whether the phase is the regular base plan price
func (p PricingPhase) IsBasePlan() bool {
	return p.Type() == PhaseTypeRegular
}

// DurationDays is the total length of a trial or intro phase in days.
// Regular phases have no finite duration and report 0.
func (p PricingPhase) DurationDays() int {
	switch p.Type() {
	case PhaseTypeFreeTrial, PhaseTypeSinglePayment, PhaseTypeDiscountedRecurring:
		return p.BillingPeriod.DurationDays() * p.BillingCycleCount
	default:
		return 0
	}
}
