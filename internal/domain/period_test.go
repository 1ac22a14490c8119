package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kevin07696/store-billing/internal/domain"
)

func TestParsePeriod_SingleUnit(t *testing.T) {
	tests := []struct {
		iso   string
		count int
		unit  domain.PeriodUnit
	}{
		{"P3D", 3, domain.PeriodUnitDay},
		{"P7D", 7, domain.PeriodUnitDay},
		{"P2W", 2, domain.PeriodUnitWeek},
		{"P1M", 1, domain.PeriodUnitMonth},
		{"P6M", 6, domain.PeriodUnitMonth},
		{"P1Y", 1, domain.PeriodUnitYear},
		{"P12M", 12, domain.PeriodUnitMonth},
	}

	for _, tt := range tests {
		t.Run(tt.iso, func(t *testing.T) {
			period := domain.ParsePeriod(tt.iso)

			assert.Equal(t, tt.count, period.Count)
			assert.Equal(t, tt.unit, period.Unit)
			assert.Equal(t, tt.iso, period.ISO)
			assert.True(t, period.IsKnown())
		})
	}
}

func TestParsePeriod_LargestUnitWins(t *testing.T) {
	tests := []struct {
		iso   string
		count int
		unit  domain.PeriodUnit
	}{
		{"P1Y6M", 1, domain.PeriodUnitYear},
		{"P2M3D", 2, domain.PeriodUnitMonth},
		{"P1W3D", 1, domain.PeriodUnitWeek},
		{"P0Y3M", 3, domain.PeriodUnitMonth},
		{"1M", 1, domain.PeriodUnitMonth},
	}

	for _, tt := range tests {
		t.Run(tt.iso, func(t *testing.T) {
			period := domain.ParsePeriod(tt.iso)

			assert.Equal(t, tt.count, period.Count)
			assert.Equal(t, tt.unit, period.Unit)
		})
	}
}

func TestParsePeriod_InvalidInputIsUnknown(t *testing.T) {
	inputs := []string{"", "X", "P", "P1S", "1H", "P1M1Y", "PT1H", "P-1D", "P1.5M", "P0D", "P99999999999999999999D", "P30000000000000000Y", "P1000001D"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			var period domain.Period
			assert.NotPanics(t, func() {
				period = domain.ParsePeriod(input)
			})

			assert.Equal(t, 0, period.Count)
			assert.Equal(t, domain.PeriodUnitUnknown, period.Unit)
			assert.Equal(t, input, period.ISO)
			assert.False(t, period.IsKnown())
			assert.Zero(t, period.DurationDays())
		})
	}
}

func TestPeriod_DurationDays(t *testing.T) {
	assert.Equal(t, 3, domain.ParsePeriod("P3D").DurationDays())
	assert.Equal(t, 14, domain.ParsePeriod("P2W").DurationDays())
	assert.Equal(t, 90, domain.ParsePeriod("P3M").DurationDays())
	assert.Equal(t, 365, domain.ParsePeriod("P1Y").DurationDays())
}

func TestPeriod_LargestAcceptedCount(t *testing.T) {
	period := domain.ParsePeriod("P1000000Y")

	assert.Equal(t, domain.PeriodUnitYear, period.Unit)
	assert.Equal(t, 365_000_000, period.DurationDays())
	assert.Positive(t, domain.PeriodDays("P1000000Y1000000M1000000W1000000D"))
}

func TestPeriodDays_SumsAllComponents(t *testing.T) {
	tests := []struct {
		iso  string
		days int
	}{
		{"P1Y", 365},
		{"P1M", 30},
		{"P2W", 14},
		{"P3D", 3},
		{"P1Y1M1W1D", 403},
		{"P1W3D", 10},
		{"", 0},
		{"P1S", 0},
		{"garbage", 0},
		{"P30000000000000000Y", 0},
	}

	for _, tt := range tests {
		t.Run(tt.iso, func(t *testing.T) {
			assert.Equal(t, tt.days, domain.PeriodDays(tt.iso))
		})
	}
}

func TestPeriodUnit_String(t *testing.T) {
	assert.Equal(t, "day", domain.PeriodUnitDay.String())
	assert.Equal(t, "week", domain.PeriodUnitWeek.String())
	assert.Equal(t, "month", domain.PeriodUnitMonth.String())
	assert.Equal(t, "year", domain.PeriodUnitYear.String())
	assert.Equal(t, "unknown", domain.PeriodUnitUnknown.String())
}
