package domain

import (
	"regexp"
	"strconv"
)

// PeriodUnit is the unit of a billing period
type PeriodUnit int

const (
	PeriodUnitDay PeriodUnit = iota
	PeriodUnitWeek
	PeriodUnitMonth
	PeriodUnitYear
	PeriodUnitUnknown
)

func (u PeriodUnit) String() string {
	switch u {
	case PeriodUnitDay:
		return "day"
	case PeriodUnitWeek:
		return "week"
	case PeriodUnitMonth:
		return "month"
	case PeriodUnitYear:
		return "year"
	default:
		return "unknown"
	}
}

// InDays returns the approximate number of days in one unit.
// Months count as 30 days and years as 365.
func (u PeriodUnit) InDays() int {
	switch u {
	case PeriodUnitDay:
		return 1
	case PeriodUnitWeek:
		return 7
	case PeriodUnitMonth:
		return 30
	case PeriodUnitYear:
		return 365
	default:
		return 0
	}
}

// Period is a parsed billing period such as "P1M"
type Period struct {
	Count int
	Unit  PeriodUnit
	// ISO keeps the source string, including unparseable input.
	ISO string
}

// DurationDays returns the approximate length of the period in days
func (p Period) DurationDays() int {
	return p.Unit.InDays() * p.Count
}

// IsKnown reports whether the source string was parsed
func (p Period) IsKnown() bool {
	return p.Unit != PeriodUnitUnknown
}

// maxPeriodCount bounds every component so day counts cannot overflow.
// Larger counts are treated as unparseable.
const maxPeriodCount = 1_000_000

// Components are fixed-order: years, months, weeks, days.
var periodPattern = regexp.MustCompile(`^P?(?:(\d+)Y)?(?:(\d+)M)?(?:(\d+)W)?(?:(\d+)D)?$`)

// periodOrder lists the captured units from the largest to the smallest
var periodOrder = [...]PeriodUnit{PeriodUnitYear, PeriodUnitMonth, PeriodUnitWeek, PeriodUnitDay}

// ParsePeriod parses a duration like "P1Y", "P3M", "P2W" or "P7D".
//
// Only the largest non-zero component is kept, so "P1Y6M" yields one year.
// Input that does not match the grammar yields (0, Unknown) with ISO set to the input.
func ParsePeriod(iso string) Period {
	counts, ok := parsePeriodComponents(iso)
	if !ok {
		return Period{Count: 0, Unit: PeriodUnitUnknown, ISO: iso}
	}

	for i, unit := range periodOrder {
		if counts[i] > 0 {
			return Period{Count: counts[i], Unit: unit, ISO: iso}
		}
	}
	return Period{Count: 0, Unit: PeriodUnitUnknown, ISO: iso}
}

// PeriodDays returns the total length of a duration string in days, summing every
// component (Y=365, M=30, W=7, D=1). Invalid input yields 0.
func PeriodDays(iso string) int {
	counts, ok := parsePeriodComponents(iso)
	if !ok {
		return 0
	}

	total := 0
	for i, unit := range periodOrder {
		total += counts[i] * unit.InDays()
	}
	return total
}

func parsePeriodComponents(iso string) ([4]int, bool) {
	var counts [4]int

	match := periodPattern.FindStringSubmatch(iso)
	if match == nil {
		return counts, false
	}

	present := false
	for i, group := range match[1:] {
		if group == "" {
			continue
		}
		n, err := strconv.Atoi(group)
		if err != nil || n > maxPeriodCount {
			return counts, false
		}
		counts[i] = n
		present = true
	}
	return counts, present
}
