package rental

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IsAvailable reports whether vehicleID can be booked for the inclusive
// range [start, end].
//
// Blocked dates and weekly closures are checked day by day; quantity
// periods are checked once against the whole requested range using the
// inclusive overlap test. The difference in granularity is deliberate
// and matches the behavior bookings were historically validated with.
//
// bookings may be nil, in which case no units are considered booked.
func IsAvailable(rules AvailabilityRules, bookings *BookingIndex, vehicleID uuid.UUID, start, end time.Time) (bool, error) {
	if start.After(end) {
		return false, ErrInvalidRange
	}

	blocked := make(map[string]struct{}, len(rules.BlockedDates))
	for _, d := range rules.BlockedDates {
		blocked[d] = struct{}{}
	}
	closures := make(map[int]struct{}, len(rules.WeeklyClosures))
	for _, wd := range rules.WeeklyClosures {
		closures[wd] = struct{}{}
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if _, ok := blocked[FormatDate(d)]; ok {
			return false, nil
		}
		// time.Weekday numbers Sunday as 0, same as the stored closures.
		if _, ok := closures[int(d.Weekday())]; ok {
			return false, nil
		}
	}

	for _, period := range rules.QuantityPeriods {
		if period.StartDate == "" || period.EndDate == "" {
			continue
		}
		periodStart, err := ParseDate(period.StartDate)
		if err != nil {
			continue
		}
		periodEnd, err := ParseDate(period.EndDate)
		if err != nil {
			continue
		}
		if !DatesOverlap(start, end, periodStart, periodEnd) {
			continue
		}
		booked := 0
		if bookings != nil {
			booked = bookings.BookedQuantity(vehicleID, start, end)
		}
		// A declared quantity of 0 blocks the period outright.
		if booked >= period.Quantity {
			return false, nil
		}
	}

	return true, nil
}

// CalculatePrice computes the total price for the inclusive range
// [start, end]. Each day is billed at the base daily rate unless a
// seasonal rate covers it; overlapping seasonal rates are resolved by
// priority (highest wins, earlier rule wins ties).
//
// A vehicle without a positive base rate always prices at zero —
// seasonal rates never apply on top of an unset base.
func CalculatePrice(rates RateRules, start, end time.Time) (decimal.Decimal, error) {
	if start.After(end) {
		return decimal.Zero, ErrInvalidRange
	}
	if rates.BaseDailyRate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, nil
	}

	seasonal := make([]SeasonalRate, len(rates.SeasonalRates))
	copy(seasonal, rates.SeasonalRates)
	// Stable: rates with equal priority keep their configured order.
	sort.SliceStable(seasonal, func(i, j int) bool {
		return seasonal[i].Priority > seasonal[j].Priority
	})

	total := decimal.Zero
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		daily := rates.BaseDailyRate
		for _, rate := range seasonal {
			if seasonCovers(rate, d) {
				daily = rate.Rate
				break
			}
		}
		total = total.Add(daily)
	}

	return total, nil
}

// seasonCovers reports whether the seasonal rate applies on day d.
// Rates with a missing or malformed boundary never match.
func seasonCovers(rate SeasonalRate, d time.Time) bool {
	if rate.StartDate == "" || rate.EndDate == "" {
		return false
	}
	seasonStart, err := ParseDate(rate.StartDate)
	if err != nil {
		return false
	}
	seasonEnd, err := ParseDate(rate.EndDate)
	if err != nil {
		return false
	}

	if rate.Recurring {
		// Re-anchor the rule to the year of the evaluated day.
		seasonStart = time.Date(d.Year(), seasonStart.Month(), seasonStart.Day(), 0, 0, 0, 0, time.UTC)
		seasonEnd = time.Date(d.Year(), seasonEnd.Month(), seasonEnd.Day(), 0, 0, 0, 0, time.UTC)
		if seasonEnd.Before(seasonStart) {
			// The rule wraps the year boundary (e.g. Dec 20 – Jan 05):
			// a day matches the tail of one year or the head of the next.
			return !d.Before(seasonStart) || !d.After(seasonEnd)
		}
	}

	return !d.Before(seasonStart) && !d.After(seasonEnd)
}
