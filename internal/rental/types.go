// Package rental holds the availability and pricing rules for rental
// vehicles. Everything in here is a pure calculation over snapshots the
// caller already fetched: no database access, no mutation, no clock.
package rental

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for every calendar date in the rules.
// Dates carry no time component; ranges are inclusive on both ends.
const DateLayout = "2006-01-02"

// ErrInvalidRange is returned when a requested range is inverted.
var ErrInvalidRange = errors.New("rental: start date is after end date")

// QuantityPeriod declares how many units of a vehicle exist during an
// inclusive date range. Periods may overlap; each is checked on its own.
type QuantityPeriod struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Quantity  int    `json:"quantity"`
}

// SeasonalRate overrides the daily rate inside an inclusive date range.
// Recurring rates are re-anchored to the year of each evaluated day, so
// a Dec 20 – Jan 05 rule matches every winter.
type SeasonalRate struct {
	Name      string          `json:"name"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Rate      decimal.Decimal `json:"rate"`
	Priority  int             `json:"priority"`
	Recurring bool            `json:"recurring"`
}

// AvailabilityRules is the read-only availability snapshot for one
// vehicle. An all-empty snapshot means the vehicle is always available.
type AvailabilityRules struct {
	BlockedDates     []string         `json:"blocked_dates"`
	WeeklyClosures   []int            `json:"weekly_closures"` // 0 = Sunday .. 6 = Saturday
	QuantityPeriods  []QuantityPeriod `json:"quantity_periods"`
	MaintenanceNotes string           `json:"maintenance_notes"` // informational only
}

// RateRules is the read-only pricing snapshot for one vehicle.
type RateRules struct {
	BaseDailyRate decimal.Decimal `json:"base_daily_rate"`
	SeasonalRates []SeasonalRate  `json:"seasonal_rates"`
}

// BookingRecord is one confirmed or held reservation line.
type BookingRecord struct {
	VehicleID uuid.UUID
	StartDate time.Time
	EndDate   time.Time
	Quantity  int
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD) in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders t as an ISO calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
