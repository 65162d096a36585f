package rental

import (
	"time"

	"github.com/google/uuid"
)

// DatesOverlap reports whether the inclusive ranges [aStart, aEnd] and
// [bStart, bEnd] intersect. A booking ending exactly on the requested
// start date counts as overlapping.
func DatesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// BookingIndex answers how many units of a vehicle are already taken
// during a date range, from a fixed snapshot of reservation records.
type BookingIndex struct {
	records []BookingRecord
}

// NewBookingIndex builds an index over a snapshot of booking records.
// The slice is not copied; callers must not mutate it afterwards.
func NewBookingIndex(records []BookingRecord) *BookingIndex {
	return &BookingIndex{records: records}
}

// BookedQuantity sums the quantities of every record for vehicleID whose
// range overlaps [start, end].
func (idx *BookingIndex) BookedQuantity(vehicleID uuid.UUID, start, end time.Time) int {
	total := 0
	for _, rec := range idx.records {
		if rec.VehicleID != vehicleID {
			continue
		}
		if DatesOverlap(start, end, rec.StartDate, rec.EndDate) {
			total += rec.Quantity
		}
	}
	return total
}
