package rental

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDatesOverlap(t *testing.T) {
	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     string
		want                           bool
	}{
		{"disjoint before", "2024-06-01", "2024-06-05", "2024-06-06", "2024-06-10", false},
		{"disjoint after", "2024-06-11", "2024-06-15", "2024-06-06", "2024-06-10", false},
		{"touching at the end", "2024-06-01", "2024-06-06", "2024-06-06", "2024-06-10", true},
		{"touching at the start", "2024-06-10", "2024-06-15", "2024-06-06", "2024-06-10", true},
		{"contained", "2024-06-07", "2024-06-08", "2024-06-06", "2024-06-10", true},
		{"containing", "2024-06-01", "2024-06-15", "2024-06-06", "2024-06-10", true},
		{"identical", "2024-06-06", "2024-06-10", "2024-06-06", "2024-06-10", true},
		{"single day inside", "2024-06-07", "2024-06-07", "2024-06-06", "2024-06-10", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DatesOverlap(date(t, tt.aStart), date(t, tt.aEnd), date(t, tt.bStart), date(t, tt.bEnd))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBookingIndexBookedQuantity(t *testing.T) {
	vehicleA := uuid.New()
	vehicleB := uuid.New()

	idx := NewBookingIndex([]BookingRecord{
		{VehicleID: vehicleA, StartDate: date(t, "2024-06-01"), EndDate: date(t, "2024-06-05"), Quantity: 2},
		{VehicleID: vehicleA, StartDate: date(t, "2024-06-05"), EndDate: date(t, "2024-06-08"), Quantity: 1},
		{VehicleID: vehicleA, StartDate: date(t, "2024-07-01"), EndDate: date(t, "2024-07-03"), Quantity: 4},
		{VehicleID: vehicleB, StartDate: date(t, "2024-06-01"), EndDate: date(t, "2024-06-30"), Quantity: 9},
	})

	// Both June records overlap; July and the other vehicle do not.
	assert.Equal(t, 3, idx.BookedQuantity(vehicleA, date(t, "2024-06-05"), date(t, "2024-06-05")))

	// A booking ending exactly on the requested start date counts.
	assert.Equal(t, 1, idx.BookedQuantity(vehicleA, date(t, "2024-06-08"), date(t, "2024-06-12")))

	assert.Equal(t, 0, idx.BookedQuantity(vehicleA, date(t, "2024-08-01"), date(t, "2024-08-05")))
	assert.Equal(t, 0, NewBookingIndex(nil).BookedQuantity(vehicleA, date(t, "2024-06-01"), date(t, "2024-06-05")))
}
