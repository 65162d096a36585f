package service

import (
	"context"
	"testing"

	"rentalfleet/internal/model"
	"rentalfleet/internal/rental"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookingService(vehicles *fakeVehicleRepo, bookings *fakeBookingRepo, audits *fakeAuditRepo) BookingService {
	return NewBookingService(bookings, vehicles, audits, fakeTxManager{}, nil)
}

func TestCreateBookingHappyPath(t *testing.T) {
	vehicle := testVehicle("50")
	bookings := &fakeBookingRepo{}
	audits := &fakeAuditRepo{}
	svc := newBookingService(newFakeVehicleRepo(vehicle), bookings, audits)

	resp, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
		VehicleID:     vehicle.ID.String(),
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		StartDate:     "2025-07-01",
		EndDate:       "2025-07-03",
	}, "")
	require.NoError(t, err)

	assert.Equal(t, model.BookingStatusHeld, resp.Status)
	assert.Equal(t, 3, resp.Days)
	assert.Equal(t, 1, resp.Quantity)
	assert.Equal(t, "150.00", resp.TotalPrice)

	require.Len(t, bookings.bookings, 1)
	require.Len(t, audits.entries, 1)
	assert.Equal(t, model.ActionCreateBooking, audits.entries[0].Action)
}

func TestCreateBookingMultipliesQuantity(t *testing.T) {
	vehicle := testVehicle("50")
	svc := newBookingService(newFakeVehicleRepo(vehicle), &fakeBookingRepo{}, &fakeAuditRepo{})

	resp, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
		VehicleID:     vehicle.ID.String(),
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		StartDate:     "2025-07-01",
		EndDate:       "2025-07-02",
		Quantity:      3,
	}, "")
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Quantity)
	assert.Equal(t, "300.00", resp.TotalPrice) // 2 days x 50 x 3 units
}

func TestCreateBookingUnavailable(t *testing.T) {
	vehicle := testVehicle("50")
	vehicle.QuantityPeriods = []rental.QuantityPeriod{
		{StartDate: "2025-07-01", EndDate: "2025-07-31", Quantity: 1},
	}

	bookings := &fakeBookingRepo{}
	_ = bookings.Create(context.Background(), &model.Booking{
		VehicleID: vehicle.ID,
		StartDate: mustDate(t, "2025-07-01"),
		EndDate:   mustDate(t, "2025-07-10"),
		Quantity:  1,
		Status:    model.BookingStatusHeld,
	})

	svc := newBookingService(newFakeVehicleRepo(vehicle), bookings, &fakeAuditRepo{})

	_, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
		VehicleID:     vehicle.ID.String(),
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		StartDate:     "2025-07-05",
		EndDate:       "2025-07-07",
	}, "")
	assert.ErrorIs(t, err, ErrVehicleUnavailable)
	assert.Len(t, bookings.bookings, 1)
}

func TestCreateBookingRentalDayLimits(t *testing.T) {
	vehicle := testVehicle("50")
	vehicle.MinRentalDays = 2
	vehicle.MaxRentalDays = 5
	svc := newBookingService(newFakeVehicleRepo(vehicle), &fakeBookingRepo{}, &fakeAuditRepo{})

	_, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
		VehicleID:     vehicle.ID.String(),
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		StartDate:     "2025-07-01",
		EndDate:       "2025-07-01",
	}, "")
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = svc.CreateBooking(context.Background(), CreateBookingRequest{
		VehicleID:     vehicle.ID.String(),
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		StartDate:     "2025-07-01",
		EndDate:       "2025-07-10",
	}, "")
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestCreateBookingVehicleNotFound(t *testing.T) {
	svc := newBookingService(newFakeVehicleRepo(), &fakeBookingRepo{}, &fakeAuditRepo{})

	_, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
		VehicleID:     "00000000-0000-0000-0000-000000000001",
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		StartDate:     "2025-07-01",
		EndDate:       "2025-07-03",
	}, "")
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestUpdateBookingStatus(t *testing.T) {
	vehicle := testVehicle("50")
	bookings := &fakeBookingRepo{}
	booking := &model.Booking{
		VehicleID:  vehicle.ID,
		StartDate:  mustDate(t, "2025-07-01"),
		EndDate:    mustDate(t, "2025-07-03"),
		Quantity:   1,
		Status:     model.BookingStatusHeld,
		TotalPrice: decimal.RequireFromString("150"),
	}
	_ = bookings.Create(context.Background(), booking)

	svc := newBookingService(newFakeVehicleRepo(vehicle), bookings, &fakeAuditRepo{})

	resp, err := svc.UpdateBooking(context.Background(), booking.ID.String(), UpdateBookingRequest{Status: model.BookingStatusConfirmed}, "")
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, resp.Status)

	_, err = svc.UpdateBooking(context.Background(), booking.ID.String(), UpdateBookingRequest{Status: "parked"}, "")
	assert.Error(t, err)
}

func TestCancelBookingIsIdempotent(t *testing.T) {
	vehicle := testVehicle("50")
	bookings := &fakeBookingRepo{}
	audits := &fakeAuditRepo{}
	booking := &model.Booking{
		VehicleID:  vehicle.ID,
		StartDate:  mustDate(t, "2025-07-01"),
		EndDate:    mustDate(t, "2025-07-03"),
		Quantity:   1,
		Status:     model.BookingStatusHeld,
		TotalPrice: decimal.RequireFromString("150"),
	}
	_ = bookings.Create(context.Background(), booking)

	svc := newBookingService(newFakeVehicleRepo(vehicle), bookings, audits)

	resp, err := svc.CancelBooking(context.Background(), booking.ID.String(), "")
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, resp.Status)
	assert.Len(t, audits.entries, 1)

	// Cancelling again is a no-op, not an error.
	resp, err = svc.CancelBooking(context.Background(), booking.ID.String(), "")
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, resp.Status)
	assert.Len(t, audits.entries, 1)
}

func TestCancelledBookingFreesUnits(t *testing.T) {
	vehicle := testVehicle("50")
	vehicle.QuantityPeriods = []rental.QuantityPeriod{
		{StartDate: "2025-07-01", EndDate: "2025-07-31", Quantity: 1},
	}

	bookings := &fakeBookingRepo{}
	audits := &fakeAuditRepo{}
	svc := newBookingService(newFakeVehicleRepo(vehicle), bookings, audits)

	first, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
		VehicleID:     vehicle.ID.String(),
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		StartDate:     "2025-07-05",
		EndDate:       "2025-07-07",
	}, "")
	require.NoError(t, err)

	_, err = svc.CreateBooking(context.Background(), CreateBookingRequest{
		VehicleID:     vehicle.ID.String(),
		CustomerName:  "Grace Hopper",
		CustomerEmail: "grace@example.com",
		StartDate:     "2025-07-06",
		EndDate:       "2025-07-08",
	}, "")
	require.ErrorIs(t, err, ErrVehicleUnavailable)

	_, err = svc.CancelBooking(context.Background(), first.ID, "")
	require.NoError(t, err)

	_, err = svc.CreateBooking(context.Background(), CreateBookingRequest{
		VehicleID:     vehicle.ID.String(),
		CustomerName:  "Grace Hopper",
		CustomerEmail: "grace@example.com",
		StartDate:     "2025-07-06",
		EndDate:       "2025-07-08",
	}, "")
	assert.NoError(t, err)
}
