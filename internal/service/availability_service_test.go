package service

import (
	"context"
	"testing"
	"time"

	"rentalfleet/internal/model"
	"rentalfleet/internal/rental"
	"rentalfleet/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- In-memory fakes shared by the service tests ---

type fakeVehicleRepo struct {
	vehicles map[uuid.UUID]*model.Vehicle
}

func newFakeVehicleRepo(vehicles ...*model.Vehicle) *fakeVehicleRepo {
	repo := &fakeVehicleRepo{vehicles: make(map[uuid.UUID]*model.Vehicle)}
	for _, v := range vehicles {
		repo.vehicles[v.ID] = v
	}
	return repo
}

func (r *fakeVehicleRepo) Create(_ context.Context, vehicle *model.Vehicle) error {
	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}
	r.vehicles[vehicle.ID] = vehicle
	return nil
}

func (r *fakeVehicleRepo) Update(_ context.Context, vehicle *model.Vehicle) error {
	r.vehicles[vehicle.ID] = vehicle
	return nil
}

func (r *fakeVehicleRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.vehicles, id)
	return nil
}

func (r *fakeVehicleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Vehicle, error) {
	vehicle, ok := r.vehicles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return vehicle, nil
}

func (r *fakeVehicleRepo) List(_ context.Context, vehicleType string, _, _ int) ([]model.Vehicle, int64, error) {
	var out []model.Vehicle
	for _, v := range r.vehicles {
		if vehicleType != "" && v.VehicleType != vehicleType {
			continue
		}
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

type fakeBookingRepo struct {
	bookings []*model.Booking
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *model.Booking) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	booking.CreatedAt = time.Now()
	r.bookings = append(r.bookings, booking)
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, booking *model.Booking) error {
	for i, b := range r.bookings {
		if b.ID == booking.ID {
			r.bookings[i] = booking
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	for _, b := range r.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeBookingRepo) List(_ context.Context, filter repository.BookingFilter, _, _ int) ([]model.Booking, int64, error) {
	var out []model.Booking
	for _, b := range r.bookings {
		if filter.VehicleID != nil && b.VehicleID != *filter.VehicleID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) FindActiveOverlapping(_ context.Context, vehicleID uuid.UUID, start, end time.Time) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range r.bookings {
		if b.VehicleID != vehicleID {
			continue
		}
		active := false
		for _, s := range model.ActiveBookingStatuses {
			if b.Status == s {
				active = true
				break
			}
		}
		if !active {
			continue
		}
		if !b.StartDate.After(end) && !b.EndDate.Before(start) {
			out = append(out, *b)
		}
	}
	return out, nil
}

type fakeAuditRepo struct {
	entries []*model.AuditLog
}

func (r *fakeAuditRepo) Create(_ context.Context, entry *model.AuditLog) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, action string, _, _ int) ([]model.AuditLog, int64, error) {
	var out []model.AuditLog
	for _, e := range r.entries {
		if action != "" && e.Action != action {
			continue
		}
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

// fakeTxManager runs the function directly; the fakes need no real
// transaction.
type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

func testVehicle(rate string) *model.Vehicle {
	return &model.Vehicle{
		ID:            uuid.New(),
		Name:          "Fiat Panda",
		VehicleType:   model.VehicleTypeCar,
		BaseDailyRate: decimal.RequireFromString(rate),
	}
}

// --- Tests ---

func TestCheckAvailabilityVehicleNotFound(t *testing.T) {
	svc := NewAvailabilityService(newFakeVehicleRepo(), &fakeBookingRepo{})

	_, err := svc.CheckAvailability(context.Background(), uuid.NewString(), "2025-07-01", "2025-07-03")
	assert.ErrorIs(t, err, ErrVehicleNotFound)

	_, err = svc.CheckAvailability(context.Background(), "not-a-uuid", "2025-07-01", "2025-07-03")
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestCheckAvailabilityInvalidDates(t *testing.T) {
	vehicle := testVehicle("50")
	svc := NewAvailabilityService(newFakeVehicleRepo(vehicle), &fakeBookingRepo{})

	_, err := svc.CheckAvailability(context.Background(), vehicle.ID.String(), "07/01/2025", "2025-07-03")
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = svc.CheckAvailability(context.Background(), vehicle.ID.String(), "2025-07-03", "2025-07-01")
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestCheckAvailabilityIncludesPriceWhenAvailable(t *testing.T) {
	vehicle := testVehicle("50")
	svc := NewAvailabilityService(newFakeVehicleRepo(vehicle), &fakeBookingRepo{})

	resp, err := svc.CheckAvailability(context.Background(), vehicle.ID.String(), "2025-07-01", "2025-07-03")
	require.NoError(t, err)

	assert.True(t, resp.Available)
	require.NotNil(t, resp.TotalPrice)
	assert.Equal(t, "150.00", *resp.TotalPrice)
}

func TestCheckAvailabilityOmitsPriceWhenBlocked(t *testing.T) {
	vehicle := testVehicle("50")
	vehicle.BlockedDates = []string{"2025-07-02"}
	svc := NewAvailabilityService(newFakeVehicleRepo(vehicle), &fakeBookingRepo{})

	resp, err := svc.CheckAvailability(context.Background(), vehicle.ID.String(), "2025-07-01", "2025-07-03")
	require.NoError(t, err)

	assert.False(t, resp.Available)
	assert.Nil(t, resp.TotalPrice)
}

func TestCheckAvailabilityCountsActiveBookings(t *testing.T) {
	vehicle := testVehicle("50")
	vehicle.QuantityPeriods = []rental.QuantityPeriod{
		{StartDate: "2025-07-01", EndDate: "2025-07-31", Quantity: 1},
	}

	bookings := &fakeBookingRepo{}
	_ = bookings.Create(context.Background(), &model.Booking{
		VehicleID: vehicle.ID,
		StartDate: mustDate(t, "2025-07-02"),
		EndDate:   mustDate(t, "2025-07-04"),
		Quantity:  1,
		Status:    model.BookingStatusConfirmed,
	})

	svc := NewAvailabilityService(newFakeVehicleRepo(vehicle), bookings)

	resp, err := svc.CheckAvailability(context.Background(), vehicle.ID.String(), "2025-07-03", "2025-07-05")
	require.NoError(t, err)
	assert.False(t, resp.Available)
}

func TestCheckAvailabilityIgnoresCancelledBookings(t *testing.T) {
	vehicle := testVehicle("50")
	vehicle.QuantityPeriods = []rental.QuantityPeriod{
		{StartDate: "2025-07-01", EndDate: "2025-07-31", Quantity: 1},
	}

	bookings := &fakeBookingRepo{}
	_ = bookings.Create(context.Background(), &model.Booking{
		VehicleID: vehicle.ID,
		StartDate: mustDate(t, "2025-07-02"),
		EndDate:   mustDate(t, "2025-07-04"),
		Quantity:  1,
		Status:    model.BookingStatusCancelled,
	})

	svc := NewAvailabilityService(newFakeVehicleRepo(vehicle), bookings)

	resp, err := svc.CheckAvailability(context.Background(), vehicle.ID.String(), "2025-07-03", "2025-07-05")
	require.NoError(t, err)
	assert.True(t, resp.Available)
}

func TestQuotePrice(t *testing.T) {
	vehicle := testVehicle("50")
	vehicle.SeasonalRates = []rental.SeasonalRate{
		{Name: "Summer", StartDate: "2025-07-01", EndDate: "2025-08-31", Rate: decimal.RequireFromString("75"), Priority: 10},
	}
	svc := NewAvailabilityService(newFakeVehicleRepo(vehicle), &fakeBookingRepo{})

	quote, err := svc.QuotePrice(context.Background(), vehicle.ID.String(), "2025-06-29", "2025-07-02")
	require.NoError(t, err)

	assert.Equal(t, 4, quote.Days)
	assert.Equal(t, "250.00", quote.Total) // 2x50 + 2x75
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := rental.ParseDate(s)
	require.NoError(t, err)
	return d
}
