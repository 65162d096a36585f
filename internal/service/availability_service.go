package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rentalfleet/internal/model"
	"rentalfleet/internal/rental"
	"rentalfleet/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sentinel errors shared by the rental services. Handlers translate
// these into HTTP statuses.
var (
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrInvalidDateRange   = errors.New("invalid date range")
	ErrVehicleUnavailable = errors.New("vehicle is not available for the requested dates")
)

// --- DTOs ---

type AvailabilityResponse struct {
	VehicleID  string  `json:"vehicle_id"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Available  bool    `json:"available"`
	TotalPrice *string `json:"total_price,omitempty"` // only set when available
}

type QuoteResponse struct {
	VehicleID string `json:"vehicle_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`
	Total     string `json:"total"`
}

// --- Interface ---

// AvailabilityService answers availability and price queries for one
// vehicle and date range. It fetches the vehicle's rule snapshot and
// the overlapping active bookings, then defers every decision to the
// rental engine. The snapshot is read once per call; serializing
// check-then-book belongs to BookingService's transaction.
type AvailabilityService interface {
	CheckAvailability(ctx context.Context, vehicleID, startDate, endDate string) (*AvailabilityResponse, error)
	QuotePrice(ctx context.Context, vehicleID, startDate, endDate string) (*QuoteResponse, error)
}

type availabilityService struct {
	vehicles repository.VehicleRepository
	bookings repository.BookingRepository
}

func NewAvailabilityService(vehicles repository.VehicleRepository, bookings repository.BookingRepository) AvailabilityService {
	return &availabilityService{vehicles: vehicles, bookings: bookings}
}

// --- Implementation ---

func (s *availabilityService) CheckAvailability(ctx context.Context, vehicleID, startDate, endDate string) (*AvailabilityResponse, error) {
	id, start, end, err := parseRangeQuery(vehicleID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	vehicle, err := s.fetchVehicle(ctx, id)
	if err != nil {
		return nil, err
	}

	index, err := s.fetchBookingIndex(ctx, id, start, end)
	if err != nil {
		return nil, err
	}

	available, err := rental.IsAvailable(vehicle.AvailabilityRules(), index, id, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
	}

	resp := &AvailabilityResponse{
		VehicleID: id.String(),
		StartDate: rental.FormatDate(start),
		EndDate:   rental.FormatDate(end),
		Available: available,
	}

	if available {
		total, err := rental.CalculatePrice(vehicle.RateRules(), start, end)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
		}
		price := total.StringFixed(2)
		resp.TotalPrice = &price
	}

	return resp, nil
}

func (s *availabilityService) QuotePrice(ctx context.Context, vehicleID, startDate, endDate string) (*QuoteResponse, error) {
	id, start, end, err := parseRangeQuery(vehicleID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	vehicle, err := s.fetchVehicle(ctx, id)
	if err != nil {
		return nil, err
	}

	total, err := rental.CalculatePrice(vehicle.RateRules(), start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
	}

	return &QuoteResponse{
		VehicleID: id.String(),
		StartDate: rental.FormatDate(start),
		EndDate:   rental.FormatDate(end),
		Days:      rentalDays(start, end),
		Total:     total.StringFixed(2),
	}, nil
}

// --- Helpers ---

func (s *availabilityService) fetchVehicle(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	vehicle, err := s.vehicles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to fetch vehicle: %w", err)
	}
	return vehicle, nil
}

func (s *availabilityService) fetchBookingIndex(ctx context.Context, vehicleID uuid.UUID, start, end time.Time) (*rental.BookingIndex, error) {
	overlapping, err := s.bookings.FindActiveOverlapping(ctx, vehicleID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	return rental.NewBookingIndex(toBookingRecords(overlapping)), nil
}

func toBookingRecords(bookings []model.Booking) []rental.BookingRecord {
	records := make([]rental.BookingRecord, 0, len(bookings))
	for _, b := range bookings {
		records = append(records, rental.BookingRecord{
			VehicleID: b.VehicleID,
			StartDate: b.StartDate,
			EndDate:   b.EndDate,
			Quantity:  b.Quantity,
		})
	}
	return records
}

// parseRangeQuery validates the transport-level inputs before anything
// reaches the engine: well-formed UUID, well-formed ISO dates, and a
// non-inverted range.
func parseRangeQuery(vehicleID, startDate, endDate string) (uuid.UUID, time.Time, time.Time, error) {
	id, err := uuid.Parse(vehicleID)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, fmt.Errorf("%w: invalid vehicle id", ErrVehicleNotFound)
	}

	start, err := rental.ParseDate(startDate)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, fmt.Errorf("%w: invalid start_date (expected YYYY-MM-DD)", ErrInvalidDateRange)
	}
	end, err := rental.ParseDate(endDate)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, fmt.Errorf("%w: invalid end_date (expected YYYY-MM-DD)", ErrInvalidDateRange)
	}
	if start.After(end) {
		return uuid.Nil, time.Time{}, time.Time{}, fmt.Errorf("%w: start_date is after end_date", ErrInvalidDateRange)
	}

	return id, start, end, nil
}

// rentalDays counts the billable days of an inclusive range.
func rentalDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}
