package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rentalfleet/internal/model"
	"rentalfleet/internal/rental"
	"rentalfleet/internal/repository"
	ws "rentalfleet/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateBookingRequest struct {
	VehicleID     string `json:"vehicle_id" binding:"required"`
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required,email"`
	CustomerPhone string `json:"customer_phone"`
	StartDate     string `json:"start_date" binding:"required"`
	EndDate       string `json:"end_date" binding:"required"`
	Quantity      int    `json:"quantity" binding:"omitempty,min=1"`
	Notes         string `json:"notes"`
}

type UpdateBookingRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

type BookingResponse struct {
	ID            string `json:"id"`
	VehicleID     string `json:"vehicle_id"`
	VehicleName   string `json:"vehicle_name,omitempty"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Days          int    `json:"days"`
	Quantity      int    `json:"quantity"`
	Status        string `json:"status"`
	TotalPrice    string `json:"total_price"`
	Notes         string `json:"notes,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// bookingEvent is the payload broadcast to staff dashboards.
type bookingEvent struct {
	Type      string `json:"type"`
	BookingID string `json:"booking_id"`
	VehicleID string `json:"vehicle_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

// --- Interface ---

type BookingService interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest, userID string) (*BookingResponse, error)
	GetBooking(ctx context.Context, id string) (*BookingResponse, error)
	ListBookings(ctx context.Context, vehicleID, status string, page, limit int) ([]BookingResponse, int64, error)
	UpdateBooking(ctx context.Context, id string, req UpdateBookingRequest, userID string) (*BookingResponse, error)
	CancelBooking(ctx context.Context, id string, userID string) (*BookingResponse, error)
}

type bookingService struct {
	bookings  repository.BookingRepository
	vehicles  repository.VehicleRepository
	audits    repository.AuditRepository
	txManager repository.TransactionManager
	hub       *ws.Hub
}

func NewBookingService(
	bookings repository.BookingRepository,
	vehicles repository.VehicleRepository,
	audits repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) BookingService {
	return &bookingService{
		bookings:  bookings,
		vehicles:  vehicles,
		audits:    audits,
		txManager: txManager,
		hub:       hub,
	}
}

// --- Implementation ---

// CreateBooking checks availability, prices the range and inserts the
// booking in one database transaction. The rental engine itself is
// snapshot-based and lock-free, so this transaction is what prevents two
// concurrent requests from taking the last unit of a vehicle.
func (s *bookingService) CreateBooking(ctx context.Context, req CreateBookingRequest, userID string) (*BookingResponse, error) {
	vehicleID, start, end, err := parseRangeQuery(req.VehicleID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	var booking *model.Booking
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		vehicle, err := s.vehicles.FindByID(txCtx, vehicleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVehicleNotFound
			}
			return fmt.Errorf("failed to fetch vehicle: %w", err)
		}

		days := rentalDays(start, end)
		if vehicle.MinRentalDays > 0 && days < vehicle.MinRentalDays {
			return fmt.Errorf("%w: minimum rental is %d days", ErrInvalidDateRange, vehicle.MinRentalDays)
		}
		if vehicle.MaxRentalDays > 0 && days > vehicle.MaxRentalDays {
			return fmt.Errorf("%w: maximum rental is %d days", ErrInvalidDateRange, vehicle.MaxRentalDays)
		}

		overlapping, err := s.bookings.FindActiveOverlapping(txCtx, vehicleID, start, end)
		if err != nil {
			return fmt.Errorf("failed to fetch bookings: %w", err)
		}
		index := rental.NewBookingIndex(toBookingRecords(overlapping))

		available, err := rental.IsAvailable(vehicle.AvailabilityRules(), index, vehicleID, start, end)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
		}
		if !available {
			return ErrVehicleUnavailable
		}

		perUnit, err := rental.CalculatePrice(vehicle.RateRules(), start, end)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
		}

		booking = &model.Booking{
			VehicleID:     vehicleID,
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			CustomerPhone: req.CustomerPhone,
			StartDate:     start,
			EndDate:       end,
			Quantity:      quantity,
			Status:        model.BookingStatusHeld,
			TotalPrice:    perUnit.Mul(decimal.NewFromInt(int64(quantity))),
			Notes:         req.Notes,
		}
		if err := s.bookings.Create(txCtx, booking); err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		writeAuditLog(txCtx, s.audits, userID, model.ActionCreateBooking, booking.ID.String(), req.CustomerName, req)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast("booking_created", booking)

	return toBookingResponse(booking), nil
}

func (s *bookingService) GetBooking(ctx context.Context, id string) (*BookingResponse, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBookingResponse(booking), nil
}

func (s *bookingService) ListBookings(ctx context.Context, vehicleID, status string, page, limit int) ([]BookingResponse, int64, error) {
	filter := repository.BookingFilter{Status: status}
	if vehicleID != "" {
		parsed, err := uuid.Parse(vehicleID)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: invalid vehicle id", ErrVehicleNotFound)
		}
		filter.VehicleID = &parsed
	}

	bookings, total, err := s.bookings.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	res := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		res = append(res, *toBookingResponse(&bookings[i]))
	}
	return res, total, nil
}

func (s *bookingService) UpdateBooking(ctx context.Context, id string, req UpdateBookingRequest, userID string) (*BookingResponse, error) {
	if !model.IsValidBookingStatus(req.Status) {
		return nil, fmt.Errorf("invalid booking status %q", req.Status)
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	booking.Status = req.Status
	if req.Notes != "" {
		booking.Notes = req.Notes
	}

	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	writeAuditLog(ctx, s.audits, userID, model.ActionUpdateBooking, booking.ID.String(), booking.CustomerName, req)

	return toBookingResponse(booking), nil
}

// CancelBooking marks the booking cancelled; cancelled bookings release
// their units immediately. Records are never hard-deleted.
func (s *bookingService) CancelBooking(ctx context.Context, id string, userID string) (*BookingResponse, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status == model.BookingStatusCancelled {
		return toBookingResponse(booking), nil
	}

	booking.Status = model.BookingStatusCancelled
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	writeAuditLog(ctx, s.audits, userID, model.ActionCancelBooking, booking.ID.String(), booking.CustomerName, map[string]string{"cancelled_id": id})
	s.broadcast("booking_cancelled", booking)

	return toBookingResponse(booking), nil
}

// --- Helpers ---

func (s *bookingService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking id", ErrBookingNotFound)
	}
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return booking, nil
}

func (s *bookingService) broadcast(eventType string, booking *model.Booking) {
	if s.hub == nil || booking == nil {
		return
	}
	payload, err := json.Marshal(bookingEvent{
		Type:      eventType,
		BookingID: booking.ID.String(),
		VehicleID: booking.VehicleID.String(),
		StartDate: rental.FormatDate(booking.StartDate),
		EndDate:   rental.FormatDate(booking.EndDate),
		Status:    booking.Status,
	})
	if err != nil {
		return
	}
	s.hub.Broadcast <- payload
}

func toBookingResponse(b *model.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:            b.ID.String(),
		VehicleID:     b.VehicleID.String(),
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		CustomerPhone: b.CustomerPhone,
		StartDate:     rental.FormatDate(b.StartDate),
		EndDate:       rental.FormatDate(b.EndDate),
		Days:          rentalDays(b.StartDate, b.EndDate),
		Quantity:      b.Quantity,
		Status:        b.Status,
		TotalPrice:    b.TotalPrice.StringFixed(2),
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
	}
	if b.Vehicle != nil {
		resp.VehicleName = b.Vehicle.Name
	}
	return resp
}
