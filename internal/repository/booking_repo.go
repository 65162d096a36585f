package repository

import (
	"context"
	"time"

	"rentalfleet/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingRepository defines data access for bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	Update(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	List(ctx context.Context, filter BookingFilter, page, limit int) ([]model.Booking, int64, error)
	// FindActiveOverlapping returns every active-status booking for the
	// vehicle whose inclusive date range intersects [start, end]. The
	// overlap test matches the engine's: start_date <= end AND
	// end_date >= start.
	FindActiveOverlapping(ctx context.Context, vehicleID uuid.UUID, start, end time.Time) ([]model.Booking, error)
}

// BookingFilter narrows booking listings.
type BookingFilter struct {
	VehicleID *uuid.UUID
	Status    string
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return GetDB(ctx, r.db).Create(booking).Error
}

func (r *bookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	return GetDB(ctx, r.db).Save(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	if err := GetDB(ctx, r.db).Preload("Vehicle").First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter, page, limit int) ([]model.Booking, int64, error) {
	var bookings []model.Booking
	var total int64

	query := GetDB(ctx, r.db).Model(&model.Booking{})
	if filter.VehicleID != nil {
		query = query.Where("vehicle_id = ?", *filter.VehicleID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func (r *bookingRepository) FindActiveOverlapping(ctx context.Context, vehicleID uuid.UUID, start, end time.Time) ([]model.Booking, error) {
	var bookings []model.Booking
	err := GetDB(ctx, r.db).
		Where("vehicle_id = ?", vehicleID).
		Where("status IN ?", model.ActiveBookingStatuses).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
