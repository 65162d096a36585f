package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Booking status enum constants. Held bookings reserve units the same
// way confirmed ones do until they expire or get cancelled.
const (
	BookingStatusHeld      = "held"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// ActiveBookingStatuses are the statuses that count against a vehicle's
// quantity caps.
var ActiveBookingStatuses = []string{
	BookingStatusHeld,
	BookingStatusConfirmed,
	BookingStatusCompleted,
}

// Booking is one reservation of a vehicle for an inclusive date range.
type Booking struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VehicleID uuid.UUID `gorm:"type:uuid;not null;index" json:"vehicle_id"`
	Vehicle   *Vehicle  `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`

	CustomerName  string `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail string `gorm:"type:varchar(255);not null;index" json:"customer_email"`
	CustomerPhone string `gorm:"type:varchar(20)" json:"customer_phone"`

	StartDate time.Time `gorm:"type:date;not null;index" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null;index" json:"end_date"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`

	Status     string          `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"total_price"`
	Notes      string          `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsValidBookingStatus reports whether s is one of the known statuses.
func IsValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusHeld, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}
