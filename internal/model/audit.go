package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateVehicle = "CREATE_VEHICLE"
	ActionUpdateVehicle = "UPDATE_VEHICLE"
	ActionDeleteVehicle = "DELETE_VEHICLE"

	ActionCreateBooking = "CREATE_BOOKING"
	ActionUpdateBooking = "UPDATE_BOOKING"
	ActionCancelBooking = "CANCEL_BOOKING"
)

// AuditLog tracks who changed what and when for fleet and booking data.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // nullable for unauthenticated booking API calls
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"` // serialized JSON payload of the change
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
