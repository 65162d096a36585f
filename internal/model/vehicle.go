package model

import (
	"time"

	"rentalfleet/internal/rental"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Vehicle type enum constants
const (
	VehicleTypeCar     = "car"
	VehicleTypeScooter = "scooter"
	VehicleTypeVan     = "van"
	VehicleTypeSUV     = "suv"
	VehicleTypeTruck   = "truck"
)

// ExtraService is an optional add-on (GPS, child seat, ...) offered with
// a vehicle. Price is either flat or per day depending on PriceType.
type ExtraService struct {
	Name        string          `json:"name"`
	PriceType   string          `json:"price_type"` // flat, daily
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Enabled     bool            `json:"enabled"`
}

// InsuranceOption is a coverage plan offered with a vehicle.
type InsuranceOption struct {
	Name        string          `json:"name"`
	CostType    string          `json:"cost_type"` // daily, flat
	Cost        decimal.Decimal `json:"cost"`
	Deductible  decimal.Decimal `json:"deductible"`
	Description string          `json:"description"`
	Enabled     bool            `json:"enabled"`
}

// Vehicle is a rentable listing with its rate and availability rule
// sets. Rule collections are stored as JSONB and handed to the rental
// engine as immutable snapshots.
type Vehicle struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name string    `gorm:"type:varchar(255);not null" json:"name"`

	// Details
	VehicleType       string `gorm:"type:varchar(20);not null;index" json:"vehicle_type"` // car, scooter, van, suv, truck
	Seats             int    `json:"seats"`
	FuelType          string `gorm:"type:varchar(20)" json:"fuel_type"`    // petrol, diesel, hybrid, electric
	Transmission      string `gorm:"type:varchar(20)" json:"transmission"` // manual, automatic
	FleetQuantity     int    `json:"fleet_quantity"`
	AdditionalDetails string `gorm:"type:text" json:"additional_details"`

	// Rates
	BaseDailyRate decimal.Decimal       `gorm:"type:decimal(10,2);not null;default:0" json:"base_daily_rate"`
	SeasonalRates []rental.SeasonalRate `gorm:"type:jsonb;serializer:json" json:"seasonal_rates"`

	// Availability
	BlockedDates     []string                `gorm:"type:jsonb;serializer:json" json:"blocked_dates"`
	WeeklyClosures   []int                   `gorm:"type:jsonb;serializer:json" json:"weekly_closures"`
	QuantityPeriods  []rental.QuantityPeriod `gorm:"type:jsonb;serializer:json" json:"quantity_periods"`
	MaintenanceNotes string                  `gorm:"type:text" json:"maintenance_notes"`

	// Add-ons
	Services  []ExtraService    `gorm:"type:jsonb;serializer:json" json:"services"`
	Insurance []InsuranceOption `gorm:"type:jsonb;serializer:json" json:"insurance"`

	// Rental settings
	MinRentalDays      int             `json:"min_rental_days"`
	MaxRentalDays      int             `json:"max_rental_days"` // 0 = no upper bound
	SecurityDeposit    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"security_deposit"`
	CancellationPolicy string          `gorm:"type:text" json:"cancellation_policy"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// AvailabilityRules returns the engine snapshot of this vehicle's
// availability configuration.
func (v *Vehicle) AvailabilityRules() rental.AvailabilityRules {
	return rental.AvailabilityRules{
		BlockedDates:     v.BlockedDates,
		WeeklyClosures:   v.WeeklyClosures,
		QuantityPeriods:  v.QuantityPeriods,
		MaintenanceNotes: v.MaintenanceNotes,
	}
}

// RateRules returns the engine snapshot of this vehicle's pricing
// configuration.
func (v *Vehicle) RateRules() rental.RateRules {
	return rental.RateRules{
		BaseDailyRate: v.BaseDailyRate,
		SeasonalRates: v.SeasonalRates,
	}
}

var vehicleTypeLabels = map[string]string{
	VehicleTypeCar:     "Car",
	VehicleTypeScooter: "Scooter",
	VehicleTypeVan:     "Van",
	VehicleTypeSUV:     "SUV",
	VehicleTypeTruck:   "Truck",
}

var fuelTypeLabels = map[string]string{
	"petrol":   "Petrol",
	"diesel":   "Diesel",
	"hybrid":   "Hybrid",
	"electric": "Electric",
	"lpg":      "LPG",
}

var transmissionLabels = map[string]string{
	"manual":         "Manual",
	"automatic":      "Automatic",
	"semi-automatic": "Semi-automatic",
}

// VehicleTypeLabel returns the display label for a vehicle type key,
// falling back to the key itself for unknown values.
func VehicleTypeLabel(key string) string {
	if label, ok := vehicleTypeLabels[key]; ok {
		return label
	}
	return key
}

// FuelTypeLabel returns the display label for a fuel type key.
func FuelTypeLabel(key string) string {
	if label, ok := fuelTypeLabels[key]; ok {
		return label
	}
	return key
}

// TransmissionLabel returns the display label for a transmission key.
func TransmissionLabel(key string) string {
	if label, ok := transmissionLabels[key]; ok {
		return label
	}
	return key
}
