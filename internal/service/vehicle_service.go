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

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---
//
// The payload mirrors the admin panel sections: details, rates,
// availability, services, insurance, settings. On updates a nil section
// leaves the stored values untouched.

type VehicleDetailsPayload struct {
	VehicleType       string `json:"vehicle_type" binding:"omitempty,oneof=car scooter van suv truck"`
	Seats             int    `json:"seats" binding:"omitempty,min=0"`
	FuelType          string `json:"fuel_type"`
	Transmission      string `json:"transmission"`
	FleetQuantity     int    `json:"fleet_quantity" binding:"omitempty,min=0"`
	AdditionalDetails string `json:"additional_details"`
}

type SeasonalRatePayload struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Rate      string `json:"rate"` // decimal string, e.g. "75.00"
	Priority  int    `json:"priority"`
	Recurring bool   `json:"recurring"`
}

type VehicleRatesPayload struct {
	BaseDailyRate string                `json:"base_daily_rate"`
	SeasonalRates []SeasonalRatePayload `json:"seasonal_rates"`
}

type QuantityPeriodPayload struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Quantity  int    `json:"quantity"`
}

type VehicleAvailabilityPayload struct {
	BlockedDates     []string                `json:"blocked_dates"`
	WeeklyClosures   []int                   `json:"weekly_closures"`
	QuantityPeriods  []QuantityPeriodPayload `json:"quantity_periods"`
	MaintenanceNotes string                  `json:"maintenance_notes"`
}

type ExtraServicePayload struct {
	Name        string `json:"name"`
	PriceType   string `json:"price_type" binding:"omitempty,oneof=flat daily"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
}

type InsuranceOptionPayload struct {
	Name        string `json:"name"`
	CostType    string `json:"cost_type" binding:"omitempty,oneof=flat daily"`
	Cost        string `json:"cost"`
	Deductible  string `json:"deductible"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
}

type VehicleSettingsPayload struct {
	MinRentalDays      int    `json:"min_rental_days" binding:"omitempty,min=0"`
	MaxRentalDays      int    `json:"max_rental_days" binding:"omitempty,min=0"`
	SecurityDeposit    string `json:"security_deposit"`
	CancellationPolicy string `json:"cancellation_policy"`
}

type CreateVehicleRequest struct {
	Name         string                      `json:"name" binding:"required"`
	Details      *VehicleDetailsPayload      `json:"details"`
	Rates        *VehicleRatesPayload        `json:"rates"`
	Availability *VehicleAvailabilityPayload `json:"availability"`
	Services     []ExtraServicePayload       `json:"services"`
	Insurance    []InsuranceOptionPayload    `json:"insurance"`
	Settings     *VehicleSettingsPayload     `json:"settings"`
}

type UpdateVehicleRequest struct {
	Name         string                      `json:"name"`
	Details      *VehicleDetailsPayload      `json:"details"`
	Rates        *VehicleRatesPayload        `json:"rates"`
	Availability *VehicleAvailabilityPayload `json:"availability"`
	Services     []ExtraServicePayload       `json:"services"`
	Insurance    []InsuranceOptionPayload    `json:"insurance"`
	Settings     *VehicleSettingsPayload     `json:"settings"`
}

type VehicleDetailsResponse struct {
	VehicleType       string `json:"vehicle_type"`
	VehicleTypeLabel  string `json:"vehicle_type_label"`
	Seats             int    `json:"seats"`
	FuelType          string `json:"fuel_type"`
	FuelTypeLabel     string `json:"fuel_type_label"`
	Transmission      string `json:"transmission"`
	TransmissionLabel string `json:"transmission_label"`
	FleetQuantity     int    `json:"fleet_quantity"`
	AdditionalDetails string `json:"additional_details"`
}

type VehicleRatesResponse struct {
	BaseDailyRate string                `json:"base_daily_rate"`
	SeasonalRates []rental.SeasonalRate `json:"seasonal_rates"`
}

type VehicleSettingsResponse struct {
	MinRentalDays      int    `json:"min_rental_days"`
	MaxRentalDays      int    `json:"max_rental_days"`
	SecurityDeposit    string `json:"security_deposit"`
	CancellationPolicy string `json:"cancellation_policy"`
}

type VehicleResponse struct {
	ID           string                     `json:"id"`
	Name         string                     `json:"name"`
	Details      VehicleDetailsResponse     `json:"details"`
	Rates        VehicleRatesResponse       `json:"rates"`
	Availability VehicleAvailabilityPayload `json:"availability"`
	Services     []model.ExtraService       `json:"services"`
	Insurance    []model.InsuranceOption    `json:"insurance"`
	Settings     VehicleSettingsResponse    `json:"settings"`
	CreatedAt    string                     `json:"created_at"`
	UpdatedAt    string                     `json:"updated_at"`
}

// --- Interface ---

type VehicleService interface {
	CreateVehicle(ctx context.Context, req CreateVehicleRequest, userID string) (*VehicleResponse, error)
	UpdateVehicle(ctx context.Context, id string, req UpdateVehicleRequest, userID string) (*VehicleResponse, error)
	DeleteVehicle(ctx context.Context, id string, userID string) error
	GetVehicle(ctx context.Context, id string) (*VehicleResponse, error)
	ListVehicles(ctx context.Context, vehicleType string, page, limit int) ([]VehicleResponse, int64, error)
}

type vehicleService struct {
	vehicles repository.VehicleRepository
	audits   repository.AuditRepository
}

func NewVehicleService(vehicles repository.VehicleRepository, audits repository.AuditRepository) VehicleService {
	return &vehicleService{vehicles: vehicles, audits: audits}
}

// --- Implementation ---

func (s *vehicleService) CreateVehicle(ctx context.Context, req CreateVehicleRequest, userID string) (*VehicleResponse, error) {
	vehicle := &model.Vehicle{
		Name:            req.Name,
		VehicleType:     model.VehicleTypeCar,
		BaseDailyRate:   decimal.Zero,
		SecurityDeposit: decimal.Zero,
	}

	if err := applyVehiclePayload(vehicle, req.Details, req.Rates, req.Availability, req.Services, req.Insurance, req.Settings); err != nil {
		return nil, err
	}

	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	s.writeAuditLog(ctx, userID, model.ActionCreateVehicle, vehicle.ID.String(), vehicle.Name, req)

	return toVehicleResponse(vehicle), nil
}

func (s *vehicleService) UpdateVehicle(ctx context.Context, id string, req UpdateVehicleRequest, userID string) (*VehicleResponse, error) {
	vehicle, err := s.findVehicle(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		vehicle.Name = req.Name
	}
	if err := applyVehiclePayload(vehicle, req.Details, req.Rates, req.Availability, req.Services, req.Insurance, req.Settings); err != nil {
		return nil, err
	}

	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("failed to update vehicle: %w", err)
	}

	s.writeAuditLog(ctx, userID, model.ActionUpdateVehicle, vehicle.ID.String(), vehicle.Name, req)

	return toVehicleResponse(vehicle), nil
}

func (s *vehicleService) DeleteVehicle(ctx context.Context, id string, userID string) error {
	vehicle, err := s.findVehicle(ctx, id)
	if err != nil {
		return err
	}

	if err := s.vehicles.Delete(ctx, vehicle.ID); err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	s.writeAuditLog(ctx, userID, model.ActionDeleteVehicle, vehicle.ID.String(), vehicle.Name, map[string]string{"deleted_id": id})

	return nil
}

func (s *vehicleService) GetVehicle(ctx context.Context, id string) (*VehicleResponse, error) {
	vehicle, err := s.findVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	return toVehicleResponse(vehicle), nil
}

func (s *vehicleService) ListVehicles(ctx context.Context, vehicleType string, page, limit int) ([]VehicleResponse, int64, error) {
	vehicles, total, err := s.vehicles.List(ctx, vehicleType, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list vehicles: %w", err)
	}

	res := make([]VehicleResponse, 0, len(vehicles))
	for i := range vehicles {
		res = append(res, *toVehicleResponse(&vehicles[i]))
	}
	return res, total, nil
}

// --- Helpers ---

func (s *vehicleService) findVehicle(ctx context.Context, id string) (*model.Vehicle, error) {
	vehicleID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid vehicle id", ErrVehicleNotFound)
	}
	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to fetch vehicle: %w", err)
	}
	return vehicle, nil
}

func applyVehiclePayload(vehicle *model.Vehicle, details *VehicleDetailsPayload, rates *VehicleRatesPayload, availability *VehicleAvailabilityPayload, services []ExtraServicePayload, insurance []InsuranceOptionPayload, settings *VehicleSettingsPayload) error {
	if details != nil {
		if details.VehicleType != "" {
			vehicle.VehicleType = details.VehicleType
		}
		vehicle.Seats = details.Seats
		vehicle.FuelType = details.FuelType
		vehicle.Transmission = details.Transmission
		vehicle.FleetQuantity = details.FleetQuantity
		vehicle.AdditionalDetails = details.AdditionalDetails
	}

	if rates != nil {
		if rates.BaseDailyRate != "" {
			base, err := decimal.NewFromString(rates.BaseDailyRate)
			if err != nil {
				return fmt.Errorf("invalid base_daily_rate: %w", err)
			}
			vehicle.BaseDailyRate = base
		}
		normalized, err := NormalizeSeasonalRates(rates.SeasonalRates)
		if err != nil {
			return err
		}
		vehicle.SeasonalRates = normalized
	}

	if availability != nil {
		vehicle.BlockedDates = NormalizeBlockedDates(availability.BlockedDates)
		vehicle.WeeklyClosures = NormalizeWeeklyClosures(availability.WeeklyClosures)
		vehicle.QuantityPeriods = NormalizeQuantityPeriods(availability.QuantityPeriods)
		vehicle.MaintenanceNotes = availability.MaintenanceNotes
	}

	if services != nil {
		normalized, err := normalizeServices(services)
		if err != nil {
			return err
		}
		vehicle.Services = normalized
	}

	if insurance != nil {
		normalized, err := normalizeInsurance(insurance)
		if err != nil {
			return err
		}
		vehicle.Insurance = normalized
	}

	if settings != nil {
		vehicle.MinRentalDays = settings.MinRentalDays
		vehicle.MaxRentalDays = settings.MaxRentalDays
		if settings.SecurityDeposit != "" {
			deposit, err := decimal.NewFromString(settings.SecurityDeposit)
			if err != nil {
				return fmt.Errorf("invalid security_deposit: %w", err)
			}
			vehicle.SecurityDeposit = deposit
		}
		vehicle.CancellationPolicy = settings.CancellationPolicy
	}

	return nil
}

// NormalizeSeasonalRates drops entries without a name, parses rate
// decimals and clamps negative priorities to zero. Entries with missing
// dates are kept: the engine skips them at evaluation time.
func NormalizeSeasonalRates(payload []SeasonalRatePayload) ([]rental.SeasonalRate, error) {
	normalized := make([]rental.SeasonalRate, 0, len(payload))
	for _, p := range payload {
		if p.Name == "" {
			continue
		}
		r := decimal.Zero
		if p.Rate != "" {
			parsed, err := decimal.NewFromString(p.Rate)
			if err != nil {
				return nil, fmt.Errorf("invalid seasonal rate %q: %w", p.Name, err)
			}
			r = parsed
		}
		priority := p.Priority
		if priority < 0 {
			priority = 0
		}
		normalized = append(normalized, rental.SeasonalRate{
			Name:      p.Name,
			StartDate: p.StartDate,
			EndDate:   p.EndDate,
			Rate:      r,
			Priority:  priority,
			Recurring: p.Recurring,
		})
	}
	return normalized, nil
}

// NormalizeQuantityPeriods drops entries without a start date and clamps
// negative quantities to zero.
func NormalizeQuantityPeriods(payload []QuantityPeriodPayload) []rental.QuantityPeriod {
	normalized := make([]rental.QuantityPeriod, 0, len(payload))
	for _, p := range payload {
		if p.StartDate == "" {
			continue
		}
		quantity := p.Quantity
		if quantity < 0 {
			quantity = 0
		}
		normalized = append(normalized, rental.QuantityPeriod{
			StartDate: p.StartDate,
			EndDate:   p.EndDate,
			Quantity:  quantity,
		})
	}
	return normalized
}

// NormalizeBlockedDates keeps only well-formed ISO dates, de-duplicated.
func NormalizeBlockedDates(dates []string) []string {
	seen := make(map[string]struct{}, len(dates))
	normalized := make([]string, 0, len(dates))
	for _, d := range dates {
		if _, err := rental.ParseDate(d); err != nil {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		normalized = append(normalized, d)
	}
	return normalized
}

// NormalizeWeeklyClosures keeps only weekday numbers 0-6, de-duplicated.
func NormalizeWeeklyClosures(days []int) []int {
	seen := make(map[int]struct{}, len(days))
	normalized := make([]int, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		normalized = append(normalized, d)
	}
	return normalized
}

func normalizeServices(payload []ExtraServicePayload) ([]model.ExtraService, error) {
	normalized := make([]model.ExtraService, 0, len(payload))
	for _, p := range payload {
		if p.Name == "" {
			continue
		}
		price, err := parseDecimalOrZero(p.Price)
		if err != nil {
			return nil, fmt.Errorf("invalid price for service %q: %w", p.Name, err)
		}
		priceType := p.PriceType
		if priceType == "" {
			priceType = "flat"
		}
		normalized = append(normalized, model.ExtraService{
			Name:        p.Name,
			PriceType:   priceType,
			Price:       price,
			Description: p.Description,
			Enabled:     p.Enabled,
		})
	}
	return normalized, nil
}

func normalizeInsurance(payload []InsuranceOptionPayload) ([]model.InsuranceOption, error) {
	normalized := make([]model.InsuranceOption, 0, len(payload))
	for _, p := range payload {
		if p.Name == "" {
			continue
		}
		cost, err := parseDecimalOrZero(p.Cost)
		if err != nil {
			return nil, fmt.Errorf("invalid cost for insurance %q: %w", p.Name, err)
		}
		deductible, err := parseDecimalOrZero(p.Deductible)
		if err != nil {
			return nil, fmt.Errorf("invalid deductible for insurance %q: %w", p.Name, err)
		}
		costType := p.CostType
		if costType == "" {
			costType = "daily"
		}
		normalized = append(normalized, model.InsuranceOption{
			Name:        p.Name,
			CostType:    costType,
			Cost:        cost,
			Deductible:  deductible,
			Description: p.Description,
			Enabled:     p.Enabled,
		})
	}
	return normalized, nil
}

func parseDecimalOrZero(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func toVehicleResponse(v *model.Vehicle) *VehicleResponse {
	periods := make([]QuantityPeriodPayload, 0, len(v.QuantityPeriods))
	for _, p := range v.QuantityPeriods {
		periods = append(periods, QuantityPeriodPayload{StartDate: p.StartDate, EndDate: p.EndDate, Quantity: p.Quantity})
	}

	return &VehicleResponse{
		ID:   v.ID.String(),
		Name: v.Name,
		Details: VehicleDetailsResponse{
			VehicleType:       v.VehicleType,
			VehicleTypeLabel:  model.VehicleTypeLabel(v.VehicleType),
			Seats:             v.Seats,
			FuelType:          v.FuelType,
			FuelTypeLabel:     model.FuelTypeLabel(v.FuelType),
			Transmission:      v.Transmission,
			TransmissionLabel: model.TransmissionLabel(v.Transmission),
			FleetQuantity:     v.FleetQuantity,
			AdditionalDetails: v.AdditionalDetails,
		},
		Rates: VehicleRatesResponse{
			BaseDailyRate: v.BaseDailyRate.StringFixed(2),
			SeasonalRates: v.SeasonalRates,
		},
		Availability: VehicleAvailabilityPayload{
			BlockedDates:     v.BlockedDates,
			WeeklyClosures:   v.WeeklyClosures,
			QuantityPeriods:  periods,
			MaintenanceNotes: v.MaintenanceNotes,
		},
		Services:  v.Services,
		Insurance: v.Insurance,
		Settings: VehicleSettingsResponse{
			MinRentalDays:      v.MinRentalDays,
			MaxRentalDays:      v.MaxRentalDays,
			SecurityDeposit:    v.SecurityDeposit.StringFixed(2),
			CancellationPolicy: v.CancellationPolicy,
		},
		CreatedAt: v.CreatedAt.Format(time.RFC3339),
		UpdatedAt: v.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *vehicleService) writeAuditLog(ctx context.Context, userID, action, entityID, entityName string, details interface{}) {
	writeAuditLog(ctx, s.audits, userID, action, entityID, entityName, details)
}

// writeAuditLog records an audit entry best-effort: a failed write must
// not fail the operation it describes.
func writeAuditLog(ctx context.Context, audits repository.AuditRepository, userID, action, entityID, entityName string, details interface{}) {
	detailsJSON, _ := json.Marshal(details)

	entry := &model.AuditLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(detailsJSON),
	}

	if userID != "" {
		if parsed, err := uuid.Parse(userID); err == nil {
			entry.UserID = &parsed
		}
	}

	_ = audits.Create(ctx, entry)
}
