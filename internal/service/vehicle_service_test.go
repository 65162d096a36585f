package service

import (
	"context"
	"testing"

	"rentalfleet/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateVehicleAppliesSections(t *testing.T) {
	vehicles := newFakeVehicleRepo()
	audits := &fakeAuditRepo{}
	svc := NewVehicleService(vehicles, audits)

	resp, err := svc.CreateVehicle(context.Background(), CreateVehicleRequest{
		Name: "Vespa Primavera",
		Details: &VehicleDetailsPayload{
			VehicleType:   model.VehicleTypeScooter,
			Seats:         2,
			FuelType:      "petrol",
			Transmission:  "automatic",
			FleetQuantity: 4,
		},
		Rates: &VehicleRatesPayload{
			BaseDailyRate: "35.50",
			SeasonalRates: []SeasonalRatePayload{
				{Name: "Summer", StartDate: "2025-06-01", EndDate: "2025-08-31", Rate: "45", Priority: 10},
			},
		},
		Settings: &VehicleSettingsPayload{
			MinRentalDays:   1,
			MaxRentalDays:   14,
			SecurityDeposit: "100",
		},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "Vespa Primavera", resp.Name)
	assert.Equal(t, "Scooter", resp.Details.VehicleTypeLabel)
	assert.Equal(t, "35.50", resp.Rates.BaseDailyRate)
	require.Len(t, resp.Rates.SeasonalRates, 1)
	assert.Equal(t, "100.00", resp.Settings.SecurityDeposit)

	require.Len(t, audits.entries, 1)
	assert.Equal(t, model.ActionCreateVehicle, audits.entries[0].Action)
}

func TestCreateVehicleRejectsBadDecimal(t *testing.T) {
	svc := NewVehicleService(newFakeVehicleRepo(), &fakeAuditRepo{})

	_, err := svc.CreateVehicle(context.Background(), CreateVehicleRequest{
		Name:  "Broken",
		Rates: &VehicleRatesPayload{BaseDailyRate: "fifty"},
	}, "")
	assert.Error(t, err)
}

func TestUpdateVehicleLeavesOmittedSectionsUntouched(t *testing.T) {
	vehicle := testVehicle("50")
	vehicle.BlockedDates = []string{"2025-12-25"}
	vehicles := newFakeVehicleRepo(vehicle)
	svc := NewVehicleService(vehicles, &fakeAuditRepo{})

	resp, err := svc.UpdateVehicle(context.Background(), vehicle.ID.String(), UpdateVehicleRequest{
		Rates: &VehicleRatesPayload{BaseDailyRate: "60"},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "60.00", resp.Rates.BaseDailyRate)
	assert.Equal(t, []string{"2025-12-25"}, resp.Availability.BlockedDates)
}

func TestDeleteVehicleNotFound(t *testing.T) {
	svc := NewVehicleService(newFakeVehicleRepo(), &fakeAuditRepo{})

	err := svc.DeleteVehicle(context.Background(), "00000000-0000-0000-0000-000000000001", "")
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestNormalizeSeasonalRates(t *testing.T) {
	rates, err := NormalizeSeasonalRates([]SeasonalRatePayload{
		{Name: "Summer", StartDate: "2025-06-01", EndDate: "2025-08-31", Rate: "75", Priority: 10},
		{Name: "", StartDate: "2025-01-01", EndDate: "2025-01-31", Rate: "20"}, // nameless, dropped
		{Name: "Odd", Priority: -5, Rate: "30"},                               // negative priority clamped
	})
	require.NoError(t, err)

	require.Len(t, rates, 2)
	assert.Equal(t, "Summer", rates[0].Name)
	assert.Equal(t, 0, rates[1].Priority)
}

func TestNormalizeSeasonalRatesBadRate(t *testing.T) {
	_, err := NormalizeSeasonalRates([]SeasonalRatePayload{
		{Name: "Summer", Rate: "seventy-five"},
	})
	assert.Error(t, err)
}

func TestNormalizeQuantityPeriods(t *testing.T) {
	periods := NormalizeQuantityPeriods([]QuantityPeriodPayload{
		{StartDate: "2025-06-01", EndDate: "2025-08-31", Quantity: 3},
		{StartDate: "", EndDate: "2025-08-31", Quantity: 2}, // no start, dropped
		{StartDate: "2025-09-01", Quantity: -1},             // clamped to zero
	})

	require.Len(t, periods, 2)
	assert.Equal(t, 3, periods[0].Quantity)
	assert.Equal(t, 0, periods[1].Quantity)
}

func TestNormalizeBlockedDates(t *testing.T) {
	dates := NormalizeBlockedDates([]string{
		"2025-12-25",
		"2025-12-25",   // duplicate
		"25/12/2025",   // malformed
		"not-a-date",   // malformed
		"2026-01-01",
	})

	assert.Equal(t, []string{"2025-12-25", "2026-01-01"}, dates)
}

func TestNormalizeWeeklyClosures(t *testing.T) {
	days := NormalizeWeeklyClosures([]int{0, 6, 7, -1, 0})
	assert.Equal(t, []int{0, 6}, days)
}
