package handler

import (
	"errors"
	"net/http"

	"rentalfleet/internal/service"
)

// statusForError maps service sentinel errors to HTTP statuses; anything
// unexpected is a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrVehicleNotFound), errors.Is(err, service.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidDateRange):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrVehicleUnavailable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
