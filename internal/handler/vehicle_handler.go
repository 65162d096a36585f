package handler

import (
	"net/http"

	"rentalfleet/internal/middleware"
	"rentalfleet/internal/model"
	"rentalfleet/internal/service"
	"rentalfleet/pkg/pagination"
	"rentalfleet/pkg/response"

	"github.com/gin-gonic/gin"
)

type VehicleHandler struct {
	vehicleService      service.VehicleService
	availabilityService service.AvailabilityService
}

func NewVehicleHandler(vehicleService service.VehicleService, availabilityService service.AvailabilityService) *VehicleHandler {
	return &VehicleHandler{
		vehicleService:      vehicleService,
		availabilityService: availabilityService,
	}
}

func (h *VehicleHandler) RegisterRoutes(router *gin.RouterGroup) {
	vehicles := router.Group("/api/vehicles")
	{
		vehicles.GET("", h.ListVehicles)
		vehicles.GET("/:id", h.GetVehicle)
		vehicles.GET("/:id/availability", h.GetAvailability)
		vehicles.GET("/:id/quote", h.GetQuote)
	}

	admin := router.Group("/api/vehicles")
	admin.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManager))
	{
		admin.POST("", h.CreateVehicle)
		admin.PUT("/:id", h.UpdateVehicle)
		admin.DELETE("/:id", h.DeleteVehicle)
	}
}

// @Summary      List vehicles
// @Description  Retrieves a paginated list of rental vehicles, optionally filtered by type
// @Tags         vehicles
// @Produce      json
// @Param        type   query     string  false  "Vehicle type (car, scooter, van, suv, truck)"
// @Param        page   query     int     false  "Page number"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  response.Response
// @Router       /api/vehicles [get]
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	params := pagination.Parse(c)

	vehicles, total, err := h.vehicleService.ListVehicles(c.Request.Context(), c.Query("type"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"items": vehicles,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}

// @Summary      Get vehicle
// @Description  Retrieves one vehicle with its rates, availability rules and add-ons
// @Tags         vehicles
// @Produce      json
// @Param        id   path      string  true  "Vehicle ID"
// @Success      200  {object}  response.Response{data=service.VehicleResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/vehicles/{id} [get]
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	vehicle, err := h.vehicleService.GetVehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, vehicle))
}

// @Summary      Check availability
// @Description  Reports whether the vehicle can be booked for an inclusive date range; includes the total price when available
// @Tags         vehicles
// @Produce      json
// @Param        id          path      string  true  "Vehicle ID"
// @Param        start_date  query     string  true  "Start date (YYYY-MM-DD)"
// @Param        end_date    query     string  true  "End date (YYYY-MM-DD)"
// @Success      200  {object}  response.Response{data=service.AvailabilityResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/vehicles/{id}/availability [get]
func (h *VehicleHandler) GetAvailability(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	if startDate == "" || endDate == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "start_date and end_date are required"))
		return
	}

	result, err := h.availabilityService.CheckAvailability(c.Request.Context(), c.Param("id"), startDate, endDate)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// @Summary      Quote rental price
// @Description  Computes the total price for an inclusive date range from the vehicle's base and seasonal rates
// @Tags         vehicles
// @Produce      json
// @Param        id          path      string  true  "Vehicle ID"
// @Param        start_date  query     string  true  "Start date (YYYY-MM-DD)"
// @Param        end_date    query     string  true  "End date (YYYY-MM-DD)"
// @Success      200  {object}  response.Response{data=service.QuoteResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/vehicles/{id}/quote [get]
func (h *VehicleHandler) GetQuote(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	if startDate == "" || endDate == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "start_date and end_date are required"))
		return
	}

	result, err := h.availabilityService.QuotePrice(c.Request.Context(), c.Param("id"), startDate, endDate)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// @Summary      Create vehicle
// @Description  Creates a rental vehicle with details, rates, availability rules, add-ons and settings
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateVehicleRequest  true  "Vehicle payload"
// @Success      201      {object}  response.Response{data=service.VehicleResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/vehicles [post]
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var req service.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	vehicle, err := h.vehicleService.CreateVehicle(c.Request.Context(), req, c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, vehicle))
}

// @Summary      Update vehicle
// @Description  Updates the provided sections of a vehicle; omitted sections are left unchanged
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Vehicle ID"
// @Param        payload  body      service.UpdateVehicleRequest  true  "Vehicle payload"
// @Success      200      {object}  response.Response{data=service.VehicleResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/vehicles/{id} [put]
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	var req service.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	vehicle, err := h.vehicleService.UpdateVehicle(c.Request.Context(), c.Param("id"), req, c.GetString("userID"))
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, vehicle))
}

// @Summary      Delete vehicle
// @Description  Soft-deletes a vehicle; existing bookings are kept
// @Tags         vehicles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Vehicle ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/vehicles/{id} [delete]
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	if err := h.vehicleService.DeleteVehicle(c.Request.Context(), c.Param("id"), c.GetString("userID")); err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
