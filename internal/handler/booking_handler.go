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

type BookingHandler struct {
	bookingService service.BookingService
}

func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

func (h *BookingHandler) RegisterRoutes(router *gin.RouterGroup) {
	bookings := router.Group("/api/bookings")
	{
		// Customers create bookings without an account.
		bookings.POST("", h.CreateBooking)
	}

	staff := router.Group("/api/bookings")
	staff.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff))
	{
		staff.GET("", h.ListBookings)
		staff.GET("/:id", h.GetBooking)
	}

	admin := router.Group("/api/bookings")
	admin.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManager))
	{
		admin.PUT("/:id", h.UpdateBooking)
		admin.DELETE("/:id", h.CancelBooking)
	}
}

// @Summary      Create booking
// @Description  Books a vehicle for an inclusive date range. Availability check, pricing and insert run in one transaction.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateBookingRequest  true  "Booking payload"
// @Success      201      {object}  response.Response{data=service.BookingResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req service.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), req, c.GetString("userID"))
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, booking))
}

// @Summary      List bookings
// @Description  Retrieves a paginated list of bookings, optionally filtered by vehicle and status
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        vehicle_id  query     string  false  "Vehicle ID"
// @Param        status      query     string  false  "Booking status (held, confirmed, completed, cancelled)"
// @Param        page        query     int     false  "Page number"
// @Param        limit       query     int     false  "Page size"
// @Success      200  {object}  response.Response
// @Router       /api/bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	params := pagination.Parse(c)

	bookings, total, err := h.bookingService.ListBookings(c.Request.Context(), c.Query("vehicle_id"), c.Query("status"), params.Page, params.Limit)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"items": bookings,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}

// @Summary      Get booking
// @Description  Retrieves one booking with its vehicle reference
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  response.Response{data=service.BookingResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, booking))
}

// @Summary      Update booking
// @Description  Updates a booking's status (held, confirmed, completed, cancelled)
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Booking ID"
// @Param        payload  body      service.UpdateBookingRequest  true  "Status payload"
// @Success      200      {object}  response.Response{data=service.BookingResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/bookings/{id} [put]
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	var req service.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	booking, err := h.bookingService.UpdateBooking(c.Request.Context(), c.Param("id"), req, c.GetString("userID"))
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, booking))
}

// @Summary      Cancel booking
// @Description  Marks a booking cancelled, releasing its reserved units. Records are never hard-deleted.
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  response.Response{data=service.BookingResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/bookings/{id} [delete]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	booking, err := h.bookingService.CancelBooking(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, booking))
}
