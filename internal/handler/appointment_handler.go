package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"clinicbook/internal/errors"
	"clinicbook/internal/model"
	"clinicbook/internal/repository"
	"clinicbook/internal/service"
)

// AppointmentHandler handles appointment endpoints.
type AppointmentHandler struct {
	bookingService     service.BookingService
	appointmentService service.AppointmentService
}

// NewAppointmentHandler creates a new appointment handler.
func NewAppointmentHandler(bookingService service.BookingService, appointmentService service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{
		bookingService:     bookingService,
		appointmentService: appointmentService,
	}
}

// BookAppointmentRequest represents a booking request.
type BookAppointmentRequest struct {
	PatientName  string `json:"patientName" validate:"required"`
	PatientEmail string `json:"patientEmail" validate:"omitempty,email"`
	PatientPhone string `json:"patientPhone"`
	ProviderRole string `json:"providerRole" validate:"required,oneof=DENTIST PHYSICIAN"`
	ProviderName string `json:"providerName"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	Time         string `json:"time" validate:"required,datetime=15:04"`
	Notes        string `json:"notes"`
}

// Book godoc
// @Summary Book an appointment
// @Tags appointments
// @Accept json
// @Produce json
// @Param request body BookAppointmentRequest true "Booking data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /appointments [post]
func (h *AppointmentHandler) Book(c echo.Context) error {
	var req BookAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: "invalid request body",
			Code:    "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: err.Error(),
			Code:    "VALIDATION_ERROR",
		})
	}

	appt, err := h.bookingService.Book(c.Request().Context(), &service.BookingRequest{
		PatientName:  req.PatientName,
		PatientEmail: req.PatientEmail,
		PatientPhone: req.PatientPhone,
		ProviderRole: req.ProviderRole,
		ProviderName: req.ProviderName,
		Date:         req.Date,
		Time:         req.Time,
		Notes:        req.Notes,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, echo.Map{"appointment": appt})
}

// List godoc
// @Summary List appointments
// @Tags appointments
// @Produce json
// @Param role query string false "Viewer role"
// @Param name query string false "Viewer name (with role=CLIENT)"
// @Param providerRole query string false "Provider role filter"
// @Param providerName query string false "Provider name filter"
// @Success 200 {object} map[string]interface{}
// @Router /appointments [get]
func (h *AppointmentHandler) List(c echo.Context) error {
	filter := repository.AppointmentFilter{
		Role:         model.Role(c.QueryParam("role")),
		Name:         c.QueryParam("name"),
		ProviderRole: model.Role(c.QueryParam("providerRole")),
		ProviderName: c.QueryParam("providerName"),
	}

	appts, err := h.appointmentService.List(c.Request().Context(), filter)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, echo.Map{"appointments": appts})
}

// Get godoc
// @Summary Get an appointment by id
// @Tags appointments
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) Get(c echo.Context) error {
	appt, err := h.appointmentService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, echo.Map{"appointment": appt})
}

// Update godoc
// @Summary Update an appointment
// @Tags appointments
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body service.AppointmentPatch true "Partial update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /appointments/{id} [put]
func (h *AppointmentHandler) Update(c echo.Context) error {
	var patch service.AppointmentPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: "invalid request body",
			Code:    "INVALID_REQUEST",
		})
	}

	appt, err := h.appointmentService.Update(c.Request().Context(), c.Param("id"), &patch)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, echo.Map{"appointment": appt})
}

// Delete godoc
// @Summary Delete an appointment
// @Tags appointments
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /appointments/{id} [delete]
func (h *AppointmentHandler) Delete(c echo.Context) error {
	if err := h.appointmentService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "appointment deleted"})
}
