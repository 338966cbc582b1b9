package handler

import (
	"net/http"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"clinicbook/internal/errors"
	"clinicbook/internal/model"
	"clinicbook/internal/service"
)

// AdminHandler serves the JWT-guarded admin dashboard endpoints.
type AdminHandler struct {
	statsService service.StatsService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(statsService service.StatsService) *AdminHandler {
	return &AdminHandler{statsService: statsService}
}

// requireAdmin checks the ADMIN role claim on the JWT echo-jwt stored in the
// context.
func requireAdmin(c echo.Context) error {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Message: "invalid token",
			Code:    "INVALID_TOKEN",
		})
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["role"] != string(model.RoleAdmin) {
		return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
			Message: "admin role required",
			Code:    "FORBIDDEN",
		})
	}
	return nil
}

// Stats godoc
// @Summary Appointment statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.AdminStats
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	stats, err := h.statsService.AppointmentStats(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, stats)
}

// Notifications godoc
// @Summary Recent notification delivery log
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries to return"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/notifications [get]
func (h *AdminHandler) Notifications(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	entries, err := h.statsService.RecentNotifications(c.Request().Context(), limit)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, echo.Map{"notifications": entries})
}
