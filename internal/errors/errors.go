package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrProviderNotFound is returned when no provider matches the requested name and role.
	ErrProviderNotFound = errors.New("provider not found")
	// ErrAppointmentNotFound is returned when an appointment id does not exist.
	ErrAppointmentNotFound = errors.New("appointment not found")
	// ErrSlotConflict is returned when the provider already has a commitment in the requested slot.
	ErrSlotConflict = errors.New("provider is unavailable at the requested time, please choose another slot")
	// ErrUsernameTaken is returned when signing up with an existing username.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidCredentials is returned when login fails.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrMissingField is returned when a required request field is empty.
	ErrMissingField = errors.New("required fields are missing")
	// ErrInvalidRole is returned when a role value is not part of the role enum.
	ErrInvalidRole = errors.New("invalid role")
	// ErrInvalidSlot is returned when date or time cannot be parsed.
	ErrInvalidSlot = errors.New("invalid appointment date or time")
	// ErrInvalidStatus is returned when a status value is not part of the status enum.
	ErrInvalidStatus = errors.New("unknown appointment status")
	// ErrIllegalTransition is returned when a status change is not in the transition table.
	ErrIllegalTransition = errors.New("status transition not allowed")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrProviderNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PROVIDER_NOT_FOUND")
	case errors.Is(err, ErrAppointmentNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "APPOINTMENT_NOT_FOUND")
	case errors.Is(err, ErrSlotConflict):
		return NewHTTPError(http.StatusConflict, err.Error(), "SLOT_CONFLICT")
	case errors.Is(err, ErrUsernameTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "USERNAME_TAKEN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrMissingField):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "MISSING_FIELD")
	case errors.Is(err, ErrInvalidRole):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ROLE")
	case errors.Is(err, ErrInvalidSlot):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_SLOT")
	case errors.Is(err, ErrInvalidStatus):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_STATUS")
	case errors.Is(err, ErrIllegalTransition):
		return NewHTTPError(http.StatusConflict, err.Error(), "ILLEGAL_TRANSITION")
	case errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_REFRESH_TOKEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
