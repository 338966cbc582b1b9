// Package calendar talks to the clinic's external calendar service. Bookings
// use it both as the availability check before persisting and as a
// best-effort event sink afterwards.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"clinicbook/internal/model"
)

const requestTimeout = 5 * time.Second

// Service is the calendar contract the booking workflow depends on.
type Service interface {
	// IsBusy reports whether the shared clinic calendar has a conflicting
	// commitment in [start, end). Errors are folded into the answer: an
	// unreachable calendar reads as busy (fail closed), an unconfigured one
	// as free.
	IsBusy(ctx context.Context, start, end time.Time) bool
	// CreateEvent inserts an event for the appointment and returns the
	// event id. A blank id with nil error means the client is not
	// configured and the insert was skipped.
	CreateEvent(ctx context.Context, appt *model.Appointment) (string, error)
}

// Client implements Service against an HTTP calendar API.
type Client struct {
	http       *http.Client
	baseURL    string
	calendarID string
	apiKey     string
	timeZone   string
	log        zerolog.Logger
}

// NewClient creates a calendar client. baseURL or calendarID may be empty, in
// which case the client reports every slot as free and skips event inserts.
func NewClient(baseURL, calendarID, apiKey, timeZone string, log zerolog.Logger) *Client {
	return &Client{
		http:       &http.Client{Timeout: requestTimeout},
		baseURL:    baseURL,
		calendarID: calendarID,
		apiKey:     apiKey,
		timeZone:   timeZone,
		log:        log,
	}
}

// Configured reports whether the client can reach a calendar at all.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.calendarID != ""
}

type freeBusyRequest struct {
	TimeMin  string             `json:"timeMin"`
	TimeMax  string             `json:"timeMax"`
	TimeZone string             `json:"timeZone"`
	Items    []freeBusyCalendar `json:"items"`
}

type freeBusyCalendar struct {
	ID string `json:"id"`
}

type freeBusyResponse struct {
	Calendars map[string]struct {
		Busy []struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"busy"`
	} `json:"calendars"`
}

// IsBusy queries the calendar free/busy endpoint for the interval.
func (c *Client) IsBusy(ctx context.Context, start, end time.Time) bool {
	if !c.Configured() {
		// No calendar to consult: degrade to uncoordinated booking.
		return false
	}

	body := freeBusyRequest{
		TimeMin:  start.Format(time.RFC3339),
		TimeMax:  end.Format(time.RFC3339),
		TimeZone: c.timeZone,
		Items:    []freeBusyCalendar{{ID: c.calendarID}},
	}

	var resp freeBusyResponse
	if err := c.post(ctx, "/freeBusy", body, &resp); err != nil {
		c.log.Warn().Err(err).Msg("calendar free/busy check failed, treating slot as busy")
		return true
	}

	cal, ok := resp.Calendars[c.calendarID]
	if !ok {
		c.log.Warn().Str("calendar_id", c.calendarID).Msg("calendar missing from free/busy response, treating slot as busy")
		return true
	}
	return len(cal.Busy) > 0
}

type eventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type eventRequest struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Start       eventTime `json:"start"`
	End         eventTime `json:"end"`
}

type eventResponse struct {
	ID       string `json:"id"`
	HTMLLink string `json:"htmlLink"`
}

// CreateEvent inserts a 30-minute event for the appointment.
func (c *Client) CreateEvent(ctx context.Context, appt *model.Appointment) (string, error) {
	if !c.Configured() {
		return "", nil
	}

	loc, err := time.LoadLocation(c.timeZone)
	if err != nil {
		loc = time.UTC
	}
	start, end, err := appt.Slot(loc)
	if err != nil {
		return "", err
	}

	notes := appt.Notes
	if notes == "" {
		notes = "None"
	}
	body := eventRequest{
		Summary: fmt.Sprintf("%s Appt: %s", appt.ProviderRole, appt.PatientName),
		Description: fmt.Sprintf("Booked via clinic appointment system.\nPatient Email: %s\nPatient Phone: %s\nNotes: %s",
			appt.PatientEmail, appt.PatientPhone, notes),
		Start: eventTime{DateTime: start.Format(time.RFC3339), TimeZone: c.timeZone},
		End:   eventTime{DateTime: end.Format(time.RFC3339), TimeZone: c.timeZone},
	}

	var resp eventResponse
	if err := c.post(ctx, "/calendars/"+c.calendarID+"/events", body, &resp); err != nil {
		return "", fmt.Errorf("insert calendar event: %w", err)
	}
	return resp.ID, nil
}

func (c *Client) post(ctx context.Context, path string, body, dest any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calendar request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("calendar service returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
