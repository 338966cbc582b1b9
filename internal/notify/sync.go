package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"clinicbook/internal/model"
)

const syncRequestTimeout = 5 * time.Second

// RecordSync pushes appointment notifications into the external student
// record system so they show up on the student's dashboard.
type RecordSync interface {
	SendNotification(ctx context.Context, recipientEmail string, appt *model.Appointment, messageType, subject, body string) error
	SyncAppointment(ctx context.Context, recipientEmail string, appt *model.Appointment) error
}

// SIMSClient implements RecordSync against the SIMS HTTP API.
type SIMSClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// NewSIMSClient creates a record sync client.
func NewSIMSClient(baseURL, apiKey string) *SIMSClient {
	return &SIMSClient{
		http:    &http.Client{Timeout: syncRequestTimeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type syncNotificationPayload struct {
	RecipientEmail     string             `json:"recipient_email"`
	MessageType        string             `json:"message_type"`
	Subject            string             `json:"subject"`
	Body               string             `json:"body"`
	AppointmentID      string             `json:"appointment_id"`
	AppointmentDetails appointmentDetails `json:"appointment_details"`
	Timestamp          string             `json:"timestamp"`
}

type appointmentDetails struct {
	ProviderName string `json:"provider_name"`
	ProviderRole string `json:"provider_role"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Status       string `json:"status"`
}

// SendNotification posts a dashboard notification for the student.
func (c *SIMSClient) SendNotification(ctx context.Context, recipientEmail string, appt *model.Appointment, messageType, subject, body string) error {
	payload := syncNotificationPayload{
		RecipientEmail: recipientEmail,
		MessageType:    messageType,
		Subject:        subject,
		Body:           body,
		AppointmentID:  appt.ID,
		AppointmentDetails: appointmentDetails{
			ProviderName: appt.ProviderName,
			ProviderRole: string(appt.ProviderRole),
			Date:         appt.Date,
			Time:         appt.Time,
			Status:       string(appt.Status),
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	return c.post(ctx, "/notifications/send", payload)
}

type syncAppointmentPayload struct {
	StudentEmail string             `json:"student_email"`
	Appointment  syncAppointmentRow `json:"appointment"`
}

type syncAppointmentRow struct {
	ID           string `json:"id"`
	ProviderName string `json:"provider_name"`
	ProviderRole string `json:"provider_role"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

// SyncAppointment mirrors the appointment onto the student record.
func (c *SIMSClient) SyncAppointment(ctx context.Context, recipientEmail string, appt *model.Appointment) error {
	payload := syncAppointmentPayload{
		StudentEmail: recipientEmail,
		Appointment: syncAppointmentRow{
			ID:           appt.ID,
			ProviderName: appt.ProviderName,
			ProviderRole: string(appt.ProviderRole),
			Date:         appt.Date,
			Time:         appt.Time,
			Status:       string(appt.Status),
			CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		},
	}
	return c.post(ctx, "/students/sync-appointment", payload)
}

func (c *SIMSClient) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sync payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sync request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sync service returned status %d", resp.StatusCode)
	}
	return nil
}
