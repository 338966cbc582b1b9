// Package notify fans appointment notifications out across independent
// channels: provider email, patient SMS, and the external student record
// system. Channel failures are logged and recorded, never propagated; the
// booking or status update that triggered them has already succeeded.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"clinicbook/internal/model"
	"clinicbook/internal/repository"
)

// Event is the appointment lifecycle event driving a notification.
type Event string

const (
	EventCreated  Event = "created"
	EventApproved Event = "approved"
	EventRejected Event = "rejected"
)

// Notifier is the fan-out contract the workflows depend on. Implementations
// must never return errors: delivery is best-effort by design.
type Notifier interface {
	AppointmentCreated(ctx context.Context, appt *model.Appointment, provider *model.User)
	AppointmentApproved(ctx context.Context, appt *model.Appointment)
	AppointmentRejected(ctx context.Context, appt *model.Appointment, reason string)
	// RecordCalendarOutcome logs the result of the best-effort calendar
	// insert performed by the booking workflow.
	RecordCalendarOutcome(ctx context.Context, apptID, eventID string, err error)
}

// Dispatcher implements Notifier. Each channel is optional; a nil channel is
// recorded as skipped. Delivery outcomes are appended to the notification
// log through a batching worker.
type Dispatcher struct {
	email       EmailSender
	sms         SMSSender
	sync        RecordSync
	templates   *TemplateEngine
	logRepo     repository.NotificationLogRepository
	countryCode string
	log         zerolog.Logger

	logChannel chan model.NotificationLog
	workerDone chan struct{}
	closeOnce  sync.Once
}

// NewDispatcher creates a notification dispatcher and starts its log worker.
// Any of email, sms and recordSync may be nil when the channel is not
// configured.
func NewDispatcher(
	email EmailSender,
	sms SMSSender,
	recordSync RecordSync,
	templates *TemplateEngine,
	logRepo repository.NotificationLogRepository,
	countryCode string,
	log zerolog.Logger,
) *Dispatcher {
	d := &Dispatcher{
		email:       email,
		sms:         sms,
		sync:        recordSync,
		templates:   templates,
		logRepo:     logRepo,
		countryCode: countryCode,
		log:         log,
		logChannel:  make(chan model.NotificationLog, 100),
		workerDone:  make(chan struct{}),
	}

	go d.logWorker(context.Background())

	return d
}

// Close stops the log worker after it has flushed any buffered entries. No
// notification may be dispatched after Close.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.logChannel)
	})
	<-d.workerDone
}

// AppointmentCreated notifies the provider that a new appointment awaits
// review.
func (d *Dispatcher) AppointmentCreated(ctx context.Context, appt *model.Appointment, provider *model.User) {
	data := templateData(appt)
	d.attemptEmail(ctx, appt, EventCreated, provider.Email, TemplateCreated, data)
}

// AppointmentApproved notifies the patient across every configured channel.
func (d *Dispatcher) AppointmentApproved(ctx context.Context, appt *model.Appointment) {
	data := templateData(appt)
	d.attemptSMS(ctx, appt, EventApproved, TemplateApproved, data)
	d.attemptEmail(ctx, appt, EventApproved, appt.PatientEmail, TemplateApproved, data)
	d.attemptSync(ctx, appt, EventApproved, TemplateApproved, data)
}

// AppointmentRejected notifies the patient, optionally carrying the
// rejection reason.
func (d *Dispatcher) AppointmentRejected(ctx context.Context, appt *model.Appointment, reason string) {
	data := templateData(appt)
	if reason != "" {
		data["reason"] = " Reason: " + reason + "."
	} else {
		data["reason"] = ""
	}
	d.attemptSMS(ctx, appt, EventRejected, TemplateRejected, data)
	d.attemptEmail(ctx, appt, EventRejected, appt.PatientEmail, TemplateRejected, data)
	d.attemptSync(ctx, appt, EventRejected, TemplateRejected, data)
}

func templateData(appt *model.Appointment) map[string]string {
	return map[string]string{
		"patient_name":  appt.PatientName,
		"provider_name": appt.ProviderName,
		"date":          appt.Date,
		"time":          appt.Time,
	}
}

func (d *Dispatcher) attemptEmail(ctx context.Context, appt *model.Appointment, event Event, to, templateID string, data map[string]string) {
	if d.email == nil {
		d.record(ctx, appt.ID, model.ChannelEmail, event, to, model.DeliverySkipped, "email channel not configured")
		return
	}
	if to == "" {
		d.record(ctx, appt.ID, model.ChannelEmail, event, to, model.DeliverySkipped, "recipient email missing")
		return
	}

	subject, body, err := d.templates.Render(templateID, data)
	if err != nil {
		d.fail(ctx, appt.ID, model.ChannelEmail, event, to, err)
		return
	}
	if err := d.email.Send(ctx, to, subject, body); err != nil {
		d.fail(ctx, appt.ID, model.ChannelEmail, event, to, err)
		return
	}
	d.record(ctx, appt.ID, model.ChannelEmail, event, to, model.DeliverySent, "")
}

func (d *Dispatcher) attemptSMS(ctx context.Context, appt *model.Appointment, event Event, templateID string, data map[string]string) {
	if d.sms == nil {
		d.record(ctx, appt.ID, model.ChannelSMS, event, appt.PatientPhone, model.DeliverySkipped, "sms channel not configured")
		return
	}

	phone, ok := NormalizePhone(appt.PatientPhone, d.countryCode)
	if !ok {
		d.log.Info().Str("appointment_id", appt.ID).Str("phone", appt.PatientPhone).Msg("sms skipped: phone not in international format")
		d.record(ctx, appt.ID, model.ChannelSMS, event, appt.PatientPhone, model.DeliverySkipped, "phone not in international format")
		return
	}

	_, body, err := d.templates.Render(templateID, data)
	if err != nil {
		d.fail(ctx, appt.ID, model.ChannelSMS, event, phone, err)
		return
	}
	if err := d.sms.Send(ctx, phone, body); err != nil {
		d.fail(ctx, appt.ID, model.ChannelSMS, event, phone, err)
		return
	}
	d.record(ctx, appt.ID, model.ChannelSMS, event, phone, model.DeliverySent, "")
}

func (d *Dispatcher) attemptSync(ctx context.Context, appt *model.Appointment, event Event, templateID string, data map[string]string) {
	if d.sync == nil {
		d.record(ctx, appt.ID, model.ChannelSync, event, appt.PatientEmail, model.DeliverySkipped, "record sync not configured")
		return
	}
	if appt.PatientEmail == "" {
		d.record(ctx, appt.ID, model.ChannelSync, event, "", model.DeliverySkipped, "patient email missing")
		return
	}

	subject, body, err := d.templates.Render(templateID, data)
	if err != nil {
		d.fail(ctx, appt.ID, model.ChannelSync, event, appt.PatientEmail, err)
		return
	}

	messageType := "appointment_approved"
	if event == EventRejected {
		messageType = "appointment_rejected"
	}
	if err := d.sync.SendNotification(ctx, appt.PatientEmail, appt, messageType, subject, body); err != nil {
		d.fail(ctx, appt.ID, model.ChannelSync, event, appt.PatientEmail, err)
		return
	}
	if err := d.sync.SyncAppointment(ctx, appt.PatientEmail, appt); err != nil {
		// The notification went through; only the record mirror failed.
		d.log.Warn().Err(err).Str("appointment_id", appt.ID).Msg("record sync mirror failed")
	}
	d.record(ctx, appt.ID, model.ChannelSync, event, appt.PatientEmail, model.DeliverySent, "")
}

// RecordCalendarOutcome implements Notifier.
func (d *Dispatcher) RecordCalendarOutcome(ctx context.Context, apptID, eventID string, err error) {
	switch {
	case err != nil:
		d.fail(ctx, apptID, model.ChannelCalendar, EventCreated, "", err)
	case eventID == "":
		d.record(ctx, apptID, model.ChannelCalendar, EventCreated, "", model.DeliverySkipped, "calendar not configured")
	default:
		d.record(ctx, apptID, model.ChannelCalendar, EventCreated, eventID, model.DeliverySent, "")
	}
}

func (d *Dispatcher) fail(ctx context.Context, apptID string, channel model.NotificationChannel, event Event, recipient string, err error) {
	d.log.Warn().Err(err).
		Str("appointment_id", apptID).
		Str("channel", string(channel)).
		Str("event", string(event)).
		Msg("notification delivery failed")
	d.record(ctx, apptID, channel, event, recipient, model.DeliveryFailed, err.Error())
}

// record queues a log entry for the batching worker, falling back to a
// synchronous insert when the queue is full.
func (d *Dispatcher) record(ctx context.Context, apptID string, channel model.NotificationChannel, event Event, recipient string, status model.DeliveryStatus, errMsg string) {
	entry := model.NotificationLog{
		AppointmentID: apptID,
		Channel:       channel,
		Event:         string(event),
		Recipient:     recipient,
		Status:        status,
		Error:         errMsg,
	}

	select {
	case d.logChannel <- entry:
	default:
		_ = d.logRepo.Create(ctx, &entry)
	}
}

// logWorker persists notification log entries in small batches.
func (d *Dispatcher) logWorker(ctx context.Context) {
	defer close(d.workerDone)

	batch := make([]model.NotificationLog, 0, 10)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case entry, ok := <-d.logChannel:
			if !ok {
				if len(batch) > 0 {
					_ = d.logRepo.CreateBatch(ctx, batch)
				}
				return
			}
			batch = append(batch, entry)
			if len(batch) >= 10 {
				_ = d.logRepo.CreateBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				_ = d.logRepo.CreateBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-ctx.Done():
			return
		}
	}
}
