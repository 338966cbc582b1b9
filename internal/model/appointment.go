package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SlotDuration is the fixed length of every appointment slot.
const SlotDuration = 30 * time.Minute

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
	slotLayout = dateLayout + " " + timeLayout
)

// AppointmentStatus represents the status of an appointment.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "Scheduled"
	StatusApproved  AppointmentStatus = "Approved"
	StatusRejected  AppointmentStatus = "Rejected"
	StatusConfirmed AppointmentStatus = "Confirmed"
	StatusCompleted AppointmentStatus = "Completed"
	StatusCancelled AppointmentStatus = "Cancelled"
)

// transitions is the closed table of legal status changes. Rejected,
// Completed and Cancelled are terminal.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusScheduled: {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:  {StatusConfirmed, StatusCompleted, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusRejected:  {},
	StatusCompleted: {},
	StatusCancelled: {},
}

// ParseStatus validates a raw status string against the enum.
func ParseStatus(raw string) (AppointmentStatus, bool) {
	s := AppointmentStatus(raw)
	_, ok := transitions[s]
	return s, ok
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment represents a booked 30-minute slot with a provider. Patient
// contact fields are a snapshot taken at booking time and are not kept in
// sync with later user edits.
type Appointment struct {
	ID              string            `json:"id" gorm:"type:char(36);primaryKey"`
	PatientName     string            `json:"patientName" gorm:"size:255;not null;index"`
	PatientEmail    string            `json:"patientEmail" gorm:"size:255"`
	PatientPhone    string            `json:"patientPhone" gorm:"size:32"`
	ProviderRole    Role              `json:"providerRole" gorm:"type:varchar(20);not null;index"`
	ProviderName    string            `json:"providerName" gorm:"size:255;not null;index"`
	Date            string            `json:"date" gorm:"type:char(10);not null"`
	Time            string            `json:"time" gorm:"type:char(5);not null"`
	Status          AppointmentStatus `json:"status" gorm:"type:varchar(20);not null;default:'Scheduled';index"`
	Notes           string            `json:"notes" gorm:"type:text"`
	CalendarEventID string            `json:"-" gorm:"size:255"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the id is blank. Seed fixtures keep their
// human-readable ids.
func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Slot returns the [start, end) interval of the appointment in the given
// location.
func (a *Appointment) Slot(loc *time.Location) (start, end time.Time, err error) {
	if loc == nil {
		loc = time.UTC
	}
	start, err = time.ParseInLocation(slotLayout, a.Date+" "+a.Time, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse slot %q %q: %w", a.Date, a.Time, err)
	}
	return start, start.Add(SlotDuration), nil
}
