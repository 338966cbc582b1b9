package model

import "time"

// NotificationChannel identifies the delivery channel of a notification attempt.
type NotificationChannel string

const (
	ChannelEmail    NotificationChannel = "email"
	ChannelSMS      NotificationChannel = "sms"
	ChannelSync     NotificationChannel = "sync"
	ChannelCalendar NotificationChannel = "calendar"
)

// DeliveryStatus is the outcome of a single notification attempt.
type DeliveryStatus string

const (
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
	DeliverySkipped DeliveryStatus = "skipped"
)

// NotificationLog is an append-only record of a notification attempt. Send
// failures never reach the request path, so this table is the only place
// they are visible.
type NotificationLog struct {
	ID            uint                `json:"id" gorm:"primaryKey"`
	AppointmentID string              `json:"appointmentId" gorm:"type:char(36);index"`
	Channel       NotificationChannel `json:"channel" gorm:"type:varchar(16);not null;index"`
	Event         string              `json:"event" gorm:"type:varchar(32);not null"`
	Recipient     string              `json:"recipient" gorm:"size:255"`
	Status        DeliveryStatus      `json:"status" gorm:"type:varchar(16);not null;index"`
	Error         string              `json:"error,omitempty" gorm:"type:text"`
	CreatedAt     time.Time           `json:"createdAt"`
}
