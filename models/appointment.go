package models

import "time"

// Appointment status values. Cancelled is terminal.
const (
	AppointmentConfirmed = "confirmed"
	AppointmentCancelled = "cancelled"
)

// Appointment is the engine's durable record of a booking. The external
// calendar remains the source of truth for conflicts; this record exists for
// cancellation lookup and audit.
type Appointment struct {
	ID          string    `bson:"id" json:"id"`
	CallerName  string    `bson:"callerName" json:"callerName"`
	PhoneNumber string    `bson:"phoneNumber" json:"phoneNumber"`
	Date        string    `bson:"date" json:"date"` // YYYY-MM-DD in the business timezone
	Time        string    `bson:"time" json:"time"` // display label, e.g. "10:00 AM"
	StartMinute int       `bson:"startMinute" json:"startMinute"`
	Purpose     string    `bson:"purpose" json:"purpose"`
	Status      string    `bson:"status" json:"status"`
	EventID     string    `bson:"eventId" json:"eventId"`
	Description string    `bson:"description" json:"description"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	CancelledAt time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
}
