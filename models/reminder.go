package models

// ReminderPayload is the asynq task payload for an appointment reminder.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	CallerName    string `json:"callerName"`
	PhoneNumber   string `json:"phoneNumber"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}
