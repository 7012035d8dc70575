package models

// BookingRequest carries the caller-supplied fields for a booking attempt.
// It is transient and never persisted as-is.
type BookingRequest struct {
	CallerName  string `json:"callerName"`
	PhoneNumber string `json:"phoneNumber"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Purpose     string `json:"purpose"`
}

// CancellationRequest identifies the appointment to cancel, either by id or
// by (caller name, date).
type CancellationRequest struct {
	AppointmentID string `json:"appointmentId"`
	CallerName    string `json:"callerName"`
	Date          string `json:"date"`
}

// AvailabilityResult lists the open slots for one date.
type AvailabilityResult struct {
	Date  string     `json:"date"`
	Slots []SlotView `json:"availableSlots"`
	Total int        `json:"totalAvailable"`
}

// BookingResult is the structured outcome of a Book call. Code is empty on
// success and one of the scheduling error codes otherwise.
type BookingResult struct {
	Success       bool         `json:"success"`
	AppointmentID string       `json:"appointmentId,omitempty"`
	Code          string       `json:"code,omitempty"`
	Message       string       `json:"message"`
	Alternatives  []string     `json:"alternatives,omitempty"`
	Details       *Appointment `json:"details,omitempty"`
}

// CancelResult is the structured outcome of a Cancel call.
type CancelResult struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// NextAvailableResult reports the first open slot in the lookahead window.
// Found=false with a friendly message is a normal outcome, not an error.
type NextAvailableResult struct {
	Found   bool   `json:"found"`
	Date    string `json:"date,omitempty"`
	Time    string `json:"time,omitempty"`
	Message string `json:"message"`
}
