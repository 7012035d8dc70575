package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups the handlers routes need.
type HandlerBundle struct {
	// Appointment tool endpoints.
	CheckAvailableSlots gin.HandlerFunc
	BookAppointment     gin.HandlerFunc
	CancelAppointment   gin.HandlerFunc
	GetNextAvailable    gin.HandlerFunc

	// CRM tool endpoints. Nil when the CRM sheet is not configured.
	LookupCustomer      gin.HandlerFunc
	RegisterCustomer    gin.HandlerFunc
	UpdateCustomerNotes gin.HandlerFunc
	CreateSupportTicket gin.HandlerFunc
}
