package crm

import (
	"context"

	"frontdesk/models"
)

// LookupResult reports whether a caller is a known customer.
type LookupResult struct {
	Found    bool             `json:"found"`
	Customer *models.Customer `json:"customer,omitempty"`
	Message  string           `json:"message,omitempty"`
}

// RegisterResult reports the outcome of a registration.
type RegisterResult struct {
	Success         bool   `json:"success"`
	NewRegistration bool   `json:"newRegistration"`
	Message         string `json:"message"`
}

// TicketResult carries the created support ticket.
type TicketResult struct {
	Success bool                  `json:"success"`
	Ticket  *models.SupportTicket `json:"ticket,omitempty"`
	Message string                `json:"message"`
}

// CustomerService is the CRM collaborator surface the agent uses for customer
// lookup, registration, note-taking and support tickets. It is not part of
// the booking core; bookings work without it.
type CustomerService interface {
	Lookup(ctx context.Context, phoneNumber string) (LookupResult, error)
	Register(ctx context.Context, customerName, phoneNumber string) (RegisterResult, error)
	UpdateNotes(ctx context.Context, phoneNumber, notes string) error
	CreateTicket(ctx context.Context, callerName, phoneNumber, issue, priority string) (TicketResult, error)
}
