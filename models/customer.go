package models

// Customer mirrors one row of the CRM sheet.
type Customer struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Company         string `json:"company"`
	LastInteraction string `json:"lastInteraction"`
	Notes           string `json:"notes"`
	Status          string `json:"status"`
}

// SupportTicket is returned when the agent escalates an issue to a ticket.
type SupportTicket struct {
	TicketID    string `json:"ticketId"`
	CallerName  string `json:"callerName"`
	PhoneNumber string `json:"phoneNumber"`
	Issue       string `json:"issue"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
}
