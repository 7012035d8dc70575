package routes

import (
	"net/http"

	"frontdesk/handlers"
	"frontdesk/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the tool-call surface consumed by the conversational
// layer.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	RegisterHealthRoute(r)
	RegisterAppointmentRoutes(r, hb)
	RegisterCRMRoutes(r, hb)
}

// RegisterAppointmentRoutes registers the booking engine endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/agent/appointments")
	{
		api.Use(middleware.AgentAuthMiddleware())
		api.POST("/check", hb.CheckAvailableSlots)
		api.POST("/book", hb.BookAppointment)
		api.POST("/cancel", hb.CancelAppointment)
		api.GET("/next-available", hb.GetNextAvailable)
	}
}

// RegisterCRMRoutes registers the customer-record endpoints. Skipped entirely
// when the CRM sheet is not configured.
func RegisterCRMRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	if hb.LookupCustomer == nil {
		return
	}
	api := r.Group("/api/agent/crm")
	{
		api.Use(middleware.AgentAuthMiddleware())
		api.POST("/lookup", hb.LookupCustomer)
		api.POST("/register", hb.RegisterCustomer)
		api.POST("/notes", hb.UpdateCustomerNotes)
		api.POST("/tickets", hb.CreateSupportTicket)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm the front desk"})
	})
}
