package handlers

import (
	"net/http"

	"frontdesk/services/crm"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CRMHandler exposes customer lookup and support-ticket tools. Same contract
// as the scheduling tools: HTTP 200 with a narratable payload.
type CRMHandler struct {
	Customers crm.CustomerService
	Logger    *zap.Logger
}

func NewCRMHandler(customers crm.CustomerService, logger *zap.Logger) *CRMHandler {
	return &CRMHandler{Customers: customers, Logger: logger}
}

// LookupCustomer looks a caller up by phone number.
func (h *CRMHandler) LookupCustomer(c *gin.Context) {
	var input struct {
		PhoneNumber string `json:"phoneNumber" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := h.Customers.Lookup(c.Request.Context(), input.PhoneNumber)
	if err != nil {
		h.Logger.Error("crm lookup failed", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"found": false, "message": "I couldn't reach the customer records right now."})
		return
	}
	c.JSON(http.StatusOK, result)
}

// RegisterCustomer registers or refreshes a customer record.
func (h *CRMHandler) RegisterCustomer(c *gin.Context) {
	var input struct {
		CustomerName string `json:"customerName" binding:"required"`
		PhoneNumber  string `json:"phoneNumber" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := h.Customers.Register(c.Request.Context(), input.CustomerName, input.PhoneNumber)
	if err != nil {
		h.Logger.Error("crm registration failed", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Registration failed. Please try again in a moment."})
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateCustomerNotes appends notes to a customer record.
func (h *CRMHandler) UpdateCustomerNotes(c *gin.Context) {
	var input struct {
		PhoneNumber string `json:"phoneNumber" binding:"required"`
		Notes       string `json:"notes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.Customers.UpdateNotes(c.Request.Context(), input.PhoneNumber, input.Notes); err != nil {
		h.Logger.Error("crm notes update failed", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "I couldn't update the customer notes right now."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Customer notes updated."})
}

// CreateSupportTicket records a support ticket for the caller.
func (h *CRMHandler) CreateSupportTicket(c *gin.Context) {
	var input struct {
		CallerName  string `json:"callerName" binding:"required"`
		PhoneNumber string `json:"phoneNumber" binding:"required"`
		Issue       string `json:"issue" binding:"required"`
		Priority    string `json:"priority"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	priority := input.Priority
	switch priority {
	case "low", "medium", "high":
	default:
		priority = "medium"
	}

	result, err := h.Customers.CreateTicket(c.Request.Context(), input.CallerName, input.PhoneNumber, input.Issue, priority)
	if err != nil {
		h.Logger.Error("ticket creation failed", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "I couldn't create the support ticket right now."})
		return
	}
	c.JSON(http.StatusOK, result)
}
