package handlers

import (
	"errors"
	"net/http"

	"frontdesk/models"
	"frontdesk/services/scheduling"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SchedulingHandler exposes the booking engine as agent tool calls. Every
// response is HTTP 200 with a success flag and a narratable message; the
// conversational layer must always have something to say aloud. Only a
// malformed request body (a bug in the caller, not a user utterance) is a 400.
type SchedulingHandler struct {
	Engine scheduling.BookingEngine
	Logger *zap.Logger
}

func NewSchedulingHandler(engine scheduling.BookingEngine, logger *zap.Logger) *SchedulingHandler {
	return &SchedulingHandler{Engine: engine, Logger: logger}
}

// CheckAvailableSlots returns the open slots for a date.
func (h *SchedulingHandler) CheckAvailableSlots(c *gin.Context) {
	var input struct {
		Date string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := h.Engine.CheckAvailability(c.Request.Context(), input.Date)
	if err != nil {
		c.JSON(http.StatusOK, h.narratableError(err, input.Date))
		return
	}
	c.JSON(http.StatusOK, result)
}

// BookAppointment books a slot for the caller.
func (h *SchedulingHandler) BookAppointment(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result := h.Engine.Book(c.Request.Context(), req)
	if !result.Success {
		h.Logger.Info("booking declined",
			zap.String("code", result.Code), zap.String("date", req.Date), zap.String("time", req.Time))
	}
	c.JSON(http.StatusOK, result)
}

// CancelAppointment cancels by appointment id or by (name, date).
func (h *SchedulingHandler) CancelAppointment(c *gin.Context) {
	var req models.CancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.Engine.Cancel(c.Request.Context(), req))
}

// GetNextAvailable returns the first open slot in the lookahead window.
func (h *SchedulingHandler) GetNextAvailable(c *gin.Context) {
	c.JSON(http.StatusOK, h.Engine.NextAvailable(c.Request.Context()))
}

func (h *SchedulingHandler) narratableError(err error, date string) gin.H {
	var schedErr *scheduling.SchedulingError
	if errors.As(err, &schedErr) {
		switch schedErr.Code {
		case scheduling.CodeParseError:
			return gin.H{
				"success": false,
				"code":    schedErr.Code,
				"message": "I couldn't understand the date " + date + ". Please use a date like 2025-02-15.",
			}
		default:
			h.Logger.Error("availability check failed", zap.String("date", date), zap.Error(err))
			return gin.H{
				"success": false,
				"code":    schedErr.Code,
				"message": "The calendar is unreachable right now. Please try again in a moment.",
			}
		}
	}
	h.Logger.Error("availability check failed", zap.String("date", date), zap.Error(err))
	return gin.H{
		"success": false,
		"code":    scheduling.CodeProviderUnavailable,
		"message": "The calendar is unreachable right now. Please try again in a moment.",
	}
}
