package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"frontdesk/models"
	"frontdesk/services/scheduling"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEngine struct {
	availability models.AvailabilityResult
	availErr     error
	bookResult   models.BookingResult
	cancelResult models.CancelResult
	nextResult   models.NextAvailableResult
}

func (f *fakeEngine) CheckAvailability(ctx context.Context, date string) (models.AvailabilityResult, error) {
	return f.availability, f.availErr
}

func (f *fakeEngine) Book(ctx context.Context, req models.BookingRequest) models.BookingResult {
	return f.bookResult
}

func (f *fakeEngine) Cancel(ctx context.Context, req models.CancellationRequest) models.CancelResult {
	return f.cancelResult
}

func (f *fakeEngine) NextAvailable(ctx context.Context) models.NextAvailableResult {
	return f.nextResult
}

func newTestRouter(engine scheduling.BookingEngine) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSchedulingHandler(engine, zap.NewNop())
	r := gin.New()
	r.POST("/check", h.CheckAvailableSlots)
	r.POST("/book", h.BookAppointment)
	r.POST("/cancel", h.CancelAppointment)
	r.GET("/next", h.GetNextAvailable)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCheckAvailableSlots(t *testing.T) {
	engine := &fakeEngine{
		availability: models.AvailabilityResult{
			Date:  "2026-03-05",
			Slots: []models.SlotView{{Time: "10:00 AM", Duration: "30 min"}},
			Total: 1,
		},
	}
	w := postJSON(t, newTestRouter(engine), "/check", `{"date":"2026-03-05"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var got models.AvailabilityResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Total)
	assert.Equal(t, "10:00 AM", got.Slots[0].Time)
}

func TestCheckAvailableSlotsEngineErrorStaysNarratable(t *testing.T) {
	engine := &fakeEngine{
		availErr: scheduling.NewSchedulingError(scheduling.CodeProviderUnavailable, "freebusy query failed"),
	}
	w := postJSON(t, newTestRouter(engine), "/check", `{"date":"2026-03-05"}`)

	// Engine failures are still 200: the agent needs a message to speak.
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, false, got["success"])
	assert.Equal(t, scheduling.CodeProviderUnavailable, got["code"])
	assert.NotEmpty(t, got["message"])
}

func TestBookAppointmentDeclinedIsStillOK(t *testing.T) {
	engine := &fakeEngine{
		bookResult: models.BookingResult{
			Success:      false,
			Code:         scheduling.CodeSlotTaken,
			Message:      "That slot is taken.",
			Alternatives: []string{"9:30 AM", "10:30 AM"},
		},
	}
	w := postJSON(t, newTestRouter(engine), "/book",
		`{"callerName":"Rahim","phoneNumber":"017","date":"2026-03-05","time":"10:00 AM"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var got models.BookingResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.False(t, got.Success)
	assert.Equal(t, scheduling.CodeSlotTaken, got.Code)
	assert.Equal(t, []string{"9:30 AM", "10:30 AM"}, got.Alternatives)
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	r := newTestRouter(&fakeEngine{})

	assert.Equal(t, http.StatusBadRequest, postJSON(t, r, "/check", `{`).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(t, r, "/check", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(t, r, "/book", `not json`).Code)
}

func TestGetNextAvailable(t *testing.T) {
	engine := &fakeEngine{
		nextResult: models.NextAvailableResult{
			Found: true, Date: "2026-03-02", Time: "9:00 AM",
			Message: "The next available slot is 2026-03-02 at 9:00 AM.",
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/next", nil)
	w := httptest.NewRecorder()
	newTestRouter(engine).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got models.NextAvailableResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.Found)
	assert.Equal(t, "9:00 AM", got.Time)
}
