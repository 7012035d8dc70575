package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"frontdesk/calendar"
	appointmentRepo "frontdesk/database/repository/appointment"
	"frontdesk/models"
	"frontdesk/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// DefaultBookingEngine is the production booking engine. Booking and
// cancellation for the same date serialize on a per-date mutex; the external
// calendar stays the final arbiter of conflicts even so, because another
// process instance may be writing to the same calendar.
type DefaultBookingEngine struct {
	Calendar     calendar.Port
	Appointments appointmentRepo.AppointmentRepository
	Reminders    ReminderScheduler
	Settings     Settings

	// Clock is overridable for tests; nil means time.Now.
	Clock func() time.Time

	locks *dateLockTable
}

func NewDefaultBookingEngine(cal calendar.Port, appts appointmentRepo.AppointmentRepository, reminders ReminderScheduler, settings Settings) *DefaultBookingEngine {
	return &DefaultBookingEngine{
		Calendar:     cal,
		Appointments: appts,
		Reminders:    reminders,
		Settings:     settings,
		locks:        newDateLockTable(),
	}
}

func (e *DefaultBookingEngine) now() time.Time {
	if e.Clock != nil {
		return e.Clock().In(e.Settings.Location)
	}
	return time.Now().In(e.Settings.Location)
}

// CheckAvailability computes the open slots for a date against a freshly
// fetched busy-interval set. Results are never cached across calls.
func (e *DefaultBookingEngine) CheckAvailability(ctx context.Context, date string) (models.AvailabilityResult, error) {
	day, err := e.parseDate(date)
	if err != nil {
		return models.AvailabilityResult{}, err
	}

	available, err := e.availableSlots(ctx, day)
	if err != nil {
		return models.AvailabilityResult{}, err
	}

	views := make([]models.SlotView, 0, len(available))
	for _, s := range available {
		views = append(views, models.SlotView{
			Time:     s.Label,
			Duration: fmt.Sprintf("%d min", e.Settings.SlotMinutes),
		})
	}
	return models.AvailabilityResult{
		Date:  date,
		Slots: views,
		Total: len(views),
	}, nil
}

// Book runs the check-then-commit sequence under the date lock: fresh
// availability recompute, event creation, then the local audit record. A
// conflict reported by the collaborator between our check and the create wins
// over the local view and surfaces as slot_taken.
func (e *DefaultBookingEngine) Book(ctx context.Context, req models.BookingRequest) models.BookingResult {
	logger := utils.GetLogger()

	minute, err := ParseClockTime(req.Time)
	if err != nil {
		return models.BookingResult{
			Success: false,
			Code:    CodeParseError,
			Message: fmt.Sprintf("I couldn't understand the time %q. Please say it like \"10:30 AM\".", req.Time),
		}
	}
	day, err := e.parseDate(req.Date)
	if err != nil {
		return models.BookingResult{
			Success: false,
			Code:    CodeParseError,
			Message: fmt.Sprintf("I couldn't understand the date %q. Please use a date like 2025-02-15.", req.Date),
		}
	}

	lock := e.locks.forDate(req.Date)
	lock.Lock()
	defer lock.Unlock()

	candidates := e.daySlots(day)
	available, err := e.availableSlots(ctx, day)
	if err != nil {
		return models.BookingResult{
			Success: false,
			Code:    CodeProviderUnavailable,
			Message: "The calendar is unreachable right now. Please try again in a moment.",
		}
	}

	want := day.Add(time.Duration(minute) * time.Minute)
	requested, onBoundary := slotStartingAt(candidates, want)
	if !onBoundary || !containsSlot(available, want) {
		return models.BookingResult{
			Success:      false,
			Code:         CodeSlotTaken,
			Message:      fmt.Sprintf("%s on %s is not available.", FormatSlotLabel(want), req.Date),
			Alternatives: nearestAlternatives(available, want, 3),
		}
	}

	appt := models.Appointment{
		ID:          "APT-" + strings.ToUpper(uuid.New().String()[:8]),
		CallerName:  req.CallerName,
		PhoneNumber: utils.NormalizePhone(req.PhoneNumber),
		Date:        req.Date,
		Time:        requested.Label,
		StartMinute: minute,
		Purpose:     req.Purpose,
		Status:      models.AppointmentConfirmed,
		CreatedAt:   e.now(),
	}
	appt.Description = fmt.Sprintf("Appointment for %s (%s) on %s at %s: %s",
		req.CallerName, appt.PhoneNumber, req.Date, requested.Label, req.Purpose)

	eventID, err := e.Calendar.CreateEvent(ctx, e.Settings.CalendarID, calendar.Event{
		Summary:     "Appointment: " + req.CallerName,
		Description: fmt.Sprintf("Phone: %s\nPurpose: %s", appt.PhoneNumber, req.Purpose),
		Start:       requested.Start,
		End:         requested.End,
	})
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrConflict):
			// Someone else won the slot between our check and the create.
			return models.BookingResult{
				Success:      false,
				Code:         CodeSlotTaken,
				Message:      fmt.Sprintf("%s on %s was just taken by another booking.", requested.Label, req.Date),
				Alternatives: nearestAlternatives(removeSlot(available, want), want, 3),
			}
		case errors.Is(err, calendar.ErrAmbiguous):
			logger.Error("booking write ambiguous", zap.String("date", req.Date), zap.Error(err))
			return models.BookingResult{
				Success: false,
				Code:    CodeAmbiguousWrite,
				Message: "I couldn't confirm whether the booking went through. Please check availability before trying again.",
			}
		default:
			logger.Error("booking create failed", zap.String("date", req.Date), zap.Error(err))
			return models.BookingResult{
				Success: false,
				Code:    CodeProviderUnavailable,
				Message: "The calendar is unreachable right now. Please try again in a moment.",
			}
		}
	}
	appt.EventID = eventID

	if err := e.Appointments.Create(ctx, appt); err != nil {
		// The calendar event exists, so the booking stands; the audit record
		// is what's missing. Log loudly and keep going.
		logger.Error("failed to persist appointment record",
			zap.String("appointmentId", appt.ID), zap.Error(err))
	}

	e.scheduleReminder(ctx, appt, requested.Start)

	return models.BookingResult{
		Success:       true,
		AppointmentID: appt.ID,
		Message:       fmt.Sprintf("Appointment confirmed for %s on %s at %s", req.CallerName, req.Date, requested.Label),
		Details:       &appt,
	}
}

// Cancel locates the appointment by id or by (name, date), deletes the
// calendar event and flips the record to Cancelled. The record is kept as the
// audit trail; only the external event is physically removed.
func (e *DefaultBookingEngine) Cancel(ctx context.Context, req models.CancellationRequest) models.CancelResult {
	logger := utils.GetLogger()

	appt, result := e.findCancelTarget(ctx, req)
	if appt == nil {
		return result
	}

	lock := e.locks.forDate(appt.Date)
	lock.Lock()
	defer lock.Unlock()

	if appt.EventID != "" {
		err := e.Calendar.DeleteEvent(ctx, e.Settings.CalendarID, appt.EventID)
		switch {
		case err == nil, errors.Is(err, calendar.ErrEventNotFound):
			// Already gone on the calendar side is fine; the status flip below
			// is the durable record either way.
		case errors.Is(err, calendar.ErrAmbiguous):
			logger.Error("cancel delete ambiguous", zap.String("appointmentId", appt.ID), zap.Error(err))
			return models.CancelResult{
				Success: false,
				Code:    CodeAmbiguousWrite,
				Message: "I couldn't confirm the cancellation went through. Please check the appointment before trying again.",
			}
		default:
			logger.Error("cancel delete failed", zap.String("appointmentId", appt.ID), zap.Error(err))
			return models.CancelResult{
				Success: false,
				Code:    CodeProviderUnavailable,
				Message: "The calendar is unreachable right now. Please try again in a moment.",
			}
		}
	}

	if err := e.Appointments.MarkCancelled(ctx, appt.ID, e.now()); err != nil {
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			// Lost a race with another cancel; from the caller's view the
			// appointment no longer exists.
			return notFoundResult(req)
		}
		logger.Error("failed to mark appointment cancelled",
			zap.String("appointmentId", appt.ID), zap.Error(err))
		return models.CancelResult{
			Success: false,
			Code:    CodeProviderUnavailable,
			Message: "I couldn't update the appointment record. Please try again in a moment.",
		}
	}

	return models.CancelResult{
		Success: true,
		Message: fmt.Sprintf("Appointment %s has been cancelled.", appt.ID),
	}
}

// NextAvailable scans forward from today and returns the first open slot. The
// per-date lock is not held across the scan; the booking path re-checks
// anyway. An exhausted window is a normal outcome.
func (e *DefaultBookingEngine) NextAvailable(ctx context.Context) models.NextAvailableResult {
	logger := utils.GetLogger()
	now := e.now()

	for i := 0; i < e.Settings.LookaheadDays; i++ {
		day := startOfDay(now.AddDate(0, 0, i))
		available, err := e.availableSlots(ctx, day)
		if err != nil {
			logger.Error("next-available scan failed", zap.String("date", day.Format(dateLayout)), zap.Error(err))
			return models.NextAvailableResult{
				Found:   false,
				Message: "The calendar is unreachable right now. Please try again in a moment.",
			}
		}
		for _, s := range available {
			if s.Start.Before(now) {
				continue
			}
			dateStr := day.Format(dateLayout)
			return models.NextAvailableResult{
				Found:   true,
				Date:    dateStr,
				Time:    s.Label,
				Message: fmt.Sprintf("Next available: %s at %s", dateStr, s.Label),
			}
		}
	}

	return models.NextAvailableResult{
		Found:   false,
		Message: fmt.Sprintf("No available slots in the next %d days.", e.Settings.LookaheadDays),
	}
}

// availableSlots generates the day's candidates and filters them against a
// fresh free/busy fetch covering the whole day.
func (e *DefaultBookingEngine) availableSlots(ctx context.Context, day time.Time) ([]models.TimeSlot, error) {
	slots := e.daySlots(day)
	busy, err := e.Calendar.FreeBusy(ctx, e.Settings.CalendarID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, NewSchedulingError(CodeProviderUnavailable, fmt.Sprintf("free/busy query failed: %v", err))
	}
	return FilterAvailable(slots, busy), nil
}

func (e *DefaultBookingEngine) daySlots(day time.Time) []models.TimeSlot {
	return GenerateSlots(day, e.Settings.StartHour, e.Settings.EndHour, e.Settings.SlotMinutes, e.Settings.Location)
}

func (e *DefaultBookingEngine) parseDate(date string) (time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(utils.NormalizeDigits(date)), e.Settings.Location)
	if err != nil {
		return time.Time{}, NewSchedulingError(CodeParseError, "invalid date: "+date)
	}
	return day, nil
}

// findCancelTarget resolves the cancellation request to a confirmed
// appointment, or returns the not-found result to hand back.
func (e *DefaultBookingEngine) findCancelTarget(ctx context.Context, req models.CancellationRequest) (*models.Appointment, models.CancelResult) {
	logger := utils.GetLogger()

	if req.AppointmentID != "" {
		appt, err := e.Appointments.GetByID(ctx, req.AppointmentID)
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			return nil, notFoundResult(req)
		}
		if err != nil {
			logger.Error("appointment lookup failed", zap.String("appointmentId", req.AppointmentID), zap.Error(err))
			return nil, models.CancelResult{
				Success: false,
				Code:    CodeProviderUnavailable,
				Message: "I couldn't look up the appointment right now. Please try again in a moment.",
			}
		}
		if appt.Status != models.AppointmentConfirmed {
			return nil, notFoundResult(req)
		}
		return appt, models.CancelResult{}
	}

	if req.CallerName == "" || req.Date == "" {
		return nil, models.CancelResult{
			Success: false,
			Code:    CodeNotFound,
			Message: "I need either an appointment ID, or a name and a date, to cancel.",
		}
	}

	appts, err := e.Appointments.ListConfirmedByDate(ctx, req.Date)
	if err != nil {
		logger.Error("appointment list failed", zap.String("date", req.Date), zap.Error(err))
		return nil, models.CancelResult{
			Success: false,
			Code:    CodeProviderUnavailable,
			Message: "I couldn't look up appointments right now. Please try again in a moment.",
		}
	}

	// Case-insensitive substring match against the stored description; the
	// list is chronological, so the first hit wins on ambiguity.
	needle := strings.ToLower(req.CallerName)
	for i := range appts {
		if strings.Contains(strings.ToLower(appts[i].Description), needle) {
			return &appts[i], models.CancelResult{}
		}
	}
	return nil, notFoundResult(req)
}

func (e *DefaultBookingEngine) scheduleReminder(ctx context.Context, appt models.Appointment, start time.Time) {
	if e.Reminders == nil {
		return
	}
	fireAt := start.Add(-time.Hour)
	if !fireAt.After(e.now()) {
		return
	}
	payload := models.ReminderPayload{
		AppointmentID: appt.ID,
		CallerName:    appt.CallerName,
		PhoneNumber:   appt.PhoneNumber,
		Date:          appt.Date,
		Time:          appt.Time,
	}
	if err := e.Reminders.ScheduleReminder(ctx, payload, fireAt); err != nil {
		utils.GetLogger().Warn("failed to schedule reminder",
			zap.String("appointmentId", appt.ID), zap.Error(err))
	}
}

func notFoundResult(req models.CancellationRequest) models.CancelResult {
	msg := "No matching appointment found."
	if req.AppointmentID != "" {
		msg = fmt.Sprintf("Appointment %s not found.", req.AppointmentID)
	} else if req.CallerName != "" {
		msg = fmt.Sprintf("No appointment found for %s on %s.", req.CallerName, req.Date)
	}
	return models.CancelResult{
		Success: false,
		Code:    CodeNotFound,
		Message: msg,
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func slotStartingAt(slots []models.TimeSlot, start time.Time) (models.TimeSlot, bool) {
	for _, s := range slots {
		if s.Start.Equal(start) {
			return s, true
		}
	}
	return models.TimeSlot{}, false
}

func containsSlot(slots []models.TimeSlot, start time.Time) bool {
	_, ok := slotStartingAt(slots, start)
	return ok
}

func removeSlot(slots []models.TimeSlot, start time.Time) []models.TimeSlot {
	var out []models.TimeSlot
	for _, s := range slots {
		if !s.Start.Equal(start) {
			out = append(out, s)
		}
	}
	return out
}

// nearestAlternatives picks up to n open slots ordered by distance from the
// requested time, breaking ties toward the earlier slot, and returns their
// labels in ascending proximity.
func nearestAlternatives(available []models.TimeSlot, want time.Time, n int) []string {
	sorted := make([]models.TimeSlot, len(available))
	copy(sorted, available)
	sort.SliceStable(sorted, func(i, j int) bool {
		di := absDuration(sorted[i].Start.Sub(want))
		dj := absDuration(sorted[j].Start.Sub(want))
		if di == dj {
			return sorted[i].Start.Before(sorted[j].Start)
		}
		return di < dj
	})

	var labels []string
	for _, s := range sorted {
		labels = append(labels, s.Label)
		if len(labels) == n {
			break
		}
	}
	return labels
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
