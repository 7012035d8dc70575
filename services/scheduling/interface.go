package scheduling

import (
	"context"
	"time"

	"frontdesk/models"
)

// BookingEngine is the availability and booking core consumed by the agent
// tool-call handlers. Domain failures (unparseable time, taken slot, unknown
// appointment, ambiguous write) are encoded in the result structs so the
// agent always has something to say; only provider/storage failures travel as
// errors, and those are *SchedulingError.
type BookingEngine interface {
	CheckAvailability(ctx context.Context, date string) (models.AvailabilityResult, error)
	Book(ctx context.Context, req models.BookingRequest) models.BookingResult
	Cancel(ctx context.Context, req models.CancellationRequest) models.CancelResult
	NextAvailable(ctx context.Context) models.NextAvailableResult
}

// ReminderScheduler schedules an appointment reminder for delivery near the
// appointment start. Best-effort: the engine logs and proceeds when it fails.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error
}

// Settings carries the externally supplied business configuration. Nothing in
// the engine hardcodes hours, slot length, timezone or calendar identity.
type Settings struct {
	CalendarID    string
	StartHour     int
	EndHour       int
	SlotMinutes   int
	LookaheadDays int
	Location      *time.Location
}
