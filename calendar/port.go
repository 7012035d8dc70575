package calendar

import (
	"context"
	"errors"
	"time"

	"frontdesk/models"
)

// Event is the calendar-facing view of an appointment.
type Event struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// Port is the contract the booking engine depends on. The collaborator behind
// it owns durable storage and is the final arbiter of conflicts.
type Port interface {
	FreeBusy(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]models.BusyInterval, error)
	CreateEvent(ctx context.Context, calendarID string, ev Event) (string, error)
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]Event, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}

// Sentinel errors the engine distinguishes. Anything else reaching the engine
// is treated as the provider being unavailable.
var (
	// ErrConflict: the collaborator rejected a write because the slot is
	// already taken. Authoritative; never retried.
	ErrConflict = errors.New("calendar: conflicting event")
	// ErrAmbiguous: a mutating call timed out and the write may or may not
	// have landed. The caller must re-query before retrying.
	ErrAmbiguous = errors.New("calendar: write result unknown")
	// ErrEventNotFound: delete target does not exist.
	ErrEventNotFound = errors.New("calendar: event not found")
)
