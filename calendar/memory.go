package calendar

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"time"

	"frontdesk/models"

	"github.com/google/uuid"
)

// MemoryCalendar is an in-process Port used for local development
// (CALENDAR_PROVIDER=memory) and tests. It enforces the same conflict rule as
// the real collaborator at commit time, so concurrent-booking behavior matches
// production.
type MemoryCalendar struct {
	mu     sync.Mutex
	events map[string][]Event // keyed by calendar ID
}

func NewMemoryCalendar() *MemoryCalendar {
	return &MemoryCalendar{
		events: make(map[string][]Event),
	}
}

func (m *MemoryCalendar) FreeBusy(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]models.BusyInterval, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var busy []models.BusyInterval
	for _, ev := range m.events[calendarID] {
		if ev.Start.Before(timeMax) && ev.End.After(timeMin) {
			busy = append(busy, models.BusyInterval{Start: ev.Start, End: ev.End})
		}
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })
	return busy, nil
}

func (m *MemoryCalendar) CreateEvent(ctx context.Context, calendarID string, ev Event) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.events[calendarID] {
		if ev.Start.Before(existing.End) && ev.End.After(existing.Start) {
			return "", fmt.Errorf("event overlaps %s: %w", existing.ID, ErrConflict)
		}
	}

	ev.ID = uuid.New().String()
	m.events[calendarID] = append(m.events[calendarID], ev)
	return ev.ID, nil
}

func (m *MemoryCalendar) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var events []Event
	for _, ev := range m.events[calendarID] {
		if ev.Start.Before(timeMax) && ev.End.After(timeMin) {
			events = append(events, ev)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start) })
	return events, nil
}

func (m *MemoryCalendar) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	evs := m.events[calendarID]
	for i, ev := range evs {
		if ev.ID == eventID {
			m.events[calendarID] = append(evs[:i], evs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("event %s: %w", eventID, ErrEventNotFound)
}
