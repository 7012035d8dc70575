package scheduling

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"frontdesk/calendar"
	appointmentRepo "frontdesk/database/repository/appointment"
	"frontdesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCalendarID = "frontdesk-test"

// memApptRepo is an in-memory AppointmentRepository for engine tests.
type memApptRepo struct {
	mu    sync.Mutex
	appts map[string]models.Appointment
}

func newMemApptRepo() *memApptRepo {
	return &memApptRepo{appts: make(map[string]models.Appointment)}
}

func (r *memApptRepo) Create(ctx context.Context, appt models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appts[appt.ID] = appt
	return nil
}

func (r *memApptRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	return &appt, nil
}

func (r *memApptRepo) ListConfirmedByDate(ctx context.Context, date string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, appt := range r.appts {
		if appt.Date == date && appt.Status == models.AppointmentConfirmed {
			out = append(out, appt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartMinute < out[j].StartMinute })
	return out, nil
}

func (r *memApptRepo) MarkCancelled(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.appts[id]
	if !ok || appt.Status != models.AppointmentConfirmed {
		return appointmentRepo.ErrNotFound
	}
	appt.Status = models.AppointmentCancelled
	appt.CancelledAt = at
	r.appts[id] = appt
	return nil
}

func testSettings() Settings {
	return Settings{
		CalendarID:    testCalendarID,
		StartHour:     9,
		EndHour:       17,
		SlotMinutes:   30,
		LookaheadDays: 7,
		Location:      time.UTC,
	}
}

func newTestEngine(cal calendar.Port) (*DefaultBookingEngine, *memApptRepo) {
	repo := newMemApptRepo()
	engine := NewDefaultBookingEngine(cal, repo, nil, testSettings())
	engine.Clock = func() time.Time {
		return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	}
	return engine, repo
}

func TestBookRemovesSlotFromAvailability(t *testing.T) {
	engine, _ := newTestEngine(calendar.NewMemoryCalendar())
	ctx := context.Background()

	before, err := engine.CheckAvailability(ctx, "2026-03-05")
	require.NoError(t, err)
	assert.Equal(t, 16, before.Total)

	result := engine.Book(ctx, models.BookingRequest{
		CallerName:  "Rahim Uddin",
		PhoneNumber: "+88 017-1234-5678",
		Date:        "2026-03-05",
		Time:        "10:00 AM",
		Purpose:     "dental checkup",
	})
	require.True(t, result.Success, result.Message)
	assert.NotEmpty(t, result.AppointmentID)
	assert.Contains(t, result.Message, "Rahim Uddin")

	after, err := engine.CheckAvailability(ctx, "2026-03-05")
	require.NoError(t, err)
	assert.Equal(t, 15, after.Total)
	for _, s := range after.Slots {
		assert.NotEqual(t, "10:00 AM", s.Time)
	}
}

func TestBookUnparseableTime(t *testing.T) {
	engine, _ := newTestEngine(calendar.NewMemoryCalendar())

	result := engine.Book(context.Background(), models.BookingRequest{
		CallerName: "Karim", PhoneNumber: "017", Date: "2026-03-05", Time: "half past ten",
	})
	assert.False(t, result.Success)
	assert.Equal(t, CodeParseError, result.Code)
}

func TestBookTakenSlotSuggestsNearestAlternatives(t *testing.T) {
	cal := calendar.NewMemoryCalendar()
	engine, _ := newTestEngine(cal)
	ctx := context.Background()

	day := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	_, err := cal.CreateEvent(ctx, testCalendarID, calendar.Event{
		Summary: "blocked",
		Start:   day.Add(10 * time.Hour),
		End:     day.Add(10*time.Hour + 30*time.Minute),
	})
	require.NoError(t, err)

	result := engine.Book(ctx, models.BookingRequest{
		CallerName: "Karim", PhoneNumber: "017", Date: "2026-03-05", Time: "10:00 AM",
	})
	require.False(t, result.Success)
	assert.Equal(t, CodeSlotTaken, result.Code)
	// 9:30 and 10:30 are both 30 minutes away; the tie goes to the earlier
	// slot, then 9:00 at 60 minutes.
	assert.Equal(t, []string{"9:30 AM", "10:30 AM", "9:00 AM"}, result.Alternatives)
}

func TestBookOffBoundaryTimeIsNotBookable(t *testing.T) {
	engine, _ := newTestEngine(calendar.NewMemoryCalendar())

	result := engine.Book(context.Background(), models.BookingRequest{
		CallerName: "Karim", PhoneNumber: "017", Date: "2026-03-05", Time: "10:15 AM",
	})
	require.False(t, result.Success)
	assert.Equal(t, CodeSlotTaken, result.Code)
	assert.NotEmpty(t, result.Alternatives)
}

func TestConcurrentBookingSameSlot(t *testing.T) {
	engine, repo := newTestEngine(calendar.NewMemoryCalendar())
	ctx := context.Background()

	results := make([]models.BookingResult, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = engine.Book(ctx, models.BookingRequest{
				CallerName:  fmt.Sprintf("Caller %d", i),
				PhoneNumber: "017",
				Date:        "2026-03-05",
				Time:        "2:00 PM",
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, r := range results {
		if r.Success {
			successes++
		} else {
			assert.Equal(t, CodeSlotTaken, r.Code)
		}
	}
	assert.Equal(t, 1, successes)

	confirmed, err := repo.ListConfirmedByDate(ctx, "2026-03-05")
	require.NoError(t, err)
	assert.Len(t, confirmed, 1)
}

func TestCancelThenRequery(t *testing.T) {
	engine, _ := newTestEngine(calendar.NewMemoryCalendar())
	ctx := context.Background()

	booked := engine.Book(ctx, models.BookingRequest{
		CallerName: "Rahim", PhoneNumber: "017", Date: "2026-03-05", Time: "11:00 AM",
	})
	require.True(t, booked.Success)

	cancelled := engine.Cancel(ctx, models.CancellationRequest{AppointmentID: booked.AppointmentID})
	require.True(t, cancelled.Success, cancelled.Message)

	after, err := engine.CheckAvailability(ctx, "2026-03-05")
	require.NoError(t, err)
	found := false
	for _, s := range after.Slots {
		if s.Time == "11:00 AM" {
			found = true
		}
	}
	assert.True(t, found, "cancelled slot must reappear")

	// Cancelled is terminal; a second cancel finds nothing.
	again := engine.Cancel(ctx, models.CancellationRequest{AppointmentID: booked.AppointmentID})
	assert.False(t, again.Success)
	assert.Equal(t, CodeNotFound, again.Code)
}

func TestCancelUnknownID(t *testing.T) {
	engine, repo := newTestEngine(calendar.NewMemoryCalendar())
	ctx := context.Background()

	booked := engine.Book(ctx, models.BookingRequest{
		CallerName: "Rahim", PhoneNumber: "017", Date: "2026-03-05", Time: "11:00 AM",
	})
	require.True(t, booked.Success)

	result := engine.Cancel(ctx, models.CancellationRequest{AppointmentID: "APT-DOESNOTEXIST"})
	assert.False(t, result.Success)
	assert.Equal(t, CodeNotFound, result.Code)

	// The existing appointment is untouched.
	confirmed, err := repo.ListConfirmedByDate(ctx, "2026-03-05")
	require.NoError(t, err)
	assert.Len(t, confirmed, 1)
}

func TestCancelByNameAndDate(t *testing.T) {
	engine, _ := newTestEngine(calendar.NewMemoryCalendar())
	ctx := context.Background()

	booked := engine.Book(ctx, models.BookingRequest{
		CallerName: "Rahim Uddin", PhoneNumber: "017", Date: "2026-03-05", Time: "3:00 PM",
	})
	require.True(t, booked.Success)

	result := engine.Cancel(ctx, models.CancellationRequest{CallerName: "rahim", Date: "2026-03-05"})
	assert.True(t, result.Success, result.Message)

	missing := engine.Cancel(ctx, models.CancellationRequest{CallerName: "nazmul", Date: "2026-03-05"})
	assert.False(t, missing.Success)
	assert.Equal(t, CodeNotFound, missing.Code)
}

func TestNextAvailableSkipsElapsedSlots(t *testing.T) {
	engine, _ := newTestEngine(calendar.NewMemoryCalendar())
	// Mid-morning today: 9:00, 9:30 and 10:00 have already started.
	engine.Clock = func() time.Time {
		return time.Date(2026, 3, 1, 10, 15, 0, 0, time.UTC)
	}

	result := engine.NextAvailable(context.Background())
	require.True(t, result.Found, result.Message)
	assert.Equal(t, "2026-03-01", result.Date)
	assert.Equal(t, "10:30 AM", result.Time)
}

func TestNextAvailableFullyBookedWindow(t *testing.T) {
	engine, _ := newTestEngine(busyAllPort{})

	result := engine.NextAvailable(context.Background())
	assert.False(t, result.Found)
	assert.Contains(t, result.Message, "No available slots")
}

func TestBookCollaboratorConflictIsAuthoritative(t *testing.T) {
	engine, _ := newTestEngine(failingCreatePort{err: fmt.Errorf("insert rejected: %w", calendar.ErrConflict)})

	result := engine.Book(context.Background(), models.BookingRequest{
		CallerName: "Karim", PhoneNumber: "017", Date: "2026-03-05", Time: "10:00 AM",
	})
	require.False(t, result.Success)
	assert.Equal(t, CodeSlotTaken, result.Code)
}

func TestBookAmbiguousWriteIsDistinct(t *testing.T) {
	engine, _ := newTestEngine(failingCreatePort{err: fmt.Errorf("insert timed out: %w", calendar.ErrAmbiguous)})

	result := engine.Book(context.Background(), models.BookingRequest{
		CallerName: "Karim", PhoneNumber: "017", Date: "2026-03-05", Time: "10:00 AM",
	})
	require.False(t, result.Success)
	assert.Equal(t, CodeAmbiguousWrite, result.Code)
	assert.Contains(t, result.Message, "check availability")
}

func TestCheckAvailabilityBadDate(t *testing.T) {
	engine, _ := newTestEngine(calendar.NewMemoryCalendar())

	_, err := engine.CheckAvailability(context.Background(), "next tuesday")
	require.Error(t, err)

	var schedErr *SchedulingError
	require.ErrorAs(t, err, &schedErr)
	assert.Equal(t, CodeParseError, schedErr.Code)
}

// busyAllPort reports every requested window as fully busy.
type busyAllPort struct {
	calendar.Port
}

func (busyAllPort) FreeBusy(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]models.BusyInterval, error) {
	return []models.BusyInterval{{Start: timeMin, End: timeMax}}, nil
}

// failingCreatePort reports a free calendar but fails every create.
type failingCreatePort struct {
	calendar.Port
	err error
}

func (failingCreatePort) FreeBusy(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]models.BusyInterval, error) {
	return nil, nil
}

func (p failingCreatePort) CreateEvent(ctx context.Context, calendarID string, ev calendar.Event) (string, error) {
	return "", p.err
}
