package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"frontdesk/models"
	"frontdesk/utils"

	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const readRetries = 3

// GoogleCalendar implements Port against the Google Calendar API using a
// service account.
type GoogleCalendar struct {
	svc     *gcal.Service
	loc     *time.Location
	timeout time.Duration
}

// NewGoogleCalendar builds the adapter. Credential problems surface here so
// the process can refuse to start instead of failing on the first call.
func NewGoogleCalendar(ctx context.Context, credentialsFile string, loc *time.Location, timeout time.Duration) (*GoogleCalendar, error) {
	svc, err := gcal.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gcal.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}
	return &GoogleCalendar{svc: svc, loc: loc, timeout: timeout}, nil
}

// FreeBusy queries busy intervals for the calendar in [timeMin, timeMax).
// Read-only, so transient failures are retried with a short backoff.
func (g *GoogleCalendar) FreeBusy(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]models.BusyInterval, error) {
	req := &gcal.FreeBusyRequest{
		TimeMin: timeMin.Format(time.RFC3339),
		TimeMax: timeMax.Format(time.RFC3339),
		Items:   []*gcal.FreeBusyRequestItem{{Id: calendarID}},
	}

	var resp *gcal.FreeBusyResponse
	err := g.withReadRetry(ctx, func(callCtx context.Context) error {
		var callErr error
		resp, callErr = g.svc.Freebusy.Query(req).Context(callCtx).Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("freebusy query failed: %w", err)
	}

	cal, ok := resp.Calendars[calendarID]
	if !ok {
		return nil, fmt.Errorf("freebusy response missing calendar %s", calendarID)
	}

	var busy []models.BusyInterval
	for _, period := range cal.Busy {
		start, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			return nil, fmt.Errorf("unparseable busy start %q: %w", period.Start, err)
		}
		end, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			return nil, fmt.Errorf("unparseable busy end %q: %w", period.End, err)
		}
		// RFC3339 carries an offset, so these are absolute instants; convert
		// to the business timezone for comparison and logging.
		busy = append(busy, models.BusyInterval{
			Start: start.In(g.loc),
			End:   end.In(g.loc),
		})
	}
	return busy, nil
}

// CreateEvent inserts an event. Never retried: once the request is in flight
// the write may have landed, so a timeout is reported as ErrAmbiguous and a
// conflict from the collaborator as ErrConflict.
func (g *GoogleCalendar) CreateEvent(ctx context.Context, calendarID string, ev Event) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	created, err := g.svc.Events.Insert(calendarID, &gcal.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start:       &gcal.EventDateTime{DateTime: ev.Start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: ev.End.Format(time.RFC3339)},
	}).Context(callCtx).Do()
	if err != nil {
		if isConflict(err) {
			return "", fmt.Errorf("event insert rejected: %w", ErrConflict)
		}
		if callCtx.Err() != nil {
			return "", fmt.Errorf("event insert timed out: %w", ErrAmbiguous)
		}
		return "", fmt.Errorf("event insert failed: %w", err)
	}
	return created.Id, nil
}

// ListEvents returns the events in [timeMin, timeMax) ordered by start time.
func (g *GoogleCalendar) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]Event, error) {
	var resp *gcal.Events
	err := g.withReadRetry(ctx, func(callCtx context.Context) error {
		var callErr error
		resp, callErr = g.svc.Events.List(calendarID).
			TimeMin(timeMin.Format(time.RFC3339)).
			TimeMax(timeMax.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			Context(callCtx).Do()
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("event list failed: %w", err)
	}

	var events []Event
	for _, item := range resp.Items {
		if item.Start == nil || item.Start.DateTime == "" {
			continue // all-day events have no clock time to book around
		}
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			continue
		}
		end := start
		if item.End != nil && item.End.DateTime != "" {
			if parsed, err := time.Parse(time.RFC3339, item.End.DateTime); err == nil {
				end = parsed
			}
		}
		events = append(events, Event{
			ID:          item.Id,
			Summary:     item.Summary,
			Description: item.Description,
			Start:       start.In(g.loc),
			End:         end.In(g.loc),
		})
	}
	return events, nil
}

// DeleteEvent removes an event. A 404/410 means the event is already gone and
// maps to ErrEventNotFound; a timeout maps to ErrAmbiguous like CreateEvent.
func (g *GoogleCalendar) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.svc.Events.Delete(calendarID, eventID).Context(callCtx).Do(); err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone) {
			return fmt.Errorf("event %s: %w", eventID, ErrEventNotFound)
		}
		if callCtx.Err() != nil {
			return fmt.Errorf("event delete timed out: %w", ErrAmbiguous)
		}
		return fmt.Errorf("event delete failed: %w", err)
	}
	return nil
}

// withReadRetry runs a read-only call with a bounded per-attempt timeout and a
// capped backoff on transient failures.
func (g *GoogleCalendar) withReadRetry(ctx context.Context, call func(context.Context) error) error {
	logger := utils.GetLogger()

	var lastErr error
	for attempt := 1; attempt <= readRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		lastErr = call(callCtx)
		cancel()

		if lastErr == nil {
			return nil
		}
		if !isTransient(lastErr) || ctx.Err() != nil {
			return lastErr
		}
		logger.Warn("calendar read failed, retrying",
			zap.Int("attempt", attempt), zap.Error(lastErr))
		select {
		case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

func isConflict(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict
}

func isTransient(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code >= 500 || apiErr.Code == http.StatusTooManyRequests
	}
	// Network-level failures come back as plain errors; retry those too.
	return !errors.Is(err, context.Canceled)
}
