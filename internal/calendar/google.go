package calendar

import (
	"context"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"

	"github.com/dhabedank/weekplan/internal/core"
)

// Defaults for listing upcoming Google events.
const (
	DefaultCalendarID = "primary"
	DefaultHorizon    = 14 * 24 * time.Hour
	DefaultMaxResults = 50
)

// GoogleSource lists upcoming events from one Google calendar.
type GoogleSource struct {
	service    *gcal.Service
	CalendarID string
	Horizon    time.Duration
	MaxResults int64
	Location   *time.Location

	now func() time.Time
}

// NewGoogleSource wraps an authorized Calendar service.
func NewGoogleSource(service *gcal.Service) *GoogleSource {
	return &GoogleSource{
		service:    service,
		CalendarID: DefaultCalendarID,
		Horizon:    DefaultHorizon,
		MaxResults: DefaultMaxResults,
		Location:   time.Local,
		now:        time.Now,
	}
}

// List returns raw events from now until now+Horizon, recurring events
// expanded and ordered by start.
func (s *GoogleSource) List(ctx context.Context) ([]RawEvent, error) {
	now := s.now()
	events, err := s.service.Events.List(s.CalendarID).
		Context(ctx).
		TimeMin(now.Format(time.RFC3339)).
		TimeMax(now.Add(s.Horizon).Format(time.RFC3339)).
		SingleEvents(true).
		ShowDeleted(false).
		MaxResults(s.MaxResults).
		OrderBy("startTime").
		Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	out := make([]RawEvent, 0, len(events.Items))
	for _, item := range events.Items {
		out = append(out, RawEvent{
			Title: item.Summary,
			Start: eventTime(item.Start),
			End:   eventTime(item.End),
		})
	}
	return out, nil
}

// Fetch lists and normalizes upcoming events.
func (s *GoogleSource) Fetch(ctx context.Context) ([]core.CalendarEvent, error) {
	raws, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return Normalize(raws, s.Location), nil
}

func eventTime(t *gcal.EventDateTime) string {
	if t == nil {
		return ""
	}
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}
