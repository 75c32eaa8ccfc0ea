// Package calendar adapts external calendars into fixed commitments.
package calendar

import (
	"context"
	"strings"
	"time"

	"github.com/dhabedank/weekplan/internal/core"
)

// UntitledEvent labels events that arrive without a summary.
const UntitledEvent = "Untitled Event"

// RawEvent is an event as listed by a provider. Start and End are RFC 3339
// timestamps or YYYY-MM-DD dates for all-day events.
type RawEvent struct {
	Title string `json:"title"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// Source yields the user's upcoming commitments.
type Source interface {
	Fetch(ctx context.Context) ([]core.CalendarEvent, error)
}

// EventStore is where synced events are kept.
type EventStore interface {
	ReplaceCalendarEvents(ctx context.Context, events []core.CalendarEvent) error
}

// Sync fetches from src and replaces the stored events wholesale. On fetch
// failure the stored events are left untouched.
func Sync(ctx context.Context, src Source, dst EventStore) ([]core.CalendarEvent, error) {
	events, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := dst.ReplaceCalendarEvents(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

// Normalize converts raw events into CalendarEvents. Date-only values are
// midnight in loc. Entries with an unparseable start are dropped; a missing
// or unparseable end becomes the start.
func Normalize(raws []RawEvent, loc *time.Location) []core.CalendarEvent {
	if loc == nil {
		loc = time.Local
	}
	out := make([]core.CalendarEvent, 0, len(raws))
	for _, r := range raws {
		start, ok := parseEventTime(r.Start, loc)
		if !ok {
			continue
		}
		end, ok := parseEventTime(r.End, loc)
		if !ok {
			end = start
		}
		title := strings.TrimSpace(r.Title)
		if title == "" {
			title = UntitledEvent
		}
		out = append(out, core.CalendarEvent{Title: title, Start: start, End: end})
	}
	return out
}

func parseEventTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(core.DateLayout, s, loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}
