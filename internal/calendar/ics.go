package calendar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/dhabedank/weekplan/internal/core"
)

// maxOccurrences caps recurrence expansion per event.
const maxOccurrences = 500

// ICSSource reads commitments from an iCalendar file.
type ICSSource struct {
	Path     string
	Horizon  time.Duration
	Location *time.Location

	now func() time.Time
}

// NewICSSource reads path and expands events over DefaultHorizon.
func NewICSSource(path string, loc *time.Location) *ICSSource {
	if loc == nil {
		loc = time.Local
	}
	return &ICSSource{Path: path, Horizon: DefaultHorizon, Location: loc, now: time.Now}
}

// Fetch parses the file and returns occurrences starting within
// [start of today, today+Horizon).
func (s *ICSSource) Fetch(ctx context.Context) ([]core.CalendarEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read calendar file: %w", err)
	}
	now := s.now().In(s.Location)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.Location)
	return ParseICS(body, from, from.Add(s.Horizon), s.Location)
}

// ParseICS returns every occurrence in body whose start falls in
// [from, to), sorted by start. Recurring events are expanded with their
// RRULE and EXDATEs. All-day events start at midnight in loc.
func ParseICS(body []byte, from, to time.Time, loc *time.Location) ([]core.CalendarEvent, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}
	if loc == nil {
		loc = time.Local
	}
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse ICS: %w", err)
	}

	var out []core.CalendarEvent
	for _, ve := range cal.Events() {
		ev, ok := parseVEvent(ve, loc)
		if !ok {
			continue
		}
		out = append(out, ev.occurrences(from, to)...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

type icsEvent struct {
	title   string
	start   time.Time
	end     time.Time
	allDay  bool
	rrule   string
	exDates []time.Time
}

func parseVEvent(ve *ical.VEvent, loc *time.Location) (icsEvent, bool) {
	var ev icsEvent
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		ev.title = strings.TrimSpace(p.Value)
	}
	if ev.title == "" {
		ev.title = UntitledEvent
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return ev, false
	}
	if p := ve.GetProperty(ical.ComponentPropertyDtStart); p != nil {
		if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			ev.allDay = true
		}
		if !strings.Contains(p.Value, "T") {
			ev.allDay = true
		}
	}

	if ev.allDay {
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	}
	ev.start = start

	end, err := ve.GetEndAt()
	switch {
	case err != nil && ev.allDay:
		ev.end = start.AddDate(0, 0, 1)
	case err != nil:
		ev.end = start
	case ev.allDay:
		ev.end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)
	default:
		ev.end = end
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		ev.rrule = p.Value
	}
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseICSTime(strings.TrimSpace(part), start.Location()); err == nil {
				ev.exDates = append(ev.exDates, t)
			}
		}
	}
	return ev, true
}

func (ev icsEvent) occurrences(from, to time.Time) []core.CalendarEvent {
	dur := ev.end.Sub(ev.start)
	if ev.rrule == "" {
		if ev.start.Before(from) || !ev.start.Before(to) {
			return nil
		}
		return []core.CalendarEvent{{Title: ev.title, Start: ev.start, End: ev.end}}
	}

	r, err := rrule.StrToRRule(ev.rrule)
	if err != nil {
		return nil
	}
	r.DTStart(ev.start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.exDates {
		set.ExDate(ex.In(ev.start.Location()))
	}

	starts := set.Between(from.In(ev.start.Location()), to.In(ev.start.Location()), true)
	if len(starts) > maxOccurrences {
		starts = starts[:maxOccurrences]
	}
	out := make([]core.CalendarEvent, 0, len(starts))
	for _, s := range starts {
		if !s.Before(to) {
			continue
		}
		out = append(out, core.CalendarEvent{Title: ev.title, Start: s, End: s.Add(dur)})
	}
	return out
}

// parseICSTime parses bare EXDATE values.
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}
