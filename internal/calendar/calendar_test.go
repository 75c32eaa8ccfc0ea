package calendar

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/dhabedank/weekplan/internal/core"
)

func TestNormalize(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	raws := []RawEvent{
		{Title: "Dentist", Start: "2024-01-03T14:00:00Z", End: "2024-01-03T14:30:00Z"},
		{Title: "", Start: "2024-01-09", End: "2024-01-10"},
		{Title: "No end", Start: "2024-01-09T09:00:00-05:00"},
		{Title: "Broken", Start: "next tuesday"},
	}

	got := Normalize(raws, loc)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3 (unparseable start dropped): %+v", len(got), got)
	}
	if !got[0].Start.Equal(time.Date(2024, 1, 3, 14, 0, 0, 0, time.UTC)) || got[0].End.Sub(got[0].Start) != 30*time.Minute {
		t.Errorf("timestamp event = %+v", got[0])
	}
	if got[1].Title != UntitledEvent {
		t.Errorf("Title = %q, want %q", got[1].Title, UntitledEvent)
	}
	if want := time.Date(2024, 1, 9, 0, 0, 0, 0, loc); !got[1].Start.Equal(want) {
		t.Errorf("date-only start = %v, want %v", got[1].Start, want)
	}
	if !got[2].End.Equal(got[2].Start) {
		t.Errorf("missing end should equal start: %+v", got[2])
	}
}

type memStore struct {
	events []core.CalendarEvent
	calls  int
}

func (m *memStore) ReplaceCalendarEvents(_ context.Context, events []core.CalendarEvent) error {
	m.calls++
	m.events = events
	return nil
}

type fixedSource struct {
	events []core.CalendarEvent
	err    error
}

func (f fixedSource) Fetch(context.Context) ([]core.CalendarEvent, error) {
	return f.events, f.err
}

func TestSyncKeepsEventsOutsideWeek(t *testing.T) {
	// An event outside the planned week is stored but not offered to the prompt.
	dentist := Normalize([]RawEvent{{Title: "Dentist", Start: "2024-01-03T14:00:00Z", End: "2024-01-03T14:30:00Z"}}, time.UTC)
	store := &memStore{}

	if _, err := Sync(context.Background(), fixedSource{events: dentist}, store); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if len(store.events) != 1 || store.events[0].Title != "Dentist" {
		t.Fatalf("stored = %+v", store.events)
	}

	week := core.CurrentWeek(time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), time.Sunday)
	if in := core.EventsInWeek(store.events, week); len(in) != 0 {
		t.Errorf("EventsInWeek(week of Jan 7) = %+v, want none", in)
	}
	prompt := core.BuildSchedulePrompt(core.ScheduleInput{Events: store.events, Week: week})
	if strings.Contains(prompt, "Dentist") {
		t.Error("prompt lists an event outside the week")
	}
	if in := core.EventsInWeek(store.events, week.Prev()); len(in) != 1 {
		t.Errorf("EventsInWeek(previous week) = %+v, want Dentist", in)
	}
}

func TestSyncFailureLeavesStore(t *testing.T) {
	store := &memStore{events: []core.CalendarEvent{{Title: "Kept"}}}
	_, err := Sync(context.Background(), fixedSource{err: errors.New("offline")}, store)
	if err == nil {
		t.Fatal("expected error")
	}
	if store.calls != 0 || store.events[0].Title != "Kept" {
		t.Errorf("store modified on failure: %+v", store)
	}
}

const sampleICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//EN
BEGIN:VEVENT
UID:lecture@test
SUMMARY:Lecture
DTSTART:20240108T150000Z
DTEND:20240108T163000Z
RRULE:FREQ=WEEKLY;BYDAY=MO,WE;COUNT=6
EXDATE:20240110T150000Z
END:VEVENT
BEGIN:VEVENT
UID:holiday@test
SUMMARY:Holiday
DTSTART;VALUE=DATE:20240112
DTEND;VALUE=DATE:20240113
END:VEVENT
BEGIN:VEVENT
UID:old@test
SUMMARY:Old meeting
DTSTART:20231201T100000Z
DTEND:20231201T110000Z
END:VEVENT
BEGIN:VEVENT
UID:notitle@test
DTSTART:20240109T100000Z
DTEND:20240109T110000Z
END:VEVENT
END:VCALENDAR
`

func TestParseICS(t *testing.T) {
	from := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	got, err := ParseICS([]byte(sampleICS), from, to, time.UTC)
	if err != nil {
		t.Fatalf("ParseICS() error = %v", err)
	}

	var titles []string
	for _, e := range got {
		titles = append(titles, e.Title+"@"+e.Start.UTC().Format("01-02T15:04"))
	}
	want := []string{
		"Lecture@01-08T15:00",
		UntitledEvent + "@01-09T10:00",
		"Holiday@01-12T00:00",
	}
	if strings.Join(titles, ",") != strings.Join(want, ",") {
		t.Errorf("occurrences = %v, want %v", titles, want)
	}
	if got[0].End.Sub(got[0].Start) != 90*time.Minute {
		t.Errorf("lecture duration = %v", got[0].End.Sub(got[0].Start))
	}
	if got[2].End.Sub(got[2].Start) != 24*time.Hour {
		t.Errorf("all-day duration = %v", got[2].End.Sub(got[2].Start))
	}
}

func TestParseICSErrors(t *testing.T) {
	if _, err := ParseICS(nil, time.Time{}, time.Time{}, nil); err == nil {
		t.Error("expected error for empty body")
	}
}

func TestICSSourceFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cal.ics")
	if err := os.WriteFile(path, []byte(sampleICS), 0o600); err != nil {
		t.Fatal(err)
	}
	src := NewICSSource(path, time.UTC)
	src.now = func() time.Time { return time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC) }

	got, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	// Lecture: Jan 8, 15, 17 (Jan 10 excluded) within 14 days, plus holiday and untitled.
	if len(got) != 5 {
		t.Errorf("len = %d, want 5: %+v", len(got), got)
	}
}

func TestScheduleCalendar(t *testing.T) {
	week := core.CurrentWeek(time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), time.Sunday)
	ws := core.WeeklySchedule{
		core.Monday: {
			{Day: core.Monday, Start: 9 * 60, End: 10 * 60, Label: "Essay", Category: core.CategoryStudy},
			{Day: core.Monday, Start: 12 * 60, End: core.NoTime, Label: "Lunch", Category: core.CategoryMeal},
		},
		core.Sunday: {{Day: core.Sunday, Start: 23 * 60, End: 24 * 60, Label: "Wind down", Category: core.CategoryPersonal}},
	}

	cal := ScheduleCalendar(ws, week, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	events := cal.Events()
	if len(events) != 3 {
		t.Fatalf("len(events) = %d, want 3", len(events))
	}

	byTitle := map[string]*ical.VEvent{}
	for _, ev := range events {
		byTitle[ev.GetProperty(ical.ComponentPropertySummary).Value] = ev
	}

	tests := []struct {
		title      string
		start, end time.Time
	}{
		{"Essay", time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC), time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)},
		{"Lunch", time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC), time.Date(2024, 1, 8, 12, 30, 0, 0, time.UTC)},
		{"Wind down", time.Date(2024, 1, 7, 23, 0, 0, 0, time.UTC), time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			ev := byTitle[tt.title]
			if ev == nil {
				t.Fatalf("missing event %q", tt.title)
			}
			start, err := ev.GetStartAt()
			if err != nil || !start.Equal(tt.start) {
				t.Errorf("start = %v (%v), want %v", start, err, tt.start)
			}
			end, err := ev.GetEndAt()
			if err != nil || !end.Equal(tt.end) {
				t.Errorf("end = %v (%v), want %v", end, err, tt.end)
			}
		})
	}

	var buf bytes.Buffer
	if err := ExportICS(&buf, ws, week); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "2024-01-08-monday-0@weekplan") {
		t.Errorf("stable UID missing from:\n%s", buf.String())
	}
}

func TestRelayClient(t *testing.T) {
	var authed atomic.Bool
	authed.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/status":
			if authed.Load() {
				w.Write([]byte(`{"authenticated":true}`))
			} else {
				w.Write([]byte(`{"authenticated":false}`))
			}
		case "/events":
			if !authed.Load() {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"not authenticated"}`))
				return
			}
			w.Write([]byte(`[{"title":"Gym","start":"2024-01-09T07:00:00Z","end":"2024-01-09T08:00:00Z"},{"title":"Trip","start":"2024-01-12","end":"2024-01-13"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewRelayClient(srv.URL+"/", nil)
	c.Location = time.UTC
	ctx := context.Background()

	if c.AuthURL() != srv.URL+"/auth/google" {
		t.Errorf("AuthURL() = %q", c.AuthURL())
	}
	if ok, err := c.Status(ctx); err != nil || !ok {
		t.Errorf("Status() = %v, %v", ok, err)
	}
	events, err := c.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(events) != 2 || events[1].Start.Hour() != 0 {
		t.Errorf("events = %+v", events)
	}

	authed.Store(false)
	if ok, _ := c.Status(ctx); ok {
		t.Error("Status() = true after logout")
	}
	if _, err := c.Events(ctx); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Events() error = %v, want ErrNotAuthenticated", err)
	}
}

func TestGoogleSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/calendars/primary/events") {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("singleEvents") != "true" || q.Get("orderBy") != "startTime" || q.Get("timeMin") == "" {
			t.Errorf("query = %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[
			{"summary":"Standup","start":{"dateTime":"2024-01-09T09:00:00Z"},"end":{"dateTime":"2024-01-09T09:15:00Z"}},
			{"summary":"","start":{"date":"2024-01-10"},"end":{"date":"2024-01-11"}}
		]}`))
	}))
	defer srv.Close()

	svc, err := gcal.NewService(context.Background(), option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatal(err)
	}
	src := NewGoogleSource(svc)
	src.Location = time.UTC
	src.now = func() time.Time { return time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC) }

	got, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(got) != 2 || got[0].Title != "Standup" || got[1].Title != UntitledEvent {
		t.Errorf("Fetch() = %+v", got)
	}
}

func TestCredentials(t *testing.T) {
	var nilCreds *Credentials
	if nilCreds.Present() || nilCreds.Token() != nil {
		t.Error("nil credentials should be empty")
	}
	c := NewCredentials(&oauth2.Token{AccessToken: "a"})
	if !c.Present() {
		t.Error("Present() = false")
	}
	tok := c.Token()
	tok.AccessToken = "mutated"
	if c.Token().AccessToken != "a" {
		t.Error("Token() should return a copy")
	}
}

func TestOAuthClient(t *testing.T) {
	c := NewOAuthClient(OAuthConfig{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://localhost:3001/oauth2callback"})
	if !c.Configured() {
		t.Error("Configured() = false")
	}
	u := c.AuthURL("state-123")
	for _, want := range []string{"state=state-123", "access_type=offline", "client_id=id", "calendar.readonly"} {
		if !strings.Contains(u, want) {
			t.Errorf("AuthURL() = %s, missing %s", u, want)
		}
	}
	if _, err := NewOAuthClient(OAuthConfig{}).Exchange(context.Background(), "code"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Exchange() error = %v, want ErrNotConfigured", err)
	}
}
