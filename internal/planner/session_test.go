package planner

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dhabedank/weekplan/internal/core"
	"github.com/dhabedank/weekplan/internal/grid"
	"github.com/dhabedank/weekplan/internal/llm"
	"github.com/dhabedank/weekplan/internal/logging"
)

// fakeGenerator returns a canned response and records prompts.
type fakeGenerator struct {
	response string
	err      error
	prompts  []string
	models   []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt, model string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.models = append(f.models, model)
	return f.response, f.err
}

func testWeek() core.WeekWindow {
	return core.CurrentWeek(time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), time.Sunday)
}

func essayData() Data {
	return Data{
		Tasks:  []core.Task{{ID: "1", Name: "Essay", Duration: 60, Importance: core.ImportanceHigh, Kind: core.KindTask}},
		Mood:   core.MoodNeutral,
		Energy: 50,
	}
}

const scenarioA = `{"monday":{"schedule":[{"start_time":"09:00","end_time":"10:00","task":"Essay","type":"study"}]},
"tuesday":{"schedule":[]},"wednesday":{"schedule":[]},"thursday":{"schedule":[]},
"friday":{"schedule":[]},"saturday":{"schedule":[]},"sunday":{"schedule":[]}}`

func TestRunSingleStudyBlock(t *testing.T) {
	gen := &fakeGenerator{response: scenarioA}
	s := NewSession(gen, testWeek(), Options{Model: "m1"})

	req := s.Regenerate()
	res := s.Run(context.Background(), req, essayData())
	if res.Err != nil {
		t.Fatalf("Run() error = %v", res.Err)
	}
	if !s.Apply(res) {
		t.Fatal("Apply() rejected the latest result")
	}

	ws, placements, err := s.Current()
	if err != nil || ws == nil {
		t.Fatalf("Current() = %v, %v", ws, err)
	}
	if len(placements) != 1 {
		t.Fatalf("placements = %+v, want exactly one", placements)
	}
	p := placements[0]
	if p.DayColumn != 1 {
		t.Errorf("DayColumn = %d, want 1 (Monday in a Sunday-start week)", p.DayColumn)
	}
	if p.RowStart != 8 || p.RowSpan != 4 {
		t.Errorf("rows = %d+%d, want 8+4 (09:00-10:00)", p.RowStart, p.RowSpan)
	}
	if p.Color != grid.DefaultPalette[0] {
		t.Errorf("Color = %s, want %s", p.Color, grid.DefaultPalette[0])
	}

	if len(gen.prompts) != 1 || gen.models[0] != "m1" {
		t.Fatalf("generator calls = %d, models %v", len(gen.prompts), gen.models)
	}
	if !strings.Contains(gen.prompts[0], "Essay (Est: 60m, Importance: High)") {
		t.Errorf("prompt does not list the task:\n%s", gen.prompts[0])
	}
}

func TestRunRejectsUnusableResponses(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"prose instead of JSON", "Here's a lovely plan: study in the morning and rest at night."},
		{"missing monday", `{"tuesday":{"schedule":[{"start_time":"09:00","end_time":"10:00","task":"Essay","type":"study"}]}}`},
	}

	var messages []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			gen := &fakeGenerator{response: tt.response}
			s := NewSession(gen, testWeek(), Options{Logger: logging.New(logging.Options{Writer: &buf, Level: "debug"})})

			res := s.Run(context.Background(), s.Regenerate(), essayData())
			if res.Err == nil {
				t.Fatal("Run() succeeded, want error")
			}
			if res.Schedule != nil || res.Placements != nil {
				t.Error("failed result carries a partial schedule")
			}
			s.Apply(res)
			ws, placements, err := s.Current()
			if ws != nil || placements != nil || err == nil {
				t.Errorf("Current() = %v, %v, %v", ws, placements, err)
			}
			if !strings.Contains(buf.String(), "unusable schedule response") {
				t.Errorf("raw response not logged: %q", buf.String())
			}
			messages = append(messages, UserMessage(err))
		})
	}

	if len(messages) == 2 && messages[0] != messages[1] {
		t.Errorf("malformed and shape errors read differently: %q vs %q", messages[0], messages[1])
	}
	if len(messages) == 2 && messages[0] != MsgInvalidFormat {
		t.Errorf("message = %q, want %q", messages[0], MsgInvalidFormat)
	}
}

func TestRunRefusesWithoutPendingTasks(t *testing.T) {
	gen := &fakeGenerator{response: scenarioA}
	s := NewSession(gen, testWeek(), Options{})

	data := essayData()
	data.Tasks[0].Completed = true
	res := s.Run(context.Background(), s.Regenerate(), data)
	if !errors.Is(res.Err, ErrNoPendingTasks) {
		t.Errorf("Run() error = %v, want ErrNoPendingTasks", res.Err)
	}
	if len(gen.prompts) != 0 {
		t.Error("generator called with no pending tasks")
	}
}

func TestRunTransportFailure(t *testing.T) {
	gen := &fakeGenerator{err: &llm.RequestFailure{Kind: llm.FailureUnreachable, Message: "connection refused"}}
	s := NewSession(gen, testWeek(), Options{})

	res := s.Run(context.Background(), s.Regenerate(), essayData())
	if got := UserMessage(res.Err); got != MsgConnection {
		t.Errorf("UserMessage() = %q, want %q", got, MsgConnection)
	}
}

func TestApplyDropsStaleResults(t *testing.T) {
	gen := &fakeGenerator{response: scenarioA}
	s := NewSession(gen, testWeek(), Options{})

	first := s.Regenerate()
	second := s.NextWeek()

	late := s.Run(context.Background(), first, essayData())
	if s.Apply(late) {
		t.Error("Apply() accepted a result for a superseded request")
	}
	if ws, _, _ := s.Current(); ws != nil {
		t.Error("stale result was installed")
	}

	fresh := s.Run(context.Background(), second, essayData())
	if !s.Apply(fresh) {
		t.Fatal("Apply() rejected the latest result")
	}
	if ws, _, _ := s.Current(); ws == nil {
		t.Error("latest result not installed")
	}
}

func TestNavigationInvalidatesSchedule(t *testing.T) {
	gen := &fakeGenerator{response: scenarioA}
	week := testWeek()
	s := NewSession(gen, week, Options{})

	s.Apply(s.Run(context.Background(), s.Regenerate(), essayData()))

	tests := []struct {
		name string
		move func() Request
		want time.Time
	}{
		{"next", s.NextWeek, week.Start.AddDate(0, 0, 7)},
		{"prev", s.PrevWeek, week.Start},
		{"prev again", s.PrevWeek, week.Start.AddDate(0, 0, -7)},
		{"this week", func() Request { return s.ThisWeek(time.Date(2024, 1, 12, 8, 0, 0, 0, time.UTC)) }, week.Start},
	}

	var lastSeq uint64 = 1
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.move()
			if !req.Week.Start.Equal(tt.want) {
				t.Errorf("week = %s, want %s", req.Week, tt.want.Format(core.DateLayout))
			}
			if req.Seq <= lastSeq {
				t.Errorf("Seq = %d, not increasing past %d", req.Seq, lastSeq)
			}
			lastSeq = req.Seq
			if ws, placements, _ := s.Current(); ws != nil || placements != nil {
				t.Error("navigation kept the previous schedule")
			}
		})
	}
}

func TestRunFiltersEventsToRequestedWeek(t *testing.T) {
	gen := &fakeGenerator{response: scenarioA}
	s := NewSession(gen, testWeek(), Options{})

	data := essayData()
	data.Events = []core.CalendarEvent{
		{Title: "Dentist", Start: time.Date(2024, 1, 3, 14, 0, 0, 0, time.UTC), End: time.Date(2024, 1, 3, 14, 30, 0, 0, time.UTC)},
		{Title: "Lab", Start: time.Date(2024, 1, 9, 13, 0, 0, 0, time.UTC), End: time.Date(2024, 1, 9, 15, 0, 0, 0, time.UTC)},
	}
	s.Run(context.Background(), s.Regenerate(), data)

	prompt := gen.prompts[0]
	if strings.Contains(prompt, "Dentist") || !strings.Contains(prompt, "Lab") {
		t.Errorf("prompt commitments wrong:\n%s", prompt)
	}
}

func TestFeedback(t *testing.T) {
	logs := []core.StudyLogEntry{{ID: "a", Task: "Calculus", Duration: 45, Energy: core.EnergyHigh, Outcome: "finished set 3"}}

	tests := []struct {
		name     string
		response string
		err      error
		want     string
		wantErr  bool
	}{
		{"prose", "Great focus! Try shorter breaks.", nil, "Great focus! Try shorter breaks.", false},
		{"json summary", `{"summary":"Nice streak."}`, nil, "Nice streak.", false},
		{"transport error", "", &llm.RequestFailure{Kind: llm.FailureStatus, Status: 502}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{response: tt.response, err: tt.err}
			got, err := Feedback(context.Background(), gen, "m", logs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Feedback() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Feedback() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := Feedback(context.Background(), &fakeGenerator{}, "m", nil); !errors.Is(err, ErrNoStudyLogs) {
		t.Errorf("Feedback(nil) error = %v, want ErrNoStudyLogs", err)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrNoPendingTasks, MsgNoTasks},
		{ErrNoStudyLogs, MsgNoStudyLogs},
		{context.Canceled, MsgCancelled},
		{&llm.RequestFailure{Kind: llm.FailureStatus, Status: 500}, MsgConnection},
		{&llm.RequestFailure{Kind: llm.FailureEmpty}, MsgInvalidFormat},
		{errors.New("boom"), MsgUnexpected},
	}
	for _, tt := range tests {
		if got := UserMessage(tt.err); got != tt.want {
			t.Errorf("UserMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
