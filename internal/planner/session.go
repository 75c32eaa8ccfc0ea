// Package planner owns the schedule generation pipeline for one user.
//
// A Session holds the displayed week, the current schedule and its color
// lanes. Navigation invalidates the schedule and issues a numbered Request;
// Run executes the pipeline for a request without touching session state,
// and Apply installs the result only if no newer request was issued since.
package planner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dhabedank/weekplan/internal/core"
	"github.com/dhabedank/weekplan/internal/grid"
	"github.com/dhabedank/weekplan/internal/llm"
	"github.com/dhabedank/weekplan/internal/logging"
	"github.com/dhabedank/weekplan/internal/schedule"
)

// ErrNoPendingTasks is returned before any request when nothing is left to plan.
var ErrNoPendingTasks = errors.New("no pending tasks to schedule")

// Options configures a Session.
type Options struct {
	Model     string
	TopTasks  int
	Window    grid.Window
	Normalize schedule.Options
	Palette   []string
	Logger    *log.Logger
}

// Data is the user state a schedule request is built from.
type Data struct {
	Tasks     []core.Task
	Logs      []core.DailyLog
	Events    []core.CalendarEvent
	GoalHours int
	Mood      core.Mood
	Energy    int
}

// Request identifies one generation for one week.
type Request struct {
	Seq  uint64
	Week core.WeekWindow
}

// Result is the outcome of running a Request. On failure Schedule and
// Placements are nil and Err is set.
type Result struct {
	Request
	Schedule   core.WeeklySchedule
	Placements []grid.Placement
	Lanes      *grid.Lanes
	Err        error
}

// Session is safe for concurrent use; Run may execute on another goroutine.
type Session struct {
	gen  llm.Generator
	opts Options
	log  *log.Logger

	mu         sync.Mutex
	week       core.WeekWindow
	seq        uint64
	schedule   core.WeeklySchedule
	placements []grid.Placement
	lanes      *grid.Lanes
	err        error
}

// NewSession starts a session on week with no schedule.
func NewSession(gen llm.Generator, week core.WeekWindow, opts Options) *Session {
	if opts.Window == (grid.Window{}) {
		opts.Window = grid.DefaultWindow()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Session{gen: gen, opts: opts, log: logger, week: week}
}

// Week returns the displayed week.
func (s *Session) Week() core.WeekWindow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.week
}

// Current returns the installed schedule, its placements and the error of
// the last applied request. The schedule is nil when none is shown.
func (s *Session) Current() (core.WeeklySchedule, []grid.Placement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule, s.placements, s.err
}

// NextWeek moves forward one week.
func (s *Session) NextWeek() Request {
	return s.navigate(func(w core.WeekWindow) core.WeekWindow { return w.Next() })
}

// PrevWeek moves back one week.
func (s *Session) PrevWeek() Request {
	return s.navigate(func(w core.WeekWindow) core.WeekWindow { return w.Prev() })
}

// ThisWeek jumps to the week containing now.
func (s *Session) ThisWeek(now time.Time) Request {
	return s.navigate(func(w core.WeekWindow) core.WeekWindow { return core.CurrentWeek(now, w.StartDay) })
}

// Regenerate re-requests the displayed week.
func (s *Session) Regenerate() Request {
	return s.navigate(func(w core.WeekWindow) core.WeekWindow { return w })
}

func (s *Session) navigate(move func(core.WeekWindow) core.WeekWindow) Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.week = move(s.week)
	s.seq++
	s.schedule, s.placements, s.lanes, s.err = nil, nil, nil, nil
	return Request{Seq: s.seq, Week: s.week}
}

// Apply installs res if it answers the latest request and reports whether
// it did. Stale results are dropped.
func (s *Session) Apply(res Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if res.Seq != s.seq {
		s.log.Debug("dropping stale schedule result", "seq", res.Seq, "latest", s.seq)
		return false
	}
	if res.Err != nil {
		s.schedule, s.placements, s.lanes = nil, nil, nil
	} else {
		s.schedule, s.placements, s.lanes = res.Schedule, res.Placements, res.Lanes
	}
	s.err = res.Err
	return true
}

// Run composes the prompt, generates, parses and lays out the schedule for
// req. It reads no session state beyond configuration.
func (s *Session) Run(ctx context.Context, req Request, data Data) Result {
	res := Result{Request: req}
	if len(core.PendingTasks(data.Tasks)) == 0 {
		res.Err = ErrNoPendingTasks
		return res
	}

	prompt := core.BuildSchedulePrompt(core.ScheduleInput{
		Tasks:     data.Tasks,
		GoalHours: data.GoalHours,
		Mood:      data.Mood,
		Energy:    data.Energy,
		Events:    data.Events,
		Week:      req.Week,
		Trend:     core.BuildTrend(data.Logs, req.Week),
		TopTasks:  s.opts.TopTasks,
	})

	s.log.Debug("requesting schedule", "seq", req.Seq, "week", req.Week, "prompt_chars", len(prompt))
	raw, err := s.gen.Generate(ctx, prompt, s.opts.Model)
	if err != nil {
		res.Err = err
		return res
	}

	ws, err := schedule.Parse(raw, s.opts.Normalize)
	if err != nil {
		s.log.Debug("unusable schedule response", "seq", req.Seq, "err", err, "raw", raw)
		res.Err = err
		return res
	}

	lanes := grid.NewLanes(s.opts.Palette)
	res.Schedule = ws
	res.Placements = grid.NewMapper(s.opts.Window, req.Week).Layout(ws, lanes)
	res.Lanes = lanes
	s.log.Debug("schedule ready", "seq", req.Seq, "items", ws.Count(), "placed", len(res.Placements))
	return res
}
