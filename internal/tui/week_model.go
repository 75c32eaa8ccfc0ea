package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dhabedank/weekplan/internal/grid"
	"github.com/dhabedank/weekplan/internal/planner"
)

// DataFunc loads the current user state for a schedule request.
type DataFunc func(ctx context.Context) (planner.Data, error)

// scheduleMsg carries a finished (possibly stale) generation.
type scheduleMsg planner.Result

// WeekModel is the interactive weekly view. Each navigation issues a new
// request; results for superseded requests are discarded by the session.
type WeekModel struct {
	ctx     context.Context
	session *planner.Session
	load    DataFunc
	window  grid.Window
	now     func() time.Time

	spinner  spinner.Model
	loading  bool
	message  string
	quitting bool
}

// NewWeekModel creates the view. The first schedule is requested by Init.
func NewWeekModel(ctx context.Context, session *planner.Session, load DataFunc, win grid.Window) *WeekModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle
	return &WeekModel{
		ctx:     ctx,
		session: session,
		load:    load,
		window:  win,
		now:     time.Now,
		spinner: s,
	}
}

// Init implements tea.Model.
func (m *WeekModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.request(m.session.Regenerate()))
}

// request starts generation for req off the UI goroutine.
func (m *WeekModel) request(req planner.Request) tea.Cmd {
	m.loading = true
	m.message = ""
	ctx, session, load := m.ctx, m.session, m.load
	return func() tea.Msg {
		data, err := load(ctx)
		if err != nil {
			return scheduleMsg(planner.Result{Request: req, Err: err})
		}
		return scheduleMsg(session.Run(ctx, req, data))
	}
}

// Update implements tea.Model.
func (m *WeekModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "left", "h":
			return m, m.request(m.session.PrevWeek())
		case "right", "l":
			return m, m.request(m.session.NextWeek())
		case "t":
			return m, m.request(m.session.ThisWeek(m.now()))
		case "g", "r":
			return m, m.request(m.session.Regenerate())
		}

	case scheduleMsg:
		res := planner.Result(msg)
		if m.session.Apply(res) {
			m.loading = false
			if res.Err != nil {
				m.message = planner.UserMessage(res.Err)
			}
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *WeekModel) View() string {
	if m.quitting {
		return ""
	}
	week := m.session.Week()

	var b strings.Builder
	b.WriteString(TitleStyle.Render(WeekTitle(week)))
	b.WriteString("\n\n")

	ws, placements, _ := m.session.Current()
	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " Generating schedule...\n")
	case m.message != "":
		b.WriteString(ErrorStyle.Render(m.message) + "\n")
	default:
		b.WriteString(RenderWeek(placements, week, m.window, m.now()))
		if hidden := ws.Count() - len(placements); hidden > 0 {
			b.WriteString(HelpStyle.Render(fmt.Sprintf("%d block(s) outside visible hours", hidden)) + "\n")
		}
	}

	b.WriteString("\n" + HelpStyle.Render("←/h prev  →/l next  t this week  g regenerate  q quit"))
	return b.String()
}
