package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dhabedank/weekplan/internal/config"
	"github.com/dhabedank/weekplan/internal/core"
	"github.com/dhabedank/weekplan/internal/llm"
	"github.com/dhabedank/weekplan/internal/logging"
	"github.com/dhabedank/weekplan/internal/planner"
	"github.com/dhabedank/weekplan/internal/schedule"
	"github.com/dhabedank/weekplan/internal/store"
	"github.com/dhabedank/weekplan/internal/tui"
)

// globals are the persistent flags shared by every command.
type globals struct {
	configFile string
	logLevel   string
	relayURL   string
	dbPath     string
	quiet      bool
}

func (g *globals) bind(root *cobra.Command) {
	f := root.PersistentFlags()
	f.StringVar(&g.configFile, "config", "", "Config file (default: ./.weekplan.yaml or ~/.weekplan.yaml)")
	f.StringVar(&g.logLevel, "log-level", "info", "Log level (debug/info/warn/error)")
	f.StringVar(&g.relayURL, "relay", "", "Relay base URL")
	f.StringVar(&g.dbPath, "db", "", "Path to the local database")
	f.BoolVarP(&g.quiet, "quiet", "q", false, "Suppress informational output")
}

// loadConfig reads the config file; flags override file values only when set.
func loadConfig(cmd *cobra.Command, g *globals) (*config.Config, string, error) {
	path := config.Find(g.configFile)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	if path != "" && !g.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Loaded config from: %s\n", path)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = g.logLevel
	}
	if flags.Changed("relay") {
		cfg.RelayURL = g.relayURL
	}
	if flags.Changed("db") {
		cfg.DBPath = g.dbPath
	}
	cfg.Normalize()
	return cfg, path, nil
}

// app is the per-invocation state of a client command.
type app struct {
	cfg  *config.Config
	log  *log.Logger
	db   *store.DB
	repo *store.Repo
	loc  *time.Location
	out  io.Writer
	now  func() time.Time
}

func openApp(cmd *cobra.Command, g *globals) (*app, error) {
	cfg, _, err := loadConfig(cmd, g)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.New(logging.Options{Writer: cmd.ErrOrStderr(), Level: cfg.LogLevel})

	loc, err := cfg.Location()
	if err != nil {
		logger.Warn("falling back to the system time zone", "err", err)
	}

	db, err := store.Open(store.Config{Path: cfg.DBPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Debug("database opened", "path", db.Path())

	return &app{
		cfg:  cfg,
		log:  logger,
		db:   db,
		repo: store.NewRepo(db),
		loc:  loc,
		out:  cmd.OutOrStdout(),
		now:  time.Now,
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func (a *app) today() time.Time {
	return a.now().In(a.loc)
}

// week returns the window offset weeks from the current one.
func (a *app) week(offset int) core.WeekWindow {
	w := core.CurrentWeek(a.today(), a.cfg.WeekStartDay())
	for ; offset > 0; offset-- {
		w = w.Next()
	}
	for ; offset < 0; offset++ {
		w = w.Prev()
	}
	return w
}

// generator returns the relay client, or a local provider when direct.
func (a *app) generator(direct bool) (llm.Generator, error) {
	if !direct {
		return llm.NewRelayClient(a.cfg.RelayURL, nil), nil
	}
	return newProvider(a.cfg)
}

func newProvider(cfg *config.Config) (llm.Provider, error) {
	return llm.NewProvider(cfg.Provider, llm.Config{
		PreferCLI: cfg.PreferCLI,
		Model:     cfg.ScheduleModel,
		APIKey:    cfg.AnthropicAPIKey,
		MaxTokens: cfg.MaxTokens,
	})
}

func (a *app) sessionOptions() planner.Options {
	return planner.Options{
		Model:     a.cfg.ScheduleModel,
		TopTasks:  a.cfg.TopTasks,
		Window:    a.cfg.Window(),
		Normalize: schedule.Options{RequireAllDays: a.cfg.RequireAllDays},
		Logger:    a.log,
	}
}

// plannerData gathers everything a schedule request is built from. Mood
// and energy come from today's check-in, or the defaults.
func (a *app) plannerData(ctx context.Context) (planner.Data, error) {
	tasks, err := a.repo.Tasks(ctx)
	if err != nil {
		return planner.Data{}, err
	}
	logs, err := a.repo.DailyLogs(ctx)
	if err != nil {
		return planner.Data{}, err
	}
	events, err := a.repo.CalendarEvents(ctx)
	if err != nil {
		return planner.Data{}, err
	}
	goal, err := a.repo.WeeklyGoal(ctx)
	if err != nil {
		return planner.Data{}, err
	}
	today, _, err := a.repo.DailyLog(ctx, a.today().Format(core.DateLayout))
	if err != nil {
		return planner.Data{}, err
	}
	return planner.Data{
		Tasks:     tasks,
		Logs:      logs,
		Events:    events,
		GoalHours: goal,
		Mood:      today.Mood,
		Energy:    today.Energy,
	}, nil
}

// meteredGenerator prints a status line around each request.
type meteredGenerator struct {
	llm.Generator
	name string
	w    io.Writer
	last tui.Step
}

func (m *meteredGenerator) Generate(ctx context.Context, prompt, model string) (string, error) {
	fmt.Fprintln(m.w, tui.RenderStepStart(m.name, model, len(prompt)))
	start := time.Now()
	out, err := m.Generator.Generate(ctx, prompt, model)
	m.last = tui.Step{
		Name:        m.name,
		Model:       model,
		InputChars:  len(prompt),
		OutputChars: len(out),
		Duration:    time.Since(start),
	}
	return out, err
}

// userError prints the user-facing line for err and returns it for the exit code.
func userError(w io.Writer, step string, err error) error {
	msg := planner.UserMessage(err)
	fmt.Fprintln(w, tui.RenderStepFailed(step, msg))
	return fmt.Errorf("%s: %w", step, err)
}
