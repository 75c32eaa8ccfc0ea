package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/dhabedank/weekplan/internal/core"
)

// KV is the persisted key/value store the planner reads and writes.
type KV interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
}

// GetOr reads key into dst, copying def into dst when the key is absent.
func GetOr[T any](ctx context.Context, kv KV, key string, dst *T, def T) error {
	ok, err := kv.Get(ctx, key, dst)
	if err != nil {
		return err
	}
	if !ok {
		*dst = def
	}
	return nil
}

// Keys used by Repo.
const (
	KeyTasks          = "tasks"
	KeyDailyLogs      = "daily_logs"
	KeyStudyLogs      = "study_logs"
	KeyWeeklyGoal     = "weekly_goal"
	KeyCalendarEvents = "calendar_events"
	KeyOAuthToken     = "oauth_token"
	KeyLastSchedule   = "last_schedule"
)

// DefaultWeeklyGoal is the study goal in hours before the user sets one.
const DefaultWeeklyGoal = 20

// Default check-in values for a day with no entry.
const (
	DefaultMood   = core.MoodNeutral
	DefaultEnergy = 50
)

// Repo exposes typed operations over a KV.
type Repo struct {
	kv KV
}

// NewRepo wraps kv.
func NewRepo(kv KV) *Repo {
	return &Repo{kv: kv}
}

// Tasks returns every stored task.
func (r *Repo) Tasks(ctx context.Context) ([]core.Task, error) {
	var tasks []core.Task
	err := GetOr(ctx, r.kv, KeyTasks, &tasks, nil)
	return tasks, err
}

// AddTask validates t, assigns an ID and appends it.
func (r *Repo) AddTask(ctx context.Context, t core.Task) (core.Task, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if err := t.Validate(); err != nil {
		return core.Task{}, err
	}
	tasks, err := r.Tasks(ctx)
	if err != nil {
		return core.Task{}, err
	}
	tasks = append(tasks, t)
	return t, r.kv.Set(ctx, KeyTasks, tasks)
}

// SetTaskCompleted marks the task with the given ID or unique ID prefix.
func (r *Repo) SetTaskCompleted(ctx context.Context, id string, done bool) (core.Task, error) {
	tasks, err := r.Tasks(ctx)
	if err != nil {
		return core.Task{}, err
	}
	i, err := findTask(tasks, id)
	if err != nil {
		return core.Task{}, err
	}
	tasks[i].Completed = done
	return tasks[i], r.kv.Set(ctx, KeyTasks, tasks)
}

// DeleteTask removes the task with the given ID or unique ID prefix.
func (r *Repo) DeleteTask(ctx context.Context, id string) (core.Task, error) {
	tasks, err := r.Tasks(ctx)
	if err != nil {
		return core.Task{}, err
	}
	i, err := findTask(tasks, id)
	if err != nil {
		return core.Task{}, err
	}
	removed := tasks[i]
	tasks = append(tasks[:i], tasks[i+1:]...)
	return removed, r.kv.Set(ctx, KeyTasks, tasks)
}

func findTask(tasks []core.Task, id string) (int, error) {
	return findByID(tasks, id, "task", func(t core.Task) string { return t.ID })
}

// findByID matches an exact ID first, then a unique ID prefix.
func findByID[T any](items []T, id, what string, idOf func(T) string) (int, error) {
	found := -1
	for i, it := range items {
		itemID := idOf(it)
		if itemID == id {
			return i, nil
		}
		if id != "" && strings.HasPrefix(itemID, id) {
			if found >= 0 {
				return -1, fmt.Errorf("%s id %q is ambiguous", what, id)
			}
			found = i
		}
	}
	if found < 0 {
		return -1, fmt.Errorf("%s %q not found", what, id)
	}
	return found, nil
}

// DailyLogs returns all check-ins ordered by date.
func (r *Repo) DailyLogs(ctx context.Context) ([]core.DailyLog, error) {
	byDate, err := r.dailyLogMap(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.DailyLog, 0, len(byDate))
	for _, l := range byDate {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *Repo) dailyLogMap(ctx context.Context) (map[string]core.DailyLog, error) {
	byDate := map[string]core.DailyLog{}
	if err := GetOr(ctx, r.kv, KeyDailyLogs, &byDate, map[string]core.DailyLog{}); err != nil {
		return nil, err
	}
	return byDate, nil
}

// DailyLog returns the check-in for date, or the Neutral/50 default.
// The boolean reports whether an entry was stored.
func (r *Repo) DailyLog(ctx context.Context, date string) (core.DailyLog, bool, error) {
	byDate, err := r.dailyLogMap(ctx)
	if err != nil {
		return core.DailyLog{}, false, err
	}
	if l, ok := byDate[date]; ok {
		return l, true, nil
	}
	return core.DailyLog{Date: date, Mood: DefaultMood, Energy: DefaultEnergy}, false, nil
}

// SaveDailyLog stores a check-in; the last write for a date wins.
func (r *Repo) SaveDailyLog(ctx context.Context, l core.DailyLog) error {
	if err := l.Validate(); err != nil {
		return err
	}
	byDate, err := r.dailyLogMap(ctx)
	if err != nil {
		return err
	}
	byDate[l.Date] = l
	return r.kv.Set(ctx, KeyDailyLogs, byDate)
}

// StudyLogs returns study sessions in insertion order.
func (r *Repo) StudyLogs(ctx context.Context) ([]core.StudyLogEntry, error) {
	var logs []core.StudyLogEntry
	err := GetOr(ctx, r.kv, KeyStudyLogs, &logs, nil)
	return logs, err
}

// AddStudyLog appends a session, assigning an ID.
func (r *Repo) AddStudyLog(ctx context.Context, e core.StudyLogEntry) (core.StudyLogEntry, error) {
	if strings.TrimSpace(e.Task) == "" {
		return core.StudyLogEntry{}, &core.ValidationError{Field: "task", Message: "required"}
	}
	if e.Duration <= 0 {
		return core.StudyLogEntry{}, &core.ValidationError{Field: "duration", Message: "must be greater than zero"}
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	logs, err := r.StudyLogs(ctx)
	if err != nil {
		return core.StudyLogEntry{}, err
	}
	logs = append(logs, e)
	return e, r.kv.Set(ctx, KeyStudyLogs, logs)
}

// DeleteStudyLog removes the session with the given ID or unique prefix.
func (r *Repo) DeleteStudyLog(ctx context.Context, id string) error {
	logs, err := r.StudyLogs(ctx)
	if err != nil {
		return err
	}
	found, err := findByID(logs, id, "study log", func(l core.StudyLogEntry) string { return l.ID })
	if err != nil {
		return err
	}
	logs = append(logs[:found], logs[found+1:]...)
	return r.kv.Set(ctx, KeyStudyLogs, logs)
}

// WeeklyGoal returns the study goal in hours.
func (r *Repo) WeeklyGoal(ctx context.Context) (int, error) {
	var goal int
	err := GetOr(ctx, r.kv, KeyWeeklyGoal, &goal, DefaultWeeklyGoal)
	return goal, err
}

// SetWeeklyGoal stores the study goal in hours.
func (r *Repo) SetWeeklyGoal(ctx context.Context, hours int) error {
	if hours <= 0 || hours > 168 {
		return &core.ValidationError{Field: "goal", Message: "must be within (0, 168] hours"}
	}
	return r.kv.Set(ctx, KeyWeeklyGoal, hours)
}

// CalendarEvents returns the last synced commitments.
func (r *Repo) CalendarEvents(ctx context.Context) ([]core.CalendarEvent, error) {
	var events []core.CalendarEvent
	err := GetOr(ctx, r.kv, KeyCalendarEvents, &events, nil)
	return events, err
}

// ReplaceCalendarEvents overwrites the stored commitments wholesale.
func (r *Repo) ReplaceCalendarEvents(ctx context.Context, events []core.CalendarEvent) error {
	if events == nil {
		events = []core.CalendarEvent{}
	}
	return r.kv.Set(ctx, KeyCalendarEvents, events)
}

// OAuthToken returns the stored calendar credentials, if any.
func (r *Repo) OAuthToken(ctx context.Context) (*oauth2.Token, bool, error) {
	var tok oauth2.Token
	ok, err := r.kv.Get(ctx, KeyOAuthToken, &tok)
	if err != nil || !ok {
		return nil, false, err
	}
	return &tok, true, nil
}

// SaveOAuthToken stores calendar credentials.
func (r *Repo) SaveOAuthToken(ctx context.Context, tok *oauth2.Token) error {
	if tok == nil {
		return fmt.Errorf("token is nil")
	}
	return r.kv.Set(ctx, KeyOAuthToken, tok)
}

// SavedSchedule is the most recently generated schedule and its week.
type SavedSchedule struct {
	Week        core.WeekWindow     `json:"week"`
	Schedule    core.WeeklySchedule `json:"schedule"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// LastSchedule returns the schedule saved by SaveLastSchedule, if any.
func (r *Repo) LastSchedule(ctx context.Context) (SavedSchedule, bool, error) {
	var s SavedSchedule
	ok, err := r.kv.Get(ctx, KeyLastSchedule, &s)
	return s, ok, err
}

// SaveLastSchedule replaces the saved schedule.
func (r *Repo) SaveLastSchedule(ctx context.Context, s SavedSchedule) error {
	if s.Schedule == nil {
		return fmt.Errorf("schedule is nil")
	}
	return r.kv.Set(ctx, KeyLastSchedule, s)
}
