package core

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-day key used for daily logs and trend entries.
const DateLayout = "2006-01-02"

// Importance ranks how much a task matters to the user.
type Importance string

const (
	ImportanceLow    Importance = "Low"
	ImportanceMedium Importance = "Medium"
	ImportanceHigh   Importance = "High"
)

// Rank orders importance levels; higher is more important.
func (i Importance) Rank() int {
	switch i {
	case ImportanceHigh:
		return 3
	case ImportanceMedium:
		return 2
	case ImportanceLow:
		return 1
	}
	return 0
}

// ParseImportance accepts any casing of low/medium/high.
func ParseImportance(s string) (Importance, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return ImportanceLow, nil
	case "medium", "med", "":
		return ImportanceMedium, nil
	case "high":
		return ImportanceHigh, nil
	}
	return "", &ValidationError{Field: "importance", Message: fmt.Sprintf("unknown value %q", s)}
}

// TaskKind distinguishes plain tasks from deadline-bound ones.
type TaskKind string

const (
	KindTask     TaskKind = "task"
	KindDeadline TaskKind = "deadline"
)

// Task is a unit of work the user wants scheduled.
type Task struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Duration   int        `json:"duration"` // Estimated minutes, > 0
	Importance Importance `json:"importance"`
	Completed  bool       `json:"completed"`
	Kind       TaskKind   `json:"type"`
	Due        *time.Time `json:"deadline,omitempty"` // Required iff Kind == deadline
}

// Validate checks the task invariants.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return &ValidationError{Field: "name", Message: "required"}
	}
	if t.Duration <= 0 {
		return &ValidationError{Field: "duration", Message: "must be greater than zero"}
	}
	if t.Importance.Rank() == 0 {
		return &ValidationError{Field: "importance", Message: fmt.Sprintf("unknown value %q", t.Importance)}
	}
	switch t.Kind {
	case KindTask:
		if t.Due != nil {
			return &ValidationError{Field: "deadline", Message: "only deadline tasks carry a due date"}
		}
	case KindDeadline:
		if t.Due == nil {
			return &ValidationError{Field: "deadline", Message: "required for deadline tasks"}
		}
	default:
		return &ValidationError{Field: "type", Message: fmt.Sprintf("unknown value %q", t.Kind)}
	}
	return nil
}

// Mood is the five-step self-reported mood scale.
type Mood string

const (
	MoodExcited  Mood = "Excited"
	MoodHappy    Mood = "Happy"
	MoodNeutral  Mood = "Neutral"
	MoodSad      Mood = "Sad"
	MoodStressed Mood = "Stressed"
)

// Moods lists the scale from best to worst.
var Moods = []Mood{MoodExcited, MoodHappy, MoodNeutral, MoodSad, MoodStressed}

// Value maps the mood onto 1 (Stressed) .. 5 (Excited).
func (m Mood) Value() int {
	switch m {
	case MoodExcited:
		return 5
	case MoodHappy:
		return 4
	case MoodNeutral:
		return 3
	case MoodSad:
		return 2
	case MoodStressed:
		return 1
	}
	return 0
}

// ParseMood accepts any casing of a known mood.
func ParseMood(s string) (Mood, error) {
	for _, m := range Moods {
		if strings.EqualFold(string(m), strings.TrimSpace(s)) {
			return m, nil
		}
	}
	return "", &ValidationError{Field: "mood", Message: fmt.Sprintf("unknown value %q", s)}
}

// EnergyLevel is the coarse energy rating attached to study sessions.
type EnergyLevel string

const (
	EnergyLow    EnergyLevel = "Low"
	EnergyMedium EnergyLevel = "Medium"
	EnergyHigh   EnergyLevel = "High"
)

// ParseEnergyLevel accepts any casing of low/medium/high.
func ParseEnergyLevel(s string) (EnergyLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return EnergyLow, nil
	case "medium", "med", "":
		return EnergyMedium, nil
	case "high":
		return EnergyHigh, nil
	}
	return "", &ValidationError{Field: "energy", Message: fmt.Sprintf("unknown value %q", s)}
}

// DailyLog is the single check-in for a calendar day.
type DailyLog struct {
	Date   string `json:"date"` // DateLayout
	Mood   Mood   `json:"mood"`
	Energy int    `json:"energy"` // 0..100
}

// Validate checks the daily log invariants.
func (d DailyLog) Validate() error {
	if _, err := time.Parse(DateLayout, d.Date); err != nil {
		return &ValidationError{Field: "date", Message: "expected YYYY-MM-DD"}
	}
	if d.Mood.Value() == 0 {
		return &ValidationError{Field: "mood", Message: fmt.Sprintf("unknown value %q", d.Mood)}
	}
	if d.Energy < 0 || d.Energy > 100 {
		return &ValidationError{Field: "energy", Message: "must be within 0..100"}
	}
	return nil
}

// StudyLogEntry records one completed study session.
type StudyLogEntry struct {
	ID       string      `json:"id"`
	Task     string      `json:"task"`
	Duration int         `json:"duration"` // Minutes
	Energy   EnergyLevel `json:"energy"`
	Outcome  string      `json:"outcome"`
}

// CalendarEvent is a fixed commitment pulled from an external calendar.
type CalendarEvent struct {
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// TrendEntry is one day of the mood/energy trend. Nil fields mean no check-in.
type TrendEntry struct {
	Date   string `json:"date"`
	Mood   *Mood  `json:"mood"`
	Energy *int   `json:"energy"`
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}
