package core

import (
	"strings"
	"testing"
	"time"
)

func testWeek() WeekWindow {
	return CurrentWeek(time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), time.Sunday)
}

func TestBuildSchedulePromptEmptyInputs(t *testing.T) {
	p := BuildSchedulePrompt(ScheduleInput{Week: testWeek()})

	for _, want := range []string{
		"The week starts on 2024-01-07 (Sunday)",
		"Mood: Neutral",
		"## TASKS (top 10 by priority)\n\nNone",
		"## FIXED COMMITMENTS (0)",
		"## MOOD AND ENERGY TREND\n\nNone",
		"between 07:00 and 24:00",
		"15-minute granularity",
		`"schedule"`,
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildSchedulePromptIsDeterministic(t *testing.T) {
	due := time.Date(2024, 1, 9, 17, 0, 0, 0, time.UTC)
	in := ScheduleInput{
		Tasks: []Task{
			{Name: "Essay", Duration: 60, Importance: ImportanceHigh, Kind: KindTask},
			{Name: "Lab report", Duration: 90, Importance: ImportanceMedium, Kind: KindDeadline, Due: &due},
		},
		GoalHours: 20,
		Mood:      MoodHappy,
		Energy:    70,
		Week:      testWeek(),
	}
	if BuildSchedulePrompt(in) != BuildSchedulePrompt(in) {
		t.Error("BuildSchedulePrompt is not deterministic")
	}
}

func TestBuildSchedulePromptTasks(t *testing.T) {
	due := time.Date(2024, 1, 9, 17, 0, 0, 0, time.UTC)
	in := ScheduleInput{
		Tasks: []Task{
			{Name: "Reading", Duration: 30, Importance: ImportanceLow, Kind: KindTask},
			{Name: "Done already", Duration: 30, Importance: ImportanceHigh, Kind: KindTask, Completed: true},
			{Name: "Lab report", Duration: 90, Importance: ImportanceHigh, Kind: KindDeadline, Due: &due},
			{Name: "Essay", Duration: 60, Importance: ImportanceHigh, Kind: KindTask},
		},
		Week:     testWeek(),
		TopTasks: 2,
	}
	p := BuildSchedulePrompt(in)

	if strings.Contains(p, "Done already") {
		t.Error("completed task should not be listed")
	}
	if !strings.Contains(p, "- Lab report (Est: 90m, Importance: High) [DEADLINE: Tue 2024-01-09 17:00]") {
		t.Error("deadline task line missing or malformed")
	}
	if strings.Index(p, "Lab report") > strings.Index(p, "- Essay") {
		t.Error("deadline task should sort before a plain task of equal importance")
	}
	if strings.Contains(p, "- Reading") {
		t.Error("task beyond top-N should be omitted")
	}
	if !strings.Contains(p, "(1 lower-priority tasks omitted)") {
		t.Error("omitted-count line missing")
	}
}

func TestBuildSchedulePromptFiltersEventsToWeek(t *testing.T) {
	week := testWeek()
	in := ScheduleInput{
		Week: week,
		Events: []CalendarEvent{
			{Title: "Dentist", Start: time.Date(2024, 1, 3, 14, 0, 0, 0, time.UTC), End: time.Date(2024, 1, 3, 14, 30, 0, 0, time.UTC)},
			{Title: "Lecture", Start: time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC), End: time.Date(2024, 1, 8, 11, 0, 0, 0, time.UTC)},
		},
	}
	p := BuildSchedulePrompt(in)

	if strings.Contains(p, "Dentist") {
		t.Error("event outside the week leaked into prompt")
	}
	if !strings.Contains(p, "## FIXED COMMITMENTS (1)") {
		t.Error("commitment count should be 1")
	}
	if !strings.Contains(p, "- Lecture: Mon 2024-01-08 10:00-11:00") {
		t.Error("in-week event missing or malformed")
	}
}

func TestBuildSchedulePromptTrend(t *testing.T) {
	week := testWeek()
	logs := []DailyLog{{Date: "2024-01-08", Mood: MoodStressed, Energy: 30}}
	p := BuildSchedulePrompt(ScheduleInput{Week: week, Trend: BuildTrend(logs, week)})

	if !strings.Contains(p, "- Mon 2024-01-08: mood Stressed, energy 30/100") {
		t.Error("trend line for logged day missing")
	}
	if !strings.Contains(p, "- Sun 2024-01-07: no check-in") {
		t.Error("trend line for missing day missing")
	}
}

func TestBuildFeedbackPrompt(t *testing.T) {
	tests := []struct {
		name string
		logs []StudyLogEntry
		want []string
	}{
		{
			name: "empty",
			logs: nil,
			want: []string{"None", "2-3"},
		},
		{
			name: "entries",
			logs: []StudyLogEntry{
				{Task: "Essay", Duration: 45, Energy: EnergyHigh, Outcome: "drafted intro"},
				{Task: "Math", Duration: 30, Energy: EnergyLow},
			},
			want: []string{
				"- Essay: 45 min, energy High, outcome: drafted intro",
				"- Math: 30 min, energy Low, outcome: not recorded",
				"under 1000 characters",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildFeedbackPrompt(tt.logs)
			for _, w := range tt.want {
				if !strings.Contains(p, w) {
					t.Errorf("prompt missing %q", w)
				}
			}
		})
	}
}

func TestBuildOverviewPrompt(t *testing.T) {
	p := BuildOverviewPrompt(OverviewInput{AvgMood: 3.5, AvgEnergy: 62, CompletedTasks: []string{"Essay"}})
	for _, w := range []string{"Average mood: 3.5/5", "Average energy: 62/100", "- Essay", "Upcoming tasks:\nNone"} {
		if !strings.Contains(p, w) {
			t.Errorf("prompt missing %q", w)
		}
	}
}
