package core

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTopTasks is how many pending tasks are listed in a schedule prompt.
const DefaultTopTasks = 10

// none is the placeholder for empty prompt sections.
const none = "None"

// SchedulePromptTemplate is the instruction for weekly schedule generation.
// The output contract is one object keyed by day, each day holding a
// "schedule" array of start_time/end_time/task/type items.
const SchedulePromptTemplate = `You are a study planner. Build a time-blocked weekly schedule and output ONLY valid JSON.

## WEEK

The week starts on %s (%s). Every day key refers to a day of this week only.

## CURRENT STATE

Mood: %s
Energy: %d/100
Weekly study goal: %d hours

## MOOD AND ENERGY TREND

%s

## TASKS (top %d by priority)

%s

## FIXED COMMITMENTS (%d)

You MUST schedule around them. No block may overlap a commitment.
%s

## CONSTRAINTS

- Schedule only between 07:00 and 24:00.
- Use 15-minute granularity: every time ends in :00, :15, :30 or :45.
- Block lengths: study 45-90 min, deadline_work 45-120 min, break 10-15 min, meal 30-60 min, personal or personal_time 30-120 min.
- Work toward DEADLINE tasks early in the week, well before the due date. Never leave it all for the final day. Use type "deadline_work" for those blocks.
- Lighten the study load on days with low energy or a Sad or Stressed mood.
- Allowed types: study, deadline_work, break, meal, personal, personal_time, class, event.

## OUTPUT REQUIREMENTS (CRITICAL)

- Return ONLY one JSON object. No explanations before or after.
- No markdown fencing (no ` + "```json" + ` or ` + "```" + `).
- Keys are exactly the seven lowercase day names: monday, tuesday, wednesday, thursday, friday, saturday, sunday.
- Each value is an object with a "schedule" array. An empty day is {"schedule": []}.
- Every item has "start_time" and "end_time" as 24-hour "HH:MM", plus "task" and "type".
- Start your response with { and end with }.

Example:
{"monday":{"schedule":[{"start_time":"09:00","end_time":"10:30","task":"Essay","type":"study"},{"start_time":"10:30","end_time":"10:45","task":"Break","type":"break"}]},"tuesday":{"schedule":[]}}`

// FeedbackPromptTemplate asks for short coaching feedback on study sessions.
const FeedbackPromptTemplate = `You are a supportive study coach. Here is the student's study log:

%s

Reply in plain text only: no JSON, no markdown headings, under 1000 characters.
Start with ONE encouraging observation about their study habits.
Then give 2-3 concise, actionable tips based on the log.`

// OverviewPromptTemplate asks for a short narrative summary of a week.
const OverviewPromptTemplate = `You are a friendly wellbeing and productivity coach. Summarize the student's week.

Average mood: %s
Average energy: %s
Completed tasks:
%s
Upcoming tasks:
%s

Reply in plain text only, at most 6 sentences. Mention one thing that went well and one focus for the coming week.`

// ScheduleInput carries everything the schedule prompt embeds.
type ScheduleInput struct {
	Tasks     []Task
	GoalHours int
	Mood      Mood
	Energy    int
	Events    []CalendarEvent // Filtered to Week before use
	Week      WeekWindow
	Trend     []TrendEntry
	TopTasks  int // 0 means DefaultTopTasks
}

// BuildSchedulePrompt renders the schedule instruction. It never fails;
// empty sections render as "None".
func BuildSchedulePrompt(in ScheduleInput) string {
	top := in.TopTasks
	if top <= 0 {
		top = DefaultTopTasks
	}
	mood := in.Mood
	if mood == "" {
		mood = MoodNeutral
	}
	events := EventsInWeek(in.Events, in.Week)

	return fmt.Sprintf(
		SchedulePromptTemplate,
		in.Week.Start.Format(DateLayout),
		in.Week.Start.Weekday(),
		mood,
		in.Energy,
		in.GoalHours,
		renderTrend(in.Trend),
		top,
		renderTasks(in.Tasks, top),
		len(events),
		renderEvents(events, in.Week.Start.Location()),
	)
}

// BuildFeedbackPrompt renders the study-coach instruction.
func BuildFeedbackPrompt(logs []StudyLogEntry) string {
	if len(logs) == 0 {
		return fmt.Sprintf(FeedbackPromptTemplate, none)
	}
	var b strings.Builder
	for i, l := range logs {
		if i > 0 {
			b.WriteByte('\n')
		}
		outcome := strings.TrimSpace(l.Outcome)
		if outcome == "" {
			outcome = "not recorded"
		}
		fmt.Fprintf(&b, "- %s: %d min, energy %s, outcome: %s", l.Task, l.Duration, l.Energy, outcome)
	}
	return fmt.Sprintf(FeedbackPromptTemplate, b.String())
}

// OverviewInput is the weekly-overview request body.
type OverviewInput struct {
	AvgMood        float64  `json:"avgMood"`
	AvgEnergy      float64  `json:"avgEnergy"`
	CompletedTasks []string `json:"completedTasks"`
	UpcomingTasks  []string `json:"upcomingTasks"`
}

// BuildOverviewPrompt renders the weekly overview instruction.
func BuildOverviewPrompt(in OverviewInput) string {
	mood, energy := "no check-ins", "no check-ins"
	if in.AvgMood > 0 {
		mood = fmt.Sprintf("%.1f/5", in.AvgMood)
		energy = fmt.Sprintf("%.0f/100", in.AvgEnergy)
	}
	return fmt.Sprintf(OverviewPromptTemplate, mood, energy, bulletList(in.CompletedTasks), bulletList(in.UpcomingTasks))
}

func renderTrend(trend []TrendEntry) string {
	if len(trend) == 0 {
		return none
	}
	lines := make([]string, 0, len(trend))
	for _, e := range trend {
		label := e.Date
		if d, err := time.Parse(DateLayout, e.Date); err == nil {
			label = d.Format("Mon ") + e.Date
		}
		if e.Mood == nil && e.Energy == nil {
			lines = append(lines, fmt.Sprintf("- %s: no check-in", label))
			continue
		}
		mood, energy := "unknown", "unknown"
		if e.Mood != nil {
			mood = string(*e.Mood)
		}
		if e.Energy != nil {
			energy = fmt.Sprintf("%d/100", *e.Energy)
		}
		lines = append(lines, fmt.Sprintf("- %s: mood %s, energy %s", label, mood, energy))
	}
	return strings.Join(lines, "\n")
}

func renderTasks(tasks []Task, top int) string {
	pending := PriorityOrder(PendingTasks(tasks))
	if len(pending) == 0 {
		return none
	}
	shown := pending
	if len(shown) > top {
		shown = shown[:top]
	}
	lines := make([]string, 0, len(shown)+1)
	for _, t := range shown {
		line := fmt.Sprintf("- %s (Est: %dm, Importance: %s)", t.Name, t.Duration, t.Importance)
		if t.Kind == KindDeadline && t.Due != nil {
			line += fmt.Sprintf(" [DEADLINE: %s]", t.Due.Format("Mon 2006-01-02 15:04"))
		}
		lines = append(lines, line)
	}
	if rest := len(pending) - len(shown); rest > 0 {
		lines = append(lines, fmt.Sprintf("(%d lower-priority tasks omitted)", rest))
	}
	return strings.Join(lines, "\n")
}

func renderEvents(events []CalendarEvent, loc *time.Location) string {
	if len(events) == 0 {
		return none
	}
	lines := make([]string, 0, len(events))
	for _, e := range events {
		start, end := e.Start.In(loc), e.End.In(loc)
		span := start.Format("Mon 2006-01-02 15:04") + "-" + end.Format("15:04")
		if end.YearDay() != start.YearDay() || end.Year() != start.Year() {
			span = start.Format("Mon 2006-01-02 15:04") + " to " + end.Format("Mon 2006-01-02 15:04")
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", e.Title, span))
	}
	return strings.Join(lines, "\n")
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return none
	}
	return "- " + strings.Join(items, "\n- ")
}
