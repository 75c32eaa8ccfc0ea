package core

import (
	"sort"
	"time"
)

// BuildTrend returns one entry per day of the window. Days without a
// check-in carry nil mood and energy.
func BuildTrend(logs []DailyLog, w WeekWindow) []TrendEntry {
	byDate := make(map[string]DailyLog, len(logs))
	for _, l := range logs {
		byDate[l.Date] = l
	}

	trend := make([]TrendEntry, 0, 7)
	for _, d := range w.Dates() {
		key := d.Format(DateLayout)
		entry := TrendEntry{Date: key}
		if l, ok := byDate[key]; ok {
			mood, energy := l.Mood, l.Energy
			entry.Mood = &mood
			entry.Energy = &energy
		}
		trend = append(trend, entry)
	}
	return trend
}

// EventsInWeek keeps events whose start falls inside the window.
func EventsInWeek(events []CalendarEvent, w WeekWindow) []CalendarEvent {
	var out []CalendarEvent
	for _, e := range events {
		if w.Contains(e.Start) {
			out = append(out, e)
		}
	}
	return out
}

// PendingTasks filters out completed tasks.
func PendingTasks(tasks []Task) []Task {
	var out []Task
	for _, t := range tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// PriorityOrder sorts pending tasks by importance, then earliest deadline,
// then name. The input is not modified.
func PriorityOrder(tasks []Task) []Task {
	out := append([]Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Importance.Rank() != b.Importance.Rank() {
			return a.Importance.Rank() > b.Importance.Rank()
		}
		switch {
		case a.Due != nil && b.Due == nil:
			return true
		case a.Due == nil && b.Due != nil:
			return false
		case a.Due != nil && b.Due != nil && !a.Due.Equal(*b.Due):
			return a.Due.Before(*b.Due)
		}
		return a.Name < b.Name
	})
	return out
}

// WeekStats summarizes check-ins and tasks for the weekly overview.
type WeekStats struct {
	AvgMood        float64 // 1..5, 0 when no check-ins
	AvgEnergy      float64 // 0..100
	CheckIns       int
	CompletedTasks []string
	UpcomingTasks  []string
}

// SummarizeWeek averages the check-ins inside the window and splits tasks
// into completed and upcoming names.
func SummarizeWeek(logs []DailyLog, tasks []Task, w WeekWindow) WeekStats {
	var stats WeekStats
	var moodSum, energySum int
	for _, l := range logs {
		d, err := time.ParseInLocation(DateLayout, l.Date, w.Start.Location())
		if err != nil || !w.Contains(d) {
			continue
		}
		moodSum += l.Mood.Value()
		energySum += l.Energy
		stats.CheckIns++
	}
	if stats.CheckIns > 0 {
		stats.AvgMood = float64(moodSum) / float64(stats.CheckIns)
		stats.AvgEnergy = float64(energySum) / float64(stats.CheckIns)
	}
	for _, t := range tasks {
		if t.Completed {
			stats.CompletedTasks = append(stats.CompletedTasks, t.Name)
		} else {
			stats.UpcomingTasks = append(stats.UpcomingTasks, t.Name)
		}
	}
	return stats
}
