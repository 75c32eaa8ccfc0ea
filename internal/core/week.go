package core

import (
	"fmt"
	"strings"
	"time"
)

// WeekWindow is a 7-day span starting at local midnight on the configured
// week-start day.
type WeekWindow struct {
	Start    time.Time
	StartDay time.Weekday
}

// ParseWeekStart maps the config value onto a weekday. Empty means Sunday.
func ParseWeekStart(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	}
	return 0, fmt.Errorf("unsupported week start %q (want sunday or monday)", s)
}

// CurrentWeek returns the window containing now, in now's location.
func CurrentWeek(now time.Time, startDay time.Weekday) WeekWindow {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	back := (int(midnight.Weekday()) - int(startDay) + 7) % 7
	return WeekWindow{Start: midnight.AddDate(0, 0, -back), StartDay: startDay}
}

// Next advances by one week.
func (w WeekWindow) Next() WeekWindow {
	return WeekWindow{Start: w.Start.AddDate(0, 0, 7), StartDay: w.StartDay}
}

// Prev steps back one week.
func (w WeekWindow) Prev() WeekWindow {
	return WeekWindow{Start: w.Start.AddDate(0, 0, -7), StartDay: w.StartDay}
}

// End is the exclusive upper bound of the window.
func (w WeekWindow) End() time.Time {
	return w.Start.AddDate(0, 0, 7)
}

// Contains reports whether t falls in [Start, End).
func (w WeekWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End())
}

// Dates returns the seven local midnights of the window.
func (w WeekWindow) Dates() []time.Time {
	out := make([]time.Time, 7)
	for i := range out {
		out[i] = w.Start.AddDate(0, 0, i)
	}
	return out
}

// DayOrder returns the day keys in display order.
func (w WeekWindow) DayOrder() []Day {
	out := make([]Day, 7)
	for i := range out {
		out[i] = Days[(int(w.StartDay)+i)%7]
	}
	return out
}

// Column returns the display column of a day key, or -1.
func (w WeekWindow) Column(d Day) int {
	wd, ok := d.Weekday()
	if !ok {
		return -1
	}
	return (int(wd) - int(w.StartDay) + 7) % 7
}

// DateOf returns the date of a day key within the window.
func (w WeekWindow) DateOf(d Day) (time.Time, bool) {
	col := w.Column(d)
	if col < 0 {
		return time.Time{}, false
	}
	return w.Start.AddDate(0, 0, col), true
}

func (w WeekWindow) String() string {
	return w.Start.Format(DateLayout)
}

// CheckinCursor selects which day's check-in is being read or written.
// It never moves past Today.
type CheckinCursor struct {
	Date  time.Time
	Today time.Time
}

// NewCheckinCursor starts the cursor on today.
func NewCheckinCursor(now time.Time) CheckinCursor {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return CheckinCursor{Date: today, Today: today}
}

// Prev moves one day back.
func (c CheckinCursor) Prev() CheckinCursor {
	c.Date = c.Date.AddDate(0, 0, -1)
	return c
}

// Next moves one day forward unless that would pass Today.
func (c CheckinCursor) Next() CheckinCursor {
	next := c.Date.AddDate(0, 0, 1)
	if next.After(c.Today) {
		return c
	}
	c.Date = next
	return c
}

// Key returns the daily-log key of the selected date.
func (c CheckinCursor) Key() string {
	return c.Date.Format(DateLayout)
}

// AtToday reports whether the cursor sits on today.
func (c CheckinCursor) AtToday() bool {
	return c.Date.Equal(c.Today)
}
