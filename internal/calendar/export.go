package calendar

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/dhabedank/weekplan/internal/core"
	"github.com/dhabedank/weekplan/internal/grid"
)

// ProductID identifies exported calendars.
const ProductID = "-//weekplan//weekly schedule//EN"

// ScheduleCalendar converts a generated schedule into VEVENTs dated within
// week. Items without a start are skipped; a missing or non-positive end
// gets grid.DefaultDuration. The UID is stable per week, day and position.
func ScheduleCalendar(ws core.WeeklySchedule, week core.WeekWindow, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)

	for _, day := range week.DayOrder() {
		date, ok := week.DateOf(day)
		if !ok {
			continue
		}
		for i, it := range ws[day] {
			if it.Start < 0 {
				continue
			}
			end := it.End
			if end == core.NoTime || end <= it.Start {
				end = it.Start + grid.DefaultDuration
			}
			uid := fmt.Sprintf("%s-%s-%d@weekplan", date.Format(core.DateLayout), day, i)
			ev := cal.AddEvent(uid)
			ev.SetDtStampTime(stamp)
			ev.SetSummary(it.Label)
			ev.SetStartAt(atMinute(date, it.Start))
			ev.SetEndAt(atMinute(date, end))
			ev.SetProperty(ical.ComponentPropertyCategories, string(it.Category))
		}
	}
	return cal
}

// ExportICS writes ws as an iCalendar document.
func ExportICS(w io.Writer, ws core.WeeklySchedule, week core.WeekWindow) error {
	_, err := io.WriteString(w, ScheduleCalendar(ws, week, time.Now()).Serialize())
	return err
}

// atMinute returns the wall-clock minute of day on date; 1440 is the
// following midnight.
func atMinute(date time.Time, minute int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, minute, 0, 0, date.Location())
}
