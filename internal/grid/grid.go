// Package grid maps schedule items onto a 7-column grid of 15-minute rows.
package grid

import (
	"fmt"
	"sort"

	"github.com/dhabedank/weekplan/internal/core"
)

const (
	// RowMinutes is the height of one grid row.
	RowMinutes = 15

	// DefaultDuration applies when an item has no usable end.
	DefaultDuration = 30
)

// Window is the visible part of each day, [StartHour, EndHour).
type Window struct {
	StartHour int
	EndHour   int
}

// DefaultWindow covers 07:00 to midnight.
func DefaultWindow() Window {
	return Window{StartHour: 7, EndHour: 24}
}

// Validate checks the hour bounds.
func (w Window) Validate() error {
	if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
		return fmt.Errorf("invalid visible window %02d:00-%02d:00", w.StartHour, w.EndHour)
	}
	return nil
}

// Rows is the number of 15-minute rows per day.
func (w Window) Rows() int {
	return (w.EndHour - w.StartHour) * 60 / RowMinutes
}

func (w Window) startMinute() int { return w.StartHour * 60 }
func (w Window) endMinute() int   { return w.EndHour * 60 }

// Placement is an item positioned on the grid.
type Placement struct {
	Item      core.Item
	DayColumn int
	RowStart  int
	RowSpan   int
	Start     int // Clipped start minute
	End       int // Clipped end minute
	Color     string
}

// Mapper places items for one week window.
type Mapper struct {
	Window Window
	Week   core.WeekWindow
}

// NewMapper creates a mapper.
func NewMapper(win Window, week core.WeekWindow) *Mapper {
	return &Mapper{Window: win, Week: week}
}

// Place positions a single item. It reports false when the item has no
// start, an unknown day, or nothing left after clipping to the window.
// Missing or non-positive durations become DefaultDuration.
func (m *Mapper) Place(it core.Item, lanes *Lanes) (Placement, bool) {
	col := m.Week.Column(it.Day)
	if col < 0 || it.Start < 0 {
		return Placement{}, false
	}

	end := it.End
	if end == core.NoTime || end <= it.Start {
		end = it.Start + DefaultDuration
	}

	winStart, winEnd := m.Window.startMinute(), m.Window.endMinute()
	start := max(it.Start, winStart)
	end = min(end, winEnd)
	if end <= start {
		return Placement{}, false
	}

	rowStart := (start - winStart) / RowMinutes
	rowEnd := (end - winStart) / RowMinutes
	return Placement{
		Item:      it,
		DayColumn: col,
		RowStart:  rowStart,
		RowSpan:   max(rowEnd-rowStart, 1),
		Start:     start,
		End:       end,
		Color:     lanes.ColorFor(it),
	}, true
}

// Layout places a whole schedule, ordered by column then start. Lanes are
// assigned in that order so colors are reproducible for a given schedule.
func (m *Mapper) Layout(ws core.WeeklySchedule, lanes *Lanes) []Placement {
	var out []Placement
	for _, day := range m.Week.DayOrder() {
		items := append([]core.Item(nil), ws[day]...)
		sort.SliceStable(items, func(i, j int) bool { return items[i].Start < items[j].Start })
		for _, it := range items {
			if p, ok := m.Place(it, lanes); ok {
				out = append(out, p)
			}
		}
	}
	return out
}
