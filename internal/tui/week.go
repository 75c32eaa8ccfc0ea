package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dhabedank/weekplan/internal/core"
	"github.com/dhabedank/weekplan/internal/grid"
	"github.com/dhabedank/weekplan/internal/schedule"
)

// CellWidth is the width of one day column.
const CellWidth = 16

// RenderWeek draws placements as seven day columns of 15-minute rows.
// The first row of a block carries its label, the second its time range.
// Where blocks overlap the earlier placement wins the cell.
func RenderWeek(placements []grid.Placement, week core.WeekWindow, win grid.Window, today time.Time) string {
	rows := win.Rows()
	cells := make([][]*grid.Placement, 7)
	for c := range cells {
		cells[c] = make([]*grid.Placement, rows)
	}
	for i := range placements {
		p := &placements[i]
		if p.DayColumn < 0 || p.DayColumn > 6 {
			continue
		}
		for r := p.RowStart; r < p.RowStart+p.RowSpan && r < rows; r++ {
			if cells[p.DayColumn][r] == nil {
				cells[p.DayColumn][r] = p
			}
		}
	}

	var b strings.Builder
	b.WriteString(GutterStyle.Render(""))
	for _, d := range week.Dates() {
		style := DayHeaderStyle
		if sameDay(d, today) {
			style = TodayHeaderStyle
		}
		b.WriteString(style.Width(CellWidth).Render(d.Format("Mon 1/2")))
	}
	b.WriteByte('\n')

	for r := 0; r < rows; r++ {
		minute := win.StartHour*60 + r*grid.RowMinutes
		gutter := ""
		if minute%60 == 0 {
			gutter = schedule.FormatTime(minute)
		}
		b.WriteString(GutterStyle.Render(gutter))
		for c := 0; c < 7; c++ {
			b.WriteString(renderCell(cells[c][r], r))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func renderCell(p *grid.Placement, row int) string {
	if p == nil {
		return EmptyCellStyle.Width(CellWidth).Render(" ·")
	}
	var text string
	switch row {
	case p.RowStart:
		text = p.Item.Label
	case p.RowStart + 1:
		text = schedule.FormatTime(p.Start) + "-" + schedule.FormatTime(p.End)
	}
	text = " " + fit(text, CellWidth-1)
	return BlockStyle.Background(lipgloss.Color(p.Color)).Width(CellWidth).Render(text)
}

// fit shortens s to at most n runes, marking the cut with an ellipsis.
func fit(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// WeekTitle is the heading for a week, e.g. "Week of Jan 7, 2024".
func WeekTitle(week core.WeekWindow) string {
	return fmt.Sprintf("Week of %s", week.Start.Format("Jan 2, 2006"))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}
