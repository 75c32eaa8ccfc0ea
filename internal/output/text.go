package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dhabedank/weekplan/internal/core"
	"github.com/dhabedank/weekplan/internal/schedule"
)

// TextAdapter writes a plain agenda, one day heading per column.
type TextAdapter struct{}

func (TextAdapter) Name() string      { return "text" }
func (TextAdapter) Extension() string { return ".txt" }

func (TextAdapter) Write(w io.Writer, ws core.WeeklySchedule, week core.WeekWindow) error {
	bw := bufio.NewWriter(w)
	for i, day := range week.DayOrder() {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		date, _ := week.DateOf(day)
		fmt.Fprintln(bw, date.Format("Monday, Jan 2"))

		items := ws[day]
		if len(items) == 0 {
			fmt.Fprintln(bw, "  (nothing scheduled)")
			continue
		}
		for _, it := range items {
			span := schedule.FormatTime(it.Start)
			if end := schedule.FormatTime(it.End); end != "" {
				span += "-" + end
			}
			fmt.Fprintf(bw, "  %-11s  %s [%s]\n", span, it.Label, it.Category)
		}
	}
	return bw.Flush()
}
