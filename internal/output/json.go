package output

import (
	"io"

	"github.com/dhabedank/weekplan/internal/calendar"
	"github.com/dhabedank/weekplan/internal/core"
	"github.com/dhabedank/weekplan/internal/schedule"
)

func init() {
	register(JSONAdapter{})
	register(ICSAdapter{})
	register(TextAdapter{})
}

// JSONAdapter writes the canonical seven-day schedule object.
type JSONAdapter struct{}

func (JSONAdapter) Name() string      { return "json" }
func (JSONAdapter) Extension() string { return ".json" }

func (JSONAdapter) Write(w io.Writer, ws core.WeeklySchedule, _ core.WeekWindow) error {
	data, err := schedule.Marshal(ws)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// ICSAdapter writes an iCalendar file with one event per block.
type ICSAdapter struct{}

func (ICSAdapter) Name() string      { return "ics" }
func (ICSAdapter) Extension() string { return ".ics" }

func (ICSAdapter) Write(w io.Writer, ws core.WeeklySchedule, week core.WeekWindow) error {
	return calendar.ExportICS(w, ws, week)
}
