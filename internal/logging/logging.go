// Package logging builds the structured logger shared by the relay and client.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Options configures the logger.
type Options struct {
	Writer io.Writer
	Level  string
	Prefix string
}

// New returns a charm logger. Unknown levels fall back to info.
func New(opts Options) *log.Logger {
	var w io.Writer = os.Stderr
	if opts.Writer != nil {
		w = opts.Writer
	}

	lvl, err := log.ParseLevel(opts.Level)
	if err != nil {
		lvl = log.InfoLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          opts.Prefix,
		ReportTimestamp: true,
	})
}

// Discard returns a logger that drops everything, for tests.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
