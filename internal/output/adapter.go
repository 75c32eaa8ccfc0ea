// Package output writes a generated weekly schedule in one of several formats.
package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dhabedank/weekplan/internal/core"
)

// Adapter renders a schedule for one target format.
type Adapter interface {
	// Name returns the format identifier used on the command line.
	Name() string

	// Extension is the default file extension, including the dot.
	Extension() string

	// Write renders ws for week to w.
	Write(w io.Writer, ws core.WeeklySchedule, week core.WeekWindow) error
}

// Config configures where a schedule is written.
type Config struct {
	// Path of the output file. Empty means Stdout.
	Path string

	// Stdout receives the output when Path is empty. Defaults to os.Stdout.
	Stdout io.Writer
}

// Result describes a completed write.
type Result struct {
	Format string
	Path   string // Empty when written to Stdout
	Items  int
}

var adapters = map[string]Adapter{}

func register(a Adapter) {
	adapters[a.Name()] = a
}

// Get returns the adapter for format.
func Get(format string) (Adapter, error) {
	a, ok := adapters[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %s)", format, strings.Join(Formats(), ", "))
	}
	return a, nil
}

// Formats lists the registered format names.
func Formats() []string {
	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Write renders ws with a according to cfg.
func Write(a Adapter, ws core.WeeklySchedule, week core.WeekWindow, cfg Config) (*Result, error) {
	res := &Result{Format: a.Name(), Path: cfg.Path, Items: ws.Count()}
	if cfg.Path == "" {
		out := cfg.Stdout
		if out == nil {
			out = os.Stdout
		}
		return res, a.Write(out, ws, week)
	}

	f, err := os.Create(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", cfg.Path, err)
	}
	if err := a.Write(f, ws, week); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write %s: %w", cfg.Path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", cfg.Path, err)
	}
	return res, nil
}
