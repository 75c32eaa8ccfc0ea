package version

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dhabedank/weekplan/internal/tui"
)

// IsFirstRun reports whether neither configPath nor the initialized marker
// in stateDir exists.
func IsFirstRun(configPath, stateDir string) bool {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return false
		}
	}
	if stateDir == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(stateDir, ".initialized"))
	return err != nil
}

// MarkInitialized creates the first-run marker in stateDir.
func MarkInitialized(stateDir string) {
	if stateDir == "" {
		return
	}
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(stateDir, ".initialized"), nil, 0644)
}

// PrintFirstRunNotice welcomes a new user and marks stateDir initialized.
func PrintFirstRunNotice(w io.Writer, stateDir string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s Welcome to weekplan!\n", tui.TitleStyle.Render("*"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Quick start:")
	fmt.Fprintf(w, "    1. Run %s to pick a provider and models\n", tui.ModelStyle.Render("weekplan setup"))
	fmt.Fprintf(w, "    2. Add something to plan: %s\n", tui.ModelStyle.Render(`weekplan tasks add "Essay" --duration 90 --importance high`))
	fmt.Fprintf(w, "    3. Open your week: %s\n", tui.ModelStyle.Render("weekplan week"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", tui.HelpStyle.Render("Run 'weekplan --help' for all commands"))
	fmt.Fprintln(w)

	MarkInitialized(stateDir)
}
