package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dhabedank/weekplan/internal/config"
	"github.com/dhabedank/weekplan/internal/llm"
	"github.com/dhabedank/weekplan/internal/tui"
	"github.com/dhabedank/weekplan/internal/version"
)

// setupSteps names the models the wizard asks for, in order.
var setupSteps = []struct {
	label string
	title string
}{
	{"Schedule", "Select Schedule Model (weekly plans)"},
	{"Feedback", "Select Feedback Model (study coaching and overviews)"},
}

func newSetupCmd(g *globals) *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Interactive configuration wizard",
		Long: `Configure weekplan with an interactive wizard.

Pick the model used to generate weekly schedules and the (usually
cheaper) model used for feedback and weekly overviews. The result is
saved to ~/.weekplan.yaml unless --config names another file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := g.configFile
			if path == "" {
				path = config.HomePath()
			}
			out := cmd.OutOrStdout()

			if reset {
				if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("failed to remove config: %w", err)
				}
				fmt.Fprintln(out, tui.SuccessStyle.Render("✓")+" Configuration reset to defaults")
				fmt.Fprintf(out, "  Removed: %s\n", path)
				return nil
			}

			models := llm.AllModels()
			if len(models) == 0 {
				return fmt.Errorf("no providers detected. Install Claude Code or Codex CLI, or set ANTHROPIC_API_KEY")
			}

			cfg, err := config.Load(config.Find(g.configFile))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			m, err := tea.NewProgram(newSetupModel(models)).Run()
			if err != nil {
				return fmt.Errorf("wizard failed: %w", err)
			}
			final := m.(setupModel)
			if final.cancelled {
				fmt.Fprintln(out, "Setup cancelled")
				return nil
			}

			final.apply(cfg)
			if err := config.Save(path, cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			version.MarkInitialized(version.StateDir())

			fmt.Fprintln(out)
			fmt.Fprintln(out, tui.SuccessStyle.Render("✓")+" Configuration saved to "+path)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Selected models:")
			fmt.Fprintf(out, "  Schedule: %s\n", tui.ModelStyle.Render(cfg.ScheduleModel))
			fmt.Fprintf(out, "  Feedback: %s\n", tui.ModelStyle.Render(cfg.FeedbackModel))
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "Reset configuration to defaults")
	return cmd
}

// Bubble Tea model for the setup wizard

type setupModel struct {
	step      int
	lists     []list.Model
	selected  []string
	cancelled bool
}

type modelItem struct {
	info llm.ModelInfo
}

func (m modelItem) Title() string       { return m.info.Name }
func (m modelItem) Description() string { return m.info.Description }
func (m modelItem) FilterValue() string { return m.info.Name }

func newSetupModel(models []llm.ModelInfo) setupModel {
	items := make([]list.Item, len(models))
	for i, m := range models {
		items[i] = modelItem{info: m}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(tui.ColorPrimary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(tui.ColorMuted)

	lists := make([]list.Model, len(setupSteps))
	for i, step := range setupSteps {
		l := list.New(items, delegate, 60, 14)
		l.Title = step.title
		l.SetShowStatusBar(false)
		l.SetFilteringEnabled(false)
		l.Styles.Title = tui.TitleStyle
		lists[i] = l
	}

	return setupModel{
		lists:    lists,
		selected: make([]string, len(setupSteps)),
	}
}

// apply copies the chosen models into cfg, leaving unchosen ones alone.
func (m setupModel) apply(cfg *config.Config) {
	if m.selected[0] != "" {
		cfg.ScheduleModel = m.selected[0]
	}
	if m.selected[1] != "" {
		cfg.FeedbackModel = m.selected[1]
	}
}

func (m setupModel) Init() tea.Cmd {
	return nil
}

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		for i := range m.lists {
			m.lists[i].SetWidth(msg.Width)
			m.lists[i].SetHeight(msg.Height - 4)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			if item, ok := m.lists[m.step].SelectedItem().(modelItem); ok {
				m.selected[m.step] = item.info.ID
			}
			m.step++
			if m.step >= len(setupSteps) {
				return m, tea.Quit
			}
			return m, nil

		case "left", "h":
			if m.step > 0 {
				m.step--
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.lists[m.step], cmd = m.lists[m.step].Update(msg)
	return m, cmd
}

func (m setupModel) View() string {
	if m.cancelled || m.step >= len(setupSteps) {
		return ""
	}

	progress := "\n  "
	for i, s := range setupSteps {
		switch {
		case i == m.step:
			progress += tui.SelectedStyle.Render(fmt.Sprintf("[%s]", s.label))
		case i < m.step:
			progress += tui.SuccessStyle.Render(fmt.Sprintf("✓ %s", s.label))
		default:
			progress += tui.UnselectedStyle.Render(fmt.Sprintf("○ %s", s.label))
		}
		if i < len(setupSteps)-1 {
			progress += " → "
		}
	}
	progress += "\n\n"

	help := tui.HelpStyle.Render("\n  ↑/↓: navigate • enter: select • ←: back • q: quit")
	return progress + m.lists[m.step].View() + help
}
