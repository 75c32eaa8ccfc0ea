package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dhabedank/weekplan/internal/logging"
	"github.com/dhabedank/weekplan/internal/output"
	"github.com/dhabedank/weekplan/internal/planner"
	"github.com/dhabedank/weekplan/internal/store"
	"github.com/dhabedank/weekplan/internal/tui"
)

const scheduleStep = "Schedule"

func newScheduleCmd(g *globals) *cobra.Command {
	var (
		offset int
		format string
		out    string
		direct bool
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate a schedule for one week and print it",
		Long: `Generate a weekly schedule from your pending tasks, recent check-ins
and calendar commitments.

The schedule is printed as a grid by default. Use --format json, ics or
text to export it instead. The result is kept for "calendar export".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			var renderer output.Adapter
			if format != "grid" {
				if renderer, err = output.Get(format); err != nil {
					return err
				}
			}

			gen, err := a.generator(direct)
			if err != nil {
				return err
			}
			metered := &meteredGenerator{Generator: gen, name: scheduleStep, w: cmd.ErrOrStderr()}
			session := planner.NewSession(metered, a.week(offset), a.sessionOptions())

			data, err := a.plannerData(cmd.Context())
			if err != nil {
				return err
			}
			res := session.Run(cmd.Context(), session.Regenerate(), data)
			if res.Err != nil {
				return userError(cmd.ErrOrStderr(), scheduleStep, res.Err)
			}
			session.Apply(res)
			fmt.Fprintln(cmd.ErrOrStderr(), tui.RenderStepComplete(metered.last))

			if err := a.repo.SaveLastSchedule(cmd.Context(), store.SavedSchedule{
				Week:        res.Week,
				Schedule:    res.Schedule,
				GeneratedAt: a.now(),
			}); err != nil {
				a.log.Warn("could not save schedule", "err", err)
			}

			if renderer == nil {
				fmt.Fprintln(a.out, tui.TitleStyle.Render(tui.WeekTitle(res.Week)))
				fmt.Fprint(a.out, tui.RenderWeek(res.Placements, res.Week, a.cfg.Window(), a.today()))
				if hidden := res.Schedule.Count() - len(res.Placements); hidden > 0 {
					fmt.Fprintln(a.out, tui.HelpStyle.Render(fmt.Sprintf("%d block(s) outside visible hours", hidden)))
				}
				return nil
			}

			written, err := output.Write(renderer, res.Schedule, res.Week, output.Config{Path: out, Stdout: a.out})
			if err != nil {
				return err
			}
			if written.Path != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %d blocks written to %s\n", tui.SuccessStyle.Render("✓"), written.Items, written.Path)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&offset, "week", "w", 0, "Week offset from the current week (-1 previous, 1 next)")
	cmd.Flags().StringVarP(&format, "format", "f", "grid", "Output format (grid/json/ics/text)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&direct, "direct", false, "Call the provider directly instead of the relay")
	return cmd
}

func newWeekCmd(g *globals) *cobra.Command {
	var direct bool
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Browse generated schedules week by week",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			gen, err := a.generator(direct)
			if err != nil {
				return err
			}
			opts := a.sessionOptions()
			opts.Logger = logging.Discard()
			session := planner.NewSession(gen, a.week(0), opts)

			model := tui.NewWeekModel(cmd.Context(), session, a.plannerData, a.cfg.Window())
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	cmd.Flags().BoolVar(&direct, "direct", false, "Call the provider directly instead of the relay")
	return cmd
}
