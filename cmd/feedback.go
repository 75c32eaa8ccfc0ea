package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhabedank/weekplan/internal/core"
	"github.com/dhabedank/weekplan/internal/llm"
	"github.com/dhabedank/weekplan/internal/planner"
	"github.com/dhabedank/weekplan/internal/schedule"
	"github.com/dhabedank/weekplan/internal/tui"
)

func newFeedbackCmd(g *globals) *cobra.Command {
	var direct bool
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Get short coaching feedback on your logged study sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			logs, err := a.repo.StudyLogs(cmd.Context())
			if err != nil {
				return err
			}
			gen, err := a.generator(direct)
			if err != nil {
				return err
			}
			metered := &meteredGenerator{Generator: gen, name: "Feedback", w: cmd.ErrOrStderr()}

			text, err := planner.Feedback(cmd.Context(), metered, a.cfg.FeedbackModel, logs)
			if err != nil {
				return userError(cmd.ErrOrStderr(), "Feedback", err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), tui.RenderStepComplete(metered.last))
			fmt.Fprintln(a.out)
			fmt.Fprintln(a.out, text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&direct, "direct", false, "Call the provider directly instead of the relay")
	return cmd
}

func newOverviewCmd(g *globals) *cobra.Command {
	var (
		offset int
		direct bool
	)
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Summarize a week's check-ins and tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			logs, err := a.repo.DailyLogs(cmd.Context())
			if err != nil {
				return err
			}
			tasks, err := a.repo.Tasks(cmd.Context())
			if err != nil {
				return err
			}
			week := a.week(offset)
			stats := core.SummarizeWeek(logs, tasks, week)

			fmt.Fprintln(a.out, tui.TitleStyle.Render(tui.WeekTitle(week)))
			fmt.Fprintf(a.out, "  Check-ins: %d  Avg mood: %.1f/5  Avg energy: %.0f/100\n", stats.CheckIns, stats.AvgMood, stats.AvgEnergy)
			fmt.Fprintf(a.out, "  Completed: %d  Pending: %d\n\n", len(stats.CompletedTasks), len(stats.UpcomingTasks))

			in := core.OverviewInput{
				AvgMood:        stats.AvgMood,
				AvgEnergy:      stats.AvgEnergy,
				CompletedTasks: stats.CompletedTasks,
				UpcomingTasks:  stats.UpcomingTasks,
			}

			var text string
			if direct {
				gen, err := a.generator(true)
				if err != nil {
					return err
				}
				raw, err := gen.Generate(cmd.Context(), core.BuildOverviewPrompt(in), a.cfg.FeedbackModel)
				if err != nil {
					return userError(cmd.ErrOrStderr(), "Overview", err)
				}
				text = schedule.ExtractFeedback(raw)
			} else {
				text, err = llm.NewRelayClient(a.cfg.RelayURL, nil).Overview(cmd.Context(), in)
				if err != nil {
					return userError(cmd.ErrOrStderr(), "Overview", err)
				}
			}
			fmt.Fprintln(a.out, text)
			return nil
		},
	}
	cmd.Flags().IntVarP(&offset, "week", "w", 0, "Week offset from the current week")
	cmd.Flags().BoolVar(&direct, "direct", false, "Call the provider directly instead of the relay")
	return cmd
}
