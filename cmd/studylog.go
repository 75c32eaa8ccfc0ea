package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhabedank/weekplan/internal/core"
	"github.com/dhabedank/weekplan/internal/tui"
)

func newLogCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record completed study sessions",
	}

	var (
		duration int
		energy   string
		outcome  string
	)
	add := &cobra.Command{
		Use:   "add <task>",
		Short: "Log a study session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			lvl, err := core.ParseEnergyLevel(energy)
			if err != nil {
				return err
			}
			e, err := a.repo.AddStudyLog(cmd.Context(), core.StudyLogEntry{
				Task:     args[0],
				Duration: duration,
				Energy:   lvl,
				Outcome:  outcome,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s Logged %d min of %s (%s)\n", tui.SuccessStyle.Render("✓"), e.Duration, e.Task, shortID(e.ID))
			return nil
		},
	}
	add.Flags().IntVarP(&duration, "duration", "d", 0, "Minutes studied")
	add.Flags().StringVarP(&energy, "energy", "e", "medium", "Energy during the session (low/medium/high)")
	add.Flags().StringVarP(&outcome, "outcome", "o", "", "What you got done")

	list := &cobra.Command{
		Use:   "list",
		Short: "List logged sessions",
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
			if len(logs) == 0 {
				fmt.Fprintln(a.out, "No study sessions logged.")
				return nil
			}
			total := 0
			for _, l := range logs {
				total += l.Duration
				fmt.Fprintf(a.out, "%s  %-30s %4d min  %-6s  %s\n", shortID(l.ID), l.Task, l.Duration, l.Energy, l.Outcome)
			}
			fmt.Fprintln(a.out, tui.HelpStyle.Render(fmt.Sprintf("%d sessions, %.1f hours", len(logs), float64(total)/60)))
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a logged session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.repo.DeleteStudyLog(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s Deleted session %s\n", tui.SuccessStyle.Render("✓"), args[0])
			return nil
		},
	}

	cmd.AddCommand(add, list, rm)
	return cmd
}
