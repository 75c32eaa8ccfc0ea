// Package cmd holds the weekplan command tree.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dhabedank/weekplan/internal/config"
	"github.com/dhabedank/weekplan/internal/version"
)

// NewRootCommand builds the full command tree.
func NewRootCommand(ver string) *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "weekplan",
		Short:         "Plan your study week with AI-generated schedules",
		Version:       ver,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if g.quiet || cmd.Name() == "setup" || cmd.Name() == "serve" {
				return
			}
			if version.IsFirstRun(config.Find(g.configFile), version.StateDir()) {
				version.PrintFirstRunNotice(cmd.ErrOrStderr(), version.StateDir())
			}
		},
	}
	g.bind(root)

	root.AddCommand(
		newServeCmd(g),
		newScheduleCmd(g),
		newWeekCmd(g),
		newFeedbackCmd(g),
		newOverviewCmd(g),
		newTasksCmd(g),
		newGoalCmd(g),
		newCheckinCmd(g),
		newLogCmd(g),
		newCalendarCmd(g),
		newSetupCmd(g),
		newVersionCmd(ver),
	)
	return root
}
