package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhabedank/weekplan/internal/core"
	"github.com/dhabedank/weekplan/internal/tui"
)

func newTasksCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage the tasks to be scheduled",
	}
	cmd.AddCommand(newTasksAddCmd(g), newTasksListCmd(g), newTasksDoneCmd(g), newTasksRmCmd(g))
	return cmd
}

func newTasksAddCmd(g *globals) *cobra.Command {
	var (
		duration   int
		importance string
		deadline   string
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			imp, err := core.ParseImportance(importance)
			if err != nil {
				return err
			}
			t := core.Task{Name: args[0], Duration: duration, Importance: imp, Kind: core.KindTask}
			if deadline != "" {
				due, err := time.ParseInLocation(core.DateLayout, deadline, a.loc)
				if err != nil {
					return fmt.Errorf("invalid --deadline %q: expected YYYY-MM-DD", deadline)
				}
				t.Kind, t.Due = core.KindDeadline, &due
			}

			t, err = a.repo.AddTask(cmd.Context(), t)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s Added %s (%s)\n", tui.SuccessStyle.Render("✓"), t.Name, shortID(t.ID))
			return nil
		},
	}
	cmd.Flags().IntVarP(&duration, "duration", "d", 60, "Estimated minutes")
	cmd.Flags().StringVarP(&importance, "importance", "i", "medium", "Importance (low/medium/high)")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Due date YYYY-MM-DD; makes this a deadline task")
	return cmd
}

func newTasksListCmd(g *globals) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pending tasks in planning order",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			tasks, err := a.repo.Tasks(cmd.Context())
			if err != nil {
				return err
			}
			pending := core.PriorityOrder(core.PendingTasks(tasks))
			if len(pending) == 0 {
				fmt.Fprintln(a.out, "No pending tasks.")
			}
			for _, t := range pending {
				fmt.Fprintln(a.out, formatTask(t))
			}

			if all {
				for _, t := range tasks {
					if t.Completed {
						fmt.Fprintln(a.out, tui.HelpStyle.Render(formatTask(t)))
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include completed tasks")
	return cmd
}

func formatTask(t core.Task) string {
	mark := "[ ]"
	if t.Completed {
		mark = "[x]"
	}
	line := fmt.Sprintf("%s %s  %-30s %4d min  %-6s", mark, shortID(t.ID), t.Name, t.Duration, t.Importance)
	if t.Due != nil {
		line += "  due " + t.Due.Format(core.DateLayout)
	}
	return line
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func newTasksDoneCmd(g *globals) *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed (an ID prefix is enough)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			t, err := a.repo.SetTaskCompleted(cmd.Context(), args[0], !undo)
			if err != nil {
				return err
			}
			state := "completed"
			if undo {
				state = "pending"
			}
			fmt.Fprintf(a.out, "%s %s marked %s\n", tui.SuccessStyle.Render("✓"), t.Name, state)
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the task pending again")
	return cmd
}

func newTasksRmCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			t, err := a.repo.DeleteTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s Deleted %s\n", tui.SuccessStyle.Render("✓"), t.Name)
			return nil
		},
	}
}

func newGoalCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "goal [hours]",
		Short: "Show or set the weekly study goal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			if len(args) == 1 {
				hours, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid hours %q", args[0])
				}
				if err := a.repo.SetWeeklyGoal(cmd.Context(), hours); err != nil {
					return err
				}
			}
			goal, err := a.repo.WeeklyGoal(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Weekly study goal: %d hours\n", goal)
			return nil
		},
	}
}
