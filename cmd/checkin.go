package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhabedank/weekplan/internal/core"
	"github.com/dhabedank/weekplan/internal/tui"
)

func newCheckinCmd(g *globals) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Record or review daily mood and energy",
	}
	cmd.PersistentFlags().StringVar(&date, "date", "", "Day to act on, YYYY-MM-DD (default today)")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the check-in for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckinMove(cmd, g, date, func(c core.CheckinCursor) (core.CheckinCursor, bool) { return c, true })
		},
	}
	prev := &cobra.Command{
		Use:   "prev",
		Short: "Show the check-in for the day before --date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckinMove(cmd, g, date, func(c core.CheckinCursor) (core.CheckinCursor, bool) { return c.Prev(), true })
		},
	}
	next := &cobra.Command{
		Use:   "next",
		Short: "Show the check-in for the day after --date, never past today",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckinMove(cmd, g, date, func(c core.CheckinCursor) (core.CheckinCursor, bool) {
				n := c.Next()
				return n, !n.Date.Equal(c.Date)
			})
		},
	}
	cmd.AddCommand(show, prev, next, newCheckinSetCmd(g, &date))
	return cmd
}

func newCheckinSetCmd(g *globals, date *string) *cobra.Command {
	var (
		mood   string
		energy int
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save mood and energy for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			cur, err := checkinCursor(a.today(), *date)
			if err != nil {
				return err
			}
			existing, _, err := a.repo.DailyLog(cmd.Context(), cur.Key())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("mood") {
				if existing.Mood, err = core.ParseMood(mood); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("energy") {
				existing.Energy = energy
			}
			if err := a.repo.SaveDailyLog(cmd.Context(), existing); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s Saved check-in for %s\n", tui.SuccessStyle.Render("✓"), cur.Key())
			printCheckin(a.out, existing, true)
			return nil
		},
	}
	cmd.Flags().StringVarP(&mood, "mood", "m", "", "Mood (excited/happy/neutral/sad/stressed)")
	cmd.Flags().IntVarP(&energy, "energy", "e", 50, "Energy 0-100")
	return cmd
}

// checkinCursor places the cursor on date, rejecting future days.
func checkinCursor(now time.Time, date string) (core.CheckinCursor, error) {
	cur := core.NewCheckinCursor(now)
	if date == "" {
		return cur, nil
	}
	d, err := time.ParseInLocation(core.DateLayout, date, now.Location())
	if err != nil {
		return cur, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", date)
	}
	if d.After(cur.Today) {
		return cur, fmt.Errorf("cannot check in for a future date (%s)", date)
	}
	cur.Date = d
	return cur, nil
}

func runCheckinMove(cmd *cobra.Command, g *globals, date string, move func(core.CheckinCursor) (core.CheckinCursor, bool)) error {
	a, err := openApp(cmd, g)
	if err != nil {
		return err
	}
	defer a.Close()

	cur, err := checkinCursor(a.today(), date)
	if err != nil {
		return err
	}
	cur, moved := move(cur)
	if !moved {
		fmt.Fprintln(a.out, tui.WarningStyle.Render("Already at today."))
	}

	l, stored, err := a.repo.DailyLog(cmd.Context(), cur.Key())
	if err != nil {
		return err
	}
	label := cur.Date.Format("Monday, Jan 2")
	if cur.AtToday() {
		label += " (today)"
	}
	fmt.Fprintln(a.out, tui.TitleStyle.Render(label))
	printCheckin(a.out, l, stored)
	return nil
}

func printCheckin(w io.Writer, l core.DailyLog, stored bool) {
	fmt.Fprintf(w, "  Mood: %s  Energy: %d/100\n", l.Mood, l.Energy)
	if !stored {
		fmt.Fprintln(w, tui.HelpStyle.Render("  No check-in recorded; showing defaults."))
	}
}
