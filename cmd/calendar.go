package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/dhabedank/weekplan/internal/calendar"
	"github.com/dhabedank/weekplan/internal/core"
	"github.com/dhabedank/weekplan/internal/output"
	"github.com/dhabedank/weekplan/internal/tui"
)

func newCalendarCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Sync, import and export calendar commitments",
	}
	cmd.AddCommand(
		newCalendarStatusCmd(g),
		newCalendarSyncCmd(g),
		newCalendarImportCmd(g),
		newCalendarListCmd(g),
		newCalendarExportCmd(g),
	)
	return cmd
}

func newCalendarStatusCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the relay holds a Google Calendar session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			rc := calendar.NewRelayClient(a.cfg.RelayURL, nil)
			ok, err := rc.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("relay unreachable at %s: %w", a.cfg.RelayURL, err)
			}
			if ok {
				fmt.Fprintln(a.out, tui.SuccessStyle.Render("✓")+" Google Calendar connected")
				return nil
			}
			fmt.Fprintln(a.out, "Google Calendar not connected. Open this URL to sign in:")
			fmt.Fprintln(a.out, "  "+tui.ModelStyle.Render(rc.AuthURL()))
			return nil
		},
	}
}

func newCalendarSyncCmd(g *globals) *cobra.Command {
	var (
		source string
		file   string
	)
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Replace stored commitments with upcoming calendar events",
		Long: `Fetch upcoming events and replace the stored commitments.

Sources:
  relay   the relay's Google Calendar session (default)
  google  Google Calendar directly, using credentials saved by the relay
  ics     an iCalendar file (--file or ics_path in config)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			src, err := a.eventSource(cmd.Context(), source, file)
			if err != nil {
				return err
			}
			events, err := calendar.Sync(cmd.Context(), src, a.repo)
			if err != nil {
				if errors.Is(err, calendar.ErrNotAuthenticated) {
					return fmt.Errorf("%w; run 'weekplan calendar status' to sign in", err)
				}
				return fmt.Errorf("calendar sync failed: %w", err)
			}
			fmt.Fprintf(a.out, "%s Synced %d events from %s\n", tui.SuccessStyle.Render("✓"), len(events), source)
			return nil
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "relay", "Event source (relay/google/ics)")
	cmd.Flags().StringVar(&file, "file", "", "ICS file for --source ics")
	return cmd
}

// eventSource builds the named calendar source.
func (a *app) eventSource(ctx context.Context, source, file string) (calendar.Source, error) {
	switch source {
	case "relay":
		rc := calendar.NewRelayClient(a.cfg.RelayURL, nil)
		rc.Location = a.loc
		return rc, nil
	case "ics":
		if file == "" {
			file = a.cfg.ICSPath
		}
		if file == "" {
			return nil, errors.New("no ICS file: pass --file or set ics_path")
		}
		return calendar.NewICSSource(file, a.loc), nil
	case "google":
		return a.googleSource(ctx)
	}
	return nil, fmt.Errorf("unknown source %q (want relay, google or ics)", source)
}

// googleSource reads Google Calendar with the stored token and saves the
// token back if it was refreshed.
func (a *app) googleSource(ctx context.Context) (calendar.Source, error) {
	oauth := calendar.NewOAuthClient(calendar.OAuthConfig{
		ClientID:     a.cfg.GoogleClientID,
		ClientSecret: a.cfg.GoogleClientSecret,
		RedirectURL:  a.cfg.GoogleRedirectURL,
	})
	if !oauth.Configured() {
		return nil, calendar.ErrNotConfigured
	}
	tok, ok, err := a.repo.OAuthToken(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, calendar.ErrNotAuthenticated
	}
	creds := calendar.NewCredentials(tok)
	svc, err := oauth.Service(ctx, creds)
	if err != nil {
		return nil, err
	}
	src := calendar.NewGoogleSource(svc)
	src.Location = a.loc
	return &tokenSavingSource{Source: src, creds: creds, before: tok.AccessToken, save: a.repo.SaveOAuthToken}, nil
}

type tokenSavingSource struct {
	calendar.Source
	creds  *calendar.Credentials
	before string
	save   func(context.Context, *oauth2.Token) error
}

func (s *tokenSavingSource) Fetch(ctx context.Context) ([]core.CalendarEvent, error) {
	events, err := s.Source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if tok := s.creds.Token(); tok != nil && tok.AccessToken != s.before {
		if err := s.save(ctx, tok); err != nil {
			return nil, fmt.Errorf("save refreshed token: %w", err)
		}
	}
	return events, nil
}

func newCalendarImportCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.ics>",
		Short: "Replace stored commitments with events from an ICS file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			events, err := calendar.Sync(cmd.Context(), calendar.NewICSSource(args[0], a.loc), a.repo)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			fmt.Fprintf(a.out, "%s Imported %d events from %s\n", tui.SuccessStyle.Render("✓"), len(events), args[0])
			return nil
		},
	}
}

func newCalendarListCmd(g *globals) *cobra.Command {
	var (
		offset int
		all    bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored commitments for a week",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			events, err := a.repo.CalendarEvents(cmd.Context())
			if err != nil {
				return err
			}
			if !all {
				week := a.week(offset)
				events = core.EventsInWeek(events, week)
				fmt.Fprintln(a.out, tui.TitleStyle.Render(tui.WeekTitle(week)))
			}
			if len(events) == 0 {
				fmt.Fprintln(a.out, "No events.")
			}
			for _, e := range events {
				start, end := e.Start.In(a.loc), e.End.In(a.loc)
				fmt.Fprintf(a.out, "  %s %s-%s  %s\n", start.Format("Mon Jan 2"), start.Format("15:04"), end.Format("15:04"), e.Title)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&offset, "week", "w", 0, "Week offset from the current week")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "List every stored event")
	return cmd
}

func newCalendarExportCmd(g *globals) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the last generated schedule as an ICS file",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			saved, ok, err := a.repo.LastSchedule(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("no schedule generated yet; run 'weekplan schedule' first")
			}
			week := core.WeekWindow{Start: saved.Week.Start.In(a.loc), StartDay: saved.Week.StartDay}
			res, err := output.Write(output.ICSAdapter{}, saved.Schedule, week, output.Config{Path: out, Stdout: a.out})
			if err != nil {
				return err
			}
			if res.Path != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %d blocks written to %s\n", tui.SuccessStyle.Render("✓"), res.Items, res.Path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}
