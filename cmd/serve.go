package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhabedank/weekplan/internal/calendar"
	"github.com/dhabedank/weekplan/internal/logging"
	"github.com/dhabedank/weekplan/internal/relay"
	"github.com/dhabedank/weekplan/internal/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(g *globals) *cobra.Command {
	var (
		listen   string
		provider string
		model    string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the relay that forwards prompts and proxies Google Calendar",
		Long: `Run the relay HTTP server.

The relay forwards generation requests to the configured provider
(Claude CLI, Codex CLI or the Anthropic API) and holds the Google
Calendar session. Set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET to
enable calendar access.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd, g)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cmd.Flags().Changed("listen") {
				cfg.Listen = listen
			}
			if cmd.Flags().Changed("llm") {
				cfg.Provider = provider
			}
			if cmd.Flags().Changed("model") {
				cfg.ScheduleModel = model
			}
			logger := logging.New(logging.Options{Writer: cmd.ErrOrStderr(), Level: cfg.LogLevel, Prefix: "relay"})

			gen, err := newProvider(cfg)
			if err != nil {
				return err
			}
			logger.Info("using provider", "provider", gen.Name(), "model", cfg.ScheduleModel)

			db, err := store.Open(store.Config{Path: cfg.DBPath})
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			redirect := cfg.GoogleRedirectURL
			if redirect == "" {
				redirect = strings.TrimRight(cfg.RelayURL, "/") + "/oauth2callback"
			}
			oauth := calendar.NewOAuthClient(calendar.OAuthConfig{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				RedirectURL:  redirect,
			})
			if !oauth.Configured() {
				logger.Warn("google calendar disabled", "reason", calendar.ErrNotConfigured)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := relay.New(ctx, relay.Config{
				Addr:         cfg.Listen,
				FrontendURL:  cfg.FrontendURL,
				DefaultModel: cfg.ScheduleModel,
				Generator:    gen,
				OAuth:        oauth,
				Tokens:       store.NewRepo(db),
				SyncCron:     cfg.SyncCron,
				Logger:       logger,
			})
			if err != nil {
				return err
			}

			errc := make(chan error, 1)
			go func() { errc <- srv.Start() }()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Stop(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default from config, 127.0.0.1:3001)")
	cmd.Flags().StringVarP(&provider, "llm", "l", "auto", "Provider (auto/claude-cli/codex-cli/anthropic-api)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Default model for requests that name none")
	return cmd
}
