// Package relay is the HTTP service that forwards prompts to a text
// generation provider and proxies Google Calendar authorization.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/robfig/cron/v3"
	"golang.org/x/oauth2"

	"github.com/dhabedank/weekplan/internal/calendar"
	"github.com/dhabedank/weekplan/internal/llm"
	"github.com/dhabedank/weekplan/internal/logging"
)

// RequestTimeout bounds every request, generation included.
const RequestTimeout = 3 * time.Minute

// stateTTL is how long an authorization state stays redeemable.
const stateTTL = 10 * time.Minute

// TokenStore persists calendar credentials across restarts.
type TokenStore interface {
	OAuthToken(ctx context.Context) (*oauth2.Token, bool, error)
	SaveOAuthToken(ctx context.Context, tok *oauth2.Token) error
}

// EventLister lists upcoming events using creds.
type EventLister func(ctx context.Context, creds *calendar.Credentials) ([]calendar.RawEvent, error)

// Config for the server.
type Config struct {
	Addr         string
	FrontendURL  string
	DefaultModel string
	Generator    llm.Generator
	OAuth        *calendar.OAuthClient
	Tokens       TokenStore
	// ListEvents overrides the Google Calendar lister.
	ListEvents EventLister
	// SyncCron, when set, refreshes the event cache on that schedule.
	SyncCron string
	Logger   *log.Logger
}

// Server is the relay HTTP server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	cfg        Config
	log        *log.Logger
	cron       *cron.Cron

	mu     sync.Mutex
	creds  *calendar.Credentials
	states map[string]time.Time
	cache  []calendar.RawEvent
	cached time.Time
}

// New creates a server and restores stored credentials.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.Generator == nil {
		return nil, errors.New("relay requires a generator")
	}
	if cfg.OAuth == nil {
		cfg.OAuth = calendar.NewOAuthClient(calendar.OAuthConfig{})
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Server{
		cfg:    cfg,
		log:    logger,
		creds:  calendar.NewCredentials(nil),
		states: make(map[string]time.Time),
	}
	if s.cfg.ListEvents == nil {
		s.cfg.ListEvents = s.listGoogleEvents
	}

	if cfg.Tokens != nil {
		tok, ok, err := cfg.Tokens.OAuthToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("load calendar credentials: %w", err)
		}
		if ok {
			s.creds = calendar.NewCredentials(tok)
			s.log.Info("restored calendar credentials")
		}
	}

	if cfg.SyncCron != "" {
		s.cron = cron.New()
		if _, err := s.cron.AddFunc(cfg.SyncCron, s.refreshEvents); err != nil {
			return nil, fmt.Errorf("invalid sync_cron %q: %w", cfg.SyncCron, err)
		}
	}

	s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Post("/weekly-overview", s.handleOverview)
	})

	r.Get("/auth/status", s.handleAuthStatus)
	r.Get("/auth/google", s.handleAuthGoogle)
	r.Get("/oauth2callback", s.handleOAuthCallback)
	r.Get("/events", s.handleEvents)

	s.router = r
}

// Handler exposes the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Stop is called.
func (s *Server) Start() error {
	if s.cron != nil {
		s.cron.Start()
		go s.refreshEvents()
	}
	s.log.Info("relay listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server and the refresher.
func (s *Server) Stop(ctx context.Context) error {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	return s.httpServer.Shutdown(ctx)
}

func requestLogger(l *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			l.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start).Round(time.Millisecond),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
