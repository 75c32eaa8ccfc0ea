package relay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dhabedank/weekplan/internal/calendar"
	"github.com/dhabedank/weekplan/internal/core"
	"github.com/dhabedank/weekplan/internal/schedule"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		respondError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	model := req.Model
	if model == "" {
		model = s.cfg.DefaultModel
	}

	s.log.Debug("generate", "model", model, "prompt", truncateForLog(req.Prompt))
	text, err := s.cfg.Generator.Generate(r.Context(), req.Prompt, model)
	if err != nil {
		s.log.Error("generation failed", "model", model, "err", err)
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"output": strings.TrimSpace(text)})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	var in core.OverviewInput
	if err := decodeBody(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	raw, err := s.cfg.Generator.Generate(r.Context(), core.BuildOverviewPrompt(in), s.cfg.DefaultModel)
	if err != nil {
		s.log.Error("weekly overview failed", "err", err)
		respondError(w, http.StatusBadGateway, "Failed to generate weekly overview")
		return
	}
	text := schedule.ExtractFeedback(raw)
	s.log.Debug("weekly overview generated", "overview", truncateForLog(text))
	respondJSON(w, http.StatusOK, map[string]string{"overview": text})
}

func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]bool{"authenticated": s.credentials().Present()})
}

func (s *Server) handleAuthGoogle(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.OAuth.Configured() {
		respondError(w, http.StatusServiceUnavailable, calendar.ErrNotConfigured.Error())
		return
	}
	state := uuid.New().String()
	s.mu.Lock()
	now := time.Now()
	for st, issued := range s.states {
		if now.Sub(issued) > stateTTL {
			delete(s.states, st)
		}
	}
	s.states[state] = now
	s.mu.Unlock()

	http.Redirect(w, r, s.cfg.OAuth.AuthURL(state), http.StatusFound)
}

func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !s.redeemState(q.Get("state")) {
		respondError(w, http.StatusBadRequest, "unknown or expired authorization state")
		return
	}
	code := q.Get("code")
	if code == "" {
		respondError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	creds, err := s.cfg.OAuth.Exchange(r.Context(), code)
	if err != nil {
		s.log.Error("oauth exchange failed", "err", err)
		respondError(w, http.StatusInternalServerError, "Error connecting to Google Calendar.")
		return
	}
	s.setCredentials(creds)
	if err := s.saveToken(r.Context(), creds); err != nil {
		s.log.Warn("could not persist calendar credentials", "err", err)
	}
	s.log.Info("calendar connected")

	http.Redirect(w, r, s.cfg.FrontendURL, http.StatusFound)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	creds := s.credentials()
	if !creds.Present() {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	if events, ok := s.cachedEvents(); ok {
		respondJSON(w, http.StatusOK, events)
		return
	}
	events, err := s.fetchEvents(r.Context(), creds)
	if err != nil {
		s.log.Error("calendar fetch failed", "err", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch events.")
		return
	}
	respondJSON(w, http.StatusOK, events)
}

func (s *Server) redeemState(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	issued, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)
	return time.Since(issued) <= stateTTL
}

func (s *Server) credentials() *calendar.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds
}

func (s *Server) setCredentials(c *calendar.Credentials) {
	s.mu.Lock()
	s.creds = c
	s.cache, s.cached = nil, time.Time{}
	s.mu.Unlock()
}

func (s *Server) saveToken(ctx context.Context, creds *calendar.Credentials) error {
	if s.cfg.Tokens == nil {
		return nil
	}
	return s.cfg.Tokens.SaveOAuthToken(ctx, creds.Token())
}

func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
}

func truncateForLog(s string) string {
	return schedule.Truncate(s, 100)
}
