package relay

import (
	"context"
	"time"

	"github.com/dhabedank/weekplan/internal/calendar"
)

// refreshTimeout bounds one scheduled event refresh.
const refreshTimeout = time.Minute

// fetchEvents lists events and persists the token if it was refreshed.
func (s *Server) fetchEvents(ctx context.Context, creds *calendar.Credentials) ([]calendar.RawEvent, error) {
	before := creds.Token()
	events, err := s.cfg.ListEvents(ctx, creds)
	if err != nil {
		return nil, err
	}
	if after := creds.Token(); after != nil && before != nil && after.AccessToken != before.AccessToken {
		if err := s.saveToken(ctx, creds); err != nil {
			s.log.Warn("could not persist refreshed credentials", "err", err)
		}
	}
	if events == nil {
		events = []calendar.RawEvent{}
	}
	return events, nil
}

// refreshEvents fills the cache; it runs on the SyncCron schedule.
func (s *Server) refreshEvents() {
	creds := s.credentials()
	if !creds.Present() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	events, err := s.fetchEvents(ctx, creds)
	if err != nil {
		s.log.Warn("scheduled calendar refresh failed", "err", err)
		return
	}
	s.mu.Lock()
	if s.creds == creds {
		s.cache, s.cached = events, time.Now()
	}
	s.mu.Unlock()
	s.log.Debug("calendar cache refreshed", "events", len(events))
}

// cachedEvents returns the refresher's last result, if any.
func (s *Server) cachedEvents() ([]calendar.RawEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron == nil || s.cached.IsZero() {
		return nil, false
	}
	return s.cache, true
}

func (s *Server) listGoogleEvents(ctx context.Context, creds *calendar.Credentials) ([]calendar.RawEvent, error) {
	svc, err := s.cfg.OAuth.Service(ctx, creds)
	if err != nil {
		return nil, err
	}
	return calendar.NewGoogleSource(svc).List(ctx)
}
