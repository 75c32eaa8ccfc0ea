package calendar

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// ErrNotConfigured is returned when Google client credentials are missing.
var ErrNotConfigured = errors.New("google calendar is not configured: set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET")

// OAuthConfig holds Google Calendar OAuth configuration.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	// Endpoint defaults to Google's.
	Endpoint oauth2.Endpoint
}

// DefaultScopes grant read access to events.
var DefaultScopes = []string{gcal.CalendarReadonlyScope}

// OAuthClient handles the authorization-code flow.
type OAuthClient struct {
	config *oauth2.Config
}

// NewOAuthClient creates an OAuth client. Empty scopes mean DefaultScopes.
func NewOAuthClient(cfg OAuthConfig) *OAuthClient {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	endpoint := cfg.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	return &OAuthClient{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
	}
}

// Configured reports whether client credentials are present.
func (c *OAuthClient) Configured() bool {
	return c.config.ClientID != "" && c.config.ClientSecret != ""
}

// AuthURL returns the consent page URL for state.
func (c *OAuthClient) AuthURL(state string) string {
	return c.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for credentials.
func (c *OAuthClient) Exchange(ctx context.Context, code string) (*Credentials, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	tok, err := c.config.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	return NewCredentials(tok), nil
}

// Service builds a Calendar API service authorized by creds. Refreshed
// tokens are written back into creds.
func (c *OAuthClient) Service(ctx context.Context, creds *Credentials, opts ...option.ClientOption) (*gcal.Service, error) {
	if creds == nil || !creds.Present() {
		return nil, errors.New("no calendar credentials")
	}
	ts := &savingTokenSource{
		base:  c.config.TokenSource(ctx, creds.Token()),
		creds: creds,
	}
	client := oauth2.NewClient(ctx, oauth2.ReuseTokenSource(creds.Token(), ts))
	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)
	return gcal.NewService(ctx, opts...)
}

// Credentials is the calendar session obtained at callback time. It is
// safe for concurrent use; token refresh replaces the held token.
type Credentials struct {
	mu  sync.RWMutex
	tok *oauth2.Token
}

// NewCredentials wraps a token. A nil token yields empty credentials.
func NewCredentials(tok *oauth2.Token) *Credentials {
	return &Credentials{tok: tok}
}

// Present reports whether an access token is held.
func (c *Credentials) Present() bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tok != nil && c.tok.AccessToken != ""
}

// Token returns a copy of the held token, or nil.
func (c *Credentials) Token() *oauth2.Token {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tok == nil {
		return nil
	}
	tok := *c.tok
	return &tok
}

func (c *Credentials) set(tok *oauth2.Token) {
	c.mu.Lock()
	c.tok = tok
	c.mu.Unlock()
}

type savingTokenSource struct {
	base  oauth2.TokenSource
	creds *Credentials
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	s.creds.set(tok)
	return tok, nil
}
