package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dhabedank/weekplan/internal/core"
)

// ErrNotAuthenticated means the relay holds no calendar credentials.
var ErrNotAuthenticated = errors.New("calendar not connected: open the auth URL to connect")

// RelayClient reads calendar state through a weekplan relay.
type RelayClient struct {
	baseURL    string
	httpClient *http.Client
	Location   *time.Location
}

// NewRelayClient creates a client. A nil httpClient gets a 30s timeout.
func NewRelayClient(baseURL string, httpClient *http.Client) *RelayClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &RelayClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		Location:   time.Local,
	}
}

// AuthURL is the relay route that redirects to the consent page.
func (c *RelayClient) AuthURL() string {
	return c.baseURL + "/auth/google"
}

// Status reports whether the relay is connected to a calendar.
func (c *RelayClient) Status(ctx context.Context) (bool, error) {
	body, err := c.get(ctx, "/auth/status")
	if err != nil {
		return false, err
	}
	return gjson.GetBytes(body, "authenticated").Bool(), nil
}

// Events lists upcoming raw events.
func (c *RelayClient) Events(ctx context.Context) ([]RawEvent, error) {
	body, err := c.get(ctx, "/events")
	if err != nil {
		return nil, err
	}
	var raws []RawEvent
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return raws, nil
}

// Fetch lists and normalizes upcoming events.
func (c *RelayClient) Fetch(ctx context.Context) ([]core.CalendarEvent, error) {
	raws, err := c.Events(ctx)
	if err != nil {
		return nil, err
	}
	return Normalize(raws, c.Location), nil
}

func (c *RelayClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar relay unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrNotAuthenticated
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(body, "error").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("calendar relay returned %d: %s", resp.StatusCode, msg)
	}
	return body, nil
}
