package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dhabedank/weekplan/internal/core"
)

// FailureKind distinguishes the ways a relay round trip can fail.
type FailureKind string

const (
	FailureUnreachable FailureKind = "unreachable"
	FailureStatus      FailureKind = "status"
	FailureEmpty       FailureKind = "empty"
)

// RequestFailure is returned for every relay transport problem.
type RequestFailure struct {
	Kind    FailureKind
	Status  int // HTTP status for FailureStatus
	Message string
}

func (e *RequestFailure) Error() string {
	if e.Kind == FailureStatus {
		return fmt.Sprintf("generation request failed (%s %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("generation request failed (%s): %s", e.Kind, e.Message)
}

// textPaths are the response locations probed for generated text.
var textPaths = []string{
	"output",
	"text",
	"candidates.0.content.parts.0.text",
	"content.0.text",
}

// maxResponseBytes bounds how much of a relay response is read.
const maxResponseBytes = 4 << 20

// RelayClient talks to a weekplan relay over HTTP. Each call is exactly one
// request; there is no retry.
type RelayClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRelayClient creates a client. A nil httpClient gets a two-minute timeout.
func NewRelayClient(baseURL string, httpClient *http.Client) *RelayClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 2 * time.Minute}
	}
	return &RelayClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the relay root.
func (c *RelayClient) BaseURL() string {
	return c.baseURL
}

// Generate posts {prompt, model} to /api/generate and returns the text.
func (c *RelayClient) Generate(ctx context.Context, prompt, model string) (string, error) {
	body, err := c.post(ctx, "/api/generate", map[string]string{"prompt": prompt, "model": model})
	if err != nil {
		return "", err
	}
	for _, path := range textPaths {
		if r := gjson.GetBytes(body, path); r.Type == gjson.String && strings.TrimSpace(r.String()) != "" {
			return r.String(), nil
		}
	}
	return "", &RequestFailure{Kind: FailureEmpty, Message: "response has no text field"}
}

// Overview asks the relay for a weekly narrative summary.
func (c *RelayClient) Overview(ctx context.Context, req core.OverviewInput) (string, error) {
	body, err := c.post(ctx, "/api/weekly-overview", req)
	if err != nil {
		return "", err
	}
	r := gjson.GetBytes(body, "overview")
	if r.Type != gjson.String || strings.TrimSpace(r.String()) == "" {
		return "", &RequestFailure{Kind: FailureEmpty, Message: "response has no overview field"}
	}
	return r.String(), nil
}

func (c *RelayClient) post(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, &RequestFailure{Kind: FailureUnreachable, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestFailure{Kind: FailureUnreachable, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &RequestFailure{Kind: FailureUnreachable, Message: fmt.Sprintf("reading response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(body, "error").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &RequestFailure{Kind: FailureStatus, Status: resp.StatusCode, Message: msg}
	}
	return body, nil
}
