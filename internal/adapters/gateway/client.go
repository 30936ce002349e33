// Package gateway is the HTTP client for the remote gym REST API. All
// normalization of loosely shaped records (excluding incomplete ones,
// substituting placeholder names) happens here, once, so domain and
// rendering code only ever see fully populated events.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds every gateway request. The old client let requests
// hang forever; a bounded wait converts "never resolves" into a surfaced
// network error.
const DefaultTimeout = 10 * time.Second

// TokenSource supplies the bearer token for API calls.
type TokenSource interface {
	Token(ctx context.Context) string
}

// APIError carries a non-2xx response. Message is the server's own text and
// is shown to the user verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to the remote gym API.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenSource
	loc     *time.Location
}

// NewClient creates a gateway client for the given base URL.
// PRE: baseURL has no trailing slash ambiguity (it is joined with /-prefixed paths)
// POST: returns a ready client with the default timeout applied
func NewClient(baseURL string, tokens TokenSource, loc *time.Location) *Client {
	if loc == nil {
		loc = time.Local
	}
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: DefaultTimeout},
		tokens:  tokens,
		loc:     loc,
	}
}

// do issues an authenticated request and decodes a 2xx response body into
// out (when out is non-nil). Non-2xx responses become an *APIError carrying
// the server's message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: readAPIMessage(resp)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// readAPIMessage extracts the server's message from an error response,
// falling back to the HTTP status text.
func readAPIMessage(resp *http.Response) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return http.StatusText(resp.StatusCode)
}

// timestampLayouts are the start-time formats the API has been seen to emit.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// parseStart parses a start timestamp in the client's location. Returns a
// zero time when the value is empty or unparseable; callers exclude such
// records.
func (c *Client) parseStart(value string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, c.loc); err == nil {
			return t
		}
	}
	return time.Time{}
}
