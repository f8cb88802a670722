// Package apiclient is a thin HTTP client against the server's operator
// endpoints. cmd/cli uses it instead of touching the engine's stores
// directly — the CLI and the server are separate processes with
// disjoint in-memory state, so the only way the CLI can act on the
// server's real data is over the wire.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client calls the narimato server's operator HTTP endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient builds a Client targeting baseURL (e.g. "http://localhost:8080").
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
	}
}

// APIError represents a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// RecomputeSummary mirrors the server's recompute-global response.
type RecomputeSummary struct {
	TenantID       string `json:"tenantId"`
	PlaysScanned   int    `json:"playsScanned"`
	VotesReplayed  int    `json:"votesReplayed"`
	VotesDropped   int    `json:"votesDropped"`
	CardsRated     int    `json:"cardsRated"`
	DurationMillis int64  `json:"durationMillis"`
}

// RecomputeGlobal calls POST /api/v1/tenants/{tenantId}/recompute-global.
func (c *Client) RecomputeGlobal(ctx context.Context, tenantID string) (*RecomputeSummary, error) {
	var summary RecomputeSummary
	path := "/api/v1/tenants/" + url.PathEscape(tenantID) + "/recompute-global"
	if err := c.doJSON(ctx, http.MethodPost, path, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ExpireSummary mirrors the server's expire-plays response.
type ExpireSummary struct {
	DeletedCount int `json:"deletedCount"`
}

// ExpirePlays calls POST /api/v1/expire-plays.
func (c *Client) ExpirePlays(ctx context.Context) (*ExpireSummary, error) {
	var summary ExpireSummary
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/expire-plays", &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errBody struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return &APIError{StatusCode: resp.StatusCode, Code: errBody.Code, Message: errBody.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}
