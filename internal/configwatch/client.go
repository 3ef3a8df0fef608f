package configwatch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	checkTimeout = 10 * time.Second
	userAgent    = "showgo-player/1.0"
)

// VersionClient defines the interface for config version checks.
// This abstraction allows us to mock server interactions in tests.
//
//go:generate mockgen -destination=mocks/version_client_mock.go -package=mocks github.com/showgo/player/internal/configwatch VersionClient
type VersionClient interface {
	// CheckVersion returns the server's current config version marker
	CheckVersion(ctx context.Context) (float64, error)
}

// HTTPVersionClient is the real implementation calling the signage server
type HTTPVersionClient struct {
	client *http.Client
	url    string
}

// NewHTTPVersionClient creates a version client for the given server base URL
func NewHTTPVersionClient(serverURL string) (*HTTPVersionClient, error) {
	endpoint, err := url.JoinPath(serverURL, "api", "config", "check")
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", serverURL, err)
	}
	return &HTTPVersionClient{
		client: &http.Client{Timeout: checkTimeout},
		url:    endpoint,
	}, nil
}

// CheckVersion fetches the server's config timestamp. The server answers
// its own failures with a non-2xx status, which surfaces here as an
// error, never as a changed timestamp.
func (c *HTTPVersionClient) CheckVersion(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create version request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("version request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("version check returned status %d", resp.StatusCode)
	}

	var payload struct {
		Timestamp float64 `json:"timestamp"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("failed to decode version response: %w", err)
	}

	return payload.Timestamp, nil
}
