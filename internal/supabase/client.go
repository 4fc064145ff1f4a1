// Package supabase provides a minimal typed client for the hosted
// backend-as-a-service: the GoTrue-style auth API and the PostgREST-style
// table API. Durability, querying and token issuance all live on the
// other side of this client; nothing is cached or retried locally.
package supabase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	authPath = "/auth/v1"
	restPath = "/rest/v1"
)

// Client is a shared handle to the hosted backend. It is immutable after
// construction and safe for concurrent use; create it once at startup and
// close it once at shutdown.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New creates a Client for the project at baseURL authenticated with
// apiKey. Every call through the client is bounded by timeout.
func New(baseURL, apiKey string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("supabase: base URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("supabase: API key is required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// Ping checks connectivity to the auth service health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+authPath+"/health", nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("supabase: health check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("supabase: health check returned status %d", resp.StatusCode)
	}
	return nil
}

// Close releases idle connections held by the client.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// authorization returns the bearer value for a request. An empty token
// falls back to the client's own API key.
func (c *Client) authorization(token string) string {
	if token == "" {
		token = c.apiKey
	}
	return "Bearer " + token
}
