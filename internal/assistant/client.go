package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client talks to the analysis backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the backend at baseURL. A zero timeout
// falls back to 30s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Query posts the question plus data context and decodes the answer.
func (c *Client) Query(ctx context.Context, query string, data DataContext, currentView string) (QueryResponse, error) {
	body, err := json.Marshal(QueryRequest{
		Query:       query,
		DataContext: data,
		CurrentView: currentView,
	})
	if err != nil {
		return QueryResponse{}, fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/llm/query", bytes.NewReader(body))
	if err != nil {
		return QueryResponse{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return QueryResponse{}, fmt.Errorf("query backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return QueryResponse{}, fmt.Errorf("backend returned %s: %s", resp.Status, snippet)
	}

	var out QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return QueryResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

// Health probes GET /health; nil means the backend is reachable.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend unhealthy: %s", resp.Status)
	}
	return nil
}
