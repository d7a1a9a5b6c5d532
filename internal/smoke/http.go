package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/okian/solhttp/internal/domain/types"
)

// requestIDHeader is echoed by the server in its access log.
const requestIDHeader = "X-Request-Id"

// Client is a small JSON client for the API.
type Client struct {
	baseURL  string
	runID    string
	client   *http.Client
	requests atomic.Int64
}

// NewClient creates a client whose requests are tagged with runID.
func NewClient(baseURL, runID string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		runID:   runID,
		client:  &http.Client{Timeout: timeout},
	}
}

// Requests returns the number of requests sent so far.
func (c *Client) Requests() int { return int(c.requests.Load()) }

// result is a decoded API response.
type result[T any] struct {
	Status   int
	Envelope types.Envelope[T]
}

// call sends body (nil for none) to path and decodes the envelope.
func call[T any](ctx context.Context, c *Client, method, path string, body any) (result[T], error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return result[T]{}, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return result[T]{}, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	n := c.requests.Add(1)
	req.Header.Set(requestIDHeader, fmt.Sprintf("%s-%d", c.runID, n))

	resp, err := c.client.Do(req)
	if err != nil {
		return result[T]{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return result[T]{}, fmt.Errorf("failed to read response: %w", err)
	}

	out := result[T]{Status: resp.StatusCode}
	if err := json.Unmarshal(data, &out.Envelope); err != nil {
		return out, fmt.Errorf("%s %s: invalid envelope (status %d): %w", method, path, resp.StatusCode, err)
	}
	return out, nil
}
