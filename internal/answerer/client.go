// Package answerer wraps the external answer-generation service. One call is
// made per routed question, with a bounded timeout and no retries.
package answerer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spec-kit/desk-support/internal/config"
)

// Client posts questions to the configured endpoint.
type Client struct {
	url    string
	client *http.Client
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

// New creates a client with the configured endpoint and timeout.
func New(cfg config.AnswererConfig) *Client {
	return &Client{
		url:    cfg.URL,
		client: &http.Client{Timeout: cfg.Timeout()},
	}
}

// NewWithHTTPClient is used by tests to inject a custom transport.
func NewWithHTTPClient(url string, httpClient *http.Client) *Client {
	return &Client{url: url, client: httpClient}
}

// Ask submits the question and returns the raw answer text. A 2xx response
// with a body that does not decode as {"answer": ...} yields empty text, which
// the router classifies as a failure. Non-2xx statuses and transport errors
// are returned as errors.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	if c.url == "" {
		return "", errors.New("answerer url not configured")
	}

	payload, err := json.Marshal(askRequest{Question: question})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("answerer http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed askResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", nil
	}
	return parsed.Answer, nil
}

// Timeout exposes the configured deadline, mainly for logging.
func (c *Client) Timeout() time.Duration {
	return c.client.Timeout
}
