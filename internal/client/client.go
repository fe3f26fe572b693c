// Package client is a typed HTTP client for the countboard API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shohag/countboard/internal/models"
)

const DefaultBaseURL = "http://localhost:8000"

type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: timeout} }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New returns a client for baseURL. An empty baseURL falls back to DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Reason     string
	// Detail holds the server's error field, if the body carried one.
	Detail string
}

func (e *StatusError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("API Error: %d", e.StatusCode)
	}
	return fmt.Sprintf("API Error: %d %s", e.StatusCode, e.Reason)
}

// reasonPhrase prefers the phrase the server sent over the standard text for the code.
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	url := c.baseURL + endpoint

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", models.NewID("req"))

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("url", url).Msg("API request failed")
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serr := &StatusError{StatusCode: resp.StatusCode, Reason: reasonPhrase(resp)}
		var eb errorBody
		if data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096)); json.Unmarshal(data, &eb) == nil {
			serr.Detail = eb.Error
		}
		c.log.Error().
			Str("method", method).
			Str("url", url).
			Int("status", resp.StatusCode).
			Str("detail", serr.Detail).
			Msg("API request failed")
		return serr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	var out models.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PostHealth(ctx context.Context) (*models.HealthResponse, error) {
	var out models.HealthResponse
	if err := c.do(ctx, http.MethodPost, "/api/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Counter ---

func (c *Client) counter(ctx context.Context, method, endpoint string, body interface{}) (*models.CounterResponse, error) {
	var out models.CounterResponse
	if err := c.do(ctx, method, endpoint, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCounter(ctx context.Context) (*models.CounterResponse, error) {
	return c.counter(ctx, http.MethodGet, "/api/counter", nil)
}

func (c *Client) UpdateCounter(ctx context.Context, value int64) (*models.CounterResponse, error) {
	return c.counter(ctx, http.MethodPost, "/api/counter", map[string]int64{"value": value})
}

func (c *Client) IncrementCounter(ctx context.Context) (*models.CounterResponse, error) {
	return c.counter(ctx, http.MethodPost, "/api/counter/increment", nil)
}

func (c *Client) DecrementCounter(ctx context.Context) (*models.CounterResponse, error) {
	return c.counter(ctx, http.MethodPost, "/api/counter/decrement", nil)
}

func (c *Client) ResetCounter(ctx context.Context) (*models.CounterResponse, error) {
	return c.counter(ctx, http.MethodPost, "/api/counter/reset", nil)
}

// --- Messages ---

func (c *Client) GetMessages(ctx context.Context) (*models.MessagesResponse, error) {
	var out models.MessagesResponse
	if err := c.do(ctx, http.MethodGet, "/api/messages", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateMessage(ctx context.Context, content string) (*models.Message, error) {
	var out models.Message
	if err := c.do(ctx, http.MethodPost, "/api/messages", map[string]string{"content": content}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAllMessages(ctx context.Context) (*models.DeleteResponse, error) {
	var out models.DeleteResponse
	if err := c.do(ctx, http.MethodDelete, "/api/messages", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteMessage(ctx context.Context, id int64) (*models.DeleteResponse, error) {
	var out models.DeleteResponse
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/messages/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
