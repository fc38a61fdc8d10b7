package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/seren-dev/songhop/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Client makes JSON requests to the SongHop API.
//
// The zero limit disables rate limiting. Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger

	mu   sync.Mutex
	prev http.RoundTripper
}

// NewClient creates an API client for the SongHop service.
func NewClient(baseURL string, client *http.Client, rps float64, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if client == nil {
		client = &http.Client{}
	}

	var limiter *rate.Limiter
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: client,
		limiter:    limiter,
		logger:     logger,
	}
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// bearerClient returns an [http.Client] that injects the bearer token on
// every request. The oauth2 transport wraps this client's own transport, so
// an attached interceptor still sees the responses.
func (c *Client) bearerClient(ctx context.Context, token string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return oauth2.NewClient(ctx, src)
}

// do performs a JSON request. authHeader is attached verbatim when the
// request goes through the shared client; bearer requests use httpClient
// overrides built by bearerClient.
func (c *Client) do(ctx context.Context, httpClient *http.Client, method, path, authHeader string, body, result any) (int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, fmt.Errorf("rate limiter: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	if httpClient == nil {
		httpClient = c.httpClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, apiError(resp.StatusCode, data)
	}

	if result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// apiError maps a non-2xx response onto the error taxonomy.
func apiError(status int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	detail := ""
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		detail = ": " + payload.Error
	}

	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w%s", shared.ErrUnauthorized, detail)
	case http.StatusConflict:
		return fmt.Errorf("%w%s", shared.ErrConflict, detail)
	default:
		return fmt.Errorf("%w: status %d%s", shared.ErrAPIRequest, status, detail)
	}
}
