package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/warehouse/pkg/logger"
)

// DefaultTimeout bounds a single outbound request
const DefaultTimeout = 60 * time.Second

// Client is an HTTP client wrapper with request logging and optional throttling.
// Requests are sent exactly once; callers decide what a failure means.
// ⭐ SSOT: every outbound HTTP request goes through this client
type Client struct {
	httpClient *http.Client
	logger     *logger.Logger
	limiter    *rate.Limiter
	headers    map[string]string
}

// New creates a new HTTP client with the given timeout
// ⭐ SSOT: http.Client instances are created only here
func New(log *logger.Logger, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
		headers:    make(map[string]string),
	}
}

// WithRateLimit throttles the client to perMinute requests (burst 1).
// Zero or negative disables throttling.
func (c *Client) WithRateLimit(perMinute int) *Client {
	if perMinute <= 0 {
		c.limiter = nil
		return c
	}
	c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	return c
}

// WithHeader sets a header sent on every request
func (c *Client) WithHeader(key, value string) *Client {
	c.headers[key] = value
	return c
}

// Timeout returns the per-request timeout
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}
	return c.do(req)
}

// Post performs a POST request with body
func (c *Client) Post(ctx context.Context, url string, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create POST request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req)
}

// PostJSON performs a POST request with a JSON body and extra per-request headers
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, data interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create POST request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.do(req)
}

// do executes the request with throttling and logging
func (c *Client) do(req *http.Request) (*http.Response, error) {
	for k, v := range c.headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limit wait failed: %w", err)
		}
	}

	startTime := time.Now()
	url := req.URL.String()
	method := req.Method

	c.logger.WithFields(map[string]interface{}{
		"method": method,
		"url":    url,
	}).Debug("HTTP request started")

	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	if err != nil {
		c.logger.WithFields(map[string]interface{}{
			"method":   method,
			"url":      url,
			"duration": duration,
			"error":    err.Error(),
		}).Warn("HTTP request failed")
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": resp.StatusCode,
		"duration":    duration,
	}).Debug("HTTP request completed")

	return resp, nil
}

// IsSuccess reports whether statusCode is 2xx
func IsSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
