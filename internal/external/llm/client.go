package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/warehouse/internal/forecast"
	"github.com/wonny/warehouse/pkg/config"
	"github.com/wonny/warehouse/pkg/httputil"
	"github.com/wonny/warehouse/pkg/logger"
)

const (
	maxBodyBytes   = 1 << 20
	maxReasonChars = 200
)

// Client calls one OpenAI-compatible chat completions endpoint
// ⭐ SSOT: provider HTTP calls are made only here
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	name       string
	url        string
	model      string
	apiKey     string
	maxTokens  int
}

// NewClient creates a provider client
func NewClient(provider config.ProviderConfig, httpClient *httputil.Client, maxTokens int, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("provider", provider.Name),
		name:       provider.Name,
		url:        provider.URL,
		model:      provider.Model,
		apiKey:     provider.APIKey,
		maxTokens:  maxTokens,
	}
}

// NewProviders builds the ordered provider list from configuration.
// Each provider gets its own throttled HTTP client.
func NewProviders(cfg *config.Config, log *logger.Logger) []forecast.Provider {
	providers := make([]forecast.Provider, 0, len(cfg.LLM.Providers))
	for _, p := range cfg.LLM.Providers {
		httpClient := httputil.New(log, cfg.LLM.Timeout).WithRateLimit(cfg.LLM.RequestsPerMinute)
		providers = append(providers, NewClient(p, httpClient, cfg.LLM.MaxTokens, log))
	}
	return providers
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Name returns the provider name
func (c *Client) Name() string {
	return c.name
}

// Configured is false without an API key
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Complete sends prompt as a single user message and returns choices[0].message.content.
// Every failure is a *forecast.Failure.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model:     c.model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: c.maxTokens,
	}
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}

	resp, err := c.httpClient.PostJSON(ctx, c.url, headers, req)
	if err != nil {
		return "", forecast.TransportFailure(c.name, 0, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", forecast.TransportFailure(c.name, resp.StatusCode, fmt.Sprintf("read body: %v", err))
	}

	if resp.StatusCode == http.StatusPaymentRequired {
		return "", forecast.PaymentRequiredFailure(c.name, resp.StatusCode, errorReason(body))
	}
	if !httputil.IsSuccess(resp.StatusCode) {
		return "", forecast.TransportFailure(c.name, resp.StatusCode, errorReason(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", forecast.FormatFailure(c.name, "invalid response JSON")
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == nil {
		return "", forecast.FormatFailure(c.name, "missing choices[0].message.content")
	}

	return *parsed.Choices[0].Message.Content, nil
}

// errorReason summarizes an error body: HTML pages by their <title>,
// JSON envelopes by error.message, anything else truncated.
func errorReason(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return "empty body"
	}

	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "<!doctype html") || strings.Contains(lower, "<html") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
			if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
				return title
			}
		}
		return "HTML error page"
	}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Error) > 0 {
		var detail struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(envelope.Error, &detail); err == nil && detail.Message != "" {
			return detail.Message
		}
		var msg string
		if err := json.Unmarshal(envelope.Error, &msg); err == nil && msg != "" {
			return msg
		}
	}

	if len(text) > maxReasonChars {
		return text[:maxReasonChars] + "..."
	}
	return text
}
