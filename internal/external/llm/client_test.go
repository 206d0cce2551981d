package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/warehouse/internal/forecast"
	"github.com/wonny/warehouse/pkg/config"
	"github.com/wonny/warehouse/pkg/httputil"
	"github.com/wonny/warehouse/pkg/logger"
)

func newTestClient(url, key string) *Client {
	return NewClient(
		config.ProviderConfig{Name: "groq", URL: url, Model: config.GroqModel, APIKey: key},
		httputil.New(logger.Nop(), 2*time.Second),
		800,
		logger.Nop(),
	)
}

func requireFailure(t *testing.T, err error) *forecast.Failure {
	t.Helper()
	var f *forecast.Failure
	require.True(t, errors.As(err, &f), "expected *forecast.Failure, got %v", err)
	return f
}

func TestComplete_RequestShape(t *testing.T) {
	var got chatRequest
	var auth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"[]"}}]}`))
	}))
	defer server.Close()

	text, err := newTestClient(server.URL, "secret").Complete(context.Background(), "forecast please")
	require.NoError(t, err)

	assert.Equal(t, "[]", text)
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, config.GroqModel, got.Model)
	assert.Equal(t, 800, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "forecast please", got.Messages[0].Content)
}

func TestComplete_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   forecast.FailureKind
		wantReason string
	}{
		{"payment required", 402, `{"error":{"message":"Insufficient Balance"}}`, forecast.FailurePaymentRequired, "Insufficient Balance"},
		{"unauthorized", 401, `{"error":"invalid api key"}`, forecast.FailureTransport, "invalid api key"},
		{"gateway html", 502, `<!DOCTYPE html><html><head><title>502 Bad Gateway</title></head><body>x</body></html>`, forecast.FailureTransport, "502 Bad Gateway"},
		{"plain text", 500, "boom", forecast.FailureTransport, "boom"},
		{"invalid json", 200, "not json", forecast.FailureFormat, "invalid response JSON"},
		{"no choices", 200, `{"choices":[]}`, forecast.FailureFormat, "missing choices[0].message.content"},
		{"null content", 200, `{"choices":[{"message":{"content":null}}]}`, forecast.FailureFormat, "missing choices[0].message.content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL, "k").Complete(context.Background(), "p")
			f := requireFailure(t, err)
			assert.Equal(t, tt.wantKind, f.Kind)
			assert.Equal(t, "groq", f.Provider)
			assert.Equal(t, tt.wantReason, f.Reason)
			if tt.status != 200 {
				assert.Equal(t, tt.status, f.StatusCode)
			}
		})
	}
}

func TestComplete_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url, "k").Complete(context.Background(), "p")
	f := requireFailure(t, err)
	assert.Equal(t, forecast.FailureTransport, f.Kind)
	assert.Zero(t, f.StatusCode)
}

func TestConfigured(t *testing.T) {
	assert.True(t, newTestClient("http://x", "k").Configured())
	assert.False(t, newTestClient("http://x", "").Configured())
}

func TestNewProviders_KeepsOrder(t *testing.T) {
	cfg := &config.Config{LLM: config.LLMConfig{
		Providers: []config.ProviderConfig{
			{Name: "groq", URL: config.GroqURL, Model: config.GroqModel, APIKey: "g"},
			{Name: "deepseek", URL: config.DeepSeekURL, Model: config.DeepSeekModel},
		},
		Timeout:   time.Minute,
		MaxTokens: 800,
	}}

	providers := NewProviders(cfg, logger.Nop())
	require.Len(t, providers, 2)
	assert.Equal(t, "groq", providers[0].Name())
	assert.True(t, providers[0].Configured())
	assert.Equal(t, "deepseek", providers[1].Name())
	assert.False(t, providers[1].Configured())
}

func TestErrorReason_Truncates(t *testing.T) {
	reason := errorReason([]byte(strings.Repeat("x", 500)))
	assert.Len(t, reason, maxReasonChars+3)
	assert.Equal(t, "empty body", errorReason(nil))
}

func TestChainWithHTTPProviders(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer failing.Close()
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"from deepseek"}}]}`))
	}))
	defer ok.Close()

	httpClient := httputil.New(logger.Nop(), time.Second)
	providers := []forecast.Provider{
		NewClient(config.ProviderConfig{Name: "groq", URL: failing.URL, Model: "m", APIKey: "k"}, httpClient, 800, logger.Nop()),
		NewClient(config.ProviderConfig{Name: "deepseek", URL: ok.URL, Model: "m", APIKey: "k"}, httpClient, 800, logger.Nop()),
	}

	result, err := forecast.NewChain(providers, logger.Nop().Component("test")).Run(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "from deepseek", result.Text)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, http.StatusServiceUnavailable, result.Failures[0].StatusCode)
}
