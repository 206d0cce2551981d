package httputil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/warehouse/pkg/logger"
)

func TestNew_DefaultTimeout(t *testing.T) {
	client := New(logger.Nop(), 0)
	assert.Equal(t, DefaultTimeout, client.Timeout())

	client = New(logger.Nop(), 5*time.Second)
	assert.Equal(t, 5*time.Second, client.Timeout())
}

func TestPostJSON_SendsBodyAndHeaders(t *testing.T) {
	var gotAuth, gotAgent, gotType string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		gotType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(logger.Nop(), time.Second).WithHeader("User-Agent", "warehouse")
	resp, err := client.PostJSON(context.Background(), server.URL,
		map[string]string{"Authorization": "Bearer k"},
		map[string]interface{}{"model": "m"})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Bearer k", gotAuth)
	assert.Equal(t, "warehouse", gotAgent)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "m", gotBody["model"])
}

func TestDo_NoRetryOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	resp, err := New(logger.Nop(), time.Second).Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDo_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	_, err := New(logger.Nop(), 20*time.Millisecond).Get(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestWithRateLimit_WaitRespectsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	client := New(logger.Nop(), time.Second).WithRateLimit(1)

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	// the single token is spent; the next request would wait a minute
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.Get(ctx, server.URL)
	assert.Error(t, err)
}

func TestIsSuccess(t *testing.T) {
	assert.True(t, IsSuccess(200))
	assert.True(t, IsSuccess(204))
	assert.False(t, IsSuccess(402))
	assert.False(t, IsSuccess(500))
}
