package rpc

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fystack/mempool-bridge/pkg/ratelimiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/fees/recommended", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"fastestFee":12,"hourFee":5}`))
	}))
	defer server.Close()

	c := NewClient(server.URL+"/", ClientOptions{Headers: map[string]string{"X-Api-Key": "secret"}})

	var out map[string]int
	require.NoError(t, c.GetJSON(context.Background(), "/v1/fees/recommended", &out))
	assert.Equal(t, 12, out["fastestFee"])
	assert.Equal(t, server.URL, c.GetURL())
}

func TestClient_GetText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("840000\n"))
	}))
	defer server.Close()

	c := NewClient(server.URL, ClientOptions{})
	got, err := c.GetText(context.Background(), "/blocks/tip/height")
	require.NoError(t, err)
	assert.Equal(t, "840000", got)
}

func TestClient_PostText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, ContentTypeText, r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "0200deadbeef", string(body))
		_, _ = w.Write([]byte("abcd"))
	}))
	defer server.Close()

	c := NewClient(server.URL, ClientOptions{Headers: map[string]string{"Authorization": "Bearer token"}})
	got, err := c.PostText(context.Background(), "/tx", "0200deadbeef")
	require.NoError(t, err)
	assert.Equal(t, "abcd", got)
}

func TestClient_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Transaction not found", http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(server.URL, ClientOptions{})
	_, err := c.GetText(context.Background(), "/tx/abc/hex")
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, server.URL+"/tx/abc/hex", httpErr.URL)
	assert.Contains(t, err.Error(), "HTTP 404 from "+server.URL+"/tx/abc/hex: Transaction not found")
	assert.True(t, IsNotFound(err))
}

func TestClient_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	c := NewClient(server.URL, ClientOptions{})
	var out map[string]any
	assert.Error(t, c.GetJSON(context.Background(), "/mempool", &out))
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c := NewClient(server.URL, ClientOptions{Timeout: 20 * time.Millisecond})
	_, err := c.GetText(context.Background(), "/blocks/tip/height")
	assert.Error(t, err)
}

func TestClient_RateLimiterHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("1"))
	}))
	defer server.Close()

	c := NewClient(server.URL, ClientOptions{RateLimiter: ratelimiter.NewRateLimiter(time.Hour, 1)})

	_, err := c.GetText(context.Background(), "/blocks/tip/height")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.GetText(ctx, "/blocks/tip/height")
	assert.ErrorContains(t, err, "rate limit")
}

func TestClient_IsHealthy(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("1"))
	}))
	defer healthy.Close()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	assert.True(t, NewClient(healthy.URL, ClientOptions{}).IsHealthy(context.Background()))
	assert.False(t, NewClient(down.URL, ClientOptions{}).IsHealthy(context.Background()))
}
