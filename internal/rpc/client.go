package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"strings"
	"time"

	"github.com/fystack/mempool-bridge/pkg/common/constant"
	"github.com/fystack/mempool-bridge/pkg/ratelimiter"
)

// Gateway is the REST surface of an explorer API.
type Gateway interface {
	GetJSON(ctx context.Context, endpoint string, out any) error
	GetText(ctx context.Context, endpoint string) (string, error)
	PostText(ctx context.Context, endpoint, body string) (string, error)
	IsHealthy(ctx context.Context) bool
	GetURL() string
}

type ClientOptions struct {
	Timeout     time.Duration
	Headers     map[string]string
	RateLimiter *ratelimiter.RateLimiter
	HTTPClient  *http.Client
}

type Client struct {
	httpClient  *http.Client
	baseURL     string
	headers     map[string]string
	rateLimiter *ratelimiter.RateLimiter
}

func NewClient(baseURL string, opts ClientOptions) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = constant.DefaultRequestTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	headers := make(map[string]string, len(opts.Headers))
	maps.Copy(headers, opts.Headers)

	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		headers:     headers,
		rateLimiter: opts.RateLimiter,
	}
}

func (c *Client) Do(ctx context.Context, method, endpoint string, body []byte, contentType string) ([]byte, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	url := c.baseURL + endpoint

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	slog.Debug("HTTP request completed", "method", method, "url", url, "status", resp.StatusCode, "elapsed", time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return data, &HTTPError{StatusCode: resp.StatusCode, URL: url, Body: string(data)}
	}
	return data, nil
}

func (c *Client) GetJSON(ctx context.Context, endpoint string, out any) error {
	data, err := c.Do(ctx, http.MethodGet, endpoint, nil, "")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

// GetText returns the trimmed body, for endpoints answering with a bare
// hash, height or hex string.
func (c *Client) GetText(ctx context.Context, endpoint string) (string, error) {
	data, err := c.Do(ctx, http.MethodGet, endpoint, nil, "")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (c *Client) PostText(ctx context.Context, endpoint, body string) (string, error) {
	data, err := c.Do(ctx, http.MethodPost, endpoint, []byte(body), ContentTypeText)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (c *Client) IsHealthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, constant.HealthCheckTimeout)
	defer cancel()
	_, err := c.GetText(ctx, "/blocks/tip/height")
	return err == nil
}

func (c *Client) GetURL() string { return c.baseURL }
