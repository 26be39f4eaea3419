// Package source holds the HTTP clients for every harvested system: the
// ScienceBase directory, the USGS staff profile pages, the Publications
// Warehouse, ORCID, DOI content negotiation, and the WikiData SPARQL
// endpoint. All of them share one Client that handles rate limiting,
// retries, and response caching.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/linkedscience/crosswalk/internal/cache"
	"github.com/linkedscience/crosswalk/internal/model"
	"github.com/linkedscience/crosswalk/internal/util"
	"github.com/linkedscience/crosswalk/internal/worker"
)

// HTTPError is a non-2xx response. Kept as a typed error so retry logic can
// distinguish server trouble from not-found.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.URL)
}

// Client is the shared fetch layer. Requests are rate limited per domain,
// retried on transient failures, and cached by (accept, url) so repeated
// harvest runs do not hammer the upstream APIs.
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	attempts   uint
	limiter    *worker.Limiter
	cache      cache.Cache // nil disables caching
	cacheTTL   time.Duration
}

// NewClient builds a Client from the HTTP configuration. store may be nil.
func NewClient(cfg model.HTTPConfig, store cache.Cache, cacheTTL time.Duration) *Client {
	attempts := uint(cfg.MaxRetries)
	if attempts == 0 {
		attempts = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		attempts:  attempts,
		limiter:   worker.NewLimiter(cfg.RequestsPerSecond, cfg.Burst),
		cache:     store,
		cacheTTL:  cacheTTL,
	}
}

// Get fetches rawURL with the given Accept header, going through the cache
// when one is configured. The Accept header is part of the cache key because
// DOI endpoints return different representations for the same URL.
func (c *Client) Get(ctx context.Context, rawURL, accept string) ([]byte, error) {
	key := cache.Key(accept + " " + rawURL)
	if c.cache != nil {
		if body, found := c.cache.Get(key); found {
			return body, nil
		}
	}

	body, err := retry.DoWithData(
		func() ([]byte, error) { return c.fetch(ctx, rawURL, accept) },
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(500*time.Millisecond),
		retry.MaxJitter(250*time.Millisecond),
		retry.RetryIf(isRetryable),
	)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.Set(key, body, c.cacheTTL)
	}
	return body, nil
}

// GetJSON fetches rawURL and unmarshals the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any) error {
	body, err := c.Get(ctx, rawURL, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, rawURL, accept string) ([]byte, error) {
	if err := c.limiter.Wait(ctx, rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// isRetryable reports whether the error is worth another attempt: network
// failures and server-side statuses, never client errors like 404.
func isRetryable(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
	}
	return true
}
