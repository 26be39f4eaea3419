// Package util holds small HTTP helpers shared by the source clients.
package util

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsChecker gates profile-page scraping on each host's robots.txt. The
// parsed policy is cached per host for the life of the checker, which is the
// life of one harvest run.
type RobotsChecker struct {
	mu         sync.RWMutex
	policies   map[string]*robotstxt.RobotsData
	httpClient *http.Client
	userAgent  string
	agentToken string
}

// NewRobotsChecker builds a checker that matches rules against the product
// token of userAgent (the part before the first slash or space).
func NewRobotsChecker(userAgent string, timeout time.Duration) *RobotsChecker {
	return &RobotsChecker{
		policies:   make(map[string]*robotstxt.RobotsData),
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		agentToken: agentToken(userAgent),
	}
}

// CanFetch reports whether rawURL may be fetched and the crawl delay the
// host requests. A robots.txt that cannot be retrieved or parsed allows
// everything: the APIs being harvested are public, and an unreachable
// policy file should not stall the run.
func (r *RobotsChecker) CanFetch(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}

	policy, err := r.policy(ctx, parsed.Scheme, parsed.Host)
	if err != nil {
		return true, 0, nil
	}

	allowed := policy.TestAgent(parsed.Path, r.agentToken)

	var delay time.Duration
	if group := policy.FindGroup(r.agentToken); group != nil {
		delay = group.CrawlDelay
	}
	return allowed, delay, nil
}

func (r *RobotsChecker) policy(ctx context.Context, scheme, host string) (*robotstxt.RobotsData, error) {
	r.mu.RLock()
	policy, ok := r.policies[host]
	r.mu.RUnlock()
	if ok {
		return policy, nil
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", scheme, host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	policy, err = robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	r.mu.Lock()
	r.policies[host] = policy
	r.mu.Unlock()
	return policy, nil
}

// agentToken reduces a full User-Agent header to the product token robots
// groups are keyed by.
func agentToken(userAgent string) string {
	token := userAgent
	if i := strings.IndexAny(token, " /"); i >= 0 {
		token = token[:i]
	}
	if token == "" {
		return userAgent
	}
	return token
}
