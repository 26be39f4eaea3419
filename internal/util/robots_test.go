package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestCanFetch(t *testing.T) {
	var fetches atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		fetches.Add(1)
		fmt.Fprint(w, "User-agent: crosswalk\nDisallow: /staff/private/\nCrawl-delay: 2\n")
	}))
	defer server.Close()

	checker := NewRobotsChecker("crosswalk/0.1 (research use)", 5*time.Second)
	ctx := context.Background()

	allowed, delay, err := checker.CanFetch(ctx, server.URL+"/staff/jhydro")
	if err != nil {
		t.Fatalf("CanFetch: %v", err)
	}
	if !allowed {
		t.Error("expected /staff/jhydro to be allowed")
	}
	if delay != 2*time.Second {
		t.Errorf("delay = %v, want 2s", delay)
	}

	allowed, _, err = checker.CanFetch(ctx, server.URL+"/staff/private/jhydro")
	if err != nil {
		t.Fatalf("CanFetch: %v", err)
	}
	if allowed {
		t.Error("expected /staff/private/jhydro to be disallowed")
	}

	if got := fetches.Load(); got != 1 {
		t.Errorf("robots.txt fetched %d times, want 1", got)
	}
}

func TestCanFetchUnreachablePolicy(t *testing.T) {
	checker := NewRobotsChecker("crosswalk/0.1", 200*time.Millisecond)

	allowed, delay, err := checker.CanFetch(context.Background(), "http://127.0.0.1:1/staff/jhydro")
	if err != nil {
		t.Fatalf("CanFetch: %v", err)
	}
	if !allowed {
		t.Error("unreachable robots.txt should allow the fetch")
	}
	if delay != 0 {
		t.Errorf("delay = %v, want 0", delay)
	}
}

func TestCanFetchBadURL(t *testing.T) {
	checker := NewRobotsChecker("crosswalk/0.1", time.Second)
	if _, _, err := checker.CanFetch(context.Background(), "://not-a-url"); err == nil {
		t.Error("expected error for malformed URL")
	}
}

func TestAgentToken(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{"crosswalk/0.1 (research use)", "crosswalk"},
		{"crosswalk 0.1", "crosswalk"},
		{"crosswalk", "crosswalk"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := agentToken(tt.ua); got != tt.want {
			t.Errorf("agentToken(%q) = %q, want %q", tt.ua, got, tt.want)
		}
	}
}
