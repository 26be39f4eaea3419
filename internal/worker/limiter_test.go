package worker

import (
	"context"
	"testing"
	"time"
)

func TestNewLimiterDefaultBurst(t *testing.T) {
	if l := NewLimiter(10, 3); l.defaultBurst != 3 {
		t.Errorf("burst = %d, want 3", l.defaultBurst)
	}
	for _, burst := range []int{0, -2} {
		if l := NewLimiter(10, burst); l.defaultBurst != 5 {
			t.Errorf("NewLimiter(10, %d).defaultBurst = %d, want 5", burst, l.defaultBurst)
		}
	}
}

func TestLimiterTracksDomainsIndependently(t *testing.T) {
	limiter := NewLimiter(1, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://staff.example.gov/people"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if limiter.Allow("https://staff.example.gov/people?page=2") {
		t.Error("second request to the same domain should be throttled")
	}
	if !limiter.Allow("https://pubs.example.gov/search") {
		t.Error("a fresh domain should not be throttled")
	}
}

func TestLimiterSetDomainRate(t *testing.T) {
	limiter := NewLimiter(10, 10)
	limiter.SetDomainRate("orcid.org", 0.1, 1)

	if !limiter.Allow("https://orcid.org/0000-0001-2345-6789") {
		t.Error("first request inside the burst should pass")
	}
	if limiter.Allow("https://orcid.org/0000-0002-9876-5432") {
		t.Error("burst exhausted, second request should be throttled")
	}
	if !limiter.Allow("https://doi.org/10.5066/XYZ") {
		t.Error("override must not affect other domains")
	}
}

func TestLimiterWaitWithDelay(t *testing.T) {
	limiter := NewLimiter(100, 1)

	start := time.Now()
	if err := limiter.WaitWithDelay(context.Background(), "https://staff.example.gov", 50*time.Millisecond); err != nil {
		t.Fatalf("WaitWithDelay: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("returned after %v, crawl delay of 50ms not honored", elapsed)
	}
}

func TestLimiterWaitWithDelayCancelled(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := limiter.WaitWithDelay(ctx, "https://staff.example.gov", time.Minute); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestExtractDomain(t *testing.T) {
	domain, err := extractDomain("https://staff.example.gov/people/jhydro")
	if err != nil {
		t.Fatalf("extractDomain: %v", err)
	}
	if domain != "staff.example.gov" {
		t.Errorf("domain = %q, want staff.example.gov", domain)
	}

	if _, err := extractDomain("://broken"); err == nil {
		t.Error("expected error for malformed URL")
	}
}

func TestLimiterBadURL(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.Allow("://broken") {
		t.Error("malformed URL should not be allowed")
	}
	if err := limiter.Wait(context.Background(), "://broken"); err == nil {
		t.Error("expected error from Wait on malformed URL")
	}
}
