package cache

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestKeyIsStableAndSafe(t *testing.T) {
	a := Key("application/json https://example.gov/people?format=json")
	b := Key("application/json https://example.gov/people?format=json")
	if a != b {
		t.Errorf("same descriptor produced different keys: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "crosswalk:v1:") {
		t.Errorf("key missing version prefix: %q", a)
	}
	if c := Key("text/x-bibliography https://example.gov/people?format=json"); c == a {
		t.Error("different descriptors produced the same key")
	}
	if strings.ContainsAny(strings.TrimPrefix(a, "crosswalk:v1:"), "/?&=") {
		t.Errorf("hashed portion is not filesystem safe: %q", a)
	}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("unexpected hit on empty cache")
	}
	if err := c.Set("k", []byte("payload"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, found := c.Get("k")
	if !found || !bytes.Equal(val, []byte("payload")) {
		t.Errorf("Get = %q, %v", val, found)
	}
	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("hit after delete")
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	c := NewDiskCache(filepath.Join(t.TempDir(), "cache"), time.Minute)

	if err := c.Set("k", []byte("payload"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, found := c.Get("k")
	if !found || !bytes.Equal(val, []byte("payload")) {
		t.Errorf("Get = %q, %v", val, found)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("hit after clear")
	}
}

func TestDiskCacheExpiry(t *testing.T) {
	c := NewDiskCache(filepath.Join(t.TempDir(), "cache"), time.Minute)

	if err := c.Set("k", []byte("payload"), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expired entry returned")
	}
}

func TestLayeredCachePromotesDiskHits(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c := NewLayeredCache(time.Minute, dir, time.Minute)

	// Seed only the disk layer, as a previous run would have.
	if err := NewDiskCache(dir, time.Minute).Set("k", []byte("payload"), 0); err != nil {
		t.Fatalf("seed disk: %v", err)
	}

	val, found := c.Get("k")
	if !found || !bytes.Equal(val, []byte("payload")) {
		t.Fatalf("Get = %q, %v", val, found)
	}

	// The hit is now served from memory even after the disk copy goes away.
	if err := NewDiskCache(dir, time.Minute).Clear(); err != nil {
		t.Fatalf("clear disk: %v", err)
	}
	if _, found := c.Get("k"); !found {
		t.Error("promoted entry not served from memory")
	}
}
