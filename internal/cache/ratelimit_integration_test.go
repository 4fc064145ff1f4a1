//go:build integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/supakit/supakit/internal/testutil"
)

// These tests require a running Redis instance; set TEST_REDIS_URL to
// enable them (e.g. redis://localhost:6379).

func newRedisCache(t *testing.T) *Cache {
	t.Helper()
	ctx := context.Background()

	redisURL := testutil.RequireEnv(t, "TEST_REDIS_URL")
	c, err := New(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to Redis: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCheckUserRateLimit_Redis(t *testing.T) {
	c := newRedisCache(t)
	ctx := context.Background()

	// Fresh key per run so old bucket state cannot interfere
	userID := fmt.Sprintf("it-user-%d", time.Now().UnixNano())
	burst := 2

	for i := 0; i < burst; i++ {
		result, err := c.CheckUserRateLimit(ctx, userID, 60, burst)
		if err != nil {
			t.Fatalf("check %d failed: %v", i, err)
		}
		if !result.Allowed {
			t.Fatalf("expected request %d within burst to be allowed", i)
		}
	}

	result, err := c.CheckUserRateLimit(ctx, userID, 60, burst)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if result.Allowed {
		t.Error("expected request beyond burst to be denied")
	}
	if result.RetryAfter <= 0 {
		t.Errorf("expected positive retry-after, got %s", result.RetryAfter)
	}
}

func TestCheckIPRateLimit_Redis(t *testing.T) {
	c := newRedisCache(t)
	ctx := context.Background()

	ip := fmt.Sprintf("203.0.113.%d", time.Now().UnixNano()%200)
	burst := 2

	var denied bool
	for i := 0; i < burst+2; i++ {
		result, err := c.CheckIPRateLimit(ctx, ip, 1, burst)
		if err != nil {
			t.Fatalf("check %d failed: %v", i, err)
		}
		if !result.Allowed {
			denied = true
		}
	}
	if !denied {
		t.Error("expected at least one denial beyond the burst")
	}
}
