package ratelimit

import (
	"testing"
	"time"

	"github.com/caplaunch/caplaunch/internal/kvstore"
)

func newTestLimiter(t *testing.T) (*Limiter, *kvstore.Store) {
	t.Helper()
	store, err := kvstore.Open(t.TempDir())
	if err != nil {
		t.Fatalf("kvstore.Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(store), store
}

func TestAllow_GrantsUpToMax(t *testing.T) {
	limiter, _ := newTestLimiter(t)

	now := time.Now()
	limiter.WithClock(func() time.Time { return now })

	for i := 0; i < MaxRequests; i++ {
		if !limiter.Allow("space-1") {
			t.Fatalf("Allow() = false on request %d, want true", i+1)
		}
	}

	if limiter.Allow("space-1") {
		t.Errorf("Allow() = true on request %d, want false", MaxRequests+1)
	}
}

func TestAllow_DenialDoesNotRecord(t *testing.T) {
	limiter, _ := newTestLimiter(t)

	now := time.Now()
	limiter.WithClock(func() time.Time { return now })

	for i := 0; i < MaxRequests; i++ {
		limiter.Allow("space-1")
	}

	// Denied calls must not extend the window
	for i := 0; i < 10; i++ {
		if limiter.Allow("space-1") {
			t.Fatal("Allow() = true while window is full")
		}
	}

	// Once the original timestamps age out, requests are granted again. If
	// denials had recorded timestamps, this would still be blocked.
	limiter.WithClock(func() time.Time { return now.Add(Window + time.Second) })
	if !limiter.Allow("space-1") {
		t.Error("Allow() = false after window elapsed, want true")
	}
}

func TestAllow_SlidingWindow(t *testing.T) {
	limiter, _ := newTestLimiter(t)

	now := time.Now()
	limiter.WithClock(func() time.Time { return now })

	// Two requests at t=0, two at t=30s
	limiter.Allow("space-1")
	limiter.Allow("space-1")
	limiter.WithClock(func() time.Time { return now.Add(30 * time.Second) })
	limiter.Allow("space-1")
	limiter.Allow("space-1")

	// t=45s: all four still inside the trailing window
	limiter.WithClock(func() time.Time { return now.Add(45 * time.Second) })
	if limiter.Allow("space-1") {
		t.Error("Allow() = true at t=45s with 4 requests in window")
	}

	// t=61s: the two t=0 requests have aged out
	limiter.WithClock(func() time.Time { return now.Add(61 * time.Second) })
	if !limiter.Allow("space-1") {
		t.Error("Allow() = false at t=61s, want true")
	}
}

func TestAllow_PerSpaceWindows(t *testing.T) {
	limiter, _ := newTestLimiter(t)

	now := time.Now()
	limiter.WithClock(func() time.Time { return now })

	for i := 0; i < MaxRequests; i++ {
		limiter.Allow("space-1")
	}

	if limiter.Allow("space-1") {
		t.Error("Allow(space-1) = true, want false")
	}
	if !limiter.Allow("space-2") {
		t.Error("Allow(space-2) = false, want true (windows are per space)")
	}
}

func TestAllow_PersistsAcrossLimiters(t *testing.T) {
	limiter, store := newTestLimiter(t)

	now := time.Now()
	limiter.WithClock(func() time.Time { return now })

	for i := 0; i < MaxRequests; i++ {
		limiter.Allow("space-1")
	}

	// A fresh limiter over the same store sees the persisted window, as a
	// fresh process invocation would.
	second := New(store).WithClock(func() time.Time { return now })
	if second.Allow("space-1") {
		t.Error("Allow() = true from fresh limiter, want false (window persisted)")
	}
}
