// Package ratelimit caps space-info requests with a sliding window counter
// persisted across invocations.
package ratelimit

import (
	"time"
)

// The Capacities API allows 5 space-info requests per minute; stay one under.
const (
	Window      = 60 * time.Second
	MaxRequests = 4

	storeKey = "space_info_rate_limit"
)

// WindowStore persists the per-space request windows. Satisfied by
// *kvstore.Store.
type WindowStore interface {
	Get(key string, maxAge time.Duration, v any) (bool, error)
	Set(key string, v any) error
}

// Limiter is a sliding-window rate limiter keyed by space id.
type Limiter struct {
	store WindowStore
	clock func() time.Time
}

// New creates a Limiter over the given store.
func New(store WindowStore) *Limiter {
	return &Limiter{store: store, clock: time.Now}
}

// WithClock overrides the time source for tests.
func (l *Limiter) WithClock(clock func() time.Time) *Limiter {
	l.clock = clock
	return l
}

// Allow reports whether a space-info request for spaceID may proceed now.
//
// Timestamps older than the window are pruned on every call; the pruned
// window is persisted whether or not the request is granted, but the current
// timestamp is recorded only on grant. A denial is a normal outcome, not an
// error; store failures degrade to an empty window rather than blocking.
func (l *Limiter) Allow(spaceID string) bool {
	now := l.clock()

	windows := map[string][]int64{}
	// maxAge 0: the window entries carry their own timestamps
	if ok, err := l.store.Get(storeKey, 0, &windows); err != nil || !ok {
		windows = map[string][]int64{}
	}

	recent := make([]int64, 0, MaxRequests)
	for _, ts := range windows[spaceID] {
		if now.Sub(time.Unix(0, ts)) < Window {
			recent = append(recent, ts)
		}
	}

	granted := len(recent) < MaxRequests
	if granted {
		recent = append(recent, now.UnixNano())
	}

	windows[spaceID] = recent
	_ = l.store.Set(storeKey, windows)

	return granted
}
