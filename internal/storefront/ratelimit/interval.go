package ratelimit

import (
	"context"
	"sync"
	"time"

	"regionprice/internal/storefront"
)

// MinInterval spaces fetch starts at least Interval apart. Each caller
// reserves the next free slot, so concurrent callers queue instead of
// all firing once the first wait ends.
type MinInterval struct {
	F        storefront.Fetcher
	Interval time.Duration

	mu   sync.Mutex
	next time.Time
}

func (m *MinInterval) Name() string { return m.F.Name() }

func (m *MinInterval) reserve() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	start := m.next
	if start.Before(now) {
		start = now
	}
	m.next = start.Add(m.Interval)
	return start.Sub(now)
}

func (m *MinInterval) Fetch(ctx context.Context, req storefront.Request) (string, error) {
	if m.Interval > 0 {
		if wait := m.reserve(); wait > 0 {
			t := time.NewTimer(wait)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-t.C:
			}
		}
	}
	return m.F.Fetch(ctx, req)
}

// Wrap applies the configured limit: a token bucket when requestsPerMinute
// is set, otherwise a minimum interval, otherwise f unchanged.
func Wrap(f storefront.Fetcher, requestsPerMinute, burst int, minInterval time.Duration) storefront.Fetcher {
	switch {
	case requestsPerMinute > 0:
		if burst <= 0 {
			burst = 1
		}
		return &TokenBucketFetcher{F: f, TB: NewTokenBucket(float64(requestsPerMinute)/60.0, burst)}
	case minInterval > 0:
		return &MinInterval{F: f, Interval: minInterval}
	default:
		return f
	}
}
