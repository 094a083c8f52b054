package flow

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimiter defines the interface for rate limiting implementations.
type RateLimiter interface {
	// Allow checks if the request should be allowed based on the key and rate limit.
	// Returns true if allowed, false if rate limited.
	// remaining indicates how many requests are left in the current window.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, remaining int, err error)

	// Reset clears the rate limit counter for the given key.
	Reset(ctx context.Context, key string) error
}

// RateLimitError is returned when a request is rate limited.
type RateLimitError struct {
	RetryAfter time.Duration
	Remaining  int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %v", e.RetryAfter)
}

// IsRateLimitError checks if an error is a rate limit error.
func IsRateLimitError(err error) bool {
	_, ok := err.(*RateLimitError)
	return ok
}

// AsRateLimitError extracts RateLimitError from error if possible.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	e, ok := err.(*RateLimitError)
	return e, ok
}

// ---- Sliding Window Rate Limiter (Memory) ----

type slidingWindowEntry struct {
	mu         sync.Mutex
	timestamps []time.Time
}

// MemoryRateLimiter implements rate limiting using an in-memory sliding window.
// For multi-instance deployments, use the Redis-based implementation.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	entries map[string]*slidingWindowEntry
}

// NewMemoryRateLimiter creates a new memory-based rate limiter.
func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{
		entries: make(map[string]*slidingWindowEntry),
	}
}

func (r *MemoryRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	r.mu.Lock()
	entry, ok := r.entries[key]
	if !ok {
		entry = &slidingWindowEntry{}
		r.entries[key] = entry
	}
	r.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	cutoff := time.Now().Add(-window)
	kept := entry.timestamps[:0]
	for _, ts := range entry.timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	entry.timestamps = kept

	if len(entry.timestamps) >= limit {
		return false, 0, nil
	}

	entry.timestamps = append(entry.timestamps, time.Now())
	return true, limit - len(entry.timestamps), nil
}

func (r *MemoryRateLimiter) Reset(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
	return nil
}
