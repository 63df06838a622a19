package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	count       int
	windowStart time.Time
}

// Memory is an in-process fixed-window counter. State is process-local:
// in a multi-process deployment use the Redis limiter instead.
type Memory struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	entries map[string]*memoryEntry
	now     func() time.Time
}

// NewMemory creates an in-memory limiter allowing limit attempts per window.
func NewMemory(limit int, window time.Duration) *Memory {
	return &Memory{
		limit:   limit,
		window:  window,
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

// Allow reports whether another attempt for key fits in the current
// window. A new or expired window resets the counter to one. Once the
// limit is reached the counter is not incremented further.
func (m *Memory) Allow(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()

	e, ok := m.entries[key]
	if !ok || now.Sub(e.windowStart) > m.window {
		m.entries[key] = &memoryEntry{count: 1, windowStart: now}
		return true, nil
	}

	if e.count < m.limit {
		e.count++
		return true, nil
	}

	return false, nil
}
