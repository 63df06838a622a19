package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemory_AllowsUpToLimit(t *testing.T) {
	limiter := NewMemory(5, 15*time.Minute)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		allowed, err := limiter.Allow(ctx, "alice")
		assert.NoError(t, err)
		assert.True(t, allowed, "attempt %d should be allowed", i)
	}

	allowed, err := limiter.Allow(ctx, "alice")
	assert.NoError(t, err)
	assert.False(t, allowed, "sixth attempt should be denied")

	// Denied attempts must not extend the count; still denied.
	allowed, _ = limiter.Allow(ctx, "alice")
	assert.False(t, allowed)
}

func TestMemory_KeysAreIndependent(t *testing.T) {
	limiter := NewMemory(1, 15*time.Minute)
	ctx := context.Background()

	allowed, _ := limiter.Allow(ctx, "alice")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow(ctx, "alice")
	assert.False(t, allowed)

	allowed, _ = limiter.Allow(ctx, "bob")
	assert.True(t, allowed, "bob has his own window")
}

func TestMemory_WindowExpiryResetsCounter(t *testing.T) {
	limiter := NewMemory(5, 15*time.Minute)
	ctx := context.Background()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow(ctx, "alice")
		assert.True(t, allowed)
	}
	allowed, _ := limiter.Allow(ctx, "alice")
	assert.False(t, allowed)

	// Advance past the window: counter resets and attempts pass again.
	now = now.Add(15*time.Minute + time.Second)
	allowed, _ = limiter.Allow(ctx, "alice")
	assert.True(t, allowed, "attempt after window expiry should be allowed")
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	limiter := NewMemory(1000, 15*time.Minute)
	ctx := context.Background()

	done := make(chan struct{})
	for g := 0; g < 10; g++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 100; i++ {
				_, err := limiter.Allow(ctx, "shared")
				assert.NoError(t, err)
			}
		}()
	}
	for g := 0; g < 10; g++ {
		<-done
	}

	// Exactly 1000 attempts were recorded; the next one is denied.
	allowed, _ := limiter.Allow(ctx, "shared")
	assert.False(t, allowed)
}
