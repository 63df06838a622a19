// Package ratelimit provides fixed-window login throttling. The window
// is fixed, not sliding: a caller can spend up to twice the limit
// across a window boundary. That looseness is accepted for this scope.
package ratelimit

import (
	"context"
	"time"
)

// Default limiter settings for login attempts.
const (
	DefaultLimit  = 5
	DefaultWindow = 15 * time.Minute
)

// Limiter decides whether another attempt for the given key is allowed,
// recording the attempt when it is.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
