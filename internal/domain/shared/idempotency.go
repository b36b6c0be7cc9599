package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers the idempotency keys of write requests so a
// retried request cannot post the same document twice
type IdempotencyStore interface {
	// Claim holds key for ttl. It reports false when key is already held.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release forgets key, letting a failed request be retried with it
	Release(ctx context.Context, key string) error

	// Close releases resources held by the store
	Close() error
}

// DefaultIdempotencyTTL is how long a claimed key blocks repeats
const DefaultIdempotencyTTL = 24 * time.Hour
