package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revocations records access tokens withdrawn before they expire.
// Entries only need to live until the token would have expired anyway.
type Revocations interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisRevocations stores revoked token ids in Redis, shared by every instance
type RedisRevocations struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisRevocations creates a revocation list on an existing client
func NewRedisRevocations(client *redis.Client) *RedisRevocations {
	return &RedisRevocations{client: client, keyPrefix: "ledger:revoked:"}
}

// Revoke marks jti as revoked for ttl
func (r *RedisRevocations) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.keyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether jti has been revoked
func (r *RedisRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := r.client.Get(ctx, r.keyPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return true, nil
}

var _ Revocations = (*RedisRevocations)(nil)

// MemoryRevocations keeps revoked token ids in process.
// Only suitable for a single instance.
type MemoryRevocations struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocations creates an empty in-process revocation list
func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{expires: make(map[string]time.Time), now: time.Now}
}

// Revoke marks jti as revoked for ttl
func (m *MemoryRevocations) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expires[jti] = m.now().Add(ttl)
	return nil
}

// IsRevoked reports whether jti has been revoked and the entry is still live
func (m *MemoryRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	until, ok := m.expires[jti]
	if !ok {
		return false, nil
	}
	if !m.now().Before(until) {
		delete(m.expires, jti)
		return false, nil
	}
	return true, nil
}

var _ Revocations = (*MemoryRevocations)(nil)
