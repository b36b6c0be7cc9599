// Package lock provides the Locker implementations used to serialize
// document numbering: Redis-backed for multi-instance deployments and an
// in-process keyed mutex for single instances and tests.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	appshared "github.com/erp/stockledger/internal/application/shared"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL       = 10 * time.Second
	defaultKeyPrefix = "stockledger:"
	retryBackoff     = 25 * time.Millisecond
)

// RedisLocker implements Locker with bsm/redislock
type RedisLocker struct {
	client    *redislock.Client
	ttl       time.Duration
	keyPrefix string
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisLocker creates a locker on an existing client.
// ttl bounds how long a crashed holder can block a key.
func NewRedisLocker(client redis.UniversalClient, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisLocker{
		client:    redislock.New(client),
		ttl:       ttl,
		keyPrefix: defaultKeyPrefix,
	}
}

// Obtain retries until the lock is free, for at most one TTL
func (l *RedisLocker) Obtain(ctx context.Context, key string) (appshared.Lock, error) {
	retries := int(l.ttl / retryBackoff)
	held, err := l.client.Obtain(ctx, l.keyPrefix+key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(retryBackoff), retries),
	})
	switch {
	case errors.Is(err, redislock.ErrNotObtained):
		return nil, shared.ErrConcurrencyConflict.WithMessage("lock %s is busy", key)
	case err != nil:
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}
	return &redisLock{lock: held}, nil
}

type redisLock struct {
	lock *redislock.Lock
}

// Release frees the lock. A lock that already expired is not an error
// for the caller, whose transaction has completed either way.
func (r *redisLock) Release(ctx context.Context) error {
	err := r.lock.Release(ctx)
	if errors.Is(err, redislock.ErrLockNotHeld) {
		return nil
	}
	return err
}

var _ appshared.Locker = (*RedisLocker)(nil)
