package cache

import (
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewIdempotencyStore returns a Redis store on client, or the in-process
// store when client is nil
func NewIdempotencyStore(client *redis.Client, logger *zap.Logger) shared.IdempotencyStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if client == nil {
		logger.Warn("Idempotency keys are held in-process; replicas do not see each other's keys")
		return NewInMemoryIdempotencyStore()
	}
	logger.Info("Using Redis idempotency store")
	return NewRedisIdempotencyStore(client, "")
}
