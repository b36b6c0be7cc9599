package lock

import (
	"time"

	appshared "github.com/erp/stockledger/internal/application/shared"
	"github.com/erp/stockledger/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Factory builds the Locker matching configuration
type Factory struct {
	redisConfig           config.RedisConfig
	ttl                   time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// Option configures the factory
type Option func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) Option {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to
// the in-process locker. Default is true.
func WithInMemoryFallback(allow bool) Option {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(redisCfg config.RedisConfig, ledgerCfg config.LedgerConfig, opts ...Option) *Factory {
	f := &Factory{
		redisConfig:           redisCfg,
		ttl:                   ledgerCfg.NumberLockTTL,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a Redis locker when Redis is enabled and reachable, and the
// in-process locker otherwise. The returned client is nil for the latter and
// must be closed by the caller when set.
func (f *Factory) Create() (appshared.Locker, *redis.Client, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, document numbering is serialized in-process")
		return NewMemoryLocker(), nil, nil
	}

	client, err := NewRedisClient(f.redisConfig)
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, nil, err
		}
		f.logger.Warn("Redis unavailable, falling back to in-process locking",
			zap.String("addr", f.redisConfig.Addr()),
			zap.Error(err))
		return NewMemoryLocker(), nil, nil
	}

	f.logger.Info("Using Redis document number lock", zap.String("addr", f.redisConfig.Addr()))
	return NewRedisLocker(client, f.ttl), client, nil
}
