package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader lets a client mark a write as a retry of an earlier one
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Store  shared.IdempotencyStore
	TTL    time.Duration
	Logger *zap.Logger
}

// Idempotency refuses a write whose Idempotency-Key was already used by the
// same tenant on the same route. Requests without the header pass through.
// A failed request frees its key so the client can retry it. When the store
// is unreachable the request proceeds unguarded.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyTTL
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if cfg.Store == nil || key == "" || !isWrite(c.Request.Method) {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			abortWithError(c, dto.ErrCodeBadRequest, "Idempotency key is too long")
			return
		}

		scoped := idempotencyScope(c, key)
		ctx := c.Request.Context()
		claimed, err := cfg.Store.Claim(ctx, scoped, ttl)
		if err != nil {
			log.Warn("Idempotency store unavailable, request not guarded",
				zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			abortWithError(c, dto.ErrCodeDuplicateRequest, "A request with this idempotency key was already processed")
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			// The request may have timed out; release on a fresh context
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
			defer cancel()
			if err := cfg.Store.Release(releaseCtx, scoped); err != nil {
				log.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(err))
			}
		}
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func idempotencyScope(c *gin.Context, key string) string {
	tenant := "-"
	if actor, ok := GetActor(c); ok {
		tenant = actor.TenantID.String()
	}
	return tenant + ":" + c.Request.Method + ":" + c.Request.URL.Path + ":" + key
}
