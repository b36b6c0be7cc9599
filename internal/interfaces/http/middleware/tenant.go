package middleware

import (
	"strings"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/infrastructure/logger"
	"github.com/erp/stockledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Context keys and headers used to resolve the acting tenant
const (
	ActorKey        = "actor"
	TenantHeaderKey = "X-Tenant-ID"
	UserHeaderKey   = "X-User-ID"
)

// TenantMiddlewareConfig holds configuration for tenant middleware
type TenantMiddlewareConfig struct {
	// HeaderEnabled accepts the tenant header when no token carries one.
	// Production deployments keep it off.
	HeaderEnabled bool
	// HeaderName overrides TenantHeaderKey
	HeaderName string
	// SkipPaths are paths that don't require tenant context
	SkipPaths []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultTenantConfig returns default tenant middleware configuration
func DefaultTenantConfig() TenantMiddlewareConfig {
	return TenantMiddlewareConfig{
		HeaderEnabled: false,
		HeaderName:    TenantHeaderKey,
		SkipPaths:     []string{"/health", "/api/v1/health"},
	}
}

// TenantMiddleware resolves the acting tenant from the token claims
func TenantMiddleware() gin.HandlerFunc {
	return TenantMiddlewareWithConfig(DefaultTenantConfig())
}

// TenantMiddlewareWithConfig resolves the actor for every request.
// Resolution order: JWT claims, then the tenant header when enabled.
// A request that resolves no tenant is refused with ERR_TENANT_REQUIRED.
func TenantMiddlewareWithConfig(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	header := cfg.HeaderName
	if header == "" {
		header = TenantHeaderKey
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		var (
			actor  shared.Actor
			source string
		)
		if claims := GetJWTClaims(c); claims != nil {
			actor, source = shared.NewActor(claims.TenantUUID(), claims.UserUUID()), "jwt"
		} else if cfg.HeaderEnabled {
			if raw := strings.TrimSpace(c.GetHeader(header)); raw != "" {
				tenantID, err := uuid.Parse(raw)
				if err != nil {
					abortWithError(c, dto.ErrCodeBadRequest, "Invalid tenant ID format")
					return
				}
				userID, _ := uuid.Parse(strings.TrimSpace(c.GetHeader(UserHeaderKey)))
				actor, source = shared.NewActor(tenantID, userID), "header"
			}
		}

		if actor.Validate() != nil {
			abortWithError(c, dto.ErrCodeTenantRequired, "Tenant identification required")
			return
		}

		c.Set(ActorKey, actor)
		userID := ""
		if actor.UserID != uuid.Nil {
			userID = actor.UserID.String()
		}
		ctx := logger.WithTenant(c.Request.Context(), actor.TenantID.String(), userID)
		c.Request = c.Request.WithContext(ctx)
		trace.SpanFromContext(ctx).SetAttributes(
			attribute.String("tenant.id", actor.TenantID.String()),
			attribute.String("tenant.source", source),
		)

		log.Debug("Tenant identified",
			zap.String("tenant_id", actor.TenantID.String()),
			zap.String("method", source),
		)

		c.Next()
	}
}

// GetActor retrieves the resolved actor from gin.Context
func GetActor(c *gin.Context) (shared.Actor, bool) {
	if v, exists := c.Get(ActorKey); exists {
		if actor, ok := v.(shared.Actor); ok {
			return actor, true
		}
	}
	return shared.Actor{}, false
}
