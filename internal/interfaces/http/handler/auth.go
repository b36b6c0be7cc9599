package handler

import (
	"time"

	"github.com/erp/stockledger/internal/infrastructure/auth"
	"github.com/erp/stockledger/internal/infrastructure/logger"
	"github.com/erp/stockledger/internal/interfaces/http/dto"
	"github.com/erp/stockledger/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHandler exposes the caller's token and lets them revoke it.
// Tokens are issued by the identity provider; this service only consumes them.
type SessionHandler struct {
	BaseHandler
	revocations auth.Revocations
	now         func() time.Time
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(revocations auth.Revocations) *SessionHandler {
	return &SessionHandler{revocations: revocations, now: time.Now}
}

// SessionResponse describes the authenticated caller
type SessionResponse struct {
	TenantID     string    `json:"tenant_id"`
	UserID       string    `json:"user_id"`
	Username     string    `json:"username,omitempty"`
	Capabilities []string  `json:"capabilities"`
	Superuser    bool      `json:"superuser"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Me returns the claims of the current token
func (h *SessionHandler) Me(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.ErrorWithCode(c, dto.ErrCodeUnauthorized, "Authentication required")
		return
	}
	resp := SessionResponse{
		TenantID:     claims.TenantID,
		UserID:       claims.UserID,
		Username:     claims.Username,
		Capabilities: claims.Capabilities,
		Superuser:    claims.Superuser,
	}
	if resp.Capabilities == nil {
		resp.Capabilities = []string{}
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}
	h.Success(c, resp)
}

// Revoke blacklists the current token until it would have expired anyway
func (h *SessionHandler) Revoke(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil || claims.ID == "" {
		h.ErrorWithCode(c, dto.ErrCodeUnauthorized, "Authentication required")
		return
	}
	ttl := claims.RemainingTTL(h.now())
	if ttl <= 0 {
		h.NoContent(c)
		return
	}
	if err := h.revocations.Revoke(c.Request.Context(), claims.ID, ttl); err != nil {
		h.HandleError(c, err)
		return
	}
	logger.L(c.Request.Context()).Info("Token revoked", zap.String("jti", claims.ID), zap.Duration("ttl", ttl))
	h.NoContent(c)
}
