package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/stockledger/internal/infrastructure/auth"
	"github.com/erp/stockledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilities(t *testing.T) {
	assert.Equal(t, "add_receipt", CapabilityFor(ResourceReceipt, ActionAdd))
	assert.Equal(t, "change_invoice", CapabilityFor(ResourceInvoice, ActionChange))
	assert.Equal(t, "delete_salary", CapabilityFor(ResourceSalary, ActionDelete))
	assert.Equal(t, "view_ledgerentry", CapabilityFor(ResourceLedgerEntry, ActionView))
	assert.Empty(t, CapabilityFor("unknown", ActionAdd))
	assert.Empty(t, CapabilityFor(ResourceReceipt, "approve"))
}

func TestMethodToAction(t *testing.T) {
	assert.Equal(t, ActionView, methodToAction(http.MethodGet))
	assert.Equal(t, ActionAdd, methodToAction(http.MethodPost))
	assert.Equal(t, ActionChange, methodToAction(http.MethodPut))
	assert.Equal(t, ActionChange, methodToAction("patch"))
	assert.Equal(t, ActionDelete, methodToAction(http.MethodDelete))
}

func capabilityRouter(t *testing.T, svc *auth.JWTService) *gin.Engine {
	t.Helper()
	cfg := DefaultJWTConfig(svc)
	cfg.Required = false
	tenantCfg := DefaultTenantConfig()
	tenantCfg.HeaderEnabled = true

	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg), TenantMiddlewareWithConfig(tenantCfg))
	receipts := router.Group("/receipts", RequireCapability(ResourceReceipt))
	receipts.GET("", okHandler)
	receipts.POST("", okHandler)
	receipts.PUT("/:id", okHandler)
	receipts.DELETE("/:id", okHandler)
	router.POST("/receipts/:id/cancel", RequireAction(ResourceReceipt, ActionChange), okHandler)
	return router
}

func TestRequireCapability(t *testing.T) {
	svc := newTestJWTService()
	router := capabilityRouter(t, svc)

	addOnly, _ := newTestToken(t, svc, "add_receipt")
	changeOnly, _ := newTestToken(t, svc, "change_receipt")
	superToken, _, err := svc.GenerateAccessToken(auth.TokenInput{
		TenantID:  uuid.New(),
		UserID:    uuid.New(),
		Superuser: true,
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"view is open", http.MethodGet, "/receipts", addOnly, http.StatusOK},
		{"add granted", http.MethodPost, "/receipts", addOnly, http.StatusOK},
		{"change denied", http.MethodPut, "/receipts/1", addOnly, http.StatusForbidden},
		{"change granted", http.MethodPut, "/receipts/1", changeOnly, http.StatusOK},
		{"cancel needs change", http.MethodPost, "/receipts/1/cancel", addOnly, http.StatusForbidden},
		{"cancel granted", http.MethodPost, "/receipts/1/cancel", changeOnly, http.StatusOK},
		{"delete denied", http.MethodDelete, "/receipts/1", changeOnly, http.StatusForbidden},
		{"superuser bypasses", http.MethodDelete, "/receipts/1", superToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set(AuthHeaderKey, BearerPrefix+tt.token)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusForbidden {
				assert.Equal(t, dto.ErrCodeForbidden, decodeError(t, rec).Code)
			}
		})
	}
}

func TestRequireCapability_HeaderActor(t *testing.T) {
	router := capabilityRouter(t, newTestJWTService())

	req := httptest.NewRequest(http.MethodDelete, "/receipts/1", nil)
	req.Header.Set(TenantHeaderKey, uuid.NewString())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireCapability_NoActor(t *testing.T) {
	router := gin.New()
	router.POST("/receipts", RequireCapability(ResourceReceipt), okHandler)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/receipts", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
