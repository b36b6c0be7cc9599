package middleware

import (
	"net/http"
	"strings"

	"github.com/erp/stockledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Actions a capability can grant
const (
	ActionView   = "view"
	ActionAdd    = "add"
	ActionChange = "change"
	ActionDelete = "delete"
)

// Resources guarded by capabilities
const (
	ResourceUnit           = "unit"
	ResourceItem           = "item"
	ResourceLot            = "lot"
	ResourceReceipt        = "receipt"
	ResourceBill           = "bill"
	ResourcePurchaseReturn = "purchasereturn"
	ResourceInvoice        = "invoice"
	ResourceSaleReturn     = "salereturn"
	ResourceProduction     = "production"
	ResourceTransfer       = "transfer"
	ResourceAdjustment     = "adjustment"
	ResourceEmployee       = "employee"
	ResourceAdvance        = "advance"
	ResourceSalary         = "salary"
	ResourceVoucher        = "voucher"
	ResourceVendorPayment  = "vendorpayment"
	ResourceCollection     = "collection"
	ResourceLedgerEntry    = "ledgerentry"
	ResourceLedgerType     = "ledgertype"
)

// Capabilities lists, per resource, the codename granting each action.
// Codenames follow "<action>_<resource>", e.g. "add_receipt".
var Capabilities = buildCapabilities(
	ResourceUnit, ResourceItem, ResourceLot,
	ResourceReceipt, ResourceBill, ResourcePurchaseReturn,
	ResourceInvoice, ResourceSaleReturn,
	ResourceProduction, ResourceTransfer, ResourceAdjustment,
	ResourceEmployee, ResourceAdvance, ResourceSalary,
	ResourceVoucher, ResourceVendorPayment, ResourceCollection,
	ResourceLedgerEntry, ResourceLedgerType,
)

func buildCapabilities(resources ...string) map[string]map[string]string {
	out := make(map[string]map[string]string, len(resources))
	for _, r := range resources {
		out[r] = map[string]string{
			ActionView:   ActionView + "_" + r,
			ActionAdd:    ActionAdd + "_" + r,
			ActionChange: ActionChange + "_" + r,
			ActionDelete: ActionDelete + "_" + r,
		}
	}
	return out
}

// CapabilityFor returns the codename for resource and action, or ""
func CapabilityFor(resource, action string) string {
	return Capabilities[resource][action]
}

// PermissionConfig holds configuration for permission middleware
type PermissionConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
}

// RequireCapability checks the capability for resource with the action
// implied by the HTTP method:
// - GET -> view
// - POST -> add
// - PUT/PATCH -> change
// - DELETE -> delete
func RequireCapability(resource string) gin.HandlerFunc {
	return RequireCapabilityWithConfig(resource, "", PermissionConfig{})
}

// RequireAction checks the capability for an explicit resource action.
// Sub-actions such as cancel or pay use ActionChange.
func RequireAction(resource, action string) gin.HandlerFunc {
	return RequireCapabilityWithConfig(resource, action, PermissionConfig{})
}

// RequireCapabilityWithConfig checks a capability; an empty action is
// derived from the HTTP method.
//
// Viewing is open to every authenticated tenant user. Superusers hold every
// capability. Requests admitted by the tenant header carry no token and are
// not subject to capability checks; that path is disabled in production.
func RequireCapabilityWithConfig(resource, action string, cfg PermissionConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		act := action
		if act == "" {
			act = methodToAction(c.Request.Method)
		}
		if act == ActionView {
			c.Next()
			return
		}

		claims := GetJWTClaims(c)
		if claims == nil {
			if _, ok := GetActor(c); ok {
				c.Next()
				return
			}
			abortWithError(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		capability := CapabilityFor(resource, act)
		if capability == "" || !claims.Can(capability) {
			log.Warn("Permission denied",
				zap.String("user_id", claims.UserID),
				zap.String("required", capability),
				zap.Strings("granted", claims.Capabilities),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)
			abortWithError(c, dto.ErrCodeForbidden, "Access denied: missing capability "+capability)
			return
		}

		c.Next()
	}
}

// methodToAction converts HTTP method to capability action
func methodToAction(method string) string {
	switch strings.ToUpper(method) {
	case http.MethodPost:
		return ActionAdd
	case http.MethodPut, http.MethodPatch:
		return ActionChange
	case http.MethodDelete:
		return ActionDelete
	default:
		return ActionView
	}
}
