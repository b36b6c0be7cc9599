package router

import (
	"net/http"

	"github.com/erp/stockledger/internal/interfaces/http/handler"
	"github.com/erp/stockledger/internal/interfaces/http/middleware"
)

// Handlers collects every HTTP handler the API mounts
type Handlers struct {
	Inventory       *handler.InventoryHandler
	Receipts        *handler.ReceiptHandler
	Bills           *handler.BillHandler
	PurchaseReturns *handler.PurchaseReturnHandler
	Invoices        *handler.InvoiceHandler
	SaleReturns     *handler.SaleReturnHandler
	Productions     *handler.ProductionHandler
	Transfers       *handler.TransferHandler
	Adjustments     *handler.AdjustmentHandler
	Employees       *handler.EmployeeHandler
	Advances        *handler.AdvanceHandler
	Salaries        *handler.SalaryHandler
	Vouchers        *handler.VoucherHandler
	VendorPayments  *handler.VendorPaymentHandler
	Collections     *handler.CollectionHandler
	Ledger          *handler.LedgerHandler
	Session         *handler.SessionHandler
}

// DocumentGroup mounts the standard document routes under prefix. Cancel
// needs the change capability; documents that cannot be cancelled pass
// cancellable=false and the route is left out.
func DocumentGroup(name, prefix, resource string, h handler.DocumentRoutes, cancellable bool) *DomainGroup {
	g := NewResourceGroup(name, prefix, resource)
	g.POST("", h.Create).
		GET("", h.List).
		GET("/:id", h.Get).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
	if cancellable {
		g.Action(http.MethodPost, "/:id/cancel", middleware.ActionChange, h.Cancel)
	}
	return g
}

// APIGroups builds the route groups of the versioned API
func APIGroups(h Handlers) []RouteRegistrar {
	units := NewResourceGroup("units", "/units", middleware.ResourceUnit).
		POST("", h.Inventory.CreateUnit).
		GET("", h.Inventory.ListUnits).
		GET("/:id", h.Inventory.GetUnit)

	items := NewResourceGroup("items", "/items", middleware.ResourceItem).
		POST("", h.Inventory.CreateItem).
		GET("", h.Inventory.ListItems).
		GET("/:id", h.Inventory.GetItem).
		GET("/:id/price", h.Inventory.GetPrice).
		PUT("/:id/price", h.Inventory.SetPricing)

	lots := NewResourceGroup("lots", "/lots", middleware.ResourceLot).
		GET("", h.Inventory.ListLots).
		GET("/:id", h.Inventory.GetLot)

	receipts := DocumentGroup("receipts", "/receipts", middleware.ResourceReceipt, h.Receipts, true).
		GET("/:id/bills", h.Receipts.Bills)

	// Bills stay open until paid; there is no cancel.
	bills := DocumentGroup("bills", "/bills", middleware.ResourceBill, h.Bills, false).
		Action(http.MethodPost, "/:id/payments", middleware.ActionChange, h.Bills.Pay)

	invoices := DocumentGroup("invoices", "/invoices", middleware.ResourceInvoice, h.Invoices, true).
		Action(http.MethodPost, "/:id/payments", middleware.ActionChange, h.Invoices.RecordPayment)

	employees := NewResourceGroup("employees", "/employees", middleware.ResourceEmployee).
		POST("", h.Employees.Create).
		GET("", h.Employees.List).
		GET("/:id", h.Employees.Get)

	entries := NewResourceGroup("ledger-entries", "/ledger/entries", middleware.ResourceLedgerEntry).
		GET("", h.Ledger.ListEntries).
		GET("/by-number/:number", h.Ledger.GetEntryByNumber).
		GET("/:id", h.Ledger.GetEntry).
		Action(http.MethodPost, "/:id/post", middleware.ActionChange, h.Ledger.PostEntry)

	types := NewResourceGroup("ledger-types", "/ledger/types", middleware.ResourceLedgerType).
		GET("", h.Ledger.ListTypes).
		POST("", h.Ledger.RegisterType)

	catalog := NewResourceGroup("ledger-catalog", "/ledger", middleware.ResourceLedgerType).
		GET("/catalog", h.Ledger.Catalog)

	session := NewDomainGroup("session", "/session").
		GET("", h.Session.Me).
		POST("/revoke", h.Session.Revoke)

	return []RouteRegistrar{
		units, items, lots,
		receipts, bills,
		DocumentGroup("purchase-returns", "/purchase-returns", middleware.ResourcePurchaseReturn, h.PurchaseReturns, true),
		invoices,
		DocumentGroup("sale-returns", "/sale-returns", middleware.ResourceSaleReturn, h.SaleReturns, true),
		DocumentGroup("productions", "/productions", middleware.ResourceProduction, h.Productions, true),
		DocumentGroup("transfers", "/transfers", middleware.ResourceTransfer, h.Transfers, true),
		DocumentGroup("adjustments", "/adjustments", middleware.ResourceAdjustment, h.Adjustments, true),
		employees,
		DocumentGroup("advances", "/advances", middleware.ResourceAdvance, h.Advances, false),
		DocumentGroup("salaries", "/salaries", middleware.ResourceSalary, h.Salaries, true),
		DocumentGroup("vouchers", "/vouchers", middleware.ResourceVoucher, h.Vouchers, true),
		DocumentGroup("vendor-payments", "/vendor-payments", middleware.ResourceVendorPayment, h.VendorPayments, true),
		DocumentGroup("collections", "/collections", middleware.ResourceCollection, h.Collections, true),
		entries, types, catalog,
		session,
	}
}
