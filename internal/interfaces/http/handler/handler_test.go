package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	appfinance "github.com/erp/stockledger/internal/application/finance"
	appledger "github.com/erp/stockledger/internal/application/ledger"
	apppayroll "github.com/erp/stockledger/internal/application/payroll"
	appstock "github.com/erp/stockledger/internal/application/stock"
	apptrade "github.com/erp/stockledger/internal/application/trade"
	"github.com/erp/stockledger/internal/domain/stock"
	"github.com/erp/stockledger/internal/interfaces/http/middleware"
	"github.com/erp/stockledger/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// apiEnv is a router over real services on an in-memory database, with
// every request acting as the fixture tenant.
type apiEnv struct {
	*testutil.Fixture
	router    *gin.Engine
	box       *stock.Unit
	item      *stock.Item
	warehouse uuid.UUID
	vendor    uuid.UUID
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	f := testutil.NewFixture(t)
	pcs := f.SeedUnit(t, "PCS", false)
	e := &apiEnv{
		Fixture:   f,
		box:       f.SeedUnit(t, "BOX", true),
		item:      f.SeedItem(t, "IBU-400", pcs.ID),
		warehouse: uuid.New(),
		vendor:    uuid.New(),
	}

	numberer := appledger.NewNumberer(f.Now)
	stockLedger := appstock.NewStockLedger(stock.PolicyReject, nil)
	transactions := appledger.NewTransactionLedger(nil)
	bills := apptrade.NewBillService(f.Runner, numberer, transactions)

	e.router = gin.New()
	api := e.router.Group("/api/v1", func(c *gin.Context) {
		c.Set(middleware.ActorKey, f.Actor)
		c.Next()
	})

	receipts := NewReceiptHandler(apptrade.NewReceivingService(f.Runner, numberer, stockLedger, transactions), bills)
	mountDocument(api, "/receipts", receipts)
	api.GET("/receipts/:id/bills", receipts.Bills)

	billHandler := NewBillHandler(bills)
	mountDocument(api, "/bills", billHandler)
	api.POST("/bills/:id/payments", billHandler.Pay)

	invoices := NewInvoiceHandler(apptrade.NewSaleService(f.Runner, numberer, stockLedger, transactions))
	mountDocument(api, "/invoices", invoices)
	api.POST("/invoices/:id/payments", invoices.RecordPayment)

	mountDocument(api, "/purchase-returns", NewPurchaseReturnHandler(
		apptrade.NewPurchaseReturnService(f.Runner, numberer, stockLedger, transactions)))
	mountDocument(api, "/sale-returns", NewSaleReturnHandler(
		apptrade.NewSaleReturnService(f.Runner, numberer, stockLedger, transactions)))
	mountDocument(api, "/productions", NewProductionHandler(appstock.NewProductionService(f.Runner, numberer, stockLedger)))
	mountDocument(api, "/transfers", NewTransferHandler(appstock.NewTransferService(f.Runner, numberer, stockLedger)))
	mountDocument(api, "/adjustments", NewAdjustmentHandler(appstock.NewAdjustmentService(f.Runner, numberer, stockLedger)))

	employees := NewEmployeeHandler(apppayroll.NewEmployeeService(f.Runner))
	api.POST("/employees", employees.Create)
	api.GET("/employees", employees.List)
	api.GET("/employees/:id", employees.Get)
	mountDocument(api, "/advances", NewAdvanceHandler(apppayroll.NewAdvanceService(f.Runner, transactions)))
	mountDocument(api, "/salaries", NewSalaryHandler(apppayroll.NewSalaryService(f.Runner, numberer, transactions)))

	mountDocument(api, "/vouchers", NewVoucherHandler(appfinance.NewVoucherService(f.Runner, numberer, transactions)))
	mountDocument(api, "/vendor-payments", NewVendorPaymentHandler(appfinance.NewVendorPaymentService(f.Runner, numberer, transactions)))
	mountDocument(api, "/collections", NewCollectionHandler(appfinance.NewCollectionService(f.Runner, numberer, transactions)))

	inventory := NewInventoryHandler(appstock.NewInventoryService(f.Runner, stockLedger))
	api.POST("/units", inventory.CreateUnit)
	api.GET("/units", inventory.ListUnits)
	api.GET("/units/:id", inventory.GetUnit)
	api.POST("/items", inventory.CreateItem)
	api.GET("/items", inventory.ListItems)
	api.GET("/items/:id", inventory.GetItem)
	api.GET("/items/:id/price", inventory.GetPrice)
	api.PUT("/items/:id/price", inventory.SetPricing)
	api.GET("/lots", inventory.ListLots)
	api.GET("/lots/:id", inventory.GetLot)

	ledgerHandler := NewLedgerHandler(appledger.NewService(f.Runner, transactions))
	api.GET("/ledger/entries", ledgerHandler.ListEntries)
	api.GET("/ledger/entries/:id", ledgerHandler.GetEntry)
	api.GET("/ledger/entries/by-number/:number", ledgerHandler.GetEntryByNumber)
	api.POST("/ledger/entries/:id/post", ledgerHandler.PostEntry)
	api.GET("/ledger/types", ledgerHandler.ListTypes)
	api.POST("/ledger/types", ledgerHandler.RegisterType)
	api.GET("/ledger/catalog", ledgerHandler.Catalog)
	return e
}

func mountDocument(g *gin.RouterGroup, path string, h DocumentRoutes) {
	g.POST(path, h.Create)
	g.GET(path, h.List)
	g.GET(path+"/:id", h.Get)
	g.PUT(path+"/:id", h.Update)
	g.DELETE(path+"/:id", h.Delete)
	g.POST(path+"/:id/cancel", h.Cancel)
}

func (e *apiEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.Do(t, e.router, method, "/api/v1"+path, body, nil)
}

// receiptBody receives q boxes of ten at price each, expiring end of 2025
func (e *apiEnv) receiptBody(lot, q, price string) map[string]any {
	return map[string]any{
		"vendor_id":    e.vendor,
		"warehouse_id": e.warehouse,
		"date":         "2024-03-15",
		"lines": []map[string]any{{
			"item_id":     e.item.ID,
			"unit_id":     e.box.ID,
			"lot_number":  lot,
			"expiry_date": "2025-12-31",
			"pack_size":   "10",
			"quantity":    q,
			"unit_price":  price,
		}},
	}
}

func (e *apiEnv) invoiceBody(q, price, paid string) map[string]any {
	return map[string]any{
		"customer_id":  uuid.New(),
		"warehouse_id": e.warehouse,
		"date":         "2024-03-15",
		"paid_amount":  paid,
		"lines": []map[string]any{{
			"item_id":    e.item.ID,
			"unit_id":    e.box.ID,
			"quantity":   q,
			"unit_price": price,
		}},
	}
}

type idOnly struct {
	ID             uuid.UUID `json:"id"`
	DocumentNumber string    `json:"document_number"`
}

func (e *apiEnv) create(t *testing.T, path string, body any) idOnly {
	t.Helper()
	return testutil.AssertSuccess[idOnly](t, e.do(t, http.MethodPost, path, body), http.StatusCreated)
}

func urlf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
