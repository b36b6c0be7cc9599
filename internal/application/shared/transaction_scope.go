// Package shared holds the contracts and helpers used by every application service.
package shared

import (
	"context"

	"github.com/erp/stockledger/internal/domain/finance"
	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/payroll"
	"github.com/erp/stockledger/internal/domain/stock"
	"github.com/erp/stockledger/internal/domain/trade"
)

// TransactionScope provides transactional access to the ledger repositories.
// Everything done through the repositories handed to fn is committed or
// rolled back as one unit.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories provides access to all repositories. Inside Execute they
// share one database transaction; outside they run on the plain connection.
type Repositories interface {
	LotRepo() stock.LotRepository
	PriceRepo() stock.PriceRepository
	CatalogRepo() stock.CatalogRepository
	ProductionRepo() stock.ProductionRepository
	TransferRepo() stock.TransferRepository
	AdjustmentRepo() stock.AdjustmentRepository

	EntryRepo() ledger.EntryRepository
	NumberRepo() ledger.NumberRepository
	LedgerTypeRepo() ledger.CustomTypeRepository

	ReceiptRepo() trade.ReceiptRepository
	BillRepo() trade.BillRepository
	PurchaseReturnRepo() trade.PurchaseReturnRepository
	InvoiceRepo() trade.InvoiceRepository
	SaleReturnRepo() trade.SaleReturnRepository

	EmployeeRepo() payroll.EmployeeRepository
	AdvanceRepo() payroll.AdvanceRepository
	SalaryRepo() payroll.SalaryRepository

	VoucherRepo() finance.VoucherRepository
	VendorPaymentRepo() finance.VendorPaymentRepository
	CollectionRepo() finance.CollectionRepository
}
