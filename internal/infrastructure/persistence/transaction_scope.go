package persistence

import (
	"context"

	appshared "github.com/erp/stockledger/internal/application/shared"
	"github.com/erp/stockledger/internal/domain/finance"
	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/payroll"
	"github.com/erp/stockledger/internal/domain/stock"
	"github.com/erp/stockledger/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appshared.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// gormRepositories builds every repository on one *gorm.DB, which is
// either the plain connection or an open transaction.
type gormRepositories struct {
	tx *gorm.DB
}

// NewRepositories returns the repositories bound to db
func NewRepositories(db *gorm.DB) appshared.Repositories {
	return &gormRepositories{tx: db}
}

func (r *gormRepositories) LotRepo() stock.LotRepository { return NewGormLotRepository(r.tx) }

func (r *gormRepositories) PriceRepo() stock.PriceRepository { return NewGormPriceRepository(r.tx) }

func (r *gormRepositories) CatalogRepo() stock.CatalogRepository {
	return NewGormCatalogRepository(r.tx)
}

func (r *gormRepositories) ProductionRepo() stock.ProductionRepository {
	return NewGormProductionRepository(r.tx)
}

func (r *gormRepositories) TransferRepo() stock.TransferRepository {
	return NewGormTransferRepository(r.tx)
}

func (r *gormRepositories) AdjustmentRepo() stock.AdjustmentRepository {
	return NewGormAdjustmentRepository(r.tx)
}

func (r *gormRepositories) EntryRepo() ledger.EntryRepository { return NewGormEntryRepository(r.tx) }

func (r *gormRepositories) NumberRepo() ledger.NumberRepository { return NewGormNumberRepository(r.tx) }

func (r *gormRepositories) LedgerTypeRepo() ledger.CustomTypeRepository {
	return NewGormCustomTypeRepository(r.tx)
}

func (r *gormRepositories) ReceiptRepo() trade.ReceiptRepository {
	return NewGormReceiptRepository(r.tx)
}

func (r *gormRepositories) BillRepo() trade.BillRepository { return NewGormBillRepository(r.tx) }

func (r *gormRepositories) PurchaseReturnRepo() trade.PurchaseReturnRepository {
	return NewGormPurchaseReturnRepository(r.tx)
}

func (r *gormRepositories) InvoiceRepo() trade.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *gormRepositories) SaleReturnRepo() trade.SaleReturnRepository {
	return NewGormSaleReturnRepository(r.tx)
}

func (r *gormRepositories) EmployeeRepo() payroll.EmployeeRepository {
	return NewGormEmployeeRepository(r.tx)
}

func (r *gormRepositories) AdvanceRepo() payroll.AdvanceRepository {
	return NewGormAdvanceRepository(r.tx)
}

func (r *gormRepositories) SalaryRepo() payroll.SalaryRepository { return NewGormSalaryRepository(r.tx) }

func (r *gormRepositories) VoucherRepo() finance.VoucherRepository {
	return NewGormVoucherRepository(r.tx)
}

func (r *gormRepositories) VendorPaymentRepo() finance.VendorPaymentRepository {
	return NewGormVendorPaymentRepository(r.tx)
}

func (r *gormRepositories) CollectionRepo() finance.CollectionRepository {
	return NewGormCollectionRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appshared.TransactionScope = (*GormTransactionScope)(nil)
