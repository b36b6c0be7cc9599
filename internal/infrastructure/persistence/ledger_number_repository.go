package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// seriesTables maps each number series to the table holding its documents
var seriesTables = map[ledger.Series]string{
	ledger.SeriesReceipt:        "receipts",
	ledger.SeriesReceiptBill:    "bills",
	ledger.SeriesBill:           "bills",
	ledger.SeriesPurchaseReturn: "purchase_returns",
	ledger.SeriesProduction:     "productions",
	ledger.SeriesTransfer:       "transfers",
	ledger.SeriesAdjustment:     "adjustments",
	ledger.SeriesInvoice:        "invoices",
	ledger.SeriesSaleReturn:     "sale_returns",
	ledger.SeriesSalary:         "salary_payments",
	ledger.SeriesIncome:         "vouchers",
	ledger.SeriesExpense:        "vouchers",
	ledger.SeriesVendorPayment:  "vendor_payments",
	ledger.SeriesCollection:     "customer_collections",
}

// GormNumberRepository implements ledger.NumberRepository using GORM
type GormNumberRepository struct {
	db *gorm.DB
}

// NewGormNumberRepository creates a new GormNumberRepository
func NewGormNumberRepository(db *gorm.DB) *GormNumberRepository {
	return &GormNumberRepository{db: db}
}

// LastNumber returns the number of the most recently created document of series
func (r *GormNumberRepository) LastNumber(ctx context.Context, tenantID uuid.UUID, series ledger.Series) (string, error) {
	table, ok := seriesTables[series]
	if !ok {
		return "", fmt.Errorf("unknown number series %q", series)
	}

	var number string
	err := r.db.WithContext(ctx).
		Table(table).
		Select("document_number").
		Where("tenant_id = ? AND document_number LIKE ?", tenantID, string(series)+"-%").
		Order("created_at DESC").
		Order("document_number DESC").
		Limit(1).
		Scan(&number).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	return number, nil
}

var _ ledger.NumberRepository = (*GormNumberRepository)(nil)
