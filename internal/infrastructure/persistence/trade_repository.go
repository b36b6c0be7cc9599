package persistence

import (
	"context"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/trade"
	"github.com/erp/stockledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReceiptRepository implements trade.ReceiptRepository using GORM
type GormReceiptRepository struct {
	documentStore[trade.Receipt, models.ReceiptModel, *models.ReceiptModel]
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{documentStore[trade.Receipt, models.ReceiptModel, *models.ReceiptModel]{
		db:      db,
		toModel: models.ReceiptModelFromDomain,
		lines: &lineSpec[models.ReceiptModel]{
			newModel:   func() any { return &models.ReceiptLineModel{} },
			foreignKey: "receipt_id",
			ids: func(m *models.ReceiptModel) []uuid.UUID {
				ids := make([]uuid.UUID, len(m.Lines))
				for i := range m.Lines {
					ids[i] = m.Lines[i].ID
				}
				return ids
			},
			rows: func(m *models.ReceiptModel) any { return &m.Lines },
		},
		filterColumns: []string{"vendor_id", "warehouse_id"},
	}}
}

// GormBillRepository implements trade.BillRepository using GORM
type GormBillRepository struct {
	documentStore[trade.Bill, models.BillModel, *models.BillModel]
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{documentStore[trade.Bill, models.BillModel, *models.BillModel]{
		db:            db,
		toModel:       models.BillModelFromDomain,
		filterColumns: []string{"vendor_id", "receipt_id", "payment_status"},
	}}
}

// FindByReceipt lists the bills linked to a receipt, oldest first
func (r *GormBillRepository) FindByReceipt(ctx context.Context, tenantID, receiptID uuid.UUID) ([]trade.Bill, error) {
	var rows []models.BillModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND receipt_id = ?", tenantID, receiptID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	bills := make([]trade.Bill, len(rows))
	for i := range rows {
		bills[i] = *rows[i].ToDomain()
	}
	return bills, nil
}

// GormPurchaseReturnRepository implements trade.PurchaseReturnRepository using GORM
type GormPurchaseReturnRepository struct {
	documentStore[trade.PurchaseReturn, models.PurchaseReturnModel, *models.PurchaseReturnModel]
}

// NewGormPurchaseReturnRepository creates a new GormPurchaseReturnRepository
func NewGormPurchaseReturnRepository(db *gorm.DB) *GormPurchaseReturnRepository {
	return &GormPurchaseReturnRepository{documentStore[trade.PurchaseReturn, models.PurchaseReturnModel, *models.PurchaseReturnModel]{
		db:      db,
		toModel: models.PurchaseReturnModelFromDomain,
		lines: &lineSpec[models.PurchaseReturnModel]{
			newModel:   func() any { return &models.PurchaseReturnLineModel{} },
			foreignKey: "purchase_return_id",
			ids: func(m *models.PurchaseReturnModel) []uuid.UUID {
				ids := make([]uuid.UUID, len(m.Lines))
				for i := range m.Lines {
					ids[i] = m.Lines[i].ID
				}
				return ids
			},
			rows: func(m *models.PurchaseReturnModel) any { return &m.Lines },
		},
		filterColumns: []string{"receipt_id", "warehouse_id"},
	}}
}

// CountByReceipt counts the returns against a receipt that are not cancelled
func (r *GormPurchaseReturnRepository) CountByReceipt(ctx context.Context, tenantID, receiptID uuid.UUID) (int64, error) {
	return r.count(ctx, tenantID, "receipt_id = ? AND status <> ?", receiptID, string(shared.DocumentStatusCancelled))
}

// GormInvoiceRepository implements trade.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	documentStore[trade.Invoice, models.InvoiceModel, *models.InvoiceModel]
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{documentStore[trade.Invoice, models.InvoiceModel, *models.InvoiceModel]{
		db:      db,
		toModel: models.InvoiceModelFromDomain,
		lines: &lineSpec[models.InvoiceModel]{
			newModel:   func() any { return &models.InvoiceLineModel{} },
			foreignKey: "invoice_id",
			ids: func(m *models.InvoiceModel) []uuid.UUID {
				ids := make([]uuid.UUID, len(m.Lines))
				for i := range m.Lines {
					ids[i] = m.Lines[i].ID
				}
				return ids
			},
			rows: func(m *models.InvoiceModel) any { return &m.Lines },
		},
		filterColumns: []string{"customer_id", "warehouse_id", "payment_status"},
	}}
}

// GormSaleReturnRepository implements trade.SaleReturnRepository using GORM
type GormSaleReturnRepository struct {
	documentStore[trade.SaleReturn, models.SaleReturnModel, *models.SaleReturnModel]
}

// NewGormSaleReturnRepository creates a new GormSaleReturnRepository
func NewGormSaleReturnRepository(db *gorm.DB) *GormSaleReturnRepository {
	return &GormSaleReturnRepository{documentStore[trade.SaleReturn, models.SaleReturnModel, *models.SaleReturnModel]{
		db:      db,
		toModel: models.SaleReturnModelFromDomain,
		lines: &lineSpec[models.SaleReturnModel]{
			newModel:   func() any { return &models.SaleReturnLineModel{} },
			foreignKey: "sale_return_id",
			ids: func(m *models.SaleReturnModel) []uuid.UUID {
				ids := make([]uuid.UUID, len(m.Lines))
				for i := range m.Lines {
					ids[i] = m.Lines[i].ID
				}
				return ids
			},
			rows: func(m *models.SaleReturnModel) any { return &m.Lines },
		},
		filterColumns: []string{"invoice_id"},
	}}
}

// CountByInvoice counts the returns against an invoice that are not cancelled
func (r *GormSaleReturnRepository) CountByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (int64, error) {
	return r.count(ctx, tenantID, "invoice_id = ? AND status <> ?", invoiceID, string(shared.DocumentStatusCancelled))
}

var (
	_ trade.ReceiptRepository        = (*GormReceiptRepository)(nil)
	_ trade.BillRepository           = (*GormBillRepository)(nil)
	_ trade.PurchaseReturnRepository = (*GormPurchaseReturnRepository)(nil)
	_ trade.InvoiceRepository        = (*GormInvoiceRepository)(nil)
	_ trade.SaleReturnRepository     = (*GormSaleReturnRepository)(nil)
)
