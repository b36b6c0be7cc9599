package trade

import (
	"context"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
)

// ReceiptRepository persists receipts and their lines
type ReceiptRepository interface {
	shared.DocumentRepository[Receipt]

	// FindByIDForUpdate finds and row-locks a receipt
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Receipt, error)
}

// BillRepository persists bills
type BillRepository interface {
	shared.DocumentRepository[Bill]

	// FindByReceipt lists the bills linked to a receipt
	FindByReceipt(ctx context.Context, tenantID, receiptID uuid.UUID) ([]Bill, error)
}

// PurchaseReturnRepository persists purchase returns
type PurchaseReturnRepository interface {
	shared.DocumentRepository[PurchaseReturn]

	// CountByReceipt counts the returns against a receipt that are not cancelled
	CountByReceipt(ctx context.Context, tenantID, receiptID uuid.UUID) (int64, error)
}

// InvoiceRepository persists invoices and their lines
type InvoiceRepository interface {
	shared.DocumentRepository[Invoice]

	// FindByIDForUpdate finds and row-locks an invoice
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
}

// SaleReturnRepository persists sale returns
type SaleReturnRepository interface {
	shared.DocumentRepository[SaleReturn]

	// CountByInvoice counts the returns against an invoice that are not cancelled
	CountByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (int64, error)
}
