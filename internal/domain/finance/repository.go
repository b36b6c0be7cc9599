package finance

import "github.com/erp/stockledger/internal/domain/shared"

// VoucherRepository persists income and expense vouchers
type VoucherRepository interface {
	shared.DocumentRepository[Voucher]
}

// VendorPaymentRepository persists vendor payments
type VendorPaymentRepository interface {
	shared.DocumentRepository[VendorPayment]
}

// CollectionRepository persists customer collections
type CollectionRepository interface {
	shared.DocumentRepository[CustomerCollection]
}
