package handler

import (
	financeapp "github.com/erp/stockledger/internal/application/finance"
	"github.com/erp/stockledger/internal/domain/finance"
	"github.com/erp/stockledger/internal/interfaces/http/dto"
)

// VoucherHandler serves /vouchers; kind=income|expense narrows the list
type VoucherHandler = DocumentHandler[finance.Voucher, finance.VoucherInput, dto.VoucherRequest, dto.VoucherResponse]

// NewVoucherHandler creates a new VoucherHandler
func NewVoucherHandler(svc *financeapp.VoucherService) *VoucherHandler {
	return NewDocumentHandler[finance.Voucher, finance.VoucherInput, dto.VoucherRequest](
		svc, dto.ToVoucherResponse,
		StringParam("kind"), IntParam("type_code"),
	)
}

// VendorPaymentHandler serves /vendor-payments
type VendorPaymentHandler = DocumentHandler[finance.VendorPayment, finance.SettlementInput, dto.VendorPaymentRequest, dto.VendorPaymentResponse]

// NewVendorPaymentHandler creates a new VendorPaymentHandler
func NewVendorPaymentHandler(svc *financeapp.VendorPaymentService) *VendorPaymentHandler {
	return NewDocumentHandler[finance.VendorPayment, finance.SettlementInput, dto.VendorPaymentRequest](
		svc, dto.ToVendorPaymentResponse,
		UUIDParam("vendor_id"),
	)
}

// CollectionHandler serves /collections
type CollectionHandler = DocumentHandler[finance.CustomerCollection, finance.SettlementInput, dto.CollectionRequest, dto.CollectionResponse]

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(svc *financeapp.CollectionService) *CollectionHandler {
	return NewDocumentHandler[finance.CustomerCollection, finance.SettlementInput, dto.CollectionRequest](
		svc, dto.ToCollectionResponse,
		UUIDParam("customer_id"),
	)
}
