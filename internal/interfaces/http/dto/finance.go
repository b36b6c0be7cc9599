package dto

import (
	"github.com/erp/stockledger/internal/domain/finance"
	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VoucherRequest creates or updates an income or expense voucher.
// The kind may be left out on update.
type VoucherRequest struct {
	Kind      string          `json:"kind" binding:"omitempty,oneof=income expense"`
	Type      int             `json:"type" binding:"required,gt=0"`
	Date      *Date           `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference" binding:"max=100"`
	PayMethod string          `json:"pay_method" binding:"max=50"`
	Note      string          `json:"note" binding:"max=1000"`
}

// ToInput converts the request
func (r VoucherRequest) ToInput() finance.VoucherInput {
	return finance.VoucherInput{
		Kind:      finance.VoucherKind(r.Kind),
		Type:      ledger.Type(r.Type),
		Date:      r.Date.Value(),
		Amount:    r.Amount,
		Reference: r.Reference,
		PayMethod: r.PayMethod,
		Note:      r.Note,
	}
}

// VoucherResponse is an income or expense voucher
type VoucherResponse struct {
	DocumentResponse
	Kind      string          `json:"kind"`
	Type      int             `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference,omitempty"`
	PayMethod string          `json:"pay_method,omitempty"`
}

// ToVoucherResponse converts a voucher
func ToVoucherResponse(v *finance.Voucher) VoucherResponse {
	return VoucherResponse{
		DocumentResponse: documentResponse(v.Document),
		Kind:             string(v.Kind),
		Type:             int(v.Type),
		Amount:           v.Amount,
		Reference:        v.Reference,
		PayMethod:        v.PayMethod,
	}
}

// VendorPaymentRequest creates or updates a vendor payment
type VendorPaymentRequest struct {
	VendorID uuid.UUID       `json:"vendor_id"`
	Date     *Date           `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note" binding:"max=1000"`
}

// ToInput converts the request
func (r VendorPaymentRequest) ToInput() finance.SettlementInput {
	return finance.SettlementInput{PartyID: r.VendorID, Date: r.Date.Value(), Amount: r.Amount, Note: r.Note}
}

// VendorPaymentResponse is a vendor payment
type VendorPaymentResponse struct {
	DocumentResponse
	VendorID uuid.UUID       `json:"vendor_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// ToVendorPaymentResponse converts a vendor payment
func ToVendorPaymentResponse(p *finance.VendorPayment) VendorPaymentResponse {
	return VendorPaymentResponse{
		DocumentResponse: documentResponse(p.Document),
		VendorID:         p.VendorID,
		Amount:           p.Amount,
	}
}

// CollectionRequest creates or updates a customer collection
type CollectionRequest struct {
	CustomerID uuid.UUID       `json:"customer_id"`
	Date       *Date           `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note" binding:"max=1000"`
}

// ToInput converts the request
func (r CollectionRequest) ToInput() finance.SettlementInput {
	return finance.SettlementInput{PartyID: r.CustomerID, Date: r.Date.Value(), Amount: r.Amount, Note: r.Note}
}

// CollectionResponse is a customer collection
type CollectionResponse struct {
	DocumentResponse
	CustomerID uuid.UUID       `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// ToCollectionResponse converts a customer collection
func ToCollectionResponse(c *finance.CustomerCollection) CollectionResponse {
	return CollectionResponse{
		DocumentResponse: documentResponse(c.Document),
		CustomerID:       c.CustomerID,
		Amount:           c.Amount,
	}
}
