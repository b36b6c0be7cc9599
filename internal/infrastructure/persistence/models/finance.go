package models

import (
	"github.com/erp/stockledger/internal/domain/finance"
	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VoucherModel is the persistence model for an income or expense voucher
type VoucherModel struct {
	DocumentModel
	Kind      string          `gorm:"type:varchar(16);not null;index"`
	TypeCode  int             `gorm:"not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reference string          `gorm:"type:varchar(100)"`
	PayMethod string          `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (VoucherModel) TableName() string {
	return "vouchers"
}

// ToDomain converts the model to a domain voucher
func (m *VoucherModel) ToDomain() *finance.Voucher {
	return &finance.Voucher{
		Document:  m.ToDomainDocument(),
		Kind:      finance.VoucherKind(m.Kind),
		Type:      ledger.Type(m.TypeCode),
		Amount:    m.Amount,
		Reference: m.Reference,
		PayMethod: m.PayMethod,
	}
}

// VoucherModelFromDomain creates a persistence model from a domain voucher
func VoucherModelFromDomain(v *finance.Voucher) *VoucherModel {
	m := &VoucherModel{
		Kind:      string(v.Kind),
		TypeCode:  int(v.Type),
		Amount:    v.Amount,
		Reference: v.Reference,
		PayMethod: v.PayMethod,
	}
	m.FromDomainDocument(v.Document)
	return m
}

// VendorPaymentModel is the persistence model for a vendor payment
type VendorPaymentModel struct {
	DocumentModel
	VendorID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (VendorPaymentModel) TableName() string {
	return "vendor_payments"
}

// ToDomain converts the model to a domain vendor payment
func (m *VendorPaymentModel) ToDomain() *finance.VendorPayment {
	return &finance.VendorPayment{
		Document: m.ToDomainDocument(),
		VendorID: m.VendorID,
		Amount:   m.Amount,
	}
}

// VendorPaymentModelFromDomain creates a persistence model from a domain vendor payment
func VendorPaymentModelFromDomain(p *finance.VendorPayment) *VendorPaymentModel {
	m := &VendorPaymentModel{VendorID: p.VendorID, Amount: p.Amount}
	m.FromDomainDocument(p.Document)
	return m
}

// CollectionModel is the persistence model for a customer collection
type CollectionModel struct {
	DocumentModel
	CustomerID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (CollectionModel) TableName() string {
	return "customer_collections"
}

// ToDomain converts the model to a domain collection
func (m *CollectionModel) ToDomain() *finance.CustomerCollection {
	return &finance.CustomerCollection{
		Document:   m.ToDomainDocument(),
		CustomerID: m.CustomerID,
		Amount:     m.Amount,
	}
}

// CollectionModelFromDomain creates a persistence model from a domain collection
func CollectionModelFromDomain(c *finance.CustomerCollection) *CollectionModel {
	m := &CollectionModel{CustomerID: c.CustomerID, Amount: c.Amount}
	m.FromDomainDocument(c.Document)
	return m
}
