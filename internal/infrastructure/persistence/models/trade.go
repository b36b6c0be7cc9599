package models

import (
	"time"

	"github.com/erp/stockledger/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptModel is the persistence model for a purchase receipt
type ReceiptModel struct {
	DocumentModel
	VendorID    uuid.UUID          `gorm:"type:uuid;index"`
	WarehouseID uuid.UUID          `gorm:"type:uuid;not null"`
	GrandTotal  decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Lines       []ReceiptLineModel `gorm:"foreignKey:ReceiptID;references:ID"`
}

// TableName returns the table name for GORM
func (ReceiptModel) TableName() string {
	return "receipts"
}

// ReceiptLineModel is one received lot
type ReceiptLineModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReceiptID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position         int             `gorm:"not null;default:0"`
	ItemID           uuid.UUID       `gorm:"type:uuid;not null"`
	UnitID           uuid.UUID       `gorm:"type:uuid;not null"`
	LotNumber        string          `gorm:"type:varchar(100);not null"`
	ExpiryDate       *time.Time      `gorm:"type:date"`
	PackSize         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Identity         string          `gorm:"type:varchar(255);not null"`
	LotID            uuid.UUID       `gorm:"type:uuid"`
	ReturnedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (ReceiptLineModel) TableName() string {
	return "receipt_lines"
}

// ToDomain converts the model to a domain receipt
func (m *ReceiptModel) ToDomain() *trade.Receipt {
	r := &trade.Receipt{
		Document:    m.ToDomainDocument(),
		VendorID:    m.VendorID,
		WarehouseID: m.WarehouseID,
		GrandTotal:  m.GrandTotal,
		Lines:       make([]trade.ReceiptLine, len(m.Lines)),
	}
	for i, l := range m.Lines {
		r.Lines[i] = trade.ReceiptLine{
			ID:               l.ID,
			ItemID:           l.ItemID,
			UnitID:           l.UnitID,
			LotNumber:        l.LotNumber,
			ExpiryDate:       fromNullableDate(l.ExpiryDate),
			PackSize:         l.PackSize,
			Quantity:         l.Quantity,
			UnitPrice:        l.UnitPrice,
			Identity:         l.Identity,
			LotID:            l.LotID,
			ReturnedQuantity: l.ReturnedQuantity,
		}
	}
	return r
}

// ReceiptModelFromDomain creates a persistence model from a domain receipt
func ReceiptModelFromDomain(r *trade.Receipt) *ReceiptModel {
	m := &ReceiptModel{
		VendorID:    r.VendorID,
		WarehouseID: r.WarehouseID,
		GrandTotal:  r.GrandTotal,
		Lines:       make([]ReceiptLineModel, len(r.Lines)),
	}
	m.FromDomainDocument(r.Document)
	for i, l := range r.Lines {
		m.Lines[i] = ReceiptLineModel{
			ID:               l.ID,
			ReceiptID:        r.ID,
			Position:         i,
			ItemID:           l.ItemID,
			UnitID:           l.UnitID,
			LotNumber:        l.LotNumber,
			ExpiryDate:       nullableDate(l.ExpiryDate),
			PackSize:         l.PackSize,
			Quantity:         l.Quantity,
			UnitPrice:        l.UnitPrice,
			Identity:         l.Identity,
			LotID:            l.LotID,
			ReturnedQuantity: l.ReturnedQuantity,
		}
	}
	return m
}

// BillModel is the persistence model for a vendor bill
type BillModel struct {
	DocumentModel
	ReceiptID     *uuid.UUID      `gorm:"type:uuid;index"`
	VendorID      uuid.UUID       `gorm:"type:uuid;index"`
	BillAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentStatus int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BillModel) TableName() string {
	return "bills"
}

// ToDomain converts the model to a domain bill
func (m *BillModel) ToDomain() *trade.Bill {
	return &trade.Bill{
		Document:      m.ToDomainDocument(),
		ReceiptID:     m.ReceiptID,
		VendorID:      m.VendorID,
		BillAmount:    m.BillAmount,
		PaidAmount:    m.PaidAmount,
		PaymentStatus: trade.BillPaymentStatus(m.PaymentStatus),
	}
}

// BillModelFromDomain creates a persistence model from a domain bill
func BillModelFromDomain(b *trade.Bill) *BillModel {
	m := &BillModel{
		ReceiptID:     b.ReceiptID,
		VendorID:      b.VendorID,
		BillAmount:    b.BillAmount,
		PaidAmount:    b.PaidAmount,
		PaymentStatus: int(b.PaymentStatus),
	}
	m.FromDomainDocument(b.Document)
	return m
}

// PurchaseReturnModel is the persistence model for a purchase return
type PurchaseReturnModel struct {
	DocumentModel
	ReceiptID    uuid.UUID                 `gorm:"type:uuid;not null;index"`
	WarehouseID  uuid.UUID                 `gorm:"type:uuid;not null"`
	ReturnAmount decimal.Decimal           `gorm:"type:decimal(18,4);not null;default:0"`
	Lines        []PurchaseReturnLineModel `gorm:"foreignKey:PurchaseReturnID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseReturnModel) TableName() string {
	return "purchase_returns"
}

// PurchaseReturnLineModel returns part of one receipt line
type PurchaseReturnLineModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PurchaseReturnID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position         int             `gorm:"not null;default:0"`
	ReceiptLineID    uuid.UUID       `gorm:"type:uuid;not null"`
	ItemID           uuid.UUID       `gorm:"type:uuid;not null"`
	Identity         string          `gorm:"type:varchar(255);not null"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (PurchaseReturnLineModel) TableName() string {
	return "purchase_return_lines"
}

// ToDomain converts the model to a domain purchase return
func (m *PurchaseReturnModel) ToDomain() *trade.PurchaseReturn {
	p := &trade.PurchaseReturn{
		Document:     m.ToDomainDocument(),
		ReceiptID:    m.ReceiptID,
		WarehouseID:  m.WarehouseID,
		ReturnAmount: m.ReturnAmount,
		Lines:        make([]trade.PurchaseReturnLine, len(m.Lines)),
	}
	for i, l := range m.Lines {
		p.Lines[i] = trade.PurchaseReturnLine{
			ID:            l.ID,
			ReceiptLineID: l.ReceiptLineID,
			ItemID:        l.ItemID,
			Identity:      l.Identity,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
		}
	}
	return p
}

// PurchaseReturnModelFromDomain creates a persistence model from a domain purchase return
func PurchaseReturnModelFromDomain(p *trade.PurchaseReturn) *PurchaseReturnModel {
	m := &PurchaseReturnModel{
		ReceiptID:    p.ReceiptID,
		WarehouseID:  p.WarehouseID,
		ReturnAmount: p.ReturnAmount,
		Lines:        make([]PurchaseReturnLineModel, len(p.Lines)),
	}
	m.FromDomainDocument(p.Document)
	for i, l := range p.Lines {
		m.Lines[i] = PurchaseReturnLineModel{
			ID:               l.ID,
			PurchaseReturnID: p.ID,
			Position:         i,
			ReceiptLineID:    l.ReceiptLineID,
			ItemID:           l.ItemID,
			Identity:         l.Identity,
			Quantity:         l.Quantity,
			UnitPrice:        l.UnitPrice,
		}
	}
	return m
}

// InvoiceModel is the persistence model for a sales invoice
type InvoiceModel struct {
	DocumentModel
	CustomerID    uuid.UUID          `gorm:"type:uuid;index"`
	WarehouseID   uuid.UUID          `gorm:"type:uuid;not null"`
	Subtotal      decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Discount      decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Tax           decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Total         decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	PaidAmount    decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	DueAmount     decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentStatus string             `gorm:"type:varchar(16);not null"`
	Lines         []InvoiceLineModel `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceLineModel is one sold quantity taken from a lot
type InvoiceLineModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position         int             `gorm:"not null;default:0"`
	ItemID           uuid.UUID       `gorm:"type:uuid;not null"`
	UnitID           uuid.UUID       `gorm:"type:uuid;not null"`
	LotID            uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReturnedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (InvoiceLineModel) TableName() string {
	return "invoice_lines"
}

// ToDomain converts the model to a domain invoice
func (m *InvoiceModel) ToDomain() *trade.Invoice {
	inv := &trade.Invoice{
		Document:      m.ToDomainDocument(),
		CustomerID:    m.CustomerID,
		WarehouseID:   m.WarehouseID,
		Subtotal:      m.Subtotal,
		Discount:      m.Discount,
		Tax:           m.Tax,
		Total:         m.Total,
		PaidAmount:    m.PaidAmount,
		DueAmount:     m.DueAmount,
		PaymentStatus: trade.PaymentStatus(m.PaymentStatus),
		Lines:         make([]trade.InvoiceLine, len(m.Lines)),
	}
	for i, l := range m.Lines {
		inv.Lines[i] = trade.InvoiceLine{
			ID:               l.ID,
			ItemID:           l.ItemID,
			UnitID:           l.UnitID,
			LotID:            l.LotID,
			Quantity:         l.Quantity,
			UnitPrice:        l.UnitPrice,
			ReturnedQuantity: l.ReturnedQuantity,
		}
	}
	return inv
}

// InvoiceModelFromDomain creates a persistence model from a domain invoice
func InvoiceModelFromDomain(inv *trade.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		CustomerID:    inv.CustomerID,
		WarehouseID:   inv.WarehouseID,
		Subtotal:      inv.Subtotal,
		Discount:      inv.Discount,
		Tax:           inv.Tax,
		Total:         inv.Total,
		PaidAmount:    inv.PaidAmount,
		DueAmount:     inv.DueAmount,
		PaymentStatus: string(inv.PaymentStatus),
		Lines:         make([]InvoiceLineModel, len(inv.Lines)),
	}
	m.FromDomainDocument(inv.Document)
	for i, l := range inv.Lines {
		m.Lines[i] = InvoiceLineModel{
			ID:               l.ID,
			InvoiceID:        inv.ID,
			Position:         i,
			ItemID:           l.ItemID,
			UnitID:           l.UnitID,
			LotID:            l.LotID,
			Quantity:         l.Quantity,
			UnitPrice:        l.UnitPrice,
			ReturnedQuantity: l.ReturnedQuantity,
		}
	}
	return m
}

// SaleReturnModel is the persistence model for a sale return
type SaleReturnModel struct {
	DocumentModel
	InvoiceID    uuid.UUID             `gorm:"type:uuid;not null;index"`
	RefundAmount decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Lines        []SaleReturnLineModel `gorm:"foreignKey:SaleReturnID;references:ID"`
}

// TableName returns the table name for GORM
func (SaleReturnModel) TableName() string {
	return "sale_returns"
}

// SaleReturnLineModel returns part of one invoice line
type SaleReturnLineModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleReturnID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position      int             `gorm:"not null;default:0"`
	InvoiceLineID uuid.UUID       `gorm:"type:uuid;not null"`
	ItemID        uuid.UUID       `gorm:"type:uuid;not null"`
	LotID         uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (SaleReturnLineModel) TableName() string {
	return "sale_return_lines"
}

// ToDomain converts the model to a domain sale return
func (m *SaleReturnModel) ToDomain() *trade.SaleReturn {
	s := &trade.SaleReturn{
		Document:     m.ToDomainDocument(),
		InvoiceID:    m.InvoiceID,
		RefundAmount: m.RefundAmount,
		Lines:        make([]trade.SaleReturnLine, len(m.Lines)),
	}
	for i, l := range m.Lines {
		s.Lines[i] = trade.SaleReturnLine{
			ID:            l.ID,
			InvoiceLineID: l.InvoiceLineID,
			ItemID:        l.ItemID,
			LotID:         l.LotID,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
		}
	}
	return s
}

// SaleReturnModelFromDomain creates a persistence model from a domain sale return
func SaleReturnModelFromDomain(s *trade.SaleReturn) *SaleReturnModel {
	m := &SaleReturnModel{
		InvoiceID:    s.InvoiceID,
		RefundAmount: s.RefundAmount,
		Lines:        make([]SaleReturnLineModel, len(s.Lines)),
	}
	m.FromDomainDocument(s.Document)
	for i, l := range s.Lines {
		m.Lines[i] = SaleReturnLineModel{
			ID:            l.ID,
			SaleReturnID:  s.ID,
			Position:      i,
			InvoiceLineID: l.InvoiceLineID,
			ItemID:        l.ItemID,
			LotID:         l.LotID,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
		}
	}
	return m
}

// AllModels lists every table model, in dependency order, for AutoMigrate in tests
func AllModels() []any {
	return []any{
		&UnitModel{}, &ItemModel{}, &StockPriceModel{}, &StockLotModel{},
		&ProductionModel{}, &TransferModel{}, &TransferLineModel{}, &AdjustmentModel{},
		&LedgerEntryModel{}, &LedgerTypeModel{},
		&ReceiptModel{}, &ReceiptLineModel{}, &BillModel{},
		&PurchaseReturnModel{}, &PurchaseReturnLineModel{},
		&InvoiceModel{}, &InvoiceLineModel{}, &SaleReturnModel{}, &SaleReturnLineModel{},
		&EmployeeModel{}, &AdvanceModel{}, &SalaryPaymentModel{},
		&VoucherModel{}, &VendorPaymentModel{}, &CollectionModel{},
	}
}
