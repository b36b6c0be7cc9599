package dto

import (
	"github.com/erp/stockledger/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptLineRequest is one received lot. ID is set when updating an existing line.
type ReceiptLineRequest struct {
	ID         uuid.UUID       `json:"id"`
	ItemID     uuid.UUID       `json:"item_id"`
	UnitID     uuid.UUID       `json:"unit_id"`
	LotNumber  string          `json:"lot_number" binding:"max=100"`
	ExpiryDate Date            `json:"expiry_date"`
	PackSize   decimal.Decimal `json:"pack_size"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// ReceiptRequest creates or updates a purchase receipt
type ReceiptRequest struct {
	VendorID    uuid.UUID            `json:"vendor_id"`
	WarehouseID uuid.UUID            `json:"warehouse_id"`
	Date        *Date                `json:"date"`
	Note        string               `json:"note" binding:"max=1000"`
	Lines       []ReceiptLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToInput converts the request
func (r ReceiptRequest) ToInput() trade.ReceiptInput {
	in := trade.ReceiptInput{
		VendorID:    r.VendorID,
		WarehouseID: r.WarehouseID,
		Date:        r.Date.Value(),
		Note:        r.Note,
		Lines:       make([]trade.ReceiptLineInput, len(r.Lines)),
	}
	for i, l := range r.Lines {
		in.Lines[i] = trade.ReceiptLineInput{
			ID:         l.ID,
			ItemID:     l.ItemID,
			UnitID:     l.UnitID,
			LotNumber:  l.LotNumber,
			ExpiryDate: l.ExpiryDate.Time,
			PackSize:   l.PackSize,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
		}
	}
	return in
}

// ReceiptLineResponse is one receipt line
type ReceiptLineResponse struct {
	ID               uuid.UUID       `json:"id"`
	ItemID           uuid.UUID       `json:"item_id"`
	UnitID           uuid.UUID       `json:"unit_id"`
	LotNumber        string          `json:"lot_number"`
	ExpiryDate       Date            `json:"expiry_date"`
	PackSize         decimal.Decimal `json:"pack_size"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	LotID            uuid.UUID       `json:"lot_id"`
	ReturnedQuantity decimal.Decimal `json:"returned_quantity"`
}

// ReceiptResponse is a purchase receipt
type ReceiptResponse struct {
	DocumentResponse
	VendorID    uuid.UUID             `json:"vendor_id"`
	WarehouseID uuid.UUID             `json:"warehouse_id"`
	GrandTotal  decimal.Decimal       `json:"grand_total"`
	Lines       []ReceiptLineResponse `json:"lines"`
}

// ToReceiptResponse converts a receipt
func ToReceiptResponse(r *trade.Receipt) ReceiptResponse {
	resp := ReceiptResponse{
		DocumentResponse: documentResponse(r.Document),
		VendorID:         r.VendorID,
		WarehouseID:      r.WarehouseID,
		GrandTotal:       r.GrandTotal,
		Lines:            make([]ReceiptLineResponse, len(r.Lines)),
	}
	for i, l := range r.Lines {
		resp.Lines[i] = ReceiptLineResponse{
			ID:               l.ID,
			ItemID:           l.ItemID,
			UnitID:           l.UnitID,
			LotNumber:        l.LotNumber,
			ExpiryDate:       Date{l.ExpiryDate},
			PackSize:         l.PackSize,
			Quantity:         l.Quantity,
			UnitPrice:        l.UnitPrice,
			LotID:            l.LotID,
			ReturnedQuantity: l.ReturnedQuantity,
		}
	}
	return resp
}

// BillRequest creates or updates a standalone bill
type BillRequest struct {
	VendorID   uuid.UUID       `json:"vendor_id"`
	BillAmount decimal.Decimal `json:"bill_amount"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	Date       *Date           `json:"date"`
	Note       string          `json:"note" binding:"max=1000"`
}

// ToInput converts the request
func (r BillRequest) ToInput() trade.StandaloneBillInput {
	return trade.StandaloneBillInput{
		VendorID:   r.VendorID,
		BillAmount: r.BillAmount,
		PaidAmount: r.PaidAmount,
		Date:       r.Date.Value(),
		Note:       r.Note,
	}
}

// PaymentRequest records money paid against a bill or invoice
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// BillResponse is a vendor bill
type BillResponse struct {
	DocumentResponse
	ReceiptID     *uuid.UUID      `json:"receipt_id,omitempty"`
	VendorID      uuid.UUID       `json:"vendor_id"`
	BillAmount    decimal.Decimal `json:"bill_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaymentStatus string          `json:"payment_status"`
}

// ToBillResponse converts a bill
func ToBillResponse(b *trade.Bill) BillResponse {
	return BillResponse{
		DocumentResponse: documentResponse(b.Document),
		ReceiptID:        b.ReceiptID,
		VendorID:         b.VendorID,
		BillAmount:       b.BillAmount,
		PaidAmount:       b.PaidAmount,
		PaymentStatus:    b.PaymentStatus.String(),
	}
}

// ReturnLineRequest returns a quantity of one source line
type ReturnLineRequest struct {
	SourceLineID uuid.UUID       `json:"source_line_id"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// ReturnRequest creates or updates a purchase or sale return.
// SourceID is the receipt or the invoice being returned against.
type ReturnRequest struct {
	SourceID uuid.UUID           `json:"source_id"`
	Date     *Date               `json:"date"`
	Note     string              `json:"note" binding:"max=1000"`
	Lines    []ReturnLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToInput converts the request
func (r ReturnRequest) ToInput() trade.ReturnInput {
	in := trade.ReturnInput{
		SourceID: r.SourceID,
		Date:     r.Date.Value(),
		Note:     r.Note,
		Lines:    make([]trade.ReturnLineInput, len(r.Lines)),
	}
	for i, l := range r.Lines {
		in.Lines[i] = trade.ReturnLineInput{SourceLineID: l.SourceLineID, Quantity: l.Quantity}
	}
	return in
}

// ReturnLineResponse is one returned line
type ReturnLineResponse struct {
	ID           uuid.UUID       `json:"id"`
	SourceLineID uuid.UUID       `json:"source_line_id"`
	ItemID       uuid.UUID       `json:"item_id"`
	LotID        *uuid.UUID      `json:"lot_id,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

// PurchaseReturnResponse is a purchase return
type PurchaseReturnResponse struct {
	DocumentResponse
	ReceiptID    uuid.UUID            `json:"receipt_id"`
	WarehouseID  uuid.UUID            `json:"warehouse_id"`
	ReturnAmount decimal.Decimal      `json:"return_amount"`
	Lines        []ReturnLineResponse `json:"lines"`
}

// ToPurchaseReturnResponse converts a purchase return
func ToPurchaseReturnResponse(r *trade.PurchaseReturn) PurchaseReturnResponse {
	resp := PurchaseReturnResponse{
		DocumentResponse: documentResponse(r.Document),
		ReceiptID:        r.ReceiptID,
		WarehouseID:      r.WarehouseID,
		ReturnAmount:     r.ReturnAmount,
		Lines:            make([]ReturnLineResponse, len(r.Lines)),
	}
	for i, l := range r.Lines {
		resp.Lines[i] = ReturnLineResponse{
			ID:           l.ID,
			SourceLineID: l.ReceiptLineID,
			ItemID:       l.ItemID,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
		}
	}
	return resp
}

// InvoiceLineRequest sells a quantity of one item
type InvoiceLineRequest struct {
	ItemID    uuid.UUID       `json:"item_id"`
	UnitID    uuid.UUID       `json:"unit_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// InvoiceRequest creates or updates a sales invoice
type InvoiceRequest struct {
	CustomerID  uuid.UUID            `json:"customer_id"`
	WarehouseID uuid.UUID            `json:"warehouse_id"`
	Date        *Date                `json:"date"`
	Note        string               `json:"note" binding:"max=1000"`
	Discount    decimal.Decimal      `json:"discount"`
	Tax         decimal.Decimal      `json:"tax"`
	PaidAmount  decimal.Decimal      `json:"paid_amount"`
	Lines       []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToInput converts the request
func (r InvoiceRequest) ToInput() trade.InvoiceInput {
	in := trade.InvoiceInput{
		CustomerID:  r.CustomerID,
		WarehouseID: r.WarehouseID,
		Date:        r.Date.Value(),
		Note:        r.Note,
		Discount:    r.Discount,
		Tax:         r.Tax,
		PaidAmount:  r.PaidAmount,
		Lines:       make([]trade.InvoiceLineInput, len(r.Lines)),
	}
	for i, l := range r.Lines {
		in.Lines[i] = trade.InvoiceLineInput{
			ItemID:    l.ItemID,
			UnitID:    l.UnitID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		}
	}
	return in
}

// InvoiceLineResponse is one invoice line, tied to the lot it was served from
type InvoiceLineResponse struct {
	ID               uuid.UUID       `json:"id"`
	ItemID           uuid.UUID       `json:"item_id"`
	UnitID           uuid.UUID       `json:"unit_id"`
	LotID            uuid.UUID       `json:"lot_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	ReturnedQuantity decimal.Decimal `json:"returned_quantity"`
}

// InvoiceResponse is a sales invoice
type InvoiceResponse struct {
	DocumentResponse
	CustomerID    uuid.UUID             `json:"customer_id"`
	WarehouseID   uuid.UUID             `json:"warehouse_id"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	Discount      decimal.Decimal       `json:"discount"`
	Tax           decimal.Decimal       `json:"tax"`
	Total         decimal.Decimal       `json:"total"`
	PaidAmount    decimal.Decimal       `json:"paid_amount"`
	DueAmount     decimal.Decimal       `json:"due_amount"`
	PaymentStatus string                `json:"payment_status"`
	Lines         []InvoiceLineResponse `json:"lines"`
}

// ToInvoiceResponse converts an invoice
func ToInvoiceResponse(inv *trade.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		DocumentResponse: documentResponse(inv.Document),
		CustomerID:       inv.CustomerID,
		WarehouseID:      inv.WarehouseID,
		Subtotal:         inv.Subtotal,
		Discount:         inv.Discount,
		Tax:              inv.Tax,
		Total:            inv.Total,
		PaidAmount:       inv.PaidAmount,
		DueAmount:        inv.DueAmount,
		PaymentStatus:    string(inv.PaymentStatus),
		Lines:            make([]InvoiceLineResponse, len(inv.Lines)),
	}
	for i, l := range inv.Lines {
		resp.Lines[i] = InvoiceLineResponse{
			ID:               l.ID,
			ItemID:           l.ItemID,
			UnitID:           l.UnitID,
			LotID:            l.LotID,
			Quantity:         l.Quantity,
			UnitPrice:        l.UnitPrice,
			ReturnedQuantity: l.ReturnedQuantity,
		}
	}
	return resp
}

// SaleReturnResponse is a sale return
type SaleReturnResponse struct {
	DocumentResponse
	InvoiceID    uuid.UUID            `json:"invoice_id"`
	RefundAmount decimal.Decimal      `json:"refund_amount"`
	Lines        []ReturnLineResponse `json:"lines"`
}

// ToSaleReturnResponse converts a sale return
func ToSaleReturnResponse(r *trade.SaleReturn) SaleReturnResponse {
	resp := SaleReturnResponse{
		DocumentResponse: documentResponse(r.Document),
		InvoiceID:        r.InvoiceID,
		RefundAmount:     r.RefundAmount,
		Lines:            make([]ReturnLineResponse, len(r.Lines)),
	}
	for i, l := range r.Lines {
		lotID := l.LotID
		resp.Lines[i] = ReturnLineResponse{
			ID:           l.ID,
			SourceLineID: l.InvoiceLineID,
			ItemID:       l.ItemID,
			LotID:        &lotID,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
		}
	}
	return resp
}
