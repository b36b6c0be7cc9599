package trade

import (
	"fmt"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus tracks collection on an invoice
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// Invoice is a sale from one warehouse. Each line consumes a single lot.
type Invoice struct {
	shared.Document
	CustomerID    uuid.UUID
	WarehouseID   uuid.UUID
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	PaidAmount    decimal.Decimal
	DueAmount     decimal.Decimal
	PaymentStatus PaymentStatus
	Lines         []InvoiceLine
}

// InvoiceLine is one sold quantity of one item, taken from LotID
type InvoiceLine struct {
	ID               uuid.UUID
	ItemID           uuid.UUID
	UnitID           uuid.UUID
	LotID            uuid.UUID
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	ReturnedQuantity decimal.Decimal
}

// Amount returns quantity times unit price
func (l InvoiceLine) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// InvoiceLineInput is one requested sale line
type InvoiceLineInput struct {
	ItemID    uuid.UUID
	UnitID    uuid.UUID
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// InvoiceInput carries the user-entered fields of an invoice
type InvoiceInput struct {
	CustomerID  uuid.UUID
	WarehouseID uuid.UUID
	Date        time.Time
	Note        string
	Discount    decimal.Decimal
	Tax         decimal.Decimal
	PaidAmount  decimal.Decimal
	Lines       []InvoiceLineInput
}

// Validate checks an invoice payload
func (in InvoiceInput) Validate() error {
	var details []shared.FieldError
	if in.WarehouseID == uuid.Nil {
		details = append(details, shared.FieldError{Field: "warehouse_id", Message: "is required"})
	}
	if len(in.Lines) == 0 {
		details = append(details, shared.FieldError{Field: "lines", Message: "at least one line is required"})
	}
	for i, l := range in.Lines {
		prefix := fmt.Sprintf("lines[%d].", i)
		if l.ItemID == uuid.Nil {
			details = append(details, shared.FieldError{Field: prefix + "item_id", Message: "is required"})
		}
		if l.UnitID == uuid.Nil {
			details = append(details, shared.FieldError{Field: prefix + "unit_id", Message: "is required"})
		}
		if !l.Quantity.IsPositive() {
			details = append(details, shared.FieldError{Field: prefix + "quantity", Message: "must be positive"})
		}
		if l.UnitPrice.IsNegative() {
			details = append(details, shared.FieldError{Field: prefix + "unit_price", Message: "cannot be negative"})
		}
	}
	for field, v := range map[string]decimal.Decimal{"discount": in.Discount, "tax": in.Tax, "paid_amount": in.PaidAmount} {
		if v.IsNegative() {
			details = append(details, shared.FieldError{Field: field, Message: "cannot be negative"})
		}
	}
	if len(details) > 0 {
		return shared.NewValidationError("invalid invoice", details...)
	}
	return nil
}

// NewInvoice creates an open invoice header; lines are attached as lots are consumed
func NewInvoice(actor shared.Actor, number string, in InvoiceInput) (*Invoice, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	inv := &Invoice{
		Document:    shared.NewDocument(actor, number, in.Date),
		CustomerID:  in.CustomerID,
		WarehouseID: in.WarehouseID,
		Discount:    in.Discount,
		Tax:         in.Tax,
		PaidAmount:  in.PaidAmount,
	}
	inv.Note = in.Note
	return inv, nil
}

// AddLine attaches a line consuming lotID
func (inv *Invoice) AddLine(in InvoiceLineInput, lotID uuid.UUID) {
	inv.Lines = append(inv.Lines, InvoiceLine{
		ID:               uuid.New(),
		ItemID:           in.ItemID,
		UnitID:           in.UnitID,
		LotID:            lotID,
		Quantity:         in.Quantity,
		UnitPrice:        in.UnitPrice,
		ReturnedQuantity: decimal.Zero,
	})
}

// Reset replaces header amounts and drops every line, ahead of re-applying lines on revision
func (inv *Invoice) Reset(in InvoiceInput) error {
	if err := inv.EnsureEditable(); err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return err
	}
	if in.WarehouseID != inv.WarehouseID {
		return shared.NewFieldError("warehouse_id", "the warehouse of an invoice cannot change")
	}
	if inv.HasReturns() {
		return shared.ErrInvalidState.WithMessage("invoice %s has returns and cannot be revised", inv.DocumentNumber)
	}
	inv.CustomerID = in.CustomerID
	inv.Discount = in.Discount
	inv.Tax = in.Tax
	inv.PaidAmount = in.PaidAmount
	inv.Note = in.Note
	if !in.Date.IsZero() {
		inv.DocumentDate = in.Date
	}
	inv.Lines = nil
	inv.IncrementVersion()
	return nil
}

// Line returns the line with id
func (inv *Invoice) Line(id uuid.UUID) (*InvoiceLine, bool) {
	for i := range inv.Lines {
		if inv.Lines[i].ID == id {
			return &inv.Lines[i], true
		}
	}
	return nil, false
}

// HasReturns reports whether any line was partly returned
func (inv *Invoice) HasReturns() bool {
	for _, l := range inv.Lines {
		if l.ReturnedQuantity.IsPositive() {
			return true
		}
	}
	return false
}

// RecordReturn adds delta (negative to undo) to the returned quantity of a line
func (inv *Invoice) RecordReturn(lineID uuid.UUID, delta decimal.Decimal) error {
	line, ok := inv.Line(lineID)
	if !ok {
		return shared.ErrNotFound.WithMessage("invoice line %s not found on %s", lineID, inv.DocumentNumber)
	}
	returned := line.ReturnedQuantity.Add(delta)
	if returned.IsNegative() {
		return shared.ErrIntegrityFault.WithMessage("returned quantity of line %s would go negative", lineID)
	}
	if returned.GreaterThan(line.Quantity) {
		return shared.NewFieldError("quantity", fmt.Sprintf("only %s of line %s can be returned",
			line.Quantity.Sub(line.ReturnedQuantity).String(), lineID))
	}
	line.ReturnedQuantity = returned
	inv.Touch()
	return nil
}

// Finalize computes totals and payment status once lines are attached
func (inv *Invoice) Finalize() error {
	subtotal := decimal.Zero
	for _, l := range inv.Lines {
		subtotal = subtotal.Add(l.Amount())
	}
	total := subtotal.Sub(inv.Discount).Add(inv.Tax)
	if total.IsNegative() {
		return shared.NewFieldError("discount", "cannot exceed the invoice subtotal")
	}
	if inv.PaidAmount.GreaterThan(total) {
		return shared.NewFieldError("paid_amount", "cannot exceed the invoice total")
	}
	inv.Subtotal = subtotal
	inv.Total = total
	inv.refreshPayment()
	inv.Touch()
	return nil
}

// ReceivePayment adds a collected amount
func (inv *Invoice) ReceivePayment(amount decimal.Decimal) error {
	if inv.Status == shared.DocumentStatusCancelled {
		return shared.ErrInvalidState.WithMessage("invoice %s is cancelled", inv.DocumentNumber)
	}
	if !amount.IsPositive() {
		return shared.NewFieldError("amount", "payment must be positive")
	}
	paid := inv.PaidAmount.Add(amount)
	if paid.GreaterThan(inv.Total) {
		return shared.NewFieldError("amount", fmt.Sprintf("payment exceeds the due amount %s", inv.DueAmount.String()))
	}
	inv.PaidAmount = paid
	inv.refreshPayment()
	inv.Touch()
	inv.IncrementVersion()
	return nil
}

func (inv *Invoice) refreshPayment() {
	inv.DueAmount = inv.Total.Sub(inv.PaidAmount)
	switch {
	case inv.PaidAmount.IsZero() && inv.Total.IsPositive():
		inv.PaymentStatus = PaymentUnpaid
	case inv.DueAmount.IsPositive():
		inv.PaymentStatus = PaymentPartial
	default:
		inv.PaymentStatus = PaymentPaid
	}
}
