package trade

import (
	"fmt"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseReturn sends received goods back to the vendor
type PurchaseReturn struct {
	shared.Document
	ReceiptID    uuid.UUID
	WarehouseID  uuid.UUID
	ReturnAmount decimal.Decimal
	Lines        []PurchaseReturnLine
}

// PurchaseReturnLine returns part of one receipt line
type PurchaseReturnLine struct {
	ID            uuid.UUID
	ReceiptLineID uuid.UUID
	ItemID        uuid.UUID
	Identity      string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
}

// ReturnLineInput is one requested return line, keyed by the source line
type ReturnLineInput struct {
	SourceLineID uuid.UUID
	Quantity     decimal.Decimal
}

// ReturnInput carries the fields of a purchase or sale return
type ReturnInput struct {
	SourceID uuid.UUID
	Date     time.Time
	Note     string
	Lines    []ReturnLineInput
}

// Validate checks a return payload. Each source line may appear once.
func (in ReturnInput) Validate(sourceField string) error {
	var details []shared.FieldError
	if in.SourceID == uuid.Nil {
		details = append(details, shared.FieldError{Field: sourceField, Message: "is required"})
	}
	if len(in.Lines) == 0 {
		details = append(details, shared.FieldError{Field: "lines", Message: "at least one line is required"})
	}
	seen := make(map[uuid.UUID]bool, len(in.Lines))
	for i, l := range in.Lines {
		if l.SourceLineID == uuid.Nil {
			details = append(details, shared.FieldError{Field: fmt.Sprintf("lines[%d].line_id", i), Message: "is required"})
		} else if seen[l.SourceLineID] {
			details = append(details, shared.FieldError{Field: fmt.Sprintf("lines[%d].line_id", i), Message: "appears more than once"})
		}
		seen[l.SourceLineID] = true
		if !l.Quantity.IsPositive() {
			details = append(details, shared.FieldError{Field: fmt.Sprintf("lines[%d].quantity", i), Message: "must be positive"})
		}
	}
	if len(details) > 0 {
		return shared.NewValidationError("invalid return", details...)
	}
	return nil
}

// Quantities returns the requested quantity per source line
func (in ReturnInput) Quantities() map[uuid.UUID]decimal.Decimal {
	q := make(map[uuid.UUID]decimal.Decimal, len(in.Lines))
	for _, l := range in.Lines {
		q[l.SourceLineID] = l.Quantity
	}
	return q
}

// NewPurchaseReturn creates an open purchase return against receipt.
// Lines are attached with SetLine as stock is moved.
func NewPurchaseReturn(actor shared.Actor, number string, receipt *Receipt, in ReturnInput) (*PurchaseReturn, error) {
	if err := in.Validate("receipt_id"); err != nil {
		return nil, err
	}
	pr := &PurchaseReturn{
		Document:    shared.NewDocument(actor, number, in.Date),
		ReceiptID:   receipt.ID,
		WarehouseID: receipt.WarehouseID,
	}
	pr.Note = in.Note
	return pr, nil
}

// Revise updates the header of an open return; lines change through SetLine
func (p *PurchaseReturn) Revise(in ReturnInput) error {
	if err := p.EnsureEditable(); err != nil {
		return err
	}
	if err := in.Validate("receipt_id"); err != nil {
		return err
	}
	if in.SourceID != p.ReceiptID {
		return shared.NewFieldError("receipt_id", "the receipt of a return cannot change")
	}
	p.Note = in.Note
	if !in.Date.IsZero() {
		p.DocumentDate = in.Date
	}
	p.IncrementVersion()
	return nil
}

// Quantities returns the returned quantity per receipt line
func (p *PurchaseReturn) Quantities() map[uuid.UUID]decimal.Decimal {
	q := make(map[uuid.UUID]decimal.Decimal, len(p.Lines))
	for _, l := range p.Lines {
		q[l.ReceiptLineID] = l.Quantity
	}
	return q
}

// SetLine sets the returned quantity of a receipt line; zero removes it
func (p *PurchaseReturn) SetLine(src ReceiptLine, quantity decimal.Decimal) {
	for i := range p.Lines {
		if p.Lines[i].ReceiptLineID != src.ID {
			continue
		}
		if quantity.IsZero() {
			p.Lines = append(p.Lines[:i], p.Lines[i+1:]...)
		} else {
			p.Lines[i].Quantity = quantity
		}
		p.recalculate()
		return
	}
	if quantity.IsZero() {
		return
	}
	p.Lines = append(p.Lines, PurchaseReturnLine{
		ID:            uuid.New(),
		ReceiptLineID: src.ID,
		ItemID:        src.ItemID,
		Identity:      src.Identity,
		Quantity:      quantity,
		UnitPrice:     src.UnitPrice,
	})
	p.recalculate()
}

func (p *PurchaseReturn) recalculate() {
	total := decimal.Zero
	for _, l := range p.Lines {
		total = total.Add(l.Quantity.Mul(l.UnitPrice))
	}
	p.ReturnAmount = total
	p.Touch()
}
