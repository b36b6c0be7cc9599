package trade

import (
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleReturn takes sold goods back into the lot they were sold from.
// Quantities are in the lot's native unit.
type SaleReturn struct {
	shared.Document
	InvoiceID    uuid.UUID
	RefundAmount decimal.Decimal
	Lines        []SaleReturnLine
}

// SaleReturnLine returns part of one invoice line
type SaleReturnLine struct {
	ID            uuid.UUID
	InvoiceLineID uuid.UUID
	ItemID        uuid.UUID
	LotID         uuid.UUID
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
}

// NewSaleReturn creates an open sale return against invoice
func NewSaleReturn(actor shared.Actor, number string, invoice *Invoice, in ReturnInput) (*SaleReturn, error) {
	if err := in.Validate("invoice_id"); err != nil {
		return nil, err
	}
	if invoice.Status == shared.DocumentStatusCancelled {
		return nil, shared.ErrInvalidState.WithMessage("invoice %s is cancelled", invoice.DocumentNumber)
	}
	sr := &SaleReturn{
		Document:  shared.NewDocument(actor, number, in.Date),
		InvoiceID: invoice.ID,
	}
	sr.Note = in.Note
	return sr, nil
}

// Revise updates the header of an open return; lines change through SetLine
func (s *SaleReturn) Revise(in ReturnInput) error {
	if err := s.EnsureEditable(); err != nil {
		return err
	}
	if err := in.Validate("invoice_id"); err != nil {
		return err
	}
	if in.SourceID != s.InvoiceID {
		return shared.NewFieldError("invoice_id", "the invoice of a return cannot change")
	}
	s.Note = in.Note
	if !in.Date.IsZero() {
		s.DocumentDate = in.Date
	}
	s.IncrementVersion()
	return nil
}

// Quantities returns the returned quantity per invoice line
func (s *SaleReturn) Quantities() map[uuid.UUID]decimal.Decimal {
	q := make(map[uuid.UUID]decimal.Decimal, len(s.Lines))
	for _, l := range s.Lines {
		q[l.InvoiceLineID] = l.Quantity
	}
	return q
}

// SetLine sets the returned quantity of an invoice line; zero removes it
func (s *SaleReturn) SetLine(src InvoiceLine, quantity decimal.Decimal) {
	for i := range s.Lines {
		if s.Lines[i].InvoiceLineID != src.ID {
			continue
		}
		if quantity.IsZero() {
			s.Lines = append(s.Lines[:i], s.Lines[i+1:]...)
		} else {
			s.Lines[i].Quantity = quantity
		}
		s.recalculate()
		return
	}
	if quantity.IsZero() {
		return
	}
	s.Lines = append(s.Lines, SaleReturnLine{
		ID:            uuid.New(),
		InvoiceLineID: src.ID,
		ItemID:        src.ItemID,
		LotID:         src.LotID,
		Quantity:      quantity,
		UnitPrice:     src.UnitPrice,
	})
	s.recalculate()
}

func (s *SaleReturn) recalculate() {
	total := decimal.Zero
	for _, l := range s.Lines {
		total = total.Add(l.Quantity.Mul(l.UnitPrice))
	}
	s.RefundAmount = total
	s.Touch()
}
