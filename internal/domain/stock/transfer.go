package stock

import (
	"fmt"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferPurpose records why stock moves between warehouses
type TransferPurpose int

const (
	TransferForProduction TransferPurpose = 1
	TransferForSale       TransferPurpose = 2
)

// IsValid reports whether p is a known purpose
func (p TransferPurpose) IsValid() bool {
	return p == TransferForProduction || p == TransferForSale
}

// Transfer moves stock from one warehouse to another
type Transfer struct {
	shared.Document
	FromWarehouseID uuid.UUID
	ToWarehouseID   uuid.UUID
	Purpose         TransferPurpose
	Lines           []TransferLine
}

// TransferLine moves a quantity of one source lot.
// Quantity is expressed in UnitID; the destination lot shares the source identity.
type TransferLine struct {
	ID               uuid.UUID
	SourceLotID      uuid.UUID
	DestinationLotID uuid.UUID
	UnitID           uuid.UUID
	Quantity         decimal.Decimal
}

// TransferLineInput is one requested line; ID is set when revising an existing line
type TransferLineInput struct {
	ID          uuid.UUID
	SourceLotID uuid.UUID
	UnitID      uuid.UUID
	Quantity    decimal.Decimal
}

// TransferInput carries the user-entered fields of a transfer
type TransferInput struct {
	FromWarehouseID uuid.UUID
	ToWarehouseID   uuid.UUID
	Purpose         TransferPurpose
	Date            time.Time
	Note            string
	Lines           []TransferLineInput
}

// Validate checks a transfer payload
func (in TransferInput) Validate() error {
	var details []shared.FieldError
	if in.FromWarehouseID == uuid.Nil {
		details = append(details, shared.FieldError{Field: "from_warehouse_id", Message: "is required"})
	}
	if in.ToWarehouseID == uuid.Nil {
		details = append(details, shared.FieldError{Field: "to_warehouse_id", Message: "is required"})
	}
	if in.FromWarehouseID != uuid.Nil && in.FromWarehouseID == in.ToWarehouseID {
		details = append(details, shared.FieldError{Field: "to_warehouse_id", Message: "must differ from the source warehouse"})
	}
	if !in.Purpose.IsValid() {
		details = append(details, shared.FieldError{Field: "purpose", Message: "must be 1 (production) or 2 (sale)"})
	}
	if len(in.Lines) == 0 {
		details = append(details, shared.FieldError{Field: "lines", Message: "at least one line is required"})
	}
	for i, l := range in.Lines {
		if l.SourceLotID == uuid.Nil {
			details = append(details, shared.FieldError{Field: fmt.Sprintf("lines[%d].source_lot_id", i), Message: "is required"})
		}
		if l.UnitID == uuid.Nil {
			details = append(details, shared.FieldError{Field: fmt.Sprintf("lines[%d].unit_id", i), Message: "is required"})
		}
		if l.Quantity.IsNegative() || (l.ID == uuid.Nil && !l.Quantity.IsPositive()) {
			details = append(details, shared.FieldError{Field: fmt.Sprintf("lines[%d].quantity", i), Message: "must be positive"})
		}
	}
	if len(details) > 0 {
		return shared.NewValidationError("invalid transfer", details...)
	}
	return nil
}

// NewTransfer creates an open transfer without lines; lines are attached as they are applied
func NewTransfer(actor shared.Actor, number string, in TransferInput) (*Transfer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &Transfer{
		Document:        withNote(shared.NewDocument(actor, number, in.Date), in.Note),
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Purpose:         in.Purpose,
		Lines:           make([]TransferLine, 0, len(in.Lines)),
	}, nil
}

// Revise updates the header of an open transfer. The warehouses of a
// transfer are fixed once it is created.
func (t *Transfer) Revise(in TransferInput) error {
	if err := t.EnsureEditable(); err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return err
	}
	if in.FromWarehouseID != t.FromWarehouseID || in.ToWarehouseID != t.ToWarehouseID {
		return shared.NewFieldError("from_warehouse_id", "the warehouses of a transfer cannot change")
	}
	t.Purpose = in.Purpose
	t.Note = in.Note
	if !in.Date.IsZero() {
		t.DocumentDate = in.Date
	}
	t.Touch()
	t.IncrementVersion()
	return nil
}

// Line returns the line with id
func (t *Transfer) Line(id uuid.UUID) (*TransferLine, bool) {
	for i := range t.Lines {
		if t.Lines[i].ID == id {
			return &t.Lines[i], true
		}
	}
	return nil, false
}

// AddLine appends an applied line
func (t *Transfer) AddLine(l TransferLine) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	t.Lines = append(t.Lines, l)
}

// RemoveLine drops the line with id
func (t *Transfer) RemoveLine(id uuid.UUID) {
	kept := t.Lines[:0]
	for _, l := range t.Lines {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	t.Lines = kept
}

func withNote(d shared.Document, note string) shared.Document {
	d.Note = note
	return d
}
