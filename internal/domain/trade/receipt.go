package trade

import (
	"fmt"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receipt records goods received from a vendor into one warehouse
type Receipt struct {
	shared.Document
	VendorID    uuid.UUID
	WarehouseID uuid.UUID
	GrandTotal  decimal.Decimal
	Lines       []ReceiptLine
}

// ReceiptLine is one received lot
type ReceiptLine struct {
	ID               uuid.UUID
	ItemID           uuid.UUID
	UnitID           uuid.UUID
	LotNumber        string
	ExpiryDate       time.Time
	PackSize         decimal.Decimal
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	Identity         string
	LotID            uuid.UUID
	ReturnedQuantity decimal.Decimal
}

// LotSpec returns the lot the line merges into at warehouseID
func (l ReceiptLine) LotSpec(warehouseID uuid.UUID) stock.LotSpec {
	return stock.LotSpec{
		WarehouseID: warehouseID,
		ItemID:      l.ItemID,
		UnitID:      l.UnitID,
		LotNumber:   l.LotNumber,
		ExpiryDate:  l.ExpiryDate,
		PackSize:    l.PackSize,
	}
}

// Amount returns quantity times unit price
func (l ReceiptLine) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// Returnable is the quantity still available to a purchase return
func (l ReceiptLine) Returnable() decimal.Decimal {
	return l.Quantity.Sub(l.ReturnedQuantity)
}

// ReceiptLineInput is one requested line; ID is set when revising an existing line
type ReceiptLineInput struct {
	ID         uuid.UUID
	ItemID     uuid.UUID
	UnitID     uuid.UUID
	LotNumber  string
	ExpiryDate time.Time
	PackSize   decimal.Decimal
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
}

// ReceiptInput carries the user-entered fields of a receipt
type ReceiptInput struct {
	VendorID    uuid.UUID
	WarehouseID uuid.UUID
	Date        time.Time
	Note        string
	Lines       []ReceiptLineInput
}

// Validate checks a receipt payload
func (in ReceiptInput) Validate() error {
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
		if l.PackSize.IsNegative() {
			details = append(details, shared.FieldError{Field: prefix + "pack_size", Message: "cannot be negative"})
		}
		if l.UnitPrice.IsNegative() {
			details = append(details, shared.FieldError{Field: prefix + "unit_price", Message: "cannot be negative"})
		}
	}
	if len(details) > 0 {
		return shared.NewValidationError("invalid receipt", details...)
	}
	return nil
}

// NewReceipt creates an open receipt. Stock effects are applied by the caller.
func NewReceipt(actor shared.Actor, number string, in ReceiptInput) (*Receipt, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	r := &Receipt{
		Document:    shared.NewDocument(actor, number, in.Date),
		VendorID:    in.VendorID,
		WarehouseID: in.WarehouseID,
	}
	r.Note = in.Note
	for _, l := range in.Lines {
		r.Lines = append(r.Lines, newReceiptLine(uuid.New(), l))
	}
	r.recalculate()
	return r, nil
}

func newReceiptLine(id uuid.UUID, in ReceiptLineInput) ReceiptLine {
	line := ReceiptLine{
		ID:               id,
		ItemID:           in.ItemID,
		UnitID:           in.UnitID,
		LotNumber:        in.LotNumber,
		ExpiryDate:       in.ExpiryDate,
		PackSize:         in.PackSize,
		Quantity:         in.Quantity,
		UnitPrice:        in.UnitPrice,
		ReturnedQuantity: decimal.Zero,
	}
	line.Identity = stock.Identity(line.UnitID, line.LotNumber, line.PackSize, line.ExpiryDate)
	return line
}

// Line returns the line with id
func (r *Receipt) Line(id uuid.UUID) (*ReceiptLine, bool) {
	for i := range r.Lines {
		if r.Lines[i].ID == id {
			return &r.Lines[i], true
		}
	}
	return nil, false
}

// ReceiptLineChange pairs the old and new state of one line during a revision.
// Before is nil for added lines, After is nil for removed lines.
type ReceiptLineChange struct {
	Before *ReceiptLine
	After  *ReceiptLine
}

// SameLot reports whether the change keeps the line on the same lot
func (c ReceiptLineChange) SameLot() bool {
	return c.Before != nil && c.After != nil &&
		c.Before.ItemID == c.After.ItemID && c.Before.Identity == c.After.Identity
}

// Revise replaces the receipt lines and returns the per-line changes the
// caller must apply to stock. Lines already partly returned cannot drop
// below the returned quantity, move to another lot, or be removed.
func (r *Receipt) Revise(in ReceiptInput) ([]ReceiptLineChange, error) {
	if err := r.EnsureEditable(); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.WarehouseID != r.WarehouseID {
		return nil, shared.NewFieldError("warehouse_id", "the warehouse of a receipt cannot change")
	}

	seen := make(map[uuid.UUID]bool, len(in.Lines))
	next := make([]ReceiptLine, 0, len(in.Lines))
	var changes []ReceiptLineChange

	for i, l := range in.Lines {
		if l.ID == uuid.Nil {
			line := newReceiptLine(uuid.New(), l)
			next = append(next, line)
			changes = append(changes, ReceiptLineChange{After: &next[len(next)-1]})
			continue
		}
		old, ok := r.Line(l.ID)
		if !ok || seen[l.ID] {
			return nil, shared.NewFieldError(fmt.Sprintf("lines[%d].id", i), "unknown receipt line")
		}
		seen[l.ID] = true

		before := *old
		line := newReceiptLine(l.ID, l)
		line.ReturnedQuantity = before.ReturnedQuantity
		line.LotID = before.LotID
		change := ReceiptLineChange{Before: &before, After: &line}
		if before.ReturnedQuantity.IsPositive() {
			if !change.SameLot() {
				return nil, shared.NewFieldError(fmt.Sprintf("lines[%d]", i), "a line with returns cannot move to another lot")
			}
			if line.Quantity.LessThan(before.ReturnedQuantity) {
				return nil, shared.NewFieldError(fmt.Sprintf("lines[%d].quantity", i), "cannot be less than the quantity already returned")
			}
		}
		next = append(next, line)
		changes = append(changes, change)
	}

	for i := range r.Lines {
		old := r.Lines[i]
		if seen[old.ID] {
			continue
		}
		if old.ReturnedQuantity.IsPositive() {
			return nil, shared.NewFieldError("lines", "a line with returns cannot be removed")
		}
		changes = append(changes, ReceiptLineChange{Before: &old})
	}

	// After pointers must reference the final slice
	r.Lines = next
	for i := range changes {
		if changes[i].After != nil {
			changes[i].After, _ = r.Line(changes[i].After.ID)
		}
	}
	r.VendorID = in.VendorID
	r.Note = in.Note
	if !in.Date.IsZero() {
		r.DocumentDate = in.Date
	}
	r.recalculate()
	r.Touch()
	r.IncrementVersion()
	return changes, nil
}

// RecordReturn adds delta (negative to undo) to the returned quantity of a line
func (r *Receipt) RecordReturn(lineID uuid.UUID, delta decimal.Decimal) error {
	line, ok := r.Line(lineID)
	if !ok {
		return shared.ErrNotFound.WithMessage("receipt line %s not found on %s", lineID, r.DocumentNumber)
	}
	returned := line.ReturnedQuantity.Add(delta)
	if returned.IsNegative() {
		return shared.ErrIntegrityFault.WithMessage("returned quantity of line %s would go negative", lineID)
	}
	if returned.GreaterThan(line.Quantity) {
		return shared.NewFieldError("quantity", fmt.Sprintf("only %s of line %s can be returned", line.Returnable().String(), lineID))
	}
	line.ReturnedQuantity = returned
	r.Touch()
	return nil
}

// HasReturns reports whether any line was partly returned
func (r *Receipt) HasReturns() bool {
	for _, l := range r.Lines {
		if l.ReturnedQuantity.IsPositive() {
			return true
		}
	}
	return false
}

func (r *Receipt) recalculate() {
	total := decimal.Zero
	for _, l := range r.Lines {
		total = total.Add(l.Amount())
	}
	r.GrandTotal = total
}
