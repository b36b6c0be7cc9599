package stock

import (
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdjustmentType is derived from the direction of a recount
type AdjustmentType int

const (
	AdjustmentIncrement AdjustmentType = 1
	AdjustmentDecrement AdjustmentType = 2
)

// Adjustment is an operator-entered absolute recount of one lot.
// It has no financial effect.
type Adjustment struct {
	shared.Document
	LotID            uuid.UUID
	WarehouseID      uuid.UUID
	ItemID           uuid.UUID
	PreviousQuantity decimal.Decimal
	NewQuantity      decimal.Decimal
	Type             AdjustmentType
	ReasonCode       string
	Reason           string
}

// AdjustmentInput carries the user-entered fields of an adjustment
type AdjustmentInput struct {
	LotID       uuid.UUID
	NewQuantity decimal.Decimal
	ReasonCode  string
	Reason      string
	Date        time.Time
}

// Validate checks an adjustment payload
func (in AdjustmentInput) Validate() error {
	var details []shared.FieldError
	if in.LotID == uuid.Nil {
		details = append(details, shared.FieldError{Field: "lot_id", Message: "is required"})
	}
	if in.NewQuantity.IsNegative() {
		details = append(details, shared.FieldError{Field: "new_quantity", Message: "cannot be negative"})
	}
	if len(details) > 0 {
		return shared.NewValidationError("invalid adjustment", details...)
	}
	return nil
}

// NewAdjustment records a recount of lot from its current quantity to in.NewQuantity
func NewAdjustment(actor shared.Actor, number string, lot *StockLot, in AdjustmentInput) (*Adjustment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	adjType := AdjustmentIncrement
	if in.NewQuantity.LessThan(lot.Quantity) {
		adjType = AdjustmentDecrement
	}
	return &Adjustment{
		Document:         shared.NewDocument(actor, number, in.Date),
		LotID:            lot.ID,
		WarehouseID:      lot.WarehouseID,
		ItemID:           lot.ItemID,
		PreviousQuantity: lot.Quantity,
		NewQuantity:      in.NewQuantity,
		Type:             adjType,
		ReasonCode:       in.ReasonCode,
		Reason:           in.Reason,
	}, nil
}

// Revise changes the recounted quantity and reason. PreviousQuantity keeps
// the value the lot held before the adjustment was first applied.
func (a *Adjustment) Revise(in AdjustmentInput) error {
	if err := a.EnsureEditable(); err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return err
	}
	if in.LotID != a.LotID {
		return shared.NewFieldError("lot_id", "the lot of an adjustment cannot change")
	}
	a.NewQuantity = in.NewQuantity
	a.Type = AdjustmentIncrement
	if in.NewQuantity.LessThan(a.PreviousQuantity) {
		a.Type = AdjustmentDecrement
	}
	a.ReasonCode = in.ReasonCode
	a.Reason = in.Reason
	if !in.Date.IsZero() {
		a.DocumentDate = in.Date
	}
	a.Touch()
	a.IncrementVersion()
	return nil
}

// Difference returns the signed change applied by the adjustment
func (a *Adjustment) Difference() decimal.Decimal {
	return a.NewQuantity.Sub(a.PreviousQuantity)
}

// CanRevert reports whether the lot still holds the recounted quantity,
// i.e. nothing moved the lot since the adjustment
func (a *Adjustment) CanRevert(lot *StockLot) bool {
	return lot.ID == a.LotID && lot.Quantity.Equal(a.NewQuantity)
}
