package stock

import (
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConversionBranch names which rule of the pack/loose policy produced a movement
type ConversionBranch int

const (
	// BranchLotUnit moves the quantity in the lot's own unit. Lots kept in
	// the item's base unit always take this branch.
	BranchLotUnit ConversionBranch = iota + 1
	// BranchPackSplit splits the quantity into whole packs plus a loose remainder.
	BranchPackSplit
)

func (b ConversionBranch) String() string {
	switch b {
	case BranchLotUnit:
		return "lot_unit"
	case BranchPackSplit:
		return "pack_split"
	}
	return "unknown"
}

// Movement is a signed change to a lot's quantity and loose quantity
type Movement struct {
	Quantity      decimal.Decimal
	LooseQuantity decimal.Decimal
	Branch        ConversionBranch
}

// Negate returns the movement with both components sign-flipped
func (m Movement) Negate() Movement {
	return Movement{
		Quantity:      m.Quantity.Neg(),
		LooseQuantity: m.LooseQuantity.Neg(),
		Branch:        m.Branch,
	}
}

// Sub returns m minus o, keeping m's branch
func (m Movement) Sub(o Movement) Movement {
	return Movement{
		Quantity:      m.Quantity.Sub(o.Quantity),
		LooseQuantity: m.LooseQuantity.Sub(o.LooseQuantity),
		Branch:        m.Branch,
	}
}

// IsZero reports whether the movement changes nothing
func (m Movement) IsZero() bool {
	return m.Quantity.IsZero() && m.LooseQuantity.IsZero()
}

// ConversionInput describes a quantity expressed in a transfer unit, against a lot
type ConversionInput struct {
	Quantity     decimal.Decimal
	TransferUnit uuid.UUID
	LotUnit      uuid.UUID
	PackSize     decimal.Decimal
}

// Convert applies the pack/loose conversion policy and returns a positive movement.
//
// The rules are evaluated in this order:
//  1. transfer unit == lot unit: add q to quantity only
//  2. otherwise: floor(q / pack size) whole packs plus the remainder as loose units
//
// A lot kept in the item's base unit and moved in that unit matches rule 1,
// so its loose quantity is never touched.
func Convert(in ConversionInput) (Movement, error) {
	if in.Quantity.IsNegative() {
		return Movement{}, shared.NewFieldError("quantity", "quantity cannot be negative")
	}

	if in.TransferUnit == in.LotUnit {
		return Movement{Quantity: in.Quantity, LooseQuantity: decimal.Zero, Branch: BranchLotUnit}, nil
	}

	if !in.PackSize.IsPositive() {
		return Movement{}, shared.NewFieldError("pack_size", "pack size must be positive to convert between pack and loose units")
	}
	whole := in.Quantity.Div(in.PackSize).Floor()
	remainder := in.Quantity.Sub(whole.Mul(in.PackSize))
	return Movement{Quantity: whole, LooseQuantity: remainder, Branch: BranchPackSplit}, nil
}
