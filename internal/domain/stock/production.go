package stock

import (
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Production records finished goods received into a production warehouse.
// It behaves like a single-line receipt.
type Production struct {
	shared.Document
	Lot         LotSpec
	Identity    string
	Quantity    decimal.Decimal
	CostPerUnit decimal.Decimal
	ReceivedAt  time.Time
	LotID       uuid.UUID
}

// ProductionInput carries the user-entered fields of a production
type ProductionInput struct {
	Lot         LotSpec
	Quantity    decimal.Decimal
	CostPerUnit decimal.Decimal
	ReceivedAt  time.Time
	Note        string
}

// Validate checks a production payload
func (in ProductionInput) Validate() error {
	if err := in.Lot.Validate(); err != nil {
		return err
	}
	if !in.Quantity.IsPositive() {
		return shared.NewFieldError("quantity", "produced quantity must be positive")
	}
	if in.CostPerUnit.IsNegative() {
		return shared.NewFieldError("cost_per_unit", "cannot be negative")
	}
	return nil
}

// NewProduction creates an open production document
func NewProduction(actor shared.Actor, number string, in ProductionInput) (*Production, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p := &Production{Document: shared.NewDocument(actor, number, in.ReceivedAt)}
	p.apply(in)
	return p, nil
}

// Revise replaces the production fields; the caller reverses the previous stock effect
func (p *Production) Revise(in ProductionInput) error {
	if err := p.EnsureEditable(); err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return err
	}
	p.apply(in)
	p.Touch()
	p.IncrementVersion()
	return nil
}

func (p *Production) apply(in ProductionInput) {
	p.Lot = in.Lot
	p.Identity = in.Lot.Identity()
	p.Quantity = in.Quantity
	p.CostPerUnit = in.CostPerUnit
	p.ReceivedAt = in.ReceivedAt
	if p.ReceivedAt.IsZero() {
		p.ReceivedAt = time.Now()
	}
	p.Note = in.Note
}
