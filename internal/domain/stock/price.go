package stock

import (
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockPrice is the cost and sale basis of an item. One record exists per
// item per tenant; it is updated in place whenever a new cost is observed.
type StockPrice struct {
	shared.TenantAggregateRoot
	ItemID     uuid.UUID
	UnitCost   decimal.Decimal
	SalesPrice decimal.Decimal
	Markup     decimal.Decimal // percent over cost
	MarkDown   decimal.Decimal // percent allowed below sales price
	MinPrice   decimal.Decimal
}

// NewStockPrice creates a price seeded with unitCost
func NewStockPrice(actor shared.Actor, itemID uuid.UUID, unitCost decimal.Decimal) (*StockPrice, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewFieldError("item_id", "is required")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewFieldError("unit_cost", "cannot be negative")
	}
	return &StockPrice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(actor),
		ItemID:              itemID,
		UnitCost:            unitCost,
		SalesPrice:          decimal.Zero,
		Markup:              decimal.Zero,
		MarkDown:            decimal.Zero,
		MinPrice:            decimal.Zero,
	}, nil
}

// ObserveCost updates the cost when a positive cost is seen.
// Returns true when the record changed.
func (p *StockPrice) ObserveCost(cost decimal.Decimal) bool {
	if !cost.IsPositive() || cost.Equal(p.UnitCost) {
		return false
	}
	p.UnitCost = cost
	if p.Markup.IsPositive() {
		p.SalesPrice = p.markedUp()
	}
	p.Touch()
	p.IncrementVersion()
	return true
}

// SetPricing sets markup and markdown percentages and derives the sale and minimum price
func (p *StockPrice) SetPricing(markup, markDown decimal.Decimal) error {
	if markup.IsNegative() || markDown.IsNegative() {
		return shared.NewValidationError("invalid pricing",
			shared.FieldError{Field: "markup", Message: "percentages cannot be negative"})
	}
	if markDown.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewFieldError("mark_down", "cannot exceed 100 percent")
	}
	p.Markup = markup
	p.MarkDown = markDown
	p.SalesPrice = p.markedUp()
	p.MinPrice = p.SalesPrice.Mul(hundred.Sub(markDown)).Div(hundred).Round(4)
	p.Touch()
	p.IncrementVersion()
	return nil
}

var hundred = decimal.NewFromInt(100)

func (p *StockPrice) markedUp() decimal.Decimal {
	return p.UnitCost.Mul(hundred.Add(p.Markup)).Div(hundred).Round(4)
}
