package stock

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NegativeStockPolicy decides what happens when a movement would leave a lot below zero
type NegativeStockPolicy string

const (
	// PolicyReject treats a negative result as an integrity fault
	PolicyReject NegativeStockPolicy = "reject"
	// PolicyAllow lets quantities go negative (backorder)
	PolicyAllow NegativeStockPolicy = "allow"
)

// ParseNegativeStockPolicy parses a configured policy name, defaulting to reject
func ParseNegativeStockPolicy(s string) (NegativeStockPolicy, error) {
	switch NegativeStockPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyReject:
		return PolicyReject, nil
	case PolicyAllow, "backorder":
		return PolicyAllow, nil
	}
	return "", fmt.Errorf("unknown negative stock policy %q", s)
}

// LotSpec holds the descriptive fields that define a lot
type LotSpec struct {
	WarehouseID uuid.UUID
	ItemID      uuid.UUID
	UnitID      uuid.UUID
	LotNumber   string
	ExpiryDate  time.Time
	PackSize    decimal.Decimal
}

// Identity returns the merge key for the spec
func (s LotSpec) Identity() string {
	return Identity(s.UnitID, s.LotNumber, s.PackSize, s.ExpiryDate)
}

// Validate checks the fields required to create a lot
func (s LotSpec) Validate() error {
	var details []shared.FieldError
	if s.WarehouseID == uuid.Nil {
		details = append(details, shared.FieldError{Field: "warehouse_id", Message: "is required"})
	}
	if s.ItemID == uuid.Nil {
		details = append(details, shared.FieldError{Field: "item_id", Message: "is required"})
	}
	if s.UnitID == uuid.Nil {
		details = append(details, shared.FieldError{Field: "unit_id", Message: "is required"})
	}
	if s.PackSize.IsNegative() {
		details = append(details, shared.FieldError{Field: "pack_size", Message: "cannot be negative"})
	}
	if len(details) > 0 {
		return shared.NewValidationError("invalid lot", details...)
	}
	return nil
}

// StockLot is one physical lot of one item at one warehouse.
// At most one lot exists per (tenant, warehouse, item, identity).
type StockLot struct {
	shared.TenantAggregateRoot
	WarehouseID    uuid.UUID
	ItemID         uuid.UUID
	Identity       string
	LotNumber      string
	ExpiryDate     time.Time
	UnitID         uuid.UUID
	PackSize       decimal.Decimal
	Quantity       decimal.Decimal // whole packs on hand
	LooseQuantity  decimal.Decimal // units not forming a full pack
	LastReceivedAt *time.Time
	PriceID        *uuid.UUID
}

// NewStockLot creates an empty lot for spec
func NewStockLot(actor shared.Actor, spec LotSpec) (*StockLot, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &StockLot{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(actor),
		WarehouseID:         spec.WarehouseID,
		ItemID:              spec.ItemID,
		Identity:            spec.Identity(),
		LotNumber:           spec.LotNumber,
		ExpiryDate:          spec.ExpiryDate,
		UnitID:              spec.UnitID,
		PackSize:            spec.PackSize,
		Quantity:            decimal.Zero,
		LooseQuantity:       decimal.Zero,
	}, nil
}

// Spec returns the descriptive fields of the lot
func (l *StockLot) Spec() LotSpec {
	return LotSpec{
		WarehouseID: l.WarehouseID,
		ItemID:      l.ItemID,
		UnitID:      l.UnitID,
		LotNumber:   l.LotNumber,
		ExpiryDate:  l.ExpiryDate,
		PackSize:    l.PackSize,
	}
}

// Apply adds a signed movement to the lot.
// Under PolicyReject a negative result leaves the lot untouched and returns ErrIntegrityFault.
func (l *StockLot) Apply(m Movement, policy NegativeStockPolicy) error {
	quantity := l.Quantity.Add(m.Quantity)
	loose := l.LooseQuantity.Add(m.LooseQuantity)

	if policy != PolicyAllow && (quantity.IsNegative() || loose.IsNegative()) {
		return shared.ErrIntegrityFault.WithMessage(
			"lot %s would go negative (quantity %s, loose %s)",
			l.Identity, quantity.String(), loose.String())
	}

	l.Quantity = quantity
	l.LooseQuantity = loose
	l.Touch()
	l.IncrementVersion()
	return nil
}

// MarkReceived records the time of the latest inbound movement
func (l *StockLot) MarkReceived(at time.Time) {
	if at.IsZero() {
		return
	}
	t := at
	l.LastReceivedAt = &t
}

// Overwrite sets the on-hand quantity to an absolute recount value
func (l *StockLot) Overwrite(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewFieldError("new_quantity", "adjusted quantity cannot be negative")
	}
	l.Quantity = quantity
	l.Touch()
	l.IncrementVersion()
	return nil
}

// LinkPrice points the lot at its cost basis
func (l *StockLot) LinkPrice(priceID uuid.UUID) {
	id := priceID
	l.PriceID = &id
}

// CanSupply reports whether the lot can satisfy q units of a sale on day
func (l *StockLot) CanSupply(q decimal.Decimal, day time.Time) bool {
	if l.Quantity.LessThan(q) {
		return false
	}
	if l.ExpiryDate.IsZero() {
		return true
	}
	return !TruncateDay(l.ExpiryDate).Before(TruncateDay(day))
}

// LotFilter narrows lot listings
type LotFilter struct {
	shared.Filter
	WarehouseID *uuid.UUID
	ItemID      *uuid.UUID
	InStockOnly bool
}
