package stock

import (
	"strings"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Unit is a unit of measure. Pack units hold a number of base units.
type Unit struct {
	shared.TenantAggregateRoot
	Code       string
	Name       string
	IsPackUnit bool
}

// NewUnit creates a unit of measure
func NewUnit(actor shared.Actor, code, name string, isPack bool) (*Unit, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewFieldError("code", "unit code is required")
	}
	if name == "" {
		name = code
	}
	return &Unit{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(actor),
		Code:                code,
		Name:                name,
		IsPackUnit:          isPack,
	}, nil
}

// Item is a stock-keeping item with a base unit of measure
type Item struct {
	shared.TenantAggregateRoot
	SKU        string
	Name       string
	BaseUnitID uuid.UUID
}

// NewItem creates an item
func NewItem(actor shared.Actor, sku, name string, baseUnitID uuid.UUID) (*Item, error) {
	var details []shared.FieldError
	if strings.TrimSpace(sku) == "" {
		details = append(details, shared.FieldError{Field: "sku", Message: "is required"})
	}
	if strings.TrimSpace(name) == "" {
		details = append(details, shared.FieldError{Field: "name", Message: "is required"})
	}
	if baseUnitID == uuid.Nil {
		details = append(details, shared.FieldError{Field: "base_unit_id", Message: "is required"})
	}
	if len(details) > 0 {
		return nil, shared.NewValidationError("invalid item", details...)
	}
	return &Item{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(actor),
		SKU:                 strings.TrimSpace(sku),
		Name:                strings.TrimSpace(name),
		BaseUnitID:          baseUnitID,
	}, nil
}
