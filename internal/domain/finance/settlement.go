package finance

import (
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementInput carries the fields of a vendor payment or customer
// collection. PartyID is the vendor or the customer.
type SettlementInput struct {
	PartyID uuid.UUID
	Date    time.Time
	Amount  decimal.Decimal
	Note    string
}

func (in SettlementInput) validate(party, what string) error {
	var details []shared.FieldError
	if in.PartyID == uuid.Nil {
		details = append(details, shared.FieldError{Field: party, Message: "is required"})
	}
	if !in.Amount.IsPositive() {
		details = append(details, shared.FieldError{Field: "amount", Message: "must be positive"})
	}
	if len(details) > 0 {
		return shared.NewValidationError("invalid "+what, details...)
	}
	return nil
}

// VendorPayment settles money owed to a vendor outside a specific bill
type VendorPayment struct {
	shared.Document
	VendorID uuid.UUID
	Amount   decimal.Decimal
}

// NewVendorPayment creates an open vendor payment
func NewVendorPayment(actor shared.Actor, number string, in SettlementInput) (*VendorPayment, error) {
	if err := in.validate("vendor_id", "vendor payment"); err != nil {
		return nil, err
	}
	p := &VendorPayment{
		Document: shared.NewDocument(actor, number, in.Date),
		VendorID: in.PartyID,
		Amount:   in.Amount,
	}
	p.Note = in.Note
	return p, nil
}

// Revise changes the amount of an open payment. The vendor is fixed.
func (p *VendorPayment) Revise(in SettlementInput) error {
	if err := p.EnsureEditable(); err != nil {
		return err
	}
	if in.PartyID == uuid.Nil {
		in.PartyID = p.VendorID
	}
	if in.PartyID != p.VendorID {
		return shared.NewFieldError("vendor_id", "the vendor of a payment cannot change")
	}
	if err := in.validate("vendor_id", "vendor payment"); err != nil {
		return err
	}
	p.Amount = in.Amount
	p.Note = in.Note
	if !in.Date.IsZero() {
		p.DocumentDate = in.Date
	}
	p.Touch()
	p.IncrementVersion()
	return nil
}

// CustomerCollection records money collected from a customer against its dues
type CustomerCollection struct {
	shared.Document
	CustomerID uuid.UUID
	Amount     decimal.Decimal
}

// NewCustomerCollection creates an open collection
func NewCustomerCollection(actor shared.Actor, number string, in SettlementInput) (*CustomerCollection, error) {
	if err := in.validate("customer_id", "collection"); err != nil {
		return nil, err
	}
	c := &CustomerCollection{
		Document:   shared.NewDocument(actor, number, in.Date),
		CustomerID: in.PartyID,
		Amount:     in.Amount,
	}
	c.Note = in.Note
	return c, nil
}

// Revise changes the amount of an open collection. The customer is fixed.
func (c *CustomerCollection) Revise(in SettlementInput) error {
	if err := c.EnsureEditable(); err != nil {
		return err
	}
	if in.PartyID == uuid.Nil {
		in.PartyID = c.CustomerID
	}
	if in.PartyID != c.CustomerID {
		return shared.NewFieldError("customer_id", "the customer of a collection cannot change")
	}
	if err := in.validate("customer_id", "collection"); err != nil {
		return err
	}
	c.Amount = in.Amount
	c.Note = in.Note
	if !in.Date.IsZero() {
		c.DocumentDate = in.Date
	}
	c.Touch()
	c.IncrementVersion()
	return nil
}
