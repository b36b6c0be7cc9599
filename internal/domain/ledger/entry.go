package ledger

import (
	"strings"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EntryStatus is the posting state of a ledger entry
type EntryStatus int

const (
	EntryOpen   EntryStatus = 1
	EntryPosted EntryStatus = 2
)

func (s EntryStatus) String() string {
	switch s {
	case EntryOpen:
		return "open"
	case EntryPosted:
		return "posted"
	}
	return "unknown"
}

// Entry is the single financial record of one business document.
// At most one entry exists per (tenant, document number); recording the same
// number again overwrites the classification and amount.
type Entry struct {
	shared.TenantAggregateRoot
	DocumentNumber string
	Classification Classification
	Amount         decimal.Decimal
	Status         EntryStatus
	RecordedAt     time.Time
}

// NewEntry creates an open entry with an absolute amount
func NewEntry(actor shared.Actor, number string, c Classification, amount decimal.Decimal) (*Entry, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewFieldError("document_number", "is required")
	}
	if amount.IsNegative() {
		return nil, shared.NewFieldError("amount", "ledger amount cannot be negative")
	}
	return &Entry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(actor),
		DocumentNumber:      number,
		Classification:      c,
		Amount:              amount,
		Status:              EntryOpen,
		RecordedAt:          time.Now(),
	}, nil
}

// IsVoid reports whether the entry has been zeroed
func (e *Entry) IsVoid() bool {
	return e.Amount.IsZero()
}

// Post moves an open entry to posted
func (e *Entry) Post() error {
	if e.Status != EntryOpen {
		return shared.ErrInvalidState.WithMessage("ledger entry %s is already posted", e.DocumentNumber)
	}
	e.Status = EntryPosted
	e.Touch()
	e.IncrementVersion()
	return nil
}

// EntryFilter narrows ledger listings
type EntryFilter struct {
	shared.Filter
	Group  *Group
	Type   *Type
	Head   *Head
	Status *EntryStatus
	From   *time.Time
	To     *time.Time
}

// CustomType is a tenant-defined income or expense type
type CustomType struct {
	shared.TenantAggregateRoot
	Code  Type
	Name  string
	Group Group
}

// NewCustomType registers a tenant-specific type code
func NewCustomType(actor shared.Actor, code Type, name string, group Group) (*CustomType, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	var details []shared.FieldError
	if code < FirstCustomType {
		details = append(details, shared.FieldError{Field: "code", Message: "custom type codes start at 2001"})
	}
	if strings.TrimSpace(name) == "" {
		details = append(details, shared.FieldError{Field: "name", Message: "is required"})
	}
	if group != GroupIncome && group != GroupExpense {
		details = append(details, shared.FieldError{Field: "group", Message: "custom types belong to income or expense"})
	}
	if len(details) > 0 {
		return nil, shared.NewValidationError("invalid ledger type", details...)
	}
	return &CustomType{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(actor),
		Code:                code,
		Name:                strings.TrimSpace(name),
		Group:               group,
	}, nil
}
