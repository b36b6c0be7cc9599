// Package finance holds the money-only documents: income and expense
// vouchers, vendor payments and customer collections. None of them move stock.
package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// VoucherKind tells an income voucher from an expense voucher
type VoucherKind string

const (
	VoucherIncome  VoucherKind = "income"
	VoucherExpense VoucherKind = "expense"
)

// IsValid reports whether k is a known kind
func (k VoucherKind) IsValid() bool {
	return k == VoucherIncome || k == VoucherExpense
}

// Series returns the number series of the kind
func (k VoucherKind) Series() ledger.Series {
	if k == VoucherExpense {
		return ledger.SeriesExpense
	}
	return ledger.SeriesIncome
}

// Classification returns the ledger classification of a voucher of kind k and type t
func (k VoucherKind) Classification(t ledger.Type) ledger.Classification {
	if k == VoucherExpense {
		return ledger.Classification{Group: ledger.GroupExpense, Type: t, Head: ledger.HeadGeneralExpense}
	}
	return ledger.Classification{Group: ledger.GroupIncome, Type: t, Head: ledger.HeadGeneralIncome}
}

// CheckType fails when t cannot classify a voucher of kind k.
// Tenant-defined types must be registered and belong to the kind's group;
// built-in codes are checked by the ledger when the entry is recorded.
func (k VoucherKind) CheckType(t ledger.Type, custom []ledger.CustomType) error {
	if t < ledger.FirstCustomType {
		return nil
	}
	group := k.Classification(t).Group
	for _, c := range custom {
		if c.Code != t {
			continue
		}
		if c.Group != group {
			return shared.NewFieldError("type", fmt.Sprintf("type %d is not an %s type", t, k))
		}
		return nil
	}
	return shared.NewFieldError("type", fmt.Sprintf("unknown type code %d", t))
}

// Voucher records money received or spent outside the trade flows.
// Its entry carries the voucher's own type, which may be tenant-defined.
type Voucher struct {
	shared.Document
	Kind      VoucherKind
	Type      ledger.Type
	Amount    decimal.Decimal
	Reference string
	PayMethod string
}

// VoucherInput carries the fields of a voucher
type VoucherInput struct {
	Kind      VoucherKind
	Type      ledger.Type
	Date      time.Time
	Amount    decimal.Decimal
	Reference string
	PayMethod string
	Note      string
}

// Validate checks a voucher payload
func (in VoucherInput) Validate() error {
	var details []shared.FieldError
	if !in.Kind.IsValid() {
		details = append(details, shared.FieldError{Field: "kind", Message: "must be income or expense"})
	}
	if in.Type <= 0 {
		details = append(details, shared.FieldError{Field: "type", Message: "is required"})
	}
	if !in.Amount.IsPositive() {
		details = append(details, shared.FieldError{Field: "amount", Message: "must be positive"})
	}
	if len(details) > 0 {
		return shared.NewValidationError("invalid voucher", details...)
	}
	return nil
}

// NewVoucher creates an open voucher
func NewVoucher(actor shared.Actor, number string, in VoucherInput) (*Voucher, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	v := &Voucher{
		Document:  shared.NewDocument(actor, number, in.Date),
		Kind:      in.Kind,
		Type:      in.Type,
		Amount:    in.Amount,
		Reference: strings.TrimSpace(in.Reference),
		PayMethod: strings.TrimSpace(in.PayMethod),
	}
	v.Note = in.Note
	return v, nil
}

// Classification returns the ledger classification of the voucher
func (v *Voucher) Classification() ledger.Classification {
	return v.Kind.Classification(v.Type)
}

// Revise replaces the fields of an open voucher. The kind is fixed by the
// number series and cannot change.
func (v *Voucher) Revise(in VoucherInput) error {
	if err := v.EnsureEditable(); err != nil {
		return err
	}
	if in.Kind == "" {
		in.Kind = v.Kind
	}
	if in.Kind != v.Kind {
		return shared.NewFieldError("kind", "the kind of a voucher cannot change")
	}
	if err := in.Validate(); err != nil {
		return err
	}
	v.Type = in.Type
	v.Amount = in.Amount
	v.Reference = strings.TrimSpace(in.Reference)
	v.PayMethod = strings.TrimSpace(in.PayMethod)
	v.Note = in.Note
	if !in.Date.IsZero() {
		v.DocumentDate = in.Date
	}
	v.Touch()
	v.IncrementVersion()
	return nil
}
