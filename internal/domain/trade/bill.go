package trade

import (
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillPaymentStatus tracks how much of a bill has been paid
type BillPaymentStatus int

const (
	BillPartial BillPaymentStatus = 1
	BillFull    BillPaymentStatus = 2
	BillWaiting BillPaymentStatus = 3
)

func (s BillPaymentStatus) String() string {
	switch s {
	case BillPartial:
		return "partial"
	case BillFull:
		return "full"
	case BillWaiting:
		return "waiting"
	}
	return "unknown"
}

// Bill is a vendor payable. Bills created with a receipt carry its grand
// total; standalone bills carry an entered amount.
type Bill struct {
	shared.Document
	ReceiptID     *uuid.UUID
	VendorID      uuid.UUID
	BillAmount    decimal.Decimal
	PaidAmount    decimal.Decimal
	PaymentStatus BillPaymentStatus
}

// NewReceiptBill creates the zero-advance bill linked to a receipt
func NewReceiptBill(actor shared.Actor, number string, receipt *Receipt) *Bill {
	id := receipt.ID
	b := &Bill{
		Document:   shared.NewDocument(actor, number, receipt.DocumentDate),
		ReceiptID:  &id,
		VendorID:   receipt.VendorID,
		BillAmount: receipt.GrandTotal,
		PaidAmount: decimal.Zero,
	}
	b.refreshStatus()
	return b
}

// StandaloneBillInput carries the fields of a bill not tied to a receipt
type StandaloneBillInput struct {
	VendorID   uuid.UUID
	BillAmount decimal.Decimal
	PaidAmount decimal.Decimal
	Date       time.Time
	Note       string
}

// NewStandaloneBill creates a bill without a receipt
func NewStandaloneBill(actor shared.Actor, number string, in StandaloneBillInput) (*Bill, error) {
	if !in.BillAmount.IsPositive() {
		return nil, shared.NewFieldError("bill_amount", "must be positive")
	}
	b := &Bill{
		Document:   shared.NewDocument(actor, number, in.Date),
		VendorID:   in.VendorID,
		BillAmount: in.BillAmount,
		PaidAmount: decimal.Zero,
	}
	b.Note = in.Note
	if err := b.SetPaid(in.PaidAmount); err != nil {
		return nil, err
	}
	return b, nil
}

// Revise changes the amounts of a standalone bill. Bills created with a
// receipt follow the receipt instead.
func (b *Bill) Revise(in StandaloneBillInput) error {
	if err := b.EnsureEditable(); err != nil {
		return err
	}
	if b.ReceiptID != nil {
		return shared.ErrInvalidState.WithMessage("bill %s belongs to a receipt", b.DocumentNumber)
	}
	if !in.BillAmount.IsPositive() {
		return shared.NewFieldError("bill_amount", "must be positive")
	}
	previous := b.BillAmount
	b.BillAmount = in.BillAmount
	if err := b.SetPaid(in.PaidAmount); err != nil {
		b.BillAmount = previous
		return err
	}
	b.VendorID = in.VendorID
	b.Note = in.Note
	if !in.Date.IsZero() {
		b.DocumentDate = in.Date
	}
	b.IncrementVersion()
	return nil
}

// IsForReceipt reports whether the bill belongs to receiptID
func (b *Bill) IsForReceipt(receiptID uuid.UUID) bool {
	return b.ReceiptID != nil && *b.ReceiptID == receiptID
}

// Pay adds a payment
func (b *Bill) Pay(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewFieldError("amount", "payment must be positive")
	}
	return b.SetPaid(b.PaidAmount.Add(amount))
}

// SetPaid sets the absolute paid amount
func (b *Bill) SetPaid(paid decimal.Decimal) error {
	if paid.IsNegative() {
		return shared.NewFieldError("paid_amount", "cannot be negative")
	}
	if paid.GreaterThan(b.BillAmount) {
		return shared.NewFieldError("paid_amount", "cannot exceed the bill amount")
	}
	b.PaidAmount = paid
	b.refreshStatus()
	b.Touch()
	return nil
}

// Reprice follows a change of the receipt grand total
func (b *Bill) Reprice(amount decimal.Decimal) error {
	if amount.LessThan(b.PaidAmount) {
		return shared.ErrInvalidState.WithMessage("bill %s already has %s paid, more than the new amount %s",
			b.DocumentNumber, b.PaidAmount.String(), amount.String())
	}
	b.BillAmount = amount
	b.refreshStatus()
	b.Touch()
	return nil
}

// Due returns the unpaid balance
func (b *Bill) Due() decimal.Decimal {
	return b.BillAmount.Sub(b.PaidAmount)
}

func (b *Bill) refreshStatus() {
	switch {
	case b.PaidAmount.IsZero():
		b.PaymentStatus = BillWaiting
	case b.PaidAmount.GreaterThanOrEqual(b.BillAmount):
		b.PaymentStatus = BillFull
	default:
		b.PaymentStatus = BillPartial
	}
}
