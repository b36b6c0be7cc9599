package trade

import (
	"testing"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func receiptLine(qty, price string) ReceiptLineInput {
	return ReceiptLineInput{
		ItemID:     uuid.New(),
		UnitID:     uuid.New(),
		LotNumber:  "L1",
		ExpiryDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		PackSize:   d("12"),
		Quantity:   d(qty),
		UnitPrice:  d(price),
	}
}

func newTestReceipt(t *testing.T, lines ...ReceiptLineInput) *Receipt {
	t.Helper()
	r, err := NewReceipt(shared.NewActor(uuid.New(), uuid.New()), "PUR_REC-2025-1", ReceiptInput{
		WarehouseID: uuid.New(),
		Lines:       lines,
	})
	require.NoError(t, err)
	return r
}

func TestNewReceipt(t *testing.T) {
	t.Run("computes identity and grand total", func(t *testing.T) {
		r := newTestReceipt(t, receiptLine("10", "2.5"), receiptLine("4", "10"))

		require.Len(t, r.Lines, 2)
		assert.True(t, r.GrandTotal.Equal(d("65")))
		assert.Contains(t, r.Lines[0].Identity, "-L1-12.00-2026-01-01")
		assert.Equal(t, shared.DocumentStatusOpen, r.Status)
	})

	t.Run("reports line level errors", func(t *testing.T) {
		bad := receiptLine("0", "-1")
		bad.ItemID = uuid.Nil
		_, err := NewReceipt(shared.NewActor(uuid.New(), uuid.Nil), "PUR_REC-2025-2", ReceiptInput{Lines: []ReceiptLineInput{bad}})

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		fields := make([]string, 0, len(de.Details))
		for _, f := range de.Details {
			fields = append(fields, f.Field)
		}
		assert.ElementsMatch(t, []string{"warehouse_id", "lines[0].item_id", "lines[0].quantity", "lines[0].unit_price"}, fields)
	})
}

func TestReceipt_Revise(t *testing.T) {
	t.Run("reports changed, added and removed lines", func(t *testing.T) {
		r := newTestReceipt(t, receiptLine("10", "1"), receiptLine("5", "1"))
		keep, drop := r.Lines[0], r.Lines[1]

		edited := ReceiptLineInput{
			ID: keep.ID, ItemID: keep.ItemID, UnitID: keep.UnitID, LotNumber: keep.LotNumber,
			ExpiryDate: keep.ExpiryDate, PackSize: keep.PackSize, Quantity: d("7"), UnitPrice: d("1"),
		}
		changes, err := r.Revise(ReceiptInput{WarehouseID: r.WarehouseID, Lines: []ReceiptLineInput{edited, receiptLine("3", "2")}})
		require.NoError(t, err)
		require.Len(t, changes, 3)

		assert.True(t, changes[0].SameLot())
		assert.True(t, changes[0].After.Quantity.Sub(changes[0].Before.Quantity).Equal(d("-3")))
		assert.Nil(t, changes[1].Before)
		assert.NotNil(t, changes[1].After)
		assert.Equal(t, drop.ID, changes[2].Before.ID)
		assert.Nil(t, changes[2].After)

		assert.Len(t, r.Lines, 2)
		assert.True(t, r.GrandTotal.Equal(d("13")))
		assert.Equal(t, 2, r.Version)
	})

	t.Run("returned lines are protected", func(t *testing.T) {
		r := newTestReceipt(t, receiptLine("10", "1"))
		line := r.Lines[0]
		require.NoError(t, r.RecordReturn(line.ID, d("4")))

		below := ReceiptLineInput{ID: line.ID, ItemID: line.ItemID, UnitID: line.UnitID, LotNumber: line.LotNumber,
			ExpiryDate: line.ExpiryDate, PackSize: line.PackSize, Quantity: d("3"), UnitPrice: d("1")}
		_, err := r.Revise(ReceiptInput{WarehouseID: r.WarehouseID, Lines: []ReceiptLineInput{below}})
		assert.ErrorIs(t, err, shared.ErrValidation)

		_, err = r.Revise(ReceiptInput{WarehouseID: r.WarehouseID, Lines: []ReceiptLineInput{receiptLine("1", "1")}})
		assert.ErrorIs(t, err, shared.ErrValidation, "removing a returned line")
	})

	t.Run("closed receipt cannot be revised", func(t *testing.T) {
		r := newTestReceipt(t, receiptLine("1", "1"))
		require.NoError(t, r.Close())

		_, err := r.Revise(ReceiptInput{WarehouseID: r.WarehouseID, Lines: []ReceiptLineInput{receiptLine("1", "1")}})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("warehouse is fixed", func(t *testing.T) {
		r := newTestReceipt(t, receiptLine("1", "1"))
		_, err := r.Revise(ReceiptInput{WarehouseID: uuid.New(), Lines: []ReceiptLineInput{receiptLine("1", "1")}})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestReceipt_RecordReturn(t *testing.T) {
	r := newTestReceipt(t, receiptLine("10", "1"))
	id := r.Lines[0].ID

	require.NoError(t, r.RecordReturn(id, d("10")))
	assert.True(t, r.HasReturns())
	assert.ErrorIs(t, r.RecordReturn(id, d("1")), shared.ErrValidation)
	require.NoError(t, r.RecordReturn(id, d("-10")))
	assert.ErrorIs(t, r.RecordReturn(id, d("-1")), shared.ErrIntegrityFault)
	assert.ErrorIs(t, r.RecordReturn(uuid.New(), d("1")), shared.ErrNotFound)
}

func TestBill(t *testing.T) {
	actor := shared.NewActor(uuid.New(), uuid.Nil)

	t.Run("receipt bill starts waiting with zero advance", func(t *testing.T) {
		r := newTestReceipt(t, receiptLine("10", "3"))
		b := NewReceiptBill(actor, "PUR_RECPT-2025-1", r)

		assert.True(t, b.IsForReceipt(r.ID))
		assert.True(t, b.BillAmount.Equal(d("30")))
		assert.True(t, b.PaidAmount.IsZero())
		assert.Equal(t, BillWaiting, b.PaymentStatus)
	})

	t.Run("payments move status to partial then full", func(t *testing.T) {
		b, err := NewStandaloneBill(actor, "PUR_BILL-2025-1", StandaloneBillInput{BillAmount: d("100")})
		require.NoError(t, err)

		require.NoError(t, b.Pay(d("40")))
		assert.Equal(t, BillPartial, b.PaymentStatus)
		require.NoError(t, b.Pay(d("60")))
		assert.Equal(t, BillFull, b.PaymentStatus)
		assert.True(t, b.Due().IsZero())
		assert.ErrorIs(t, b.Pay(d("1")), shared.ErrValidation)
	})

	t.Run("reprice cannot go below paid", func(t *testing.T) {
		b, err := NewStandaloneBill(actor, "PUR_BILL-2025-2", StandaloneBillInput{BillAmount: d("100"), PaidAmount: d("50")})
		require.NoError(t, err)

		assert.ErrorIs(t, b.Reprice(d("49")), shared.ErrInvalidState)
		require.NoError(t, b.Reprice(d("50")))
		assert.Equal(t, BillFull, b.PaymentStatus)
	})

	t.Run("standalone revise", func(t *testing.T) {
		b, err := NewStandaloneBill(actor, "PUR_BILL-2025-3", StandaloneBillInput{BillAmount: d("100"), PaidAmount: d("10")})
		require.NoError(t, err)

		require.NoError(t, b.Revise(StandaloneBillInput{BillAmount: d("80"), PaidAmount: d("80")}))
		assert.Equal(t, BillFull, b.PaymentStatus)
		assert.Equal(t, 2, b.Version)
		assert.ErrorIs(t, b.Revise(StandaloneBillInput{BillAmount: d("50"), PaidAmount: d("60")}), shared.ErrValidation)

		receiptBill := NewReceiptBill(actor, "PUR_RECPT-2025-2", newTestReceipt(t, receiptLine("1", "1")))
		assert.ErrorIs(t, receiptBill.Revise(StandaloneBillInput{BillAmount: d("5")}), shared.ErrInvalidState)
	})
}

func TestReturnInput_Validate(t *testing.T) {
	line := uuid.New()
	in := ReturnInput{
		SourceID: uuid.New(),
		Lines: []ReturnLineInput{
			{SourceLineID: line, Quantity: d("1")},
			{SourceLineID: line, Quantity: d("0")},
		},
	}

	var de *shared.DomainError
	require.ErrorAs(t, in.Validate("receipt_id"), &de)
	assert.Len(t, de.Details, 2)
}

func TestPurchaseReturn_SetLine(t *testing.T) {
	r := newTestReceipt(t, receiptLine("10", "2"), receiptLine("10", "5"))
	pr, err := NewPurchaseReturn(shared.NewActor(r.TenantID, uuid.Nil), "PUR_RET-2025-1", r, ReturnInput{
		SourceID: r.ID,
		Lines:    []ReturnLineInput{{SourceLineID: r.Lines[0].ID, Quantity: d("1")}},
	})
	require.NoError(t, err)

	pr.SetLine(r.Lines[0], d("3"))
	pr.SetLine(r.Lines[1], d("2"))
	assert.True(t, pr.ReturnAmount.Equal(d("16")))
	assert.Equal(t, r.Lines[0].Identity, pr.Lines[0].Identity)

	pr.SetLine(r.Lines[0], d("1"))
	pr.SetLine(r.Lines[1], decimal.Zero)
	require.Len(t, pr.Lines, 1)
	assert.True(t, pr.ReturnAmount.Equal(d("2")))
	assert.True(t, pr.Quantities()[r.Lines[0].ID].Equal(d("1")))
}

func TestPurchaseReturn_Revise(t *testing.T) {
	r := newTestReceipt(t, receiptLine("10", "2"))
	in := ReturnInput{SourceID: r.ID, Lines: []ReturnLineInput{{SourceLineID: r.Lines[0].ID, Quantity: d("1")}}}
	pr, err := NewPurchaseReturn(shared.NewActor(r.TenantID, uuid.Nil), "PUR_RET-2025-2", r, in)
	require.NoError(t, err)

	in.Note = "damaged cartons"
	require.NoError(t, pr.Revise(in))
	assert.Equal(t, "damaged cartons", pr.Note)

	in.SourceID = uuid.New()
	assert.ErrorIs(t, pr.Revise(in), shared.ErrValidation)
}

func TestInvoice(t *testing.T) {
	actor := shared.NewActor(uuid.New(), uuid.New())
	line := InvoiceLineInput{ItemID: uuid.New(), UnitID: uuid.New(), Quantity: d("5"), UnitPrice: d("20")}

	newInvoice := func(t *testing.T, paid string) *Invoice {
		inv, err := NewInvoice(actor, "INV-2025-1", InvoiceInput{
			WarehouseID: uuid.New(),
			Discount:    d("10"),
			Tax:         d("5"),
			PaidAmount:  d(paid),
			Lines:       []InvoiceLineInput{line},
		})
		require.NoError(t, err)
		inv.AddLine(line, uuid.New())
		require.NoError(t, inv.Finalize())
		return inv
	}

	t.Run("totals and due", func(t *testing.T) {
		inv := newInvoice(t, "0")

		assert.True(t, inv.Subtotal.Equal(d("100")))
		assert.True(t, inv.Total.Equal(d("95")))
		assert.True(t, inv.DueAmount.Equal(d("95")))
		assert.Equal(t, PaymentUnpaid, inv.PaymentStatus)
	})

	t.Run("payments", func(t *testing.T) {
		inv := newInvoice(t, "45")
		assert.Equal(t, PaymentPartial, inv.PaymentStatus)

		require.NoError(t, inv.ReceivePayment(d("50")))
		assert.Equal(t, PaymentPaid, inv.PaymentStatus)
		assert.True(t, inv.DueAmount.IsZero())
		assert.ErrorIs(t, inv.ReceivePayment(d("1")), shared.ErrValidation)
	})

	t.Run("overpayment at creation", func(t *testing.T) {
		inv, err := NewInvoice(actor, "INV-2025-2", InvoiceInput{WarehouseID: uuid.New(), PaidAmount: d("101"), Lines: []InvoiceLineInput{line}})
		require.NoError(t, err)
		inv.AddLine(line, uuid.New())
		assert.ErrorIs(t, inv.Finalize(), shared.ErrValidation)
	})

	t.Run("returned invoice cannot be reset", func(t *testing.T) {
		inv := newInvoice(t, "0")
		require.NoError(t, inv.RecordReturn(inv.Lines[0].ID, d("2")))

		err := inv.Reset(InvoiceInput{WarehouseID: inv.WarehouseID, Lines: []InvoiceLineInput{line}})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestSaleReturn(t *testing.T) {
	actor := shared.NewActor(uuid.New(), uuid.Nil)
	inv, err := NewInvoice(actor, "INV-2025-9", InvoiceInput{
		WarehouseID: uuid.New(),
		Lines:       []InvoiceLineInput{{ItemID: uuid.New(), UnitID: uuid.New(), Quantity: d("5"), UnitPrice: d("4")}},
	})
	require.NoError(t, err)
	lotID := uuid.New()
	inv.AddLine(InvoiceLineInput{ItemID: uuid.New(), UnitID: uuid.New(), Quantity: d("5"), UnitPrice: d("4")}, lotID)
	require.NoError(t, inv.Finalize())

	sr, err := NewSaleReturn(actor, "SAL_RET-2025-1", inv, ReturnInput{
		SourceID: inv.ID,
		Lines:    []ReturnLineInput{{SourceLineID: inv.Lines[0].ID, Quantity: d("2")}},
	})
	require.NoError(t, err)

	sr.SetLine(inv.Lines[0], d("2"))
	require.Len(t, sr.Lines, 1)
	assert.Equal(t, lotID, sr.Lines[0].LotID)
	assert.True(t, sr.RefundAmount.Equal(d("8")))

	require.NoError(t, inv.Cancel())
	_, err = NewSaleReturn(actor, "SAL_RET-2025-2", inv, ReturnInput{
		SourceID: inv.ID,
		Lines:    []ReturnLineInput{{SourceLineID: inv.Lines[0].ID, Quantity: d("1")}},
	})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}
