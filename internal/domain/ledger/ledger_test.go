package ledger

import (
	"testing"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	in2023 := time.Date(2023, 11, 2, 10, 0, 0, 0, time.UTC)
	in2024 := time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC)

	tests := []struct {
		name     string
		previous string
		now      time.Time
		want     string
	}{
		{"same year increments", "INV-2023-41", in2023, "INV-2023-42"},
		{"new year resets", "INV-2023-41", in2024, "INV-2024-1"},
		{"prefix with hyphen", "PUR-RET-2024-7", in2024, "PUR-RET-2024-8"},
		{"prefix with underscore", "PUR_REC-2024-99", in2024, "PUR_REC-2024-100"},
		{"seed yields first number", Seed(SeriesTransfer, in2024), in2024, "TRF-2024-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.previous, tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("malformed numbers are rejected", func(t *testing.T) {
		for _, bad := range []string{"", "INV", "INV-2024", "INV-YY-1", "INV-2024-x", "-2024-1"} {
			_, err := Next(bad, in2024)
			assert.ErrorIs(t, err, shared.ErrValidation, bad)
		}
	})
}

func TestParseNumber(t *testing.T) {
	n, err := ParseNumber("SAL_RET-2025-12")
	require.NoError(t, err)
	assert.Equal(t, Number{Prefix: "SAL_RET", Year: 2025, Counter: 12}, n)
	assert.Equal(t, "SAL_RET-2025-12", n.String())
}

func TestAdvanceNumber(t *testing.T) {
	assert.Equal(t, "20240315", AdvanceNumber(time.Date(2024, 3, 15, 17, 30, 0, 0, time.UTC)))
}

func TestCatalog_Validate(t *testing.T) {
	c := DefaultCatalog()

	for _, cl := range []Classification{ReceiptPayable, BillPayment, PurchaseRefund, SaleIncome, SaleReturnRefund, AdvancePayment, SalaryPayment} {
		assert.NoError(t, c.Validate(cl), cl.String())
	}

	err := c.Validate(Classification{Group: 999, Type: 2001, Head: 0})
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Len(t, de.Details, 3)

	t.Run("tenant types extend the table", func(t *testing.T) {
		custom, err := NewCustomType(shared.NewActor(uuid.New(), uuid.Nil), 2001, "Scrap sale", GroupIncome)
		require.NoError(t, err)

		ext := c.With([]CustomType{*custom})
		assert.NoError(t, ext.Validate(Classification{Group: GroupIncome, Type: 2001, Head: HeadGeneralIncome}))
		assert.Equal(t, "Scrap sale", ext.TypeLabel(2001))
		assert.Error(t, c.Validate(Classification{Group: GroupIncome, Type: 2001, Head: HeadGeneralIncome}), "base catalog is unchanged")

		types := ext.Types()
		assert.Len(t, types, 15)
		assert.Equal(t, Label{Code: 1001, Name: "Receivable against Sales Invoice"}, types[0])
		assert.Equal(t, Label{Code: 2001, Name: "Scrap sale"}, types[len(types)-1])
	})

	t.Run("listing is ordered by code", func(t *testing.T) {
		groups := c.Groups()
		require.Len(t, groups, 4)
		assert.Equal(t, 101, groups[0].Code)
		assert.Equal(t, "Payables", groups[3].Name)
		assert.Len(t, c.Heads(), 7)
	})
}

func TestNewCustomType(t *testing.T) {
	_, err := NewCustomType(shared.NewActor(uuid.New(), uuid.Nil), TypeRent, "", GroupPayables)

	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Len(t, de.Details, 3)
}

func TestEntry(t *testing.T) {
	actor := shared.NewActor(uuid.New(), uuid.New())

	t.Run("new entries are open", func(t *testing.T) {
		e, err := NewEntry(actor, "PUR_REC-2024-1", ReceiptPayable, decimal.NewFromInt(100))
		require.NoError(t, err)

		assert.Equal(t, EntryOpen, e.Status)
		assert.False(t, e.IsVoid())
		require.NoError(t, e.Post())
		assert.Equal(t, EntryPosted, e.Status)
		assert.ErrorIs(t, e.Post(), shared.ErrInvalidState)
	})

	t.Run("negative amount is rejected", func(t *testing.T) {
		_, err := NewEntry(actor, "X-2024-1", SaleIncome, decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("tenant is required", func(t *testing.T) {
		_, err := NewEntry(shared.Actor{}, "X-2024-1", SaleIncome, decimal.Zero)
		assert.ErrorIs(t, err, shared.ErrTenantRequired)
	})
}
