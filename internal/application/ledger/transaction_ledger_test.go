package ledger

import (
	"context"
	"testing"
	"time"

	appshared "github.com/erp/stockledger/internal/application/shared"
	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestTransactionLedger_Record(t *testing.T) {
	f := testutil.NewFixture(t)
	tl := NewTransactionLedger(nil)
	ctx := context.Background()

	record := func(number string, c ledger.Classification, amount string) (*ledger.Entry, error) {
		var entry *ledger.Entry
		err := f.Runner.Run(ctx, appshared.Operation{Kind: "test", Name: "record", Actor: f.Actor},
			func(ctx context.Context, repos appshared.Repositories) error {
				var err error
				entry, err = tl.Record(ctx, repos, f.Actor, number, c, testutil.Dec(amount))
				return err
			})
		return entry, err
	}

	t.Run("second record overwrites the first", func(t *testing.T) {
		first, err := record("INV-2024-1", ledger.SaleIncome, "100")
		require.NoError(t, err)
		assert.Equal(t, ledger.EntryOpen, first.Status)

		second, err := record("INV-2024-1", ledger.SaleIncome, "150")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		testutil.AssertDecimal(t, "150", second.Amount)

		_, total, err := f.Repos().EntryRepo().FindAll(ctx, f.Actor.TenantID, ledger.EntryFilter{Filter: shared.DefaultFilter()})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("classification follows the latest record", func(t *testing.T) {
		_, err := record("PUR_RECPT-2024-1", ledger.BillPayment, "10")
		require.NoError(t, err)
		entry, err := record("PUR_RECPT-2024-1", ledger.ReceiptPayable, "10")
		require.NoError(t, err)
		assert.Equal(t, ledger.ReceiptPayable, entry.Classification)
	})

	t.Run("rejects negative amounts and unknown codes", func(t *testing.T) {
		_, err := record("INV-2024-2", ledger.SaleIncome, "-1")
		assert.ErrorIs(t, err, shared.ErrValidation)

		_, err = record("INV-2024-2", ledger.Classification{Group: 999, Type: ledger.TypeSalesValue, Head: ledger.HeadSales}, "1")
		assert.ErrorIs(t, err, shared.ErrValidation)

		_, err = record("INV-2024-2", ledger.Classification{Group: ledger.GroupIncome, Type: 2001, Head: ledger.HeadGeneralIncome}, "1")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("custom types are accepted once registered", func(t *testing.T) {
		svc := NewService(f.Runner, tl)
		_, err := svc.RegisterType(ctx, f.Actor, RegisterTypeInput{Code: 2001, Name: "Scrap sales", Group: ledger.GroupIncome})
		require.NoError(t, err)

		entry, err := record("SCRAP-1", ledger.Classification{Group: ledger.GroupIncome, Type: 2001, Head: ledger.HeadGeneralIncome}, "12.5")
		require.NoError(t, err)
		testutil.AssertDecimal(t, "12.5", entry.Amount)
	})
}

func TestTransactionLedger_AccumulateAndVoid(t *testing.T) {
	f := testutil.NewFixture(t)
	tl := NewTransactionLedger(nil)
	ctx := context.Background()
	op := appshared.Operation{Kind: "test", Name: "accumulate", Actor: f.Actor}

	accumulate := func(delta string) error {
		return f.Runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
			_, err := tl.Accumulate(ctx, repos, f.Actor, "20240315", ledger.AdvancePayment, testutil.Dec(delta))
			return err
		})
	}
	amount := func() decimal.Decimal {
		entry, err := f.Repos().EntryRepo().FindByNumber(ctx, f.Actor.TenantID, "20240315")
		require.NoError(t, err)
		return entry.Amount
	}

	require.NoError(t, accumulate("100"))
	require.NoError(t, accumulate("50"))
	testutil.AssertDecimal(t, "150", amount())

	require.NoError(t, accumulate("-30"))
	testutil.AssertDecimal(t, "120", amount())

	err := accumulate("-500")
	assert.ErrorIs(t, err, shared.ErrIntegrityFault)
	testutil.AssertDecimal(t, "120", amount(), "a refused delta changes nothing")

	t.Run("concurrent deltas all land", func(t *testing.T) {
		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < 10; i++ {
			g.Go(func() error {
				return f.Runner.Run(gctx, appshared.Operation{Kind: "test", Name: "accumulate", Actor: f.Actor, Locks: []string{"advance"}},
					func(ctx context.Context, repos appshared.Repositories) error {
						_, err := tl.Accumulate(ctx, repos, f.Actor, "20240315", ledger.AdvancePayment, decimal.NewFromInt(1))
						return err
					})
			})
		}
		require.NoError(t, g.Wait())
		testutil.AssertDecimal(t, "130", amount())
	})

	t.Run("void keeps the row at zero", func(t *testing.T) {
		err := f.Runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
			return tl.Void(ctx, repos, f.Actor, "20240315")
		})
		require.NoError(t, err)
		assert.True(t, amount().IsZero())

		entry, err := f.Repos().EntryRepo().FindByNumber(ctx, f.Actor.TenantID, "20240315")
		require.NoError(t, err)
		assert.Equal(t, ledger.AdvancePayment, entry.Classification)
		assert.True(t, entry.IsVoid())
	})

	t.Run("void without an entry is a no-op", func(t *testing.T) {
		err := f.Runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
			return tl.Void(ctx, repos, f.Actor, "INV-1999-1")
		})
		assert.NoError(t, err)
	})
}

func TestNumberer_Next(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()

	clock := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	n := NewNumberer(func() time.Time { return clock })

	next := func(actor shared.Actor, series ledger.Series) string {
		number, err := n.Next(ctx, f.Repos(), actor.TenantID, series)
		require.NoError(t, err)
		return number
	}

	t.Run("first number of a series", func(t *testing.T) {
		assert.Equal(t, "TRF-2024-1", next(f.Actor, ledger.SeriesTransfer))
		assert.Equal(t, "PUR_RET-2024-1", next(f.Actor, ledger.SeriesPurchaseReturn))
	})

	t.Run("unknown series fails", func(t *testing.T) {
		_, err := n.Next(ctx, f.Repos(), f.Actor.TenantID, ledger.Series("NOPE"))
		assert.Error(t, err)
	})

	t.Run("lock keys are per tenant and series", func(t *testing.T) {
		keys := LockKeys(f.Actor.TenantID, ledger.SeriesReceipt, ledger.SeriesReceiptBill)
		require.Len(t, keys, 2)
		assert.Contains(t, keys[0], f.Actor.TenantID.String())
		assert.NotEqual(t, keys[0], keys[1])
		assert.NotEqual(t, keys[0], LockKeys(f.OtherTenant().TenantID, ledger.SeriesReceipt)[0])
	})
}

func TestService_PostAndList(t *testing.T) {
	f := testutil.NewFixture(t)
	tl := NewTransactionLedger(nil)
	svc := NewService(f.Runner, tl)
	ctx := context.Background()

	for _, number := range []string{"INV-2024-1", "INV-2024-2", "SAL_RET-2024-1"} {
		c := ledger.SaleIncome
		if number == "SAL_RET-2024-1" {
			c = ledger.SaleReturnRefund
		}
		err := f.Runner.Run(ctx, appshared.Operation{Kind: "test", Name: "seed", Actor: f.Actor},
			func(ctx context.Context, repos appshared.Repositories) error {
				_, err := tl.Record(ctx, repos, f.Actor, number, c, decimal.NewFromInt(10))
				return err
			})
		require.NoError(t, err)
	}

	income := ledger.GroupIncome
	entries, total, err := svc.List(ctx, f.Actor, ledger.EntryFilter{Filter: shared.DefaultFilter(), Group: &income})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, entries, 2)

	posted, err := svc.Post(ctx, f.Actor, entries[0].ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.EntryPosted, posted.Status)

	_, err = svc.Post(ctx, f.Actor, entries[0].ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	_, err = svc.Get(ctx, f.OtherTenant(), entries[0].ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	byNumber, err := svc.GetByNumber(ctx, f.Actor, "SAL_RET-2024-1")
	require.NoError(t, err)
	assert.Equal(t, ledger.SaleReturnRefund, byNumber.Classification)

	catalog, err := svc.Catalog(ctx, f.Actor)
	require.NoError(t, err)
	assert.Equal(t, "Sales Return", catalog.TypeLabel(ledger.TypeSalesReturn))

	_, err = svc.RegisterType(ctx, f.Actor, RegisterTypeInput{Code: 1500, Name: "Too low", Group: ledger.GroupExpense})
	assert.ErrorIs(t, err, shared.ErrValidation)
}
