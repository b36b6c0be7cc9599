package persistence

import (
	"context"
	"testing"

	appshared "github.com/erp/stockledger/internal/application/shared"
	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormEntryRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := NewGormEntryRepository(newTestDB(t))
	actor := testActor()

	first, err := ledger.NewEntry(actor, "PUR_REC-2024-1", ledger.ReceiptPayable, decimal.NewFromInt(100))
	require.NoError(t, err)
	stored, err := repo.Upsert(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assertDecimal(t, "100", stored.Amount)

	t.Run("same number overwrites in place", func(t *testing.T) {
		again, err := ledger.NewEntry(actor, "PUR_REC-2024-1", ledger.BillPayment, decimal.NewFromInt(80))
		require.NoError(t, err)
		stored, err := repo.Upsert(ctx, again)
		require.NoError(t, err)

		assert.Equal(t, first.ID, stored.ID, "one entry per document number")
		assert.Equal(t, ledger.BillPayment, stored.Classification)
		assertDecimal(t, "80", stored.Amount)
		assert.Equal(t, 2, stored.Version)
	})

	t.Run("other tenant gets its own row", func(t *testing.T) {
		foreign, err := ledger.NewEntry(testActor(), "PUR_REC-2024-1", ledger.ReceiptPayable, decimal.NewFromInt(5))
		require.NoError(t, err)
		stored, err := repo.Upsert(ctx, foreign)
		require.NoError(t, err)
		assert.Equal(t, foreign.ID, stored.ID)

		mine, err := repo.FindByNumber(ctx, actor.TenantID, "PUR_REC-2024-1")
		require.NoError(t, err)
		assertDecimal(t, "80", mine.Amount)
	})
}

func TestGormEntryRepository_SaveWithLock(t *testing.T) {
	ctx := context.Background()
	repo := NewGormEntryRepository(newTestDB(t))
	actor := testActor()

	entry, err := ledger.NewEntry(actor, "INV-2024-1", ledger.SaleIncome, decimal.NewFromInt(10))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, entry)
	require.NoError(t, err)

	locked, err := repo.FindByNumberForUpdate(ctx, actor.TenantID, "INV-2024-1")
	require.NoError(t, err)
	require.NoError(t, locked.Post())
	require.NoError(t, repo.SaveWithLock(ctx, locked))

	reloaded, err := repo.FindByID(ctx, actor.TenantID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.EntryPosted, reloaded.Status)

	// the in-memory copy is now stale
	entry.Amount = decimal.NewFromInt(99)
	entry.IncrementVersion()
	assert.ErrorIs(t, repo.SaveWithLock(ctx, entry), shared.ErrConcurrencyConflict)
}

func TestGormEntryRepository_FindAll(t *testing.T) {
	ctx := context.Background()
	repo := NewGormEntryRepository(newTestDB(t))
	actor := testActor()

	for _, e := range []struct {
		number string
		class  ledger.Classification
	}{
		{"INV-2024-1", ledger.SaleIncome},
		{"INV-2024-2", ledger.SaleIncome},
		{"SAL_RET-2024-1", ledger.SaleReturnRefund},
		{"PUR_REC-2024-1", ledger.ReceiptPayable},
	} {
		entry, err := ledger.NewEntry(actor, e.number, e.class, decimal.NewFromInt(1))
		require.NoError(t, err)
		_, err = repo.Upsert(ctx, entry)
		require.NoError(t, err)
	}

	expense := ledger.GroupExpense
	entries, total, err := repo.FindAll(ctx, actor.TenantID, ledger.EntryFilter{Filter: shared.DefaultFilter(), Group: &expense})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, "SAL_RET-2024-1", entries[0].DocumentNumber)

	salesValue := ledger.TypeSalesValue
	filter := shared.DefaultFilter()
	filter.Search = "inv-"
	_, total, err = repo.FindAll(ctx, actor.TenantID, ledger.EntryFilter{Filter: filter, Type: &salesValue})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestGormCustomTypeRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCustomTypeRepository(newTestDB(t))
	actor := testActor()

	rent, err := ledger.NewCustomType(actor, 2002, "Warehouse rent", ledger.GroupExpense)
	require.NoError(t, err)
	tips, err := ledger.NewCustomType(actor, 2001, "Tips", ledger.GroupIncome)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, rent))
	require.NoError(t, repo.Save(ctx, tips))

	types, err := repo.FindAll(ctx, actor.TenantID)
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, ledger.Type(2001), types[0].Code)

	dup, err := ledger.NewCustomType(actor, 2001, "Tips again", ledger.GroupIncome)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
}

func TestGormNumberRepository_LastNumber(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormNumberRepository(db)
	actor := testActor()

	t.Run("empty series", func(t *testing.T) {
		last, err := repo.LastNumber(ctx, actor.TenantID, ledger.SeriesTransfer)
		require.NoError(t, err)
		assert.Empty(t, last)
	})

	t.Run("latest document of the series wins", func(t *testing.T) {
		transfers := NewGormTransferRepository(db)
		for _, n := range []string{"TRF-2024-1", "TRF-2024-2"} {
			tr := newTestTransfer(actor, n, 0)
			require.NoError(t, transfers.Save(ctx, tr))
		}
		last, err := repo.LastNumber(ctx, actor.TenantID, ledger.SeriesTransfer)
		require.NoError(t, err)
		assert.Equal(t, "TRF-2024-2", last)

		other, err := repo.LastNumber(ctx, testActor().TenantID, ledger.SeriesTransfer)
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("series sharing a table stay apart", func(t *testing.T) {
		bills := NewGormBillRepository(db)
		receipt := &trade.Receipt{Document: shared.NewDocument(actor, "PUR_REC-2024-1", day(2024, 1, 1))}
		require.NoError(t, bills.Save(ctx, trade.NewReceiptBill(actor, "PUR_RECPT-2024-4", receipt)))

		last, err := repo.LastNumber(ctx, actor.TenantID, ledger.SeriesBill)
		require.NoError(t, err)
		assert.Empty(t, last)
		last, err = repo.LastNumber(ctx, actor.TenantID, ledger.SeriesReceiptBill)
		require.NoError(t, err)
		assert.Equal(t, "PUR_RECPT-2024-4", last)
	})

	t.Run("unknown series", func(t *testing.T) {
		_, err := repo.LastNumber(ctx, actor.TenantID, ledger.Series("NOPE"))
		assert.Error(t, err)
	})
}

func TestGormTransactionScope_RollsBack(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	scope := NewGormTransactionScope(db)
	actor := testActor()

	lot := newTestLot(t, actor, uuid.New(), uuid.New(), uuid.New(), "L1", day(2030, 1, 1))
	boom := shared.ErrIntegrityFault.WithMessage("lot would go negative")

	err := scope.Execute(ctx, func(repos appshared.Repositories) error {
		if _, err := repos.LotRepo().InsertIfAbsent(ctx, lot); err != nil {
			return err
		}
		entry, err := ledger.NewEntry(actor, "PROD-2024-1", ledger.SaleIncome, decimal.Zero)
		if err != nil {
			return err
		}
		if _, err := repos.EntryRepo().Upsert(ctx, entry); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, shared.ErrIntegrityFault)

	repos := NewRepositories(db)
	_, err = repos.LotRepo().FindByID(ctx, actor.TenantID, lot.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = repos.EntryRepo().FindByNumber(ctx, actor.TenantID, "PROD-2024-1")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, scope.Execute(ctx, func(repos appshared.Repositories) error {
		_, err := repos.LotRepo().InsertIfAbsent(ctx, lot)
		return err
	}))
	found, err := repos.LotRepo().FindByID(ctx, actor.TenantID, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, lot.Identity, found.Identity)
}
