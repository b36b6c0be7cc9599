package finance

import (
	"context"
	"testing"

	appledger "github.com/erp/stockledger/internal/application/ledger"
	"github.com/erp/stockledger/internal/domain/finance"
	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type financeEnv struct {
	*testutil.Fixture
	types       *appledger.Service
	vouchers    *VoucherService
	payments    *VendorPaymentService
	collections *CollectionService
}

func newFinanceEnv(t *testing.T) *financeEnv {
	t.Helper()
	f := testutil.NewFixture(t)
	numberer := appledger.NewNumberer(f.Now)
	transactions := appledger.NewTransactionLedger(nil)
	return &financeEnv{
		Fixture:     f,
		types:       appledger.NewService(f.Runner, transactions),
		vouchers:    NewVoucherService(f.Runner, numberer, transactions),
		payments:    NewVendorPaymentService(f.Runner, numberer, transactions),
		collections: NewCollectionService(f.Runner, numberer, transactions),
	}
}

func (e *financeEnv) entry(t *testing.T, number string) *ledger.Entry {
	t.Helper()
	entry, err := e.Repos().EntryRepo().FindByNumber(context.Background(), e.Actor.TenantID, number)
	require.NoError(t, err)
	return entry
}

func TestVoucherService(t *testing.T) {
	e := newFinanceEnv(t)
	ctx := context.Background()

	income, err := e.vouchers.Create(ctx, e.Actor, finance.VoucherInput{
		Kind:   finance.VoucherIncome,
		Type:   ledger.TypeReceivableOthers,
		Amount: testutil.Dec("500"),
	})
	require.NoError(t, err)
	assert.Equal(t, "INC-2024-1", income.DocumentNumber)

	rent, err := e.vouchers.Create(ctx, e.Actor, finance.VoucherInput{
		Kind:      finance.VoucherExpense,
		Type:      ledger.TypeRent,
		Amount:    testutil.Dec("1200"),
		PayMethod: "bank",
	})
	require.NoError(t, err)
	assert.Equal(t, "EXP-2024-1", rent.DocumentNumber, "each kind numbers on its own series")

	entry := e.entry(t, income.DocumentNumber)
	assert.Equal(t, ledger.Classification{Group: ledger.GroupIncome, Type: ledger.TypeReceivableOthers, Head: ledger.HeadGeneralIncome}, entry.Classification)
	testutil.AssertDecimal(t, "500", entry.Amount)

	entry = e.entry(t, rent.DocumentNumber)
	assert.Equal(t, ledger.Classification{Group: ledger.GroupExpense, Type: ledger.TypeRent, Head: ledger.HeadGeneralExpense}, entry.Classification)
	testutil.AssertDecimal(t, "1200", entry.Amount)

	t.Run("update records the new total", func(t *testing.T) {
		updated, err := e.vouchers.Update(ctx, e.Actor, rent.ID, finance.VoucherInput{Type: ledger.TypeUtility, Amount: testutil.Dec("800")})
		require.NoError(t, err)
		assert.Equal(t, finance.VoucherExpense, updated.Kind)

		entry := e.entry(t, rent.DocumentNumber)
		assert.Equal(t, ledger.TypeUtility, entry.Classification.Type)
		testutil.AssertDecimal(t, "800", entry.Amount)

		_, err = e.vouchers.Update(ctx, e.Actor, rent.ID, finance.VoucherInput{Kind: finance.VoucherIncome, Type: ledger.TypeUtility, Amount: testutil.Dec("1")})
		assert.ErrorIs(t, err, shared.ErrValidation)
		testutil.AssertDecimal(t, "800", e.entry(t, rent.DocumentNumber).Amount)
	})

	t.Run("custom types", func(t *testing.T) {
		_, err := e.types.RegisterType(ctx, e.Actor, appledger.RegisterTypeInput{Code: 2001, Name: "Consulting", Group: ledger.GroupIncome})
		require.NoError(t, err)

		v, err := e.vouchers.Create(ctx, e.Actor, finance.VoucherInput{Kind: finance.VoucherIncome, Type: 2001, Amount: testutil.Dec("75")})
		require.NoError(t, err)
		assert.Equal(t, "INC-2024-2", v.DocumentNumber)
		entry := e.entry(t, v.DocumentNumber)
		assert.Equal(t, ledger.Type(2001), entry.Classification.Type)
		testutil.AssertDecimal(t, "75", entry.Amount)

		_, err = e.vouchers.Create(ctx, e.Actor, finance.VoucherInput{Kind: finance.VoucherExpense, Type: 2001, Amount: testutil.Dec("75")})
		assert.ErrorIs(t, err, shared.ErrValidation, "an income type cannot classify an expense")

		_, err = e.vouchers.Create(ctx, e.Actor, finance.VoucherInput{Kind: finance.VoucherIncome, Type: 2050, Amount: testutil.Dec("75")})
		assert.ErrorIs(t, err, shared.ErrValidation)

		_, err = e.vouchers.Create(ctx, e.OtherTenant(), finance.VoucherInput{Kind: finance.VoucherIncome, Type: 2001, Amount: testutil.Dec("75")})
		assert.ErrorIs(t, err, shared.ErrValidation, "custom types belong to one tenant")
	})

	t.Run("delete voids the entry", func(t *testing.T) {
		require.NoError(t, e.vouchers.Delete(ctx, e.Actor, income.ID))
		assert.True(t, e.entry(t, income.DocumentNumber).IsVoid())
		_, err := e.vouchers.Get(ctx, e.Actor, income.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("cancel voids and keeps the voucher", func(t *testing.T) {
		cancelled, err := e.vouchers.Cancel(ctx, e.Actor, rent.ID)
		require.NoError(t, err)
		assert.Equal(t, shared.DocumentStatusCancelled, cancelled.Status)
		assert.True(t, e.entry(t, rent.DocumentNumber).IsVoid())
		assert.ErrorIs(t, e.vouchers.Delete(ctx, e.Actor, rent.ID), shared.ErrInvalidState)
	})

	t.Run("list filters by kind", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["kind"] = string(finance.VoucherExpense)
		items, total, err := e.vouchers.List(ctx, e.Actor, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, rent.ID, items[0].ID)
	})

	t.Run("rejects bad payload", func(t *testing.T) {
		_, err := e.vouchers.Create(ctx, e.Actor, finance.VoucherInput{Kind: finance.VoucherIncome, Type: ledger.TypeRent})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestVendorPaymentService(t *testing.T) {
	e := newFinanceEnv(t)
	ctx := context.Background()
	vendor := uuid.New()

	p, err := e.payments.Create(ctx, e.Actor, finance.SettlementInput{PartyID: vendor, Amount: testutil.Dec("400")})
	require.NoError(t, err)
	assert.Equal(t, "VPAY-2024-1", p.DocumentNumber)

	entry := e.entry(t, p.DocumentNumber)
	assert.Equal(t, ledger.VendorPayment, entry.Classification)
	assert.Equal(t, ledger.HeadVendorDues, entry.Classification.Head)
	testutil.AssertDecimal(t, "400", entry.Amount)

	updated, err := e.payments.Update(ctx, e.Actor, p.ID, finance.SettlementInput{Amount: testutil.Dec("350")})
	require.NoError(t, err)
	assert.Equal(t, vendor, updated.VendorID)
	testutil.AssertDecimal(t, "350", e.entry(t, p.DocumentNumber).Amount)

	_, err = e.payments.Update(ctx, e.Actor, p.ID, finance.SettlementInput{PartyID: uuid.New(), Amount: testutil.Dec("1")})
	assert.ErrorIs(t, err, shared.ErrValidation)

	next, err := e.payments.Create(ctx, e.Actor, finance.SettlementInput{PartyID: vendor, Amount: testutil.Dec("10")})
	require.NoError(t, err)
	assert.Equal(t, "VPAY-2024-2", next.DocumentNumber)

	require.NoError(t, e.payments.Delete(ctx, e.Actor, p.ID))
	assert.True(t, e.entry(t, p.DocumentNumber).IsVoid())
	testutil.AssertDecimal(t, "10", e.entry(t, next.DocumentNumber).Amount)

	_, err = e.payments.Get(ctx, e.OtherTenant(), next.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = e.payments.Create(ctx, e.Actor, finance.SettlementInput{Amount: testutil.Dec("10")})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestCollectionService(t *testing.T) {
	e := newFinanceEnv(t)
	ctx := context.Background()
	customer := uuid.New()

	c, err := e.collections.Create(ctx, e.Actor, finance.SettlementInput{PartyID: customer, Amount: testutil.Dec("250")})
	require.NoError(t, err)
	assert.Equal(t, "COL-2024-1", c.DocumentNumber)

	entry := e.entry(t, c.DocumentNumber)
	assert.Equal(t, ledger.Collection, entry.Classification)
	assert.Equal(t, ledger.HeadCustomerDues, entry.Classification.Head)
	testutil.AssertDecimal(t, "250", entry.Amount)

	_, err = e.collections.Update(ctx, e.Actor, c.ID, finance.SettlementInput{Amount: testutil.Dec("300")})
	require.NoError(t, err)
	testutil.AssertDecimal(t, "300", e.entry(t, c.DocumentNumber).Amount)

	filter := shared.DefaultFilter()
	filter.Filters["customer_id"] = customer
	items, total, err := e.collections.List(ctx, e.Actor, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	testutil.AssertDecimal(t, "300", items[0].Amount)

	cancelled, err := e.collections.Cancel(ctx, e.Actor, c.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.DocumentStatusCancelled, cancelled.Status)
	assert.True(t, e.entry(t, c.DocumentNumber).IsVoid())

	_, err = e.collections.Update(ctx, e.Actor, c.ID, finance.SettlementInput{Amount: testutil.Dec("1")})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.ErrorIs(t, e.collections.Delete(ctx, e.Actor, c.ID), shared.ErrInvalidState)
}
