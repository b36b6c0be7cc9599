package stock

import (
	"testing"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLot(t *testing.T) *StockLot {
	t.Helper()
	lot, err := NewStockLot(shared.NewActor(uuid.New(), uuid.New()), LotSpec{
		WarehouseID: uuid.New(),
		ItemID:      uuid.New(),
		UnitID:      uuid.New(),
		LotNumber:   "L1",
		ExpiryDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		PackSize:    decimal.NewFromInt(12),
	})
	require.NoError(t, err)
	return lot
}

func qty(n int64) Movement {
	return Movement{Quantity: decimal.NewFromInt(n), LooseQuantity: decimal.Zero}
}

func TestNewStockLot(t *testing.T) {
	t.Run("derives identity from spec", func(t *testing.T) {
		lot := newTestLot(t)

		assert.Equal(t, lot.Spec().Identity(), lot.Identity)
		assert.True(t, lot.Quantity.IsZero())
		assert.True(t, lot.LooseQuantity.IsZero())
	})

	t.Run("requires tenant", func(t *testing.T) {
		_, err := NewStockLot(shared.Actor{}, LotSpec{WarehouseID: uuid.New(), ItemID: uuid.New(), UnitID: uuid.New()})
		assert.ErrorIs(t, err, shared.ErrTenantRequired)
	})

	t.Run("reports every missing field", func(t *testing.T) {
		_, err := NewStockLot(shared.NewActor(uuid.New(), uuid.Nil), LotSpec{})

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Len(t, de.Details, 3)
	})
}

func TestStockLot_Apply(t *testing.T) {
	t.Run("merge accounting", func(t *testing.T) {
		lot := newTestLot(t)

		require.NoError(t, lot.Apply(qty(10), PolicyReject))
		require.NoError(t, lot.Apply(qty(5), PolicyReject))
		assert.True(t, lot.Quantity.Equal(decimal.NewFromInt(15)))

		require.NoError(t, lot.Apply(qty(-15), PolicyReject))
		assert.True(t, lot.Quantity.IsZero())

		err := lot.Apply(qty(-1), PolicyReject)
		assert.ErrorIs(t, err, shared.ErrIntegrityFault)
		assert.True(t, lot.Quantity.IsZero(), "failed apply must not change the lot")
	})

	t.Run("negative loose quantity is rejected", func(t *testing.T) {
		lot := newTestLot(t)
		err := lot.Apply(Movement{Quantity: decimal.NewFromInt(1), LooseQuantity: decimal.NewFromInt(-1)}, PolicyReject)
		assert.ErrorIs(t, err, shared.ErrIntegrityFault)
	})

	t.Run("backorder policy allows negative", func(t *testing.T) {
		lot := newTestLot(t)
		require.NoError(t, lot.Apply(qty(-3), PolicyAllow))
		assert.True(t, lot.Quantity.Equal(decimal.NewFromInt(-3)))
	})

	t.Run("bumps version", func(t *testing.T) {
		lot := newTestLot(t)
		v := lot.Version
		require.NoError(t, lot.Apply(qty(1), PolicyReject))
		assert.Equal(t, v+1, lot.Version)
	})
}

func TestStockLot_Overwrite(t *testing.T) {
	lot := newTestLot(t)
	require.NoError(t, lot.Apply(qty(40), PolicyReject))

	require.NoError(t, lot.Overwrite(decimal.NewFromInt(37)))
	assert.True(t, lot.Quantity.Equal(decimal.NewFromInt(37)))

	assert.ErrorIs(t, lot.Overwrite(decimal.NewFromInt(-1)), shared.ErrValidation)
}

func TestStockLot_CanSupply(t *testing.T) {
	lot := newTestLot(t)
	require.NoError(t, lot.Apply(qty(5), PolicyReject))

	assert.True(t, lot.CanSupply(decimal.NewFromInt(5), time.Date(2024, 12, 31, 18, 0, 0, 0, time.UTC)))
	assert.True(t, lot.CanSupply(decimal.NewFromInt(5), time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC)), "expiry day itself is sellable")
	assert.False(t, lot.CanSupply(decimal.NewFromInt(6), time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, lot.CanSupply(decimal.NewFromInt(1), time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)))
}

func TestParseNegativeStockPolicy(t *testing.T) {
	p, err := ParseNegativeStockPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyReject, p)

	p, err = ParseNegativeStockPolicy("Backorder")
	require.NoError(t, err)
	assert.Equal(t, PolicyAllow, p)

	_, err = ParseNegativeStockPolicy("clamp")
	assert.Error(t, err)
}

func TestStockPrice(t *testing.T) {
	actor := shared.NewActor(uuid.New(), uuid.Nil)

	t.Run("observes positive cost only", func(t *testing.T) {
		p, err := NewStockPrice(actor, uuid.New(), decimal.NewFromInt(10))
		require.NoError(t, err)

		assert.False(t, p.ObserveCost(decimal.Zero))
		assert.False(t, p.ObserveCost(decimal.NewFromInt(10)))
		assert.True(t, p.ObserveCost(decimal.NewFromInt(12)))
		assert.True(t, p.UnitCost.Equal(decimal.NewFromInt(12)))
	})

	t.Run("derives sales and minimum price", func(t *testing.T) {
		p, err := NewStockPrice(actor, uuid.New(), decimal.NewFromInt(100))
		require.NoError(t, err)

		require.NoError(t, p.SetPricing(decimal.NewFromInt(25), decimal.NewFromInt(10)))
		assert.True(t, p.SalesPrice.Equal(decimal.NewFromInt(125)), p.SalesPrice.String())
		assert.True(t, p.MinPrice.Equal(decimal.RequireFromString("112.5")), p.MinPrice.String())

		p.ObserveCost(decimal.NewFromInt(200))
		assert.True(t, p.SalesPrice.Equal(decimal.NewFromInt(250)))
	})

	t.Run("rejects missing item", func(t *testing.T) {
		_, err := NewStockPrice(actor, uuid.Nil, decimal.Zero)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}
