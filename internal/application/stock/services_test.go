package stock

import (
	"context"
	"testing"

	appledger "github.com/erp/stockledger/internal/application/ledger"
	appshared "github.com/erp/stockledger/internal/application/shared"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/stock"
	"github.com/erp/stockledger/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *stockEnv) produce(t *testing.T, svc *ProductionService, lotNumber, q string) *stock.Production {
	t.Helper()
	p, err := svc.Create(context.Background(), e.Actor, stock.ProductionInput{
		Lot:         e.spec(lotNumber, testutil.Day(2025, 12, 31)),
		Quantity:    testutil.Dec(q),
		CostPerUnit: testutil.Dec("4"),
		ReceivedAt:  e.Now(),
	})
	require.NoError(t, err)
	return p
}

func TestProductionService(t *testing.T) {
	e := newStockEnv(t)
	svc := NewProductionService(e.Runner, appledger.NewNumberer(e.Now), e.ledger)
	ctx := context.Background()

	p := e.produce(t, svc, "P-1", "20")
	assert.Equal(t, "PROD-2024-1", p.DocumentNumber)
	testutil.AssertDecimal(t, "20", e.Lot(t, p.LotID).Quantity)

	t.Run("update on the same lot merges the difference", func(t *testing.T) {
		updated, err := svc.Update(ctx, e.Actor, p.ID, stock.ProductionInput{
			Lot:         p.Lot,
			Quantity:    testutil.Dec("25"),
			CostPerUnit: p.CostPerUnit,
			ReceivedAt:  p.ReceivedAt,
		})
		require.NoError(t, err)
		assert.Equal(t, p.LotID, updated.LotID)
		testutil.AssertDecimal(t, "25", e.Lot(t, p.LotID).Quantity)
	})

	t.Run("update to another lot moves the whole quantity", func(t *testing.T) {
		updated, err := svc.Update(ctx, e.Actor, p.ID, stock.ProductionInput{
			Lot:         e.spec("P-2", testutil.Day(2025, 12, 31)),
			Quantity:    testutil.Dec("25"),
			CostPerUnit: p.CostPerUnit,
			ReceivedAt:  p.ReceivedAt,
		})
		require.NoError(t, err)
		assert.NotEqual(t, p.LotID, updated.LotID)
		testutil.AssertDecimal(t, "0", e.Lot(t, p.LotID).Quantity)
		testutil.AssertDecimal(t, "25", e.Lot(t, updated.LotID).Quantity)
		p = updated
	})

	t.Run("delete reverses the produced quantity", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, e.Actor, p.ID))
		testutil.AssertDecimal(t, "0", e.Lot(t, p.LotID).Quantity)
		_, err := svc.Get(ctx, e.Actor, p.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("cancel keeps the document", func(t *testing.T) {
		q := e.produce(t, svc, "P-3", "7")
		cancelled, err := svc.Cancel(ctx, e.Actor, q.ID)
		require.NoError(t, err)
		assert.Equal(t, shared.DocumentStatusCancelled, cancelled.Status)
		testutil.AssertDecimal(t, "0", e.Lot(t, q.LotID).Quantity)

		err = svc.Delete(ctx, e.Actor, q.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("delete fails once the stock was consumed", func(t *testing.T) {
		q := e.produce(t, svc, "P-4", "5")
		adjustments := NewAdjustmentService(e.Runner, appledger.NewNumberer(e.Now), e.ledger)
		_, err := adjustments.Create(ctx, e.Actor, stock.AdjustmentInput{LotID: q.LotID, NewQuantity: testutil.Dec("2")})
		require.NoError(t, err)

		err = svc.Delete(ctx, e.Actor, q.ID)
		assert.ErrorIs(t, err, shared.ErrIntegrityFault)
		_, err = svc.Get(ctx, e.Actor, q.ID)
		assert.NoError(t, err, "the failed delete rolled back")
	})

	items, total, err := svc.List(ctx, e.Actor, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)
}

func TestTransferService(t *testing.T) {
	e := newStockEnv(t)
	numberer := appledger.NewNumberer(e.Now)
	production := NewProductionService(e.Runner, numberer, e.ledger)
	svc := NewTransferService(e.Runner, numberer, e.ledger)
	ctx := context.Background()

	first := e.produce(t, production, "T-1", "20")
	second := e.produce(t, production, "T-2", "10")
	store := uuid.New()

	input := func(lines ...stock.TransferLineInput) stock.TransferInput {
		return stock.TransferInput{
			FromWarehouseID: e.warehouse,
			ToWarehouseID:   store,
			Purpose:         stock.TransferForSale,
			Lines:           lines,
		}
	}

	tr, err := svc.Create(ctx, e.Actor, input(stock.TransferLineInput{SourceLotID: first.LotID, UnitID: e.box.ID, Quantity: testutil.Dec("5")}))
	require.NoError(t, err)
	assert.Equal(t, "TRF-2024-1", tr.DocumentNumber)
	require.Len(t, tr.Lines, 1)

	line := tr.Lines[0]
	dest := e.Lot(t, line.DestinationLotID)
	assert.Equal(t, store, dest.WarehouseID)
	assert.Equal(t, e.Lot(t, first.LotID).Identity, dest.Identity)
	testutil.AssertDecimal(t, "15", e.Lot(t, first.LotID).Quantity)
	testutil.AssertDecimal(t, "5", dest.Quantity)

	t.Run("update moves only the difference", func(t *testing.T) {
		updated, err := svc.Update(ctx, e.Actor, tr.ID, input(stock.TransferLineInput{ID: line.ID, SourceLotID: first.LotID, UnitID: e.box.ID, Quantity: testutil.Dec("8")}))
		require.NoError(t, err)
		require.Len(t, updated.Lines, 1)
		testutil.AssertDecimal(t, "12", e.Lot(t, first.LotID).Quantity)
		testutil.AssertDecimal(t, "8", e.Lot(t, line.DestinationLotID).Quantity)
	})

	t.Run("zero quantity removes a line", func(t *testing.T) {
		updated, err := svc.Update(ctx, e.Actor, tr.ID, input(
			stock.TransferLineInput{ID: line.ID, SourceLotID: first.LotID, UnitID: e.box.ID, Quantity: testutil.Dec("0")},
			stock.TransferLineInput{SourceLotID: second.LotID, UnitID: e.box.ID, Quantity: testutil.Dec("4")},
		))
		require.NoError(t, err)
		require.Len(t, updated.Lines, 1)
		assert.Equal(t, second.LotID, updated.Lines[0].SourceLotID)
		testutil.AssertDecimal(t, "20", e.Lot(t, first.LotID).Quantity)
		testutil.AssertDecimal(t, "0", e.Lot(t, line.DestinationLotID).Quantity)
		testutil.AssertDecimal(t, "6", e.Lot(t, second.LotID).Quantity)
		tr = updated
	})

	t.Run("warehouses cannot change", func(t *testing.T) {
		in := input(stock.TransferLineInput{ID: tr.Lines[0].ID, SourceLotID: second.LotID, UnitID: e.box.ID, Quantity: testutil.Dec("4")})
		in.ToWarehouseID = uuid.New()
		_, err := svc.Update(ctx, e.Actor, tr.ID, in)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("a failing line rolls back the whole transfer", func(t *testing.T) {
		_, err := svc.Create(ctx, e.Actor, input(
			stock.TransferLineInput{SourceLotID: first.LotID, UnitID: e.box.ID, Quantity: testutil.Dec("1")},
			stock.TransferLineInput{SourceLotID: second.LotID, UnitID: e.box.ID, Quantity: testutil.Dec("100")},
		))
		assert.ErrorIs(t, err, shared.ErrIntegrityFault)
		testutil.AssertDecimal(t, "20", e.Lot(t, first.LotID).Quantity)
		testutil.AssertDecimal(t, "6", e.Lot(t, second.LotID).Quantity)
	})

	t.Run("source lot must sit in the source warehouse", func(t *testing.T) {
		in := input(stock.TransferLineInput{SourceLotID: tr.Lines[0].DestinationLotID, UnitID: e.box.ID, Quantity: testutil.Dec("1")})
		_, err := svc.Create(ctx, e.Actor, in)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("delete reverses every line", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, e.Actor, tr.ID))
		testutil.AssertDecimal(t, "10", e.Lot(t, second.LotID).Quantity)
		testutil.AssertDecimal(t, "0", e.Lot(t, tr.Lines[0].DestinationLotID).Quantity)
	})

	t.Run("cancel reverses and keeps the document", func(t *testing.T) {
		again, err := svc.Create(ctx, e.Actor, input(stock.TransferLineInput{SourceLotID: second.LotID, UnitID: e.box.ID, Quantity: testutil.Dec("3")}))
		require.NoError(t, err)
		cancelled, err := svc.Cancel(ctx, e.Actor, again.ID)
		require.NoError(t, err)
		assert.Equal(t, shared.DocumentStatusCancelled, cancelled.Status)
		testutil.AssertDecimal(t, "10", e.Lot(t, second.LotID).Quantity)

		_, err = svc.Get(ctx, e.OtherTenant(), again.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestTransferService_BaseUnitLot(t *testing.T) {
	e := newStockEnv(t)
	numberer := appledger.NewNumberer(e.Now)
	production := NewProductionService(e.Runner, numberer, e.ledger)
	svc := NewTransferService(e.Runner, numberer, e.ledger)
	ctx := context.Background()

	spec := e.spec("BASE", testutil.Day(2025, 12, 31))
	spec.UnitID = e.pcs.ID
	p, err := production.Create(ctx, e.Actor, stock.ProductionInput{
		Lot:         spec,
		Quantity:    testutil.Dec("20"),
		CostPerUnit: testutil.Dec("1"),
		ReceivedAt:  e.Now(),
	})
	require.NoError(t, err)
	testutil.AssertDecimal(t, "0", e.Lot(t, p.LotID).LooseQuantity)

	in := stock.TransferInput{
		FromWarehouseID: e.warehouse,
		ToWarehouseID:   uuid.New(),
		Purpose:         stock.TransferForProduction,
		Lines:           []stock.TransferLineInput{{SourceLotID: p.LotID, UnitID: e.pcs.ID, Quantity: testutil.Dec("5")}},
	}
	tr, err := svc.Create(ctx, e.Actor, in)
	require.NoError(t, err)
	dest := tr.Lines[0].DestinationLotID

	source := e.Lot(t, p.LotID)
	testutil.AssertDecimal(t, "15", source.Quantity)
	testutil.AssertDecimal(t, "0", source.LooseQuantity)
	testutil.AssertDecimal(t, "5", e.Lot(t, dest).Quantity)
	testutil.AssertDecimal(t, "0", e.Lot(t, dest).LooseQuantity)

	in.Lines[0].ID = tr.Lines[0].ID
	in.Lines[0].Quantity = testutil.Dec("8")
	_, err = svc.Update(ctx, e.Actor, tr.ID, in)
	require.NoError(t, err)
	testutil.AssertDecimal(t, "12", e.Lot(t, p.LotID).Quantity)
	testutil.AssertDecimal(t, "8", e.Lot(t, dest).Quantity)

	require.NoError(t, svc.Delete(ctx, e.Actor, tr.ID))
	source = e.Lot(t, p.LotID)
	testutil.AssertDecimal(t, "20", source.Quantity)
	testutil.AssertDecimal(t, "0", source.LooseQuantity)
	testutil.AssertDecimal(t, "0", e.Lot(t, dest).Quantity)
	testutil.AssertDecimal(t, "0", e.Lot(t, dest).LooseQuantity)
}

func TestTransferService_PackSplitReversal(t *testing.T) {
	e := newStockEnv(t)
	svc := NewTransferService(e.Runner, appledger.NewNumberer(e.Now), e.ledger)
	ctx := context.Background()

	// 20 boxes of 12 plus 12 loose pieces
	var lotID uuid.UUID
	err := e.Runner.Run(ctx, appshared.Operation{Kind: "test", Name: "seed", Actor: e.Actor},
		func(ctx context.Context, repos appshared.Repositories) error {
			lot, err := e.ledger.MergeOrCreate(ctx, repos, MergeInput{
				Actor:    e.Actor,
				Spec:     e.spec("SPLIT", testutil.Day(2025, 12, 31)),
				Movement: stock.Movement{Quantity: testutil.Dec("20"), LooseQuantity: testutil.Dec("12"), Branch: stock.BranchLotUnit},
				Flow:     "test",
			})
			if err != nil {
				return err
			}
			lotID = lot.ID
			return nil
		})
	require.NoError(t, err)

	tr, err := svc.Create(ctx, e.Actor, stock.TransferInput{
		FromWarehouseID: e.warehouse,
		ToWarehouseID:   uuid.New(),
		Purpose:         stock.TransferForSale,
		Lines:           []stock.TransferLineInput{{SourceLotID: lotID, UnitID: e.pcs.ID, Quantity: testutil.Dec("30")}},
	})
	require.NoError(t, err)
	dest := tr.Lines[0].DestinationLotID

	source := e.Lot(t, lotID)
	testutil.AssertDecimal(t, "18", source.Quantity)
	testutil.AssertDecimal(t, "6", source.LooseQuantity)
	testutil.AssertDecimal(t, "2", e.Lot(t, dest).Quantity)
	testutil.AssertDecimal(t, "6", e.Lot(t, dest).LooseQuantity)

	require.NoError(t, svc.Delete(ctx, e.Actor, tr.ID))
	source = e.Lot(t, lotID)
	testutil.AssertDecimal(t, "20", source.Quantity)
	testutil.AssertDecimal(t, "12", source.LooseQuantity)
	testutil.AssertDecimal(t, "0", e.Lot(t, dest).Quantity)
	testutil.AssertDecimal(t, "0", e.Lot(t, dest).LooseQuantity)
}

func TestAdjustmentService(t *testing.T) {
	e := newStockEnv(t)
	numberer := appledger.NewNumberer(e.Now)
	production := NewProductionService(e.Runner, numberer, e.ledger)
	svc := NewAdjustmentService(e.Runner, numberer, e.ledger)
	ctx := context.Background()

	p := e.produce(t, production, "A-1", "20")

	adj, err := svc.Create(ctx, e.Actor, stock.AdjustmentInput{LotID: p.LotID, NewQuantity: testutil.Dec("17"), ReasonCode: "DAMAGE"})
	require.NoError(t, err)
	assert.Equal(t, "ADJ-2024-1", adj.DocumentNumber)
	assert.Equal(t, stock.AdjustmentDecrement, adj.Type)
	testutil.AssertDecimal(t, "20", adj.PreviousQuantity)
	testutil.AssertDecimal(t, "17", e.Lot(t, p.LotID).Quantity)

	t.Run("update recounts from the original quantity", func(t *testing.T) {
		updated, err := svc.Update(ctx, e.Actor, adj.ID, stock.AdjustmentInput{LotID: p.LotID, NewQuantity: testutil.Dec("22")})
		require.NoError(t, err)
		assert.Equal(t, stock.AdjustmentIncrement, updated.Type)
		testutil.AssertDecimal(t, "20", updated.PreviousQuantity)
		testutil.AssertDecimal(t, "22", e.Lot(t, p.LotID).Quantity)
	})

	t.Run("delete restores the previous quantity", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, e.Actor, adj.ID))
		testutil.AssertDecimal(t, "20", e.Lot(t, p.LotID).Quantity)
	})

	t.Run("a moved lot can no longer be revised or restored", func(t *testing.T) {
		second, err := svc.Create(ctx, e.Actor, stock.AdjustmentInput{LotID: p.LotID, NewQuantity: testutil.Dec("18")})
		require.NoError(t, err)
		e.produce(t, production, "A-1", "2")
		testutil.AssertDecimal(t, "20", e.Lot(t, p.LotID).Quantity)

		_, err = svc.Update(ctx, e.Actor, second.ID, stock.AdjustmentInput{LotID: p.LotID, NewQuantity: testutil.Dec("19")})
		assert.ErrorIs(t, err, shared.ErrInvalidState)

		cancelled, err := svc.Cancel(ctx, e.Actor, second.ID)
		require.NoError(t, err)
		assert.Equal(t, shared.DocumentStatusCancelled, cancelled.Status)
		testutil.AssertDecimal(t, "20", e.Lot(t, p.LotID).Quantity)
	})

	t.Run("unknown lot", func(t *testing.T) {
		_, err := svc.Create(ctx, e.Actor, stock.AdjustmentInput{LotID: uuid.New(), NewQuantity: testutil.Dec("1")})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	items, total, err := svc.List(ctx, e.Actor, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, items, 1)
}

func TestInventoryService(t *testing.T) {
	e := newStockEnv(t)
	svc := NewInventoryService(e.Runner, e.ledger)
	ctx := context.Background()

	unit, err := svc.CreateUnit(ctx, e.Actor, "CTN", "Carton", true)
	require.NoError(t, err)
	found, err := svc.GetUnit(ctx, e.Actor, unit.ID)
	require.NoError(t, err)
	assert.True(t, found.IsPackUnit)

	item, err := svc.CreateItem(ctx, e.Actor, "PARA-250", "Paracetamol 250", unit.ID)
	require.NoError(t, err)
	got, err := svc.GetItem(ctx, e.Actor, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "PARA-250", got.SKU)

	_, err = svc.CreateItem(ctx, e.Actor, "X-1", "Orphan", uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, total, err := svc.ListItems(ctx, e.Actor, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	lot, err := e.merge(e.spec("INV", testutil.Day(2025, 1, 1)), "6", "10")
	require.NoError(t, err)
	lots, total, err := svc.ListLots(ctx, e.Actor, stock.LotFilter{Filter: shared.DefaultFilter(), InStockOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, lot.ID, lots[0].ID)

	price, err := svc.SetPricing(ctx, e.Actor, e.item.ID, testutil.Dec("20"), testutil.Dec("5"))
	require.NoError(t, err)
	testutil.AssertDecimal(t, "12", price.SalesPrice)
	testutil.AssertDecimal(t, "11.4", price.MinPrice)

	_, err = svc.GetLot(ctx, e.OtherTenant(), lot.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
