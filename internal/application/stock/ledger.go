// Package stock implements the stock ledger and the stock-only document
// flows: production, transfer and adjustment.
package stock

import (
	"context"
	"errors"
	"time"

	appshared "github.com/erp/stockledger/internal/application/shared"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/stock"
	"github.com/erp/stockledger/internal/infrastructure/logger"
	"github.com/erp/stockledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Direction of a conversion-policy movement
const (
	Increment = 1
	Decrement = -1
)

// StockLedger mutates lots. Every method runs inside the caller's unit of
// work and row-locks the lots it touches.
type StockLedger struct {
	policy  stock.NegativeStockPolicy
	metrics *telemetry.LedgerMetrics
}

// NewStockLedger creates a StockLedger enforcing policy
func NewStockLedger(policy stock.NegativeStockPolicy, metrics *telemetry.LedgerMetrics) *StockLedger {
	if policy == "" {
		policy = stock.PolicyReject
	}
	return &StockLedger{policy: policy, metrics: metrics}
}

// Policy returns the negative stock policy in force
func (l *StockLedger) Policy() stock.NegativeStockPolicy {
	return l.policy
}

// MergeInput is a signed movement into the lot identified by Spec
type MergeInput struct {
	Actor      shared.Actor
	Spec       stock.LotSpec
	Movement   stock.Movement
	UnitCost   decimal.Decimal // updates the item price when positive
	ReceivedAt time.Time       // stamped on the lot when set
	Flow       string
}

// MergeOrCreate applies in.Movement to the lot with the spec's identity,
// creating the lot first when it does not exist. Every merge that carries a
// ReceivedAt stamps it as the lot's last receipt, reversals included.
func (l *StockLedger) MergeOrCreate(ctx context.Context, repos appshared.Repositories, in MergeInput) (*stock.StockLot, error) {
	lot, err := l.EnsureLot(ctx, repos, in.Actor, in.Spec)
	if err != nil {
		return nil, err
	}
	if in.UnitCost.IsPositive() {
		if err := l.observeCost(ctx, repos, in.Actor, lot, in.UnitCost); err != nil {
			return nil, err
		}
	}
	lot.MarkReceived(in.ReceivedAt)
	if err := l.apply(ctx, repos, lot, in.Movement, in.Flow); err != nil {
		return nil, err
	}

	logger.L(ctx).Debug("Lot merged",
		zap.String("identity", lot.Identity),
		zap.String("flow", in.Flow),
		zap.String("quantity", in.Movement.Quantity.String()),
		zap.String("loose_quantity", in.Movement.LooseQuantity.String()))
	return lot, nil
}

// EnsureLot returns the row-locked lot with the spec's identity, inserting
// an empty lot linked to the item's price when none exists. Losing the
// insert race to another transaction falls through to locking its row.
func (l *StockLedger) EnsureLot(ctx context.Context, repos appshared.Repositories, actor shared.Actor, spec stock.LotSpec) (*stock.StockLot, error) {
	identity := spec.Identity()
	lot, err := repos.LotRepo().FindByIdentityForUpdate(ctx, actor.TenantID, spec.WarehouseID, spec.ItemID, identity)
	if err == nil {
		return lot, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	fresh, err := stock.NewStockLot(actor, spec)
	if err != nil {
		return nil, err
	}
	price, err := l.priceFor(ctx, repos, actor, spec.ItemID, decimal.Zero)
	if err != nil {
		return nil, err
	}
	fresh.LinkPrice(price.ID)

	if _, err := repos.LotRepo().InsertIfAbsent(ctx, fresh); err != nil {
		return nil, err
	}
	return repos.LotRepo().FindByIdentityForUpdate(ctx, actor.TenantID, spec.WarehouseID, spec.ItemID, identity)
}

// Adjust overwrites the quantity of a lot with a recount. It returns the
// lot as it was before and after.
func (l *StockLedger) Adjust(ctx context.Context, repos appshared.Repositories, tenantID, lotID uuid.UUID, quantity decimal.Decimal) (stock.StockLot, *stock.StockLot, error) {
	lot, err := repos.LotRepo().FindByIDForUpdate(ctx, tenantID, lotID)
	if err != nil {
		return stock.StockLot{}, nil, err
	}
	before := *lot
	if err := lot.Overwrite(quantity); err != nil {
		return stock.StockLot{}, nil, err
	}
	if err := repos.LotRepo().SaveWithLock(ctx, lot); err != nil {
		return stock.StockLot{}, nil, err
	}
	l.metrics.StockMovement(ctx, "adjustment", "overwrite")
	return before, lot, nil
}

// Move converts q expressed in unitID against the lot's pack policy and
// applies it with the given direction. lot must be row-locked by the caller.
func (l *StockLedger) Move(ctx context.Context, repos appshared.Repositories, lot *stock.StockLot, q decimal.Decimal, unitID uuid.UUID, direction int, flow string) (stock.Movement, error) {
	m, err := stock.Convert(stock.ConversionInput{
		Quantity:     q,
		TransferUnit: unitID,
		LotUnit:      lot.UnitID,
		PackSize:     lot.PackSize,
	})
	if err != nil {
		return stock.Movement{}, err
	}
	if direction < 0 {
		m = m.Negate()
	}
	if err := l.apply(ctx, repos, lot, m, flow); err != nil {
		return stock.Movement{}, err
	}
	return m, nil
}

// Consume removes q native units from a locked lot
func (l *StockLedger) Consume(ctx context.Context, repos appshared.Repositories, lot *stock.StockLot, q decimal.Decimal, flow string) error {
	return l.apply(ctx, repos, lot, stock.Movement{Quantity: q.Neg(), LooseQuantity: decimal.Zero, Branch: stock.BranchLotUnit}, flow)
}

// Restock puts q native units back into a locked lot
func (l *StockLedger) Restock(ctx context.Context, repos appshared.Repositories, lot *stock.StockLot, q decimal.Decimal, flow string) error {
	return l.apply(ctx, repos, lot, stock.Movement{Quantity: q, LooseQuantity: decimal.Zero, Branch: stock.BranchLotUnit}, flow)
}

// SelectForSale row-locks the earliest-expiring lot able to supply q on day.
// Sales never split across lots.
func (l *StockLedger) SelectForSale(ctx context.Context, repos appshared.Repositories, tenantID, warehouseID, itemID, unitID uuid.UUID, q decimal.Decimal, day time.Time) (*stock.StockLot, error) {
	lot, err := repos.LotRepo().FindForSale(ctx, tenantID, warehouseID, itemID, unitID, q, day)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.ErrInsufficientStock.WithMessage(
			"no single lot of item %s holds %s unexpired units", itemID, q.String())
	}
	return lot, err
}

// GetLot returns one lot of the tenant
func (l *StockLedger) GetLot(ctx context.Context, repos appshared.Repositories, tenantID, lotID uuid.UUID) (*stock.StockLot, error) {
	return repos.LotRepo().FindByID(ctx, tenantID, lotID)
}

// ListLots returns a page of the tenant's lots
func (l *StockLedger) ListLots(ctx context.Context, repos appshared.Repositories, tenantID uuid.UUID, filter stock.LotFilter) ([]stock.StockLot, int64, error) {
	return repos.LotRepo().FindAll(ctx, tenantID, filter)
}

func (l *StockLedger) apply(ctx context.Context, repos appshared.Repositories, lot *stock.StockLot, m stock.Movement, flow string) error {
	if err := lot.Apply(m, l.policy); err != nil {
		return err
	}
	if err := repos.LotRepo().SaveWithLock(ctx, lot); err != nil {
		return err
	}
	l.metrics.StockMovement(ctx, flow, m.Branch.String())
	return nil
}

// observeCost moves the item price to cost and links the lot to it
func (l *StockLedger) observeCost(ctx context.Context, repos appshared.Repositories, actor shared.Actor, lot *stock.StockLot, cost decimal.Decimal) error {
	price, err := l.priceFor(ctx, repos, actor, lot.ItemID, cost)
	if err != nil {
		return err
	}
	if price.ObserveCost(cost) {
		if err := repos.PriceRepo().Save(ctx, price); err != nil {
			return err
		}
	}
	lot.LinkPrice(price.ID)
	return nil
}

// priceFor returns the item's price, creating it seeded with cost
func (l *StockLedger) priceFor(ctx context.Context, repos appshared.Repositories, actor shared.Actor, itemID uuid.UUID, cost decimal.Decimal) (*stock.StockPrice, error) {
	price, err := repos.PriceRepo().FindByItem(ctx, actor.TenantID, itemID)
	if err == nil {
		return price, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	seed, err := stock.NewStockPrice(actor, itemID, cost)
	if err != nil {
		return nil, err
	}
	return repos.PriceRepo().GetOrCreate(ctx, seed)
}
