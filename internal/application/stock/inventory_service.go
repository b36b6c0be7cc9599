package stock

import (
	"context"

	appshared "github.com/erp/stockledger/internal/application/shared"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const kindCatalog = "catalog"

// InventoryService serves lots, prices and the item and unit catalog
type InventoryService struct {
	runner *appshared.Runner
	stock  *StockLedger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(runner *appshared.Runner, stockLedger *StockLedger) *InventoryService {
	return &InventoryService{runner: runner, stock: stockLedger}
}

// CreateUnit adds a unit of measure
func (s *InventoryService) CreateUnit(ctx context.Context, actor shared.Actor, code, name string, isPack bool) (*stock.Unit, error) {
	unit, err := stock.NewUnit(actor, code, name, isPack)
	if err != nil {
		return nil, err
	}
	op := appshared.Operation{Kind: kindCatalog, Name: "create_unit", Actor: actor}
	err = s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		return repos.CatalogRepo().SaveUnit(ctx, unit)
	})
	if err != nil {
		return nil, err
	}
	return unit, nil
}

// GetUnit returns one unit
func (s *InventoryService) GetUnit(ctx context.Context, actor shared.Actor, id uuid.UUID) (*stock.Unit, error) {
	var unit *stock.Unit
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		unit, err = repos.CatalogRepo().FindUnit(ctx, actor.TenantID, id)
		return err
	})
	return unit, err
}

// ListUnits returns a page of units
func (s *InventoryService) ListUnits(ctx context.Context, actor shared.Actor, filter shared.Filter) ([]stock.Unit, int64, error) {
	var (
		units []stock.Unit
		total int64
	)
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		units, total, err = repos.CatalogRepo().ListUnits(ctx, actor.TenantID, filter)
		return err
	})
	return units, total, err
}

// CreateItem adds an item whose base unit must exist
func (s *InventoryService) CreateItem(ctx context.Context, actor shared.Actor, sku, name string, baseUnitID uuid.UUID) (*stock.Item, error) {
	item, err := stock.NewItem(actor, sku, name, baseUnitID)
	if err != nil {
		return nil, err
	}
	op := appshared.Operation{Kind: kindCatalog, Name: "create_item", Actor: actor}
	err = s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		if _, err := repos.CatalogRepo().FindUnit(ctx, actor.TenantID, baseUnitID); err != nil {
			return err
		}
		return repos.CatalogRepo().SaveItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem returns one item
func (s *InventoryService) GetItem(ctx context.Context, actor shared.Actor, id uuid.UUID) (*stock.Item, error) {
	var item *stock.Item
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		item, err = repos.CatalogRepo().FindItem(ctx, actor.TenantID, id)
		return err
	})
	return item, err
}

// ListItems returns a page of items
func (s *InventoryService) ListItems(ctx context.Context, actor shared.Actor, filter shared.Filter) ([]stock.Item, int64, error) {
	var (
		items []stock.Item
		total int64
	)
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		items, total, err = repos.CatalogRepo().ListItems(ctx, actor.TenantID, filter)
		return err
	})
	return items, total, err
}

// GetLot returns one lot
func (s *InventoryService) GetLot(ctx context.Context, actor shared.Actor, id uuid.UUID) (*stock.StockLot, error) {
	var lot *stock.StockLot
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		lot, err = s.stock.GetLot(ctx, repos, actor.TenantID, id)
		return err
	})
	return lot, err
}

// ListLots returns a page of lots
func (s *InventoryService) ListLots(ctx context.Context, actor shared.Actor, filter stock.LotFilter) ([]stock.StockLot, int64, error) {
	var (
		lots  []stock.StockLot
		total int64
	)
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		lots, total, err = s.stock.ListLots(ctx, repos, actor.TenantID, filter)
		return err
	})
	return lots, total, err
}

// GetPrice returns the price record of an item
func (s *InventoryService) GetPrice(ctx context.Context, actor shared.Actor, itemID uuid.UUID) (*stock.StockPrice, error) {
	var price *stock.StockPrice
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		price, err = repos.PriceRepo().FindByItem(ctx, actor.TenantID, itemID)
		return err
	})
	return price, err
}

// SetPricing sets the markup and markdown of an item's price
func (s *InventoryService) SetPricing(ctx context.Context, actor shared.Actor, itemID uuid.UUID, markup, markDown decimal.Decimal) (*stock.StockPrice, error) {
	var price *stock.StockPrice
	op := appshared.Operation{Kind: kindCatalog, Name: "set_pricing", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		found, err := repos.PriceRepo().FindByItem(ctx, actor.TenantID, itemID)
		if err != nil {
			return err
		}
		if err := found.SetPricing(markup, markDown); err != nil {
			return err
		}
		if err := repos.PriceRepo().Save(ctx, found); err != nil {
			return err
		}
		price = found
		return nil
	})
	return price, err
}
