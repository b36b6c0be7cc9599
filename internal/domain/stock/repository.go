package stock

import (
	"context"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LotRepository persists stock lots. Methods suffixed ForUpdate take a row
// lock that is held until the surrounding transaction ends.
type LotRepository interface {
	// FindByID finds a lot within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*StockLot, error)

	// FindByIDForUpdate finds and row-locks a lot
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*StockLot, error)

	// FindByIdentityForUpdate finds and row-locks the lot with the natural key
	FindByIdentityForUpdate(ctx context.Context, tenantID, warehouseID, itemID uuid.UUID, identity string) (*StockLot, error)

	// InsertIfAbsent inserts the lot unless its natural key already exists.
	// Returns false when another row won.
	InsertIfAbsent(ctx context.Context, lot *StockLot) (bool, error)

	// SaveWithLock updates the lot, checking its version
	SaveWithLock(ctx context.Context, lot *StockLot) error

	// FindForSale row-locks the earliest-expiring lot holding at least quantity
	// and not expired on day
	FindForSale(ctx context.Context, tenantID, warehouseID, itemID, unitID uuid.UUID, quantity decimal.Decimal, day time.Time) (*StockLot, error)

	// FindAll lists lots matching the filter
	FindAll(ctx context.Context, tenantID uuid.UUID, filter LotFilter) ([]StockLot, int64, error)
}

// PriceRepository persists stock prices
type PriceRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*StockPrice, error)
	FindByItem(ctx context.Context, tenantID, itemID uuid.UUID) (*StockPrice, error)

	// GetOrCreate returns the item's price, inserting price if none exists
	GetOrCreate(ctx context.Context, price *StockPrice) (*StockPrice, error)
	Save(ctx context.Context, price *StockPrice) error
}

// CatalogRepository persists items and units
type CatalogRepository interface {
	FindItem(ctx context.Context, tenantID, id uuid.UUID) (*Item, error)
	FindUnit(ctx context.Context, tenantID, id uuid.UUID) (*Unit, error)
	SaveItem(ctx context.Context, item *Item) error
	SaveUnit(ctx context.Context, unit *Unit) error
	ListItems(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Item, int64, error)
	ListUnits(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Unit, int64, error)
}

// ProductionRepository persists productions
type ProductionRepository interface {
	shared.DocumentRepository[Production]
}

// TransferRepository persists transfers and their lines
type TransferRepository interface {
	shared.DocumentRepository[Transfer]
}

// AdjustmentRepository persists adjustments
type AdjustmentRepository interface {
	shared.DocumentRepository[Adjustment]
}
