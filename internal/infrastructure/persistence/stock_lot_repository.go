package persistence

import (
	"context"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/stock"
	"github.com/erp/stockledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLotRepository implements stock.LotRepository using GORM
type GormLotRepository struct {
	db *gorm.DB
}

// NewGormLotRepository creates a new GormLotRepository
func NewGormLotRepository(db *gorm.DB) *GormLotRepository {
	return &GormLotRepository{db: db}
}

func (r *GormLotRepository) first(query *gorm.DB) (*stock.StockLot, error) {
	var m models.StockLotModel
	if err := query.First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindByID finds a lot within a tenant
func (r *GormLotRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*stock.StockLot, error) {
	return r.first(r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id))
}

// FindByIDForUpdate finds and row-locks a lot
func (r *GormLotRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*stock.StockLot, error) {
	return r.first(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id))
}

// FindByIdentityForUpdate finds and row-locks the lot with the natural key
func (r *GormLotRepository) FindByIdentityForUpdate(ctx context.Context, tenantID, warehouseID, itemID uuid.UUID, identity string) (*stock.StockLot, error) {
	return r.first(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND warehouse_id = ? AND item_id = ? AND identity = ?",
			tenantID, warehouseID, itemID, identity))
}

// InsertIfAbsent inserts the lot unless its natural key already exists
func (r *GormLotRepository) InsertIfAbsent(ctx context.Context, lot *stock.StockLot) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "tenant_id"}, {Name: "warehouse_id"}, {Name: "item_id"}, {Name: "identity"},
			},
			DoNothing: true,
		}).
		Create(models.StockLotModelFromDomain(lot))
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	return result.RowsAffected == 1, nil
}

// SaveWithLock saves with optimistic locking (checks version).
// The lot's version must already be incremented by the domain.
func (r *GormLotRepository) SaveWithLock(ctx context.Context, lot *stock.StockLot) error {
	m := models.StockLotModelFromDomain(lot)
	result := r.db.WithContext(ctx).
		Model(&models.StockLotModel{}).
		Where("tenant_id = ? AND id = ? AND version = ?", lot.TenantID, lot.ID, lot.Version-1).
		Updates(map[string]any{
			"quantity":         m.Quantity,
			"loose_quantity":   m.LooseQuantity,
			"last_received_at": m.LastReceivedAt,
			"price_id":         m.PriceID,
			"version":          m.Version,
			"updated_at":       m.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict.WithMessage("stock lot %s was modified by another transaction", lot.Identity)
	}
	return nil
}

// FindForSale row-locks the earliest-expiring lot holding at least quantity.
// Lots without expiry sort after dated lots on every dialect.
func (r *GormLotRepository) FindForSale(ctx context.Context, tenantID, warehouseID, itemID, unitID uuid.UUID, quantity decimal.Decimal, day time.Time) (*stock.StockLot, error) {
	return r.first(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND warehouse_id = ? AND item_id = ? AND unit_id = ?",
			tenantID, warehouseID, itemID, unitID).
		Where("quantity >= ?", quantity).
		Where("(expiry_date IS NULL OR expiry_date >= ?)", stock.TruncateDay(day)).
		Order("CASE WHEN expiry_date IS NULL THEN 1 ELSE 0 END, expiry_date ASC, created_at ASC"))
}

// FindAll lists lots matching the filter
func (r *GormLotRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter stock.LotFilter) ([]stock.StockLot, int64, error) {
	filter.Filter = filter.Normalize()
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.StockLotModel{}).Where("tenant_id = ?", tenantID)
		if filter.WarehouseID != nil {
			q = q.Where("warehouse_id = ?", *filter.WarehouseID)
		}
		if filter.ItemID != nil {
			q = q.Where("item_id = ?", *filter.ItemID)
		}
		if filter.InStockOnly {
			q = q.Where("(quantity > 0 OR loose_quantity > 0)")
		}
		if filter.Search != "" {
			q = q.Where("LOWER(lot_number) LIKE ?", likePattern(filter.Search))
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.StockLotModel
	if err := applyPage(scoped(), filter.Filter, LotSortFields).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	lots := make([]stock.StockLot, len(rows))
	for i := range rows {
		lots[i] = *rows[i].ToDomain()
	}
	return lots, total, nil
}

var _ stock.LotRepository = (*GormLotRepository)(nil)
