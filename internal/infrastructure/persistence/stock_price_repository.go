package persistence

import (
	"context"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/stock"
	"github.com/erp/stockledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPriceRepository implements stock.PriceRepository using GORM
type GormPriceRepository struct {
	db *gorm.DB
}

// NewGormPriceRepository creates a new GormPriceRepository
func NewGormPriceRepository(db *gorm.DB) *GormPriceRepository {
	return &GormPriceRepository{db: db}
}

// FindByID finds a price within a tenant
func (r *GormPriceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*stock.StockPrice, error) {
	var m models.StockPriceModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindByItem finds the price of an item
func (r *GormPriceRepository) FindByItem(ctx context.Context, tenantID, itemID uuid.UUID) (*stock.StockPrice, error) {
	var m models.StockPriceModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_id = ?", tenantID, itemID).
		First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// GetOrCreate inserts price unless the item already has one, then returns the stored row
func (r *GormPriceRepository) GetOrCreate(ctx context.Context, price *stock.StockPrice) (*stock.StockPrice, error) {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "item_id"}},
			DoNothing: true,
		}).
		Create(models.StockPriceModelFromDomain(price)).Error; err != nil {
		return nil, translateError(err)
	}
	return r.FindByItem(ctx, price.TenantID, price.ItemID)
}

// Save saves with optimistic locking; the version must already be incremented
func (r *GormPriceRepository) Save(ctx context.Context, price *stock.StockPrice) error {
	m := models.StockPriceModelFromDomain(price)
	result := r.db.WithContext(ctx).
		Model(&models.StockPriceModel{}).
		Where("tenant_id = ? AND id = ? AND version = ?", price.TenantID, price.ID, price.Version-1).
		Updates(map[string]any{
			"unit_cost":   m.UnitCost,
			"sales_price": m.SalesPrice,
			"markup":      m.Markup,
			"mark_down":   m.MarkDown,
			"min_price":   m.MinPrice,
			"version":     m.Version,
			"updated_at":  m.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict.WithMessage("price of item %s was modified by another transaction", price.ItemID)
	}
	return nil
}

var _ stock.PriceRepository = (*GormPriceRepository)(nil)
