package persistence

import (
	"context"
	"errors"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/stock"
	"github.com/erp/stockledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCatalogRepository implements stock.CatalogRepository using GORM
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GormCatalogRepository
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// FindItem finds an item within a tenant
func (r *GormCatalogRepository) FindItem(ctx context.Context, tenantID, id uuid.UUID) (*stock.Item, error) {
	var m models.ItemModel
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindUnit finds a unit within a tenant
func (r *GormCatalogRepository) FindUnit(ctx context.Context, tenantID, id uuid.UUID) (*stock.Unit, error) {
	var m models.UnitModel
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// SaveItem creates or updates an item
func (r *GormCatalogRepository) SaveItem(ctx context.Context, item *stock.Item) error {
	err := r.db.WithContext(ctx).Save(models.ItemModelFromDomain(item)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists.WithMessage("item with SKU %s already exists", item.SKU)
	}
	return err
}

// SaveUnit creates or updates a unit
func (r *GormCatalogRepository) SaveUnit(ctx context.Context, unit *stock.Unit) error {
	err := r.db.WithContext(ctx).Save(models.UnitModelFromDomain(unit)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists.WithMessage("unit with code %s already exists", unit.Code)
	}
	return err
}

// ListItems lists items of a tenant
func (r *GormCatalogRepository) ListItems(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]stock.Item, int64, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.ItemModel{}).Where("tenant_id = ?", tenantID)
		if filter.Search != "" {
			pattern := likePattern(filter.Search)
			q = q.Where("(LOWER(sku) LIKE ? OR LOWER(name) LIKE ?)", pattern, pattern)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.ItemModel
	if err := applyPage(scoped(), filter, CatalogSortFields).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	items := make([]stock.Item, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, total, nil
}

// ListUnits lists units of a tenant
func (r *GormCatalogRepository) ListUnits(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]stock.Unit, int64, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.UnitModel{}).Where("tenant_id = ?", tenantID)
		if filter.Search != "" {
			pattern := likePattern(filter.Search)
			q = q.Where("(LOWER(code) LIKE ? OR LOWER(name) LIKE ?)", pattern, pattern)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.UnitModel
	if err := applyPage(scoped(), filter, CatalogSortFields).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	units := make([]stock.Unit, len(rows))
	for i := range rows {
		units[i] = *rows[i].ToDomain()
	}
	return units, total, nil
}

var _ stock.CatalogRepository = (*GormCatalogRepository)(nil)
