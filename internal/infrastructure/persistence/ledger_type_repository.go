package persistence

import (
	"context"
	"errors"

	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomTypeRepository implements ledger.CustomTypeRepository using GORM
type GormCustomTypeRepository struct {
	db *gorm.DB
}

// NewGormCustomTypeRepository creates a new GormCustomTypeRepository
func NewGormCustomTypeRepository(db *gorm.DB) *GormCustomTypeRepository {
	return &GormCustomTypeRepository{db: db}
}

// FindAll lists the custom types of a tenant ordered by code
func (r *GormCustomTypeRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]ledger.CustomType, error) {
	var rows []models.LedgerTypeModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("code ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	types := make([]ledger.CustomType, len(rows))
	for i := range rows {
		types[i] = *rows[i].ToDomain()
	}
	return types, nil
}

// Save creates or updates a custom type
func (r *GormCustomTypeRepository) Save(ctx context.Context, t *ledger.CustomType) error {
	err := r.db.WithContext(ctx).Save(models.LedgerTypeModelFromDomain(t)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists.WithMessage("ledger type %d already exists", t.Code)
	}
	return err
}

var _ ledger.CustomTypeRepository = (*GormCustomTypeRepository)(nil)
