package persistence

import (
	"github.com/erp/stockledger/internal/domain/stock"
	"github.com/erp/stockledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductionRepository implements stock.ProductionRepository using GORM
type GormProductionRepository struct {
	documentStore[stock.Production, models.ProductionModel, *models.ProductionModel]
}

// NewGormProductionRepository creates a new GormProductionRepository
func NewGormProductionRepository(db *gorm.DB) *GormProductionRepository {
	return &GormProductionRepository{documentStore[stock.Production, models.ProductionModel, *models.ProductionModel]{
		db:            db,
		toModel:       models.ProductionModelFromDomain,
		filterColumns: []string{"warehouse_id", "item_id"},
	}}
}

// GormTransferRepository implements stock.TransferRepository using GORM
type GormTransferRepository struct {
	documentStore[stock.Transfer, models.TransferModel, *models.TransferModel]
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{documentStore[stock.Transfer, models.TransferModel, *models.TransferModel]{
		db:      db,
		toModel: models.TransferModelFromDomain,
		lines: &lineSpec[models.TransferModel]{
			newModel:   func() any { return &models.TransferLineModel{} },
			foreignKey: "transfer_id",
			ids: func(m *models.TransferModel) []uuid.UUID {
				ids := make([]uuid.UUID, len(m.Lines))
				for i := range m.Lines {
					ids[i] = m.Lines[i].ID
				}
				return ids
			},
			rows: func(m *models.TransferModel) any { return &m.Lines },
		},
		filterColumns: []string{"from_warehouse_id", "to_warehouse_id", "purpose"},
	}}
}

// GormAdjustmentRepository implements stock.AdjustmentRepository using GORM
type GormAdjustmentRepository struct {
	documentStore[stock.Adjustment, models.AdjustmentModel, *models.AdjustmentModel]
}

// NewGormAdjustmentRepository creates a new GormAdjustmentRepository
func NewGormAdjustmentRepository(db *gorm.DB) *GormAdjustmentRepository {
	return &GormAdjustmentRepository{documentStore[stock.Adjustment, models.AdjustmentModel, *models.AdjustmentModel]{
		db:            db,
		toModel:       models.AdjustmentModelFromDomain,
		filterColumns: []string{"lot_id", "warehouse_id", "item_id"},
	}}
}

var (
	_ stock.ProductionRepository = (*GormProductionRepository)(nil)
	_ stock.TransferRepository   = (*GormTransferRepository)(nil)
	_ stock.AdjustmentRepository = (*GormAdjustmentRepository)(nil)
)
