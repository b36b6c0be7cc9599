package persistence

import (
	"github.com/erp/stockledger/internal/domain/finance"
	"github.com/erp/stockledger/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormVoucherRepository implements finance.VoucherRepository using GORM
type GormVoucherRepository struct {
	documentStore[finance.Voucher, models.VoucherModel, *models.VoucherModel]
}

// NewGormVoucherRepository creates a new GormVoucherRepository
func NewGormVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{documentStore[finance.Voucher, models.VoucherModel, *models.VoucherModel]{
		db:            db,
		toModel:       models.VoucherModelFromDomain,
		filterColumns: []string{"kind", "type_code"},
	}}
}

// GormVendorPaymentRepository implements finance.VendorPaymentRepository using GORM
type GormVendorPaymentRepository struct {
	documentStore[finance.VendorPayment, models.VendorPaymentModel, *models.VendorPaymentModel]
}

// NewGormVendorPaymentRepository creates a new GormVendorPaymentRepository
func NewGormVendorPaymentRepository(db *gorm.DB) *GormVendorPaymentRepository {
	return &GormVendorPaymentRepository{documentStore[finance.VendorPayment, models.VendorPaymentModel, *models.VendorPaymentModel]{
		db:            db,
		toModel:       models.VendorPaymentModelFromDomain,
		filterColumns: []string{"vendor_id"},
	}}
}

// GormCollectionRepository implements finance.CollectionRepository using GORM
type GormCollectionRepository struct {
	documentStore[finance.CustomerCollection, models.CollectionModel, *models.CollectionModel]
}

// NewGormCollectionRepository creates a new GormCollectionRepository
func NewGormCollectionRepository(db *gorm.DB) *GormCollectionRepository {
	return &GormCollectionRepository{documentStore[finance.CustomerCollection, models.CollectionModel, *models.CollectionModel]{
		db:            db,
		toModel:       models.CollectionModelFromDomain,
		filterColumns: []string{"customer_id"},
	}}
}

var (
	_ finance.VoucherRepository       = (*GormVoucherRepository)(nil)
	_ finance.VendorPaymentRepository = (*GormVendorPaymentRepository)(nil)
	_ finance.CollectionRepository    = (*GormCollectionRepository)(nil)
)
