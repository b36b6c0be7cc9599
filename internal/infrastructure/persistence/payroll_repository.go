package persistence

import (
	"context"
	"errors"

	"github.com/erp/stockledger/internal/domain/payroll"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEmployeeRepository implements payroll.EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

func (r *GormEmployeeRepository) first(query *gorm.DB) (*payroll.Employee, error) {
	var m models.EmployeeModel
	if err := query.First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindByID finds an employee within a tenant
func (r *GormEmployeeRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*payroll.Employee, error) {
	return r.first(r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id))
}

// FindByIDForUpdate finds and row-locks an employee
func (r *GormEmployeeRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*payroll.Employee, error) {
	return r.first(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id))
}

// FindAll lists employees of a tenant
func (r *GormEmployeeRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]payroll.Employee, int64, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.EmployeeModel{}).Where("tenant_id = ?", tenantID)
		if filter.Search != "" {
			pattern := likePattern(filter.Search)
			q = q.Where("(LOWER(code) LIKE ? OR LOWER(name) LIKE ?)", pattern, pattern)
		}
		if owing, ok := filter.Filters["with_advance_due"].(bool); ok && owing {
			q = q.Where("advance_due > 0")
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.EmployeeModel
	if err := applyPage(scoped(), filter, EmployeeSortFields).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	employees := make([]payroll.Employee, len(rows))
	for i := range rows {
		employees[i] = *rows[i].ToDomain()
	}
	return employees, total, nil
}

// Save creates or updates an employee
func (r *GormEmployeeRepository) Save(ctx context.Context, e *payroll.Employee) error {
	err := r.db.WithContext(ctx).Save(models.EmployeeModelFromDomain(e)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists.WithMessage("employee with code %s already exists", e.Code)
	}
	return err
}

// GormAdvanceRepository implements payroll.AdvanceRepository using GORM
type GormAdvanceRepository struct {
	db *gorm.DB
}

// NewGormAdvanceRepository creates a new GormAdvanceRepository
func NewGormAdvanceRepository(db *gorm.DB) *GormAdvanceRepository {
	return &GormAdvanceRepository{db: db}
}

// FindByID finds an advance within a tenant
func (r *GormAdvanceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*payroll.Advance, error) {
	var m models.AdvanceModel
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists advances of a tenant
func (r *GormAdvanceRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]payroll.Advance, int64, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.AdvanceModel{}).Where("tenant_id = ?", tenantID)
		if v, ok := filter.Filters["employee_id"]; ok {
			q = q.Where("employee_id = ?", v)
		}
		if v, ok := filter.Filters["document_number"]; ok {
			q = q.Where("document_number = ?", v)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.AdvanceModel
	if err := applyPage(scoped(), filter, AdvanceSortFields).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	advances := make([]payroll.Advance, len(rows))
	for i := range rows {
		advances[i] = *rows[i].ToDomain()
	}
	return advances, total, nil
}

// Save creates or updates an advance
func (r *GormAdvanceRepository) Save(ctx context.Context, a *payroll.Advance) error {
	return translateError(r.db.WithContext(ctx).Save(models.AdvanceModelFromDomain(a)).Error)
}

// Delete deletes an advance within a tenant
func (r *GormAdvanceRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AdvanceModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormSalaryRepository implements payroll.SalaryRepository using GORM
type GormSalaryRepository struct {
	documentStore[payroll.SalaryPayment, models.SalaryPaymentModel, *models.SalaryPaymentModel]
}

// NewGormSalaryRepository creates a new GormSalaryRepository
func NewGormSalaryRepository(db *gorm.DB) *GormSalaryRepository {
	return &GormSalaryRepository{documentStore[payroll.SalaryPayment, models.SalaryPaymentModel, *models.SalaryPaymentModel]{
		db:            db,
		toModel:       models.SalaryPaymentModelFromDomain,
		filterColumns: []string{"employee_id", "period"},
	}}
}

var (
	_ payroll.EmployeeRepository = (*GormEmployeeRepository)(nil)
	_ payroll.AdvanceRepository  = (*GormAdvanceRepository)(nil)
	_ payroll.SalaryRepository   = (*GormSalaryRepository)(nil)
)
