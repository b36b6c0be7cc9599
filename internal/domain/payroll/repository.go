package payroll

import (
	"context"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
)

// EmployeeRepository persists employees
type EmployeeRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Employee, error)

	// FindByIDForUpdate finds and row-locks an employee
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Employee, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Employee, int64, error)
	Save(ctx context.Context, e *Employee) error
}

// AdvanceRepository persists advances
type AdvanceRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Advance, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Advance, int64, error)
	Save(ctx context.Context, a *Advance) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// SalaryRepository persists salary payments
type SalaryRepository interface {
	shared.DocumentRepository[SalaryPayment]
}
