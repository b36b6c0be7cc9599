// Package payroll pays employees: advances accumulate into one ledger
// entry per day and are recovered from salary payments.
package payroll

import (
	"context"

	appshared "github.com/erp/stockledger/internal/application/shared"
	"github.com/erp/stockledger/internal/domain/payroll"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const kindEmployee = "employee"

// EmployeeService maintains the payroll register
type EmployeeService struct {
	runner *appshared.Runner
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(runner *appshared.Runner) *EmployeeService {
	return &EmployeeService{runner: runner}
}

// Create registers an employee with no outstanding advance
func (s *EmployeeService) Create(ctx context.Context, actor shared.Actor, code, name string, salary decimal.Decimal) (*payroll.Employee, error) {
	var result *payroll.Employee
	op := appshared.Operation{Kind: kindEmployee, Name: "create", Actor: actor}
	err := s.runner.Run(ctx, op, func(ctx context.Context, repos appshared.Repositories) error {
		e, err := payroll.NewEmployee(actor, code, name, salary)
		if err != nil {
			return err
		}
		if err := repos.EmployeeRepo().Save(ctx, e); err != nil {
			return err
		}
		result = e
		return nil
	})
	return result, err
}

// Get returns one employee
func (s *EmployeeService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*payroll.Employee, error) {
	var e *payroll.Employee
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		e, err = repos.EmployeeRepo().FindByID(ctx, actor.TenantID, id)
		return err
	})
	return e, err
}

// List returns a page of employees
func (s *EmployeeService) List(ctx context.Context, actor shared.Actor, filter shared.Filter) ([]payroll.Employee, int64, error) {
	var (
		items []payroll.Employee
		total int64
	)
	err := s.runner.Query(ctx, actor, func(ctx context.Context, repos appshared.Repositories) error {
		var err error
		items, total, err = repos.EmployeeRepo().FindAll(ctx, actor.TenantID, filter)
		return err
	})
	return items, total, err
}
