package payroll

import (
	"strings"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Employee is the payroll view of a staff member
type Employee struct {
	shared.TenantAggregateRoot
	Code       string
	Name       string
	Salary     decimal.Decimal
	AdvanceDue decimal.Decimal
}

// NewEmployee creates an employee with no outstanding advance
func NewEmployee(actor shared.Actor, code, name string, salary decimal.Decimal) (*Employee, error) {
	var details []shared.FieldError
	if strings.TrimSpace(code) == "" {
		details = append(details, shared.FieldError{Field: "code", Message: "is required"})
	}
	if strings.TrimSpace(name) == "" {
		details = append(details, shared.FieldError{Field: "name", Message: "is required"})
	}
	if salary.IsNegative() {
		details = append(details, shared.FieldError{Field: "salary", Message: "cannot be negative"})
	}
	if len(details) > 0 {
		return nil, shared.NewValidationError("invalid employee", details...)
	}
	return &Employee{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(actor),
		Code:                strings.TrimSpace(code),
		Name:                strings.TrimSpace(name),
		Salary:              salary,
		AdvanceDue:          decimal.Zero,
	}, nil
}

// ChangeAdvanceDue adds delta to the outstanding advance
func (e *Employee) ChangeAdvanceDue(delta decimal.Decimal) error {
	due := e.AdvanceDue.Add(delta)
	if due.IsNegative() {
		return shared.ErrIntegrityFault.WithMessage("advance due of employee %s would go negative", e.Code)
	}
	e.AdvanceDue = due
	e.Touch()
	e.IncrementVersion()
	return nil
}
