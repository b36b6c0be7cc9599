package payroll

import (
	"time"

	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Advance is money paid to an employee ahead of salary.
// Its number is the compacted date, shared by all advances of that day.
type Advance struct {
	shared.TenantAggregateRoot
	EmployeeID     uuid.UUID
	DocumentNumber string
	Date           time.Time
	Amount         decimal.Decimal
	Note           string
}

// AdvanceInput carries the fields of an advance
type AdvanceInput struct {
	EmployeeID uuid.UUID
	Date       time.Time
	Amount     decimal.Decimal
	Note       string
}

// Validate checks an advance payload
func (in AdvanceInput) Validate() error {
	var details []shared.FieldError
	if in.EmployeeID == uuid.Nil {
		details = append(details, shared.FieldError{Field: "employee_id", Message: "is required"})
	}
	if !in.Amount.IsPositive() {
		details = append(details, shared.FieldError{Field: "amount", Message: "must be positive"})
	}
	if len(details) > 0 {
		return shared.NewValidationError("invalid advance", details...)
	}
	return nil
}

// NewAdvance creates an advance numbered by its date
func NewAdvance(actor shared.Actor, in AdvanceInput) (*Advance, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}
	date = stock.TruncateDay(date)
	return &Advance{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(actor),
		EmployeeID:          in.EmployeeID,
		DocumentNumber:      ledger.AdvanceNumber(date),
		Date:                date,
		Amount:              in.Amount,
		Note:                in.Note,
	}, nil
}

// Revise changes the amount and returns the difference to apply
func (a *Advance) Revise(amount decimal.Decimal, note string) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, shared.NewFieldError("amount", "must be positive")
	}
	delta := amount.Sub(a.Amount)
	a.Amount = amount
	a.Note = note
	a.Touch()
	a.IncrementVersion()
	return delta, nil
}

// SalaryPayment pays a period's salary, recovering outstanding advance
type SalaryPayment struct {
	shared.Document
	EmployeeID       uuid.UUID
	Period           string
	Gross            decimal.Decimal
	AdvanceDeduction decimal.Decimal
	NetPaid          decimal.Decimal
}

// SalaryInput carries the fields of a salary payment
type SalaryInput struct {
	EmployeeID uuid.UUID
	Period     string
	Gross      decimal.Decimal
	Deduction  *decimal.Decimal // defaults to the full outstanding advance
	Date       time.Time
	Note       string
}

// NewSalaryPayment computes deduction and net pay for employee
func NewSalaryPayment(actor shared.Actor, number string, employee *Employee, in SalaryInput) (*SalaryPayment, error) {
	gross, deduction, err := in.settle(employee)
	if err != nil {
		return nil, err
	}
	p := &SalaryPayment{
		Document:         shared.NewDocument(actor, number, in.Date),
		EmployeeID:       employee.ID,
		Period:           in.Period,
		Gross:            gross,
		AdvanceDeduction: deduction,
		NetPaid:          gross.Sub(deduction),
	}
	p.Note = in.Note
	return p, nil
}

// Revise recomputes an open payment. The caller gives the previous
// deduction back to the employee before calling.
func (p *SalaryPayment) Revise(employee *Employee, in SalaryInput) error {
	if err := p.EnsureEditable(); err != nil {
		return err
	}
	if employee.ID != p.EmployeeID {
		return shared.NewFieldError("employee_id", "the employee of a salary payment cannot change")
	}
	gross, deduction, err := in.settle(employee)
	if err != nil {
		return err
	}
	p.Period = in.Period
	p.Gross = gross
	p.AdvanceDeduction = deduction
	p.NetPaid = gross.Sub(deduction)
	p.Note = in.Note
	if !in.Date.IsZero() {
		p.DocumentDate = in.Date
	}
	p.Touch()
	p.IncrementVersion()
	return nil
}

// settle returns the gross pay and the advance recovered from it
func (in SalaryInput) settle(employee *Employee) (decimal.Decimal, decimal.Decimal, error) {
	var details []shared.FieldError
	if _, err := time.Parse("2006-01", in.Period); err != nil {
		details = append(details, shared.FieldError{Field: "period", Message: "must be YYYY-MM"})
	}
	gross := in.Gross
	if gross.IsZero() {
		gross = employee.Salary
	}
	if !gross.IsPositive() {
		details = append(details, shared.FieldError{Field: "gross", Message: "must be positive"})
	}
	deduction := decimal.Min(employee.AdvanceDue, gross)
	if in.Deduction != nil {
		deduction = *in.Deduction
		if deduction.IsNegative() || deduction.GreaterThan(employee.AdvanceDue) || deduction.GreaterThan(gross) {
			details = append(details, shared.FieldError{Field: "deduction", Message: "must be between 0 and the outstanding advance, and not above gross"})
		}
	}
	if len(details) > 0 {
		return decimal.Zero, decimal.Zero, shared.NewValidationError("invalid salary payment", details...)
	}
	return gross, deduction, nil
}
