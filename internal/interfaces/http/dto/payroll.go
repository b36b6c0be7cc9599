package dto

import (
	"github.com/erp/stockledger/internal/domain/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateEmployeeRequest creates an employee
type CreateEmployeeRequest struct {
	Code   string          `json:"code" binding:"required,max=50"`
	Name   string          `json:"name" binding:"required,max=200"`
	Salary decimal.Decimal `json:"salary"`
}

// EmployeeResponse is an employee with the advance still to be recovered
type EmployeeResponse struct {
	ID         uuid.UUID       `json:"id"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Salary     decimal.Decimal `json:"salary"`
	AdvanceDue decimal.Decimal `json:"advance_due"`
}

// ToEmployeeResponse converts an employee
func ToEmployeeResponse(e *payroll.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         e.ID,
		Code:       e.Code,
		Name:       e.Name,
		Salary:     e.Salary,
		AdvanceDue: e.AdvanceDue,
	}
}

// AdvanceRequest creates or updates a salary advance
type AdvanceRequest struct {
	EmployeeID uuid.UUID       `json:"employee_id"`
	Date       *Date           `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note" binding:"max=1000"`
}

// ToInput converts the request
func (r AdvanceRequest) ToInput() payroll.AdvanceInput {
	return payroll.AdvanceInput{
		EmployeeID: r.EmployeeID,
		Date:       r.Date.Value(),
		Amount:     r.Amount,
		Note:       r.Note,
	}
}

// AdvanceResponse is a salary advance
type AdvanceResponse struct {
	ID             uuid.UUID       `json:"id"`
	EmployeeID     uuid.UUID       `json:"employee_id"`
	DocumentNumber string          `json:"document_number"`
	Date           Date            `json:"date"`
	Amount         decimal.Decimal `json:"amount"`
	Note           string          `json:"note,omitempty"`
	Version        int             `json:"version"`
}

// ToAdvanceResponse converts an advance
func ToAdvanceResponse(a *payroll.Advance) AdvanceResponse {
	return AdvanceResponse{
		ID:             a.ID,
		EmployeeID:     a.EmployeeID,
		DocumentNumber: a.DocumentNumber,
		Date:           Date{a.Date},
		Amount:         a.Amount,
		Note:           a.Note,
		Version:        a.Version,
	}
}

// SalaryRequest creates or updates a salary payment.
// A missing deduction recovers the employee's whole outstanding advance.
type SalaryRequest struct {
	EmployeeID uuid.UUID        `json:"employee_id"`
	Period     string           `json:"period" binding:"required,max=20"`
	Gross      decimal.Decimal  `json:"gross"`
	Deduction  *decimal.Decimal `json:"deduction"`
	Date       *Date            `json:"date"`
	Note       string           `json:"note" binding:"max=1000"`
}

// ToInput converts the request
func (r SalaryRequest) ToInput() payroll.SalaryInput {
	return payroll.SalaryInput{
		EmployeeID: r.EmployeeID,
		Period:     r.Period,
		Gross:      r.Gross,
		Deduction:  r.Deduction,
		Date:       r.Date.Value(),
		Note:       r.Note,
	}
}

// SalaryResponse is a salary payment
type SalaryResponse struct {
	DocumentResponse
	EmployeeID       uuid.UUID       `json:"employee_id"`
	Period           string          `json:"period"`
	Gross            decimal.Decimal `json:"gross"`
	AdvanceDeduction decimal.Decimal `json:"advance_deduction"`
	NetPaid          decimal.Decimal `json:"net_paid"`
}

// ToSalaryResponse converts a salary payment
func ToSalaryResponse(p *payroll.SalaryPayment) SalaryResponse {
	return SalaryResponse{
		DocumentResponse: documentResponse(p.Document),
		EmployeeID:       p.EmployeeID,
		Period:           p.Period,
		Gross:            p.Gross,
		AdvanceDeduction: p.AdvanceDeduction,
		NetPaid:          p.NetPaid,
	}
}
