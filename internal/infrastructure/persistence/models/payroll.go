package models

import (
	"time"

	"github.com/erp/stockledger/internal/domain/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmployeeModel is the persistence model for an employee
type EmployeeModel struct {
	BaseModel
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_employees_code,priority:1"`
	Version    int             `gorm:"not null;default:1"`
	CreatedBy  *uuid.UUID      `gorm:"type:uuid"`
	Code       string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_employees_code,priority:2"`
	Name       string          `gorm:"type:varchar(255);not null"`
	Salary     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AdvanceDue decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (EmployeeModel) TableName() string {
	return "employees"
}

// ToDomain converts the model to a domain employee
func (m *EmployeeModel) ToDomain() *payroll.Employee {
	return &payroll.Employee{
		TenantAggregateRoot: rootFromColumns(m.BaseModel, m.TenantID, m.Version, m.CreatedBy),
		Code:                m.Code,
		Name:                m.Name,
		Salary:              m.Salary,
		AdvanceDue:          m.AdvanceDue,
	}
}

// EmployeeModelFromDomain creates a persistence model from a domain employee
func EmployeeModelFromDomain(e *payroll.Employee) *EmployeeModel {
	return &EmployeeModel{
		BaseModel:  baseFromRoot(e.TenantAggregateRoot),
		TenantID:   e.TenantID,
		Version:    e.Version,
		CreatedBy:  e.CreatedBy,
		Code:       e.Code,
		Name:       e.Name,
		Salary:     e.Salary,
		AdvanceDue: e.AdvanceDue,
	}
}

// AdvanceModel is the persistence model for a salary advance.
// All advances of one day share a document number.
type AdvanceModel struct {
	TenantAggregateModel
	EmployeeID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	DocumentNumber string          `gorm:"type:varchar(64);not null;index"`
	AdvanceDate    time.Time       `gorm:"type:date;not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Note           string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AdvanceModel) TableName() string {
	return "advances"
}

// ToDomain converts the model to a domain advance
func (m *AdvanceModel) ToDomain() *payroll.Advance {
	return &payroll.Advance{
		TenantAggregateRoot: m.ToDomainRoot(),
		EmployeeID:          m.EmployeeID,
		DocumentNumber:      m.DocumentNumber,
		Date:                m.AdvanceDate,
		Amount:              m.Amount,
		Note:                m.Note,
	}
}

// AdvanceModelFromDomain creates a persistence model from a domain advance
func AdvanceModelFromDomain(a *payroll.Advance) *AdvanceModel {
	m := &AdvanceModel{
		EmployeeID:     a.EmployeeID,
		DocumentNumber: a.DocumentNumber,
		AdvanceDate:    a.Date,
		Amount:         a.Amount,
		Note:           a.Note,
	}
	m.FromDomainRoot(a.TenantAggregateRoot)
	return m
}

// SalaryPaymentModel is the persistence model for a salary payment
type SalaryPaymentModel struct {
	DocumentModel
	EmployeeID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Period           string          `gorm:"type:varchar(7);not null"`
	Gross            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AdvanceDeduction decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	NetPaid          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SalaryPaymentModel) TableName() string {
	return "salary_payments"
}

// ToDomain converts the model to a domain salary payment
func (m *SalaryPaymentModel) ToDomain() *payroll.SalaryPayment {
	return &payroll.SalaryPayment{
		Document:         m.ToDomainDocument(),
		EmployeeID:       m.EmployeeID,
		Period:           m.Period,
		Gross:            m.Gross,
		AdvanceDeduction: m.AdvanceDeduction,
		NetPaid:          m.NetPaid,
	}
}

// SalaryPaymentModelFromDomain creates a persistence model from a domain salary payment
func SalaryPaymentModelFromDomain(p *payroll.SalaryPayment) *SalaryPaymentModel {
	m := &SalaryPaymentModel{
		EmployeeID:       p.EmployeeID,
		Period:           p.Period,
		Gross:            p.Gross,
		AdvanceDeduction: p.AdvanceDeduction,
		NetPaid:          p.NetPaid,
	}
	m.FromDomainDocument(p.Document)
	return m
}
