package models

import (
	"time"

	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntryModel is the persistence model for a ledger entry.
// A document number maps to at most one row per tenant.
type LedgerEntryModel struct {
	BaseModel
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_ledger_entries_number,priority:1"`
	Version        int             `gorm:"not null;default:1"`
	CreatedBy      *uuid.UUID      `gorm:"type:uuid"`
	DocumentNumber string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_ledger_entries_number,priority:2"`
	GroupCode      int             `gorm:"column:group_code;not null;index"`
	TypeCode       int             `gorm:"column:type_code;not null"`
	HeadCode       int             `gorm:"column:head_code;not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status         int             `gorm:"not null;default:1"`
	RecordedAt     time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the model to a domain ledger entry
func (m *LedgerEntryModel) ToDomain() *ledger.Entry {
	return &ledger.Entry{
		TenantAggregateRoot: rootFromColumns(m.BaseModel, m.TenantID, m.Version, m.CreatedBy),
		DocumentNumber:      m.DocumentNumber,
		Classification: ledger.Classification{
			Group: ledger.Group(m.GroupCode),
			Type:  ledger.Type(m.TypeCode),
			Head:  ledger.Head(m.HeadCode),
		},
		Amount:     m.Amount,
		Status:     ledger.EntryStatus(m.Status),
		RecordedAt: m.RecordedAt,
	}
}

// LedgerEntryModelFromDomain creates a persistence model from a domain ledger entry
func LedgerEntryModelFromDomain(e *ledger.Entry) *LedgerEntryModel {
	return &LedgerEntryModel{
		BaseModel:      baseFromRoot(e.TenantAggregateRoot),
		TenantID:       e.TenantID,
		Version:        e.Version,
		CreatedBy:      e.CreatedBy,
		DocumentNumber: e.DocumentNumber,
		GroupCode:      int(e.Classification.Group),
		TypeCode:       int(e.Classification.Type),
		HeadCode:       int(e.Classification.Head),
		Amount:         e.Amount,
		Status:         int(e.Status),
		RecordedAt:     e.RecordedAt,
	}
}

// LedgerTypeModel stores a tenant-defined ledger type
type LedgerTypeModel struct {
	BaseModel
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_ledger_types_code,priority:1"`
	Version   int        `gorm:"not null;default:1"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	Code      int        `gorm:"not null;uniqueIndex:idx_ledger_types_code,priority:2"`
	Name      string     `gorm:"type:varchar(100);not null"`
	GroupCode int        `gorm:"column:group_code;not null"`
}

// TableName returns the table name for GORM
func (LedgerTypeModel) TableName() string {
	return "ledger_types"
}

// ToDomain converts the model to a domain custom type
func (m *LedgerTypeModel) ToDomain() *ledger.CustomType {
	return &ledger.CustomType{
		TenantAggregateRoot: rootFromColumns(m.BaseModel, m.TenantID, m.Version, m.CreatedBy),
		Code:                ledger.Type(m.Code),
		Name:                m.Name,
		Group:               ledger.Group(m.GroupCode),
	}
}

// LedgerTypeModelFromDomain creates a persistence model from a domain custom type
func LedgerTypeModelFromDomain(t *ledger.CustomType) *LedgerTypeModel {
	return &LedgerTypeModel{
		BaseModel: baseFromRoot(t.TenantAggregateRoot),
		TenantID:  t.TenantID,
		Version:   t.Version,
		CreatedBy: t.CreatedBy,
		Code:      int(t.Code),
		Name:      t.Name,
		GroupCode: int(t.Group),
	}
}
