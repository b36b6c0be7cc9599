// Package models holds the gorm persistence models and their conversions to
// and from domain aggregates. Domain types never carry gorm tags.
package models

import (
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// PrimaryKey returns the row id
func (m BaseModel) PrimaryKey() uuid.UUID {
	return m.ID
}

// TenantAggregateModel carries the fields of a tenant-owned aggregate root.
// Version backs optimistic locking.
type TenantAggregateModel struct {
	BaseModel
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Version   int        `gorm:"not null;default:1"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
}

// FromDomainRoot populates the model from a domain aggregate root
func (m *TenantAggregateModel) FromDomainRoot(r shared.TenantAggregateRoot) {
	m.ID = r.ID
	m.CreatedAt = r.CreatedAt
	m.UpdatedAt = r.UpdatedAt
	m.TenantID = r.TenantID
	m.Version = r.Version
	m.CreatedBy = r.CreatedBy
}

// ToDomainRoot converts the model back to a domain aggregate root
func (m *TenantAggregateModel) ToDomainRoot() shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Version:   m.Version,
		TenantID:  m.TenantID,
		CreatedBy: m.CreatedBy,
	}
}

// DocumentModel carries the fields shared by every numbered document.
// (tenant_id, document_number) is unique; the composite tag names the index
// after each embedding table.
type DocumentModel struct {
	BaseModel
	TenantID       uuid.UUID  `gorm:"type:uuid;not null;index:,unique,composite:tenant_number,priority:1"`
	Version        int        `gorm:"not null;default:1"`
	CreatedBy      *uuid.UUID `gorm:"type:uuid"`
	DocumentNumber string     `gorm:"type:varchar(64);not null;index:,unique,composite:tenant_number,priority:2"`
	DocumentDate   time.Time  `gorm:"not null"`
	Status         string     `gorm:"type:varchar(16);not null;default:open;index"`
	Note           string     `gorm:"type:text"`
}

// FromDomainDocument populates the model from a domain document
func (m *DocumentModel) FromDomainDocument(d shared.Document) {
	m.ID = d.ID
	m.CreatedAt = d.CreatedAt
	m.UpdatedAt = d.UpdatedAt
	m.TenantID = d.TenantID
	m.Version = d.Version
	m.CreatedBy = d.CreatedBy
	m.DocumentNumber = d.DocumentNumber
	m.DocumentDate = d.DocumentDate
	m.Status = string(d.Status)
	m.Note = d.Note
}

// ToDomainDocument converts the model back to a domain document
func (m *DocumentModel) ToDomainDocument() shared.Document {
	return shared.Document{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version:   m.Version,
			TenantID:  m.TenantID,
			CreatedBy: m.CreatedBy,
		},
		DocumentNumber: m.DocumentNumber,
		DocumentDate:   m.DocumentDate,
		Status:         shared.DocumentStatus(m.Status),
		Note:           m.Note,
	}
}

// nullableDate maps the zero time to NULL
func nullableDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func fromNullableDate(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// rootFromColumns rebuilds a domain root for models that declare their
// tenant columns explicitly to include them in a composite natural key
func rootFromColumns(b BaseModel, tenantID uuid.UUID, version int, createdBy *uuid.UUID) shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		BaseEntity: shared.BaseEntity{ID: b.ID, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt},
		Version:    version,
		TenantID:   tenantID,
		CreatedBy:  createdBy,
	}
}

func baseFromRoot(r shared.TenantAggregateRoot) BaseModel {
	return BaseModel{ID: r.ID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}
