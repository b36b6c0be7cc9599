package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// Touch bumps the update timestamp
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TenantAggregateRoot is the root of every tenant-owned aggregate.
// Version is used for optimistic locking on save.
type TenantAggregateRoot struct {
	BaseEntity
	Version   int
	TenantID  uuid.UUID
	CreatedBy *uuid.UUID
}

// GetVersion returns the aggregate version
func (a *TenantAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *TenantAggregateRoot) IncrementVersion() {
	a.Version++
}

// BelongsTo reports whether the aggregate is owned by tenantID
func (a *TenantAggregateRoot) BelongsTo(tenantID uuid.UUID) bool {
	return a.TenantID == tenantID
}

// NewTenantAggregateRoot creates a new tenant-scoped aggregate root
func NewTenantAggregateRoot(actor Actor) TenantAggregateRoot {
	root := TenantAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
		TenantID:   actor.TenantID,
	}
	if actor.UserID != uuid.Nil {
		createdBy := actor.UserID
		root.CreatedBy = &createdBy
	}
	return root
}
