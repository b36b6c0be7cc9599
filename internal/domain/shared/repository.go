package shared

import (
	"context"

	"github.com/google/uuid"
)

// DocumentRepository is the persistence contract shared by every document type.
// All lookups are scoped to a tenant.
type DocumentRepository[T any] interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*T, error)
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*T, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter Filter) ([]T, int64, error)

	// Save inserts or updates the document and its lines
	Save(ctx context.Context, doc *T) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
