package ledger

import (
	"context"

	"github.com/google/uuid"
)

// EntryRepository persists ledger entries
type EntryRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Entry, error)
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Entry, error)

	// FindByNumberForUpdate finds and row-locks the entry of a document
	FindByNumberForUpdate(ctx context.Context, tenantID uuid.UUID, number string) (*Entry, error)

	// Upsert inserts the entry or, when the document number already exists for
	// the tenant, overwrites classification and amount. Returns the stored row.
	Upsert(ctx context.Context, entry *Entry) (*Entry, error)

	// SaveWithLock updates the entry, checking its version
	SaveWithLock(ctx context.Context, entry *Entry) error

	FindAll(ctx context.Context, tenantID uuid.UUID, filter EntryFilter) ([]Entry, int64, error)
}

// NumberRepository reads the last issued document number of a series
type NumberRepository interface {
	// LastNumber returns the most recently issued number of series, or "" if none
	LastNumber(ctx context.Context, tenantID uuid.UUID, series Series) (string, error)
}

// CustomTypeRepository persists tenant-defined ledger types
type CustomTypeRepository interface {
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]CustomType, error)
	Save(ctx context.Context, t *CustomType) error
}
