package persistence

import (
	"context"

	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEntryRepository implements ledger.EntryRepository using GORM
type GormEntryRepository struct {
	db *gorm.DB
}

// NewGormEntryRepository creates a new GormEntryRepository
func NewGormEntryRepository(db *gorm.DB) *GormEntryRepository {
	return &GormEntryRepository{db: db}
}

func (r *GormEntryRepository) first(query *gorm.DB) (*ledger.Entry, error) {
	var m models.LedgerEntryModel
	if err := query.First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindByID finds an entry within a tenant
func (r *GormEntryRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Entry, error) {
	return r.first(r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id))
}

// FindByNumber finds the entry of a document
func (r *GormEntryRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*ledger.Entry, error) {
	return r.first(r.db.WithContext(ctx).Where("tenant_id = ? AND document_number = ?", tenantID, number))
}

// FindByNumberForUpdate finds and row-locks the entry of a document
func (r *GormEntryRepository) FindByNumberForUpdate(ctx context.Context, tenantID uuid.UUID, number string) (*ledger.Entry, error) {
	return r.first(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND document_number = ?", tenantID, number))
}

// Upsert inserts the entry or overwrites classification and amount of the
// existing entry for the same document number. Status is left as stored.
func (r *GormEntryRepository) Upsert(ctx context.Context, entry *ledger.Entry) (*ledger.Entry, error) {
	m := models.LedgerEntryModelFromDomain(entry)
	updates := clause.AssignmentColumns([]string{"group_code", "type_code", "head_code", "amount", "recorded_at", "updated_at"})
	updates = append(updates, clause.Assignment{
		Column: clause.Column{Name: "version"},
		Value:  gorm.Expr("ledger_entries.version + 1"),
	})

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "document_number"}},
			DoUpdates: updates,
		}).
		Create(m).Error; err != nil {
		return nil, translateError(err)
	}
	return r.FindByNumber(ctx, entry.TenantID, entry.DocumentNumber)
}

// SaveWithLock updates the entry, checking its version.
// The version must already be incremented.
func (r *GormEntryRepository) SaveWithLock(ctx context.Context, entry *ledger.Entry) error {
	m := models.LedgerEntryModelFromDomain(entry)
	result := r.db.WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Where("tenant_id = ? AND id = ? AND version = ?", entry.TenantID, entry.ID, entry.Version-1).
		Updates(map[string]any{
			"group_code": m.GroupCode,
			"type_code":  m.TypeCode,
			"head_code":  m.HeadCode,
			"amount":     m.Amount,
			"status":     m.Status,
			"version":    m.Version,
			"updated_at": m.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict.WithMessage("ledger entry %s was modified by another transaction", entry.DocumentNumber)
	}
	return nil
}

// FindAll lists entries matching the filter
func (r *GormEntryRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter ledger.EntryFilter) ([]ledger.Entry, int64, error) {
	filter.Filter = filter.Normalize()
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}).Where("tenant_id = ?", tenantID)
		if filter.Group != nil {
			q = q.Where("group_code = ?", int(*filter.Group))
		}
		if filter.Type != nil {
			q = q.Where("type_code = ?", int(*filter.Type))
		}
		if filter.Head != nil {
			q = q.Where("head_code = ?", int(*filter.Head))
		}
		if filter.Status != nil {
			q = q.Where("status = ?", int(*filter.Status))
		}
		if filter.From != nil {
			q = q.Where("recorded_at >= ?", *filter.From)
		}
		if filter.To != nil {
			q = q.Where("recorded_at <= ?", *filter.To)
		}
		if filter.Search != "" {
			q = q.Where("LOWER(document_number) LIKE ?", likePattern(filter.Search))
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.LedgerEntryModel
	if err := applyPage(scoped(), filter.Filter, EntrySortFields).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	entries := make([]ledger.Entry, len(rows))
	for i := range rows {
		entries[i] = *rows[i].ToDomain()
	}
	return entries, total, nil
}

var _ ledger.EntryRepository = (*GormEntryRepository)(nil)
