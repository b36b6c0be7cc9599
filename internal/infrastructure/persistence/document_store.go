package persistence

import (
	"context"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// documentModel is a gorm model that converts to the domain document D
type documentModel[D any, M any] interface {
	*M
	ToDomain() *D
	PrimaryKey() uuid.UUID
}

// lineSpec describes the child rows stored with a document
type lineSpec[M any] struct {
	newModel   func() any
	foreignKey string
	ids        func(*M) []uuid.UUID
	rows       func(*M) any
}

// documentStore implements shared.DocumentRepository for one document table.
// Repositories embed it and add their own finders.
type documentStore[D any, M any, PM documentModel[D, M]] struct {
	db      *gorm.DB
	toModel func(*D) *M
	lines   *lineSpec[M]
	// equality filters accepted from Filter.Filters, by column name
	filterColumns []string
}

func (s *documentStore[D, M, PM]) scoped(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	q := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if s.lines != nil {
		q = q.Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
	}
	return q
}

func (s *documentStore[D, M, PM]) findOne(ctx context.Context, tenantID uuid.UUID, lock bool, query string, args ...any) (*D, error) {
	var m M
	q := s.scoped(ctx, tenantID).Where(query, args...)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return PM(&m).ToDomain(), nil
}

// FindByID finds a document by ID within a tenant
func (s *documentStore[D, M, PM]) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*D, error) {
	return s.findOne(ctx, tenantID, false, "id = ?", id)
}

// FindByIDForUpdate finds and row-locks a document
func (s *documentStore[D, M, PM]) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*D, error) {
	return s.findOne(ctx, tenantID, true, "id = ?", id)
}

// FindByNumber finds a document by its number within a tenant
func (s *documentStore[D, M, PM]) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*D, error) {
	return s.findOne(ctx, tenantID, false, "document_number = ?", number)
}

// FindAll lists documents of a tenant with the total matching count
func (s *documentStore[D, M, PM]) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]D, int64, error) {
	filter = filter.Normalize()

	var total int64
	if err := s.applyFilter(s.db.WithContext(ctx).Model(new(M)).Where("tenant_id = ?", tenantID), filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []M
	query := applyPage(s.applyFilter(s.scoped(ctx, tenantID), filter), filter, DocumentSortFields)
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	docs := make([]D, len(rows))
	for i := range rows {
		docs[i] = *PM(&rows[i]).ToDomain()
	}
	return docs, total, nil
}

func (s *documentStore[D, M, PM]) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(document_number) LIKE ? OR LOWER(note) LIKE ?)", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "from":
			if t, ok := value.(time.Time); ok {
				query = query.Where("document_date >= ?", t)
			}
		case "to":
			if t, ok := value.(time.Time); ok {
				query = query.Where("document_date <= ?", t)
			}
		default:
			for _, column := range s.filterColumns {
				if column == key {
					query = query.Where(column+" = ?", value)
				}
			}
		}
	}
	return query
}

// Save creates or updates a document and replaces its lines
func (s *documentStore[D, M, PM]) Save(ctx context.Context, doc *D) error {
	m := s.toModel(doc)
	return translateError(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(m).Error; err != nil {
			return err
		}
		if s.lines == nil {
			return nil
		}

		// Delete lines not in the current list
		ids := s.lines.ids(m)
		del := tx.Where(s.lines.foreignKey+" = ?", PM(m).PrimaryKey())
		if len(ids) > 0 {
			del = del.Where("id NOT IN ?", ids)
		}
		if err := del.Delete(s.lines.newModel()).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Save(s.lines.rows(m)).Error
	}))
}

// Delete removes a document and its lines
func (s *documentStore[D, M, PM]) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return translateError(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.lines != nil {
			if err := tx.Where(s.lines.foreignKey+" = ?", id).Delete(s.lines.newModel()).Error; err != nil {
				return err
			}
		}
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(new(M))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	}))
}

func (s *documentStore[D, M, PM]) count(ctx context.Context, tenantID uuid.UUID, query string, args ...any) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(new(M)).
		Where("tenant_id = ?", tenantID).
		Where(query, args...).
		Count(&n).Error
	return n, err
}
