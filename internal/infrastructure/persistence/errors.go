package persistence

import (
	"errors"

	"github.com/erp/stockledger/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps gorm errors onto domain errors.
// A unique violation means a concurrent writer took the key first.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrConcurrencyConflict.WithCause(err)
	}
	return err
}
