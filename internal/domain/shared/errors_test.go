package shared

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_Is(t *testing.T) {
	t.Run("matches sentinel by code", func(t *testing.T) {
		err := ErrNotFound.WithMessage("lot %s not found", "abc")

		assert.True(t, errors.Is(err, ErrNotFound))
		assert.False(t, errors.Is(err, ErrInsufficientStock))
		assert.Equal(t, "lot abc not found", err.Error())
	})

	t.Run("matches through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("merge failed: %w", ErrIntegrityFault)

		assert.True(t, errors.Is(err, ErrIntegrityFault))
		assert.Equal(t, CodeIntegrityFault, CodeOf(err))
	})

	t.Run("keeps cause", func(t *testing.T) {
		cause := errors.New("duplicate key")
		err := ErrConcurrencyConflict.WithCause(cause)

		assert.ErrorIs(t, err, cause)
		assert.ErrorIs(t, err, ErrConcurrencyConflict)
		assert.Contains(t, err.Error(), "duplicate key")
	})

	t.Run("sentinels are not mutated by copies", func(t *testing.T) {
		_ = ErrNotFound.WithMessage("something else")
		assert.Equal(t, "Resource not found", ErrNotFound.Message)
	})
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrConcurrencyConflict))
	assert.True(t, IsRetryable(fmt.Errorf("wrapped: %w", ErrConcurrencyConflict.WithMessage("lot changed"))))
	assert.False(t, IsRetryable(ErrIntegrityFault))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("invalid receipt",
		FieldError{Field: "lines[0].quantity", Message: "must be positive"},
		FieldError{Field: "warehouse_id", Message: "is required"},
	)

	require.Len(t, err.Details, 2)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "lines[0].quantity", err.Details[0].Field)
}

func TestActor_Validate(t *testing.T) {
	assert.ErrorIs(t, Actor{}.Validate(), ErrTenantRequired)
	assert.NoError(t, NewActor(uuid.New(), uuid.Nil).Validate())
}

func TestNewTenantAggregateRoot(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("records creator", func(t *testing.T) {
		root := NewTenantAggregateRoot(NewActor(tenantID, userID))

		assert.Equal(t, tenantID, root.TenantID)
		assert.Equal(t, 1, root.Version)
		require.NotNil(t, root.CreatedBy)
		assert.Equal(t, userID, *root.CreatedBy)
		assert.True(t, root.BelongsTo(tenantID))
	})

	t.Run("system actor has no creator", func(t *testing.T) {
		root := NewTenantAggregateRoot(NewActor(tenantID, uuid.Nil))
		assert.Nil(t, root.CreatedBy)
	})
}

func TestDocument_StateMachine(t *testing.T) {
	actor := NewActor(uuid.New(), uuid.New())

	t.Run("open document is editable and closable", func(t *testing.T) {
		doc := NewDocument(actor, "PUR_REC-2024-1", time.Time{})

		assert.Equal(t, DocumentStatusOpen, doc.Status)
		assert.False(t, doc.DocumentDate.IsZero())
		assert.NoError(t, doc.EnsureEditable())
		require.NoError(t, doc.Close())
		assert.Equal(t, DocumentStatusClosed, doc.Status)
	})

	t.Run("closed document rejects edits but allows delete", func(t *testing.T) {
		doc := NewDocument(actor, "INV-2024-3", time.Now())
		require.NoError(t, doc.Close())

		assert.ErrorIs(t, doc.EnsureEditable(), ErrInvalidState)
		assert.NoError(t, doc.EnsureDeletable())
		assert.ErrorIs(t, doc.Cancel(), ErrInvalidState)
		require.NoError(t, doc.Reopen())
		assert.NoError(t, doc.EnsureEditable())
	})

	t.Run("cancelled document is terminal", func(t *testing.T) {
		doc := NewDocument(actor, "TRF-2024-9", time.Now())
		require.NoError(t, doc.Cancel())

		assert.ErrorIs(t, doc.EnsureEditable(), ErrInvalidState)
		assert.ErrorIs(t, doc.EnsureDeletable(), ErrInvalidState)
		assert.ErrorIs(t, doc.Close(), ErrInvalidState)
	})
}

func TestFilter_Normalize(t *testing.T) {
	f := Filter{Page: 0, PageSize: 500, OrderDir: "sideways"}.Normalize()

	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 100, f.PageSize)
	assert.Equal(t, "desc", f.OrderDir)
	assert.Equal(t, 0, f.Offset())
	assert.NotNil(t, f.Filters)

	p := NewPaginated([]int{1, 2, 3}, 41, 2, 20)
	assert.Equal(t, 3, p.TotalPages)
}
