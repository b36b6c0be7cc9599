package shared

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffQuantities(t *testing.T) {
	kept := uuid.New()
	changed := uuid.New()
	removed := uuid.New()
	added := uuid.New()

	before := map[uuid.UUID]decimal.Decimal{
		kept:    decimal.NewFromInt(5),
		changed: decimal.NewFromInt(5),
		removed: decimal.NewFromInt(2),
	}
	after := map[uuid.UUID]decimal.Decimal{
		kept:    decimal.NewFromInt(5),
		changed: decimal.NewFromInt(8),
		added:   decimal.NewFromInt(1),
	}

	changes := DiffQuantities(before, after)
	require.Len(t, changes, 3)

	byKey := map[uuid.UUID]QuantityChange{}
	for i, c := range changes {
		byKey[c.Key] = c
		if i > 0 {
			assert.Less(t, changes[i-1].Key.String(), c.Key.String())
		}
	}
	assert.True(t, byKey[changed].Delta().Equal(decimal.NewFromInt(3)))
	assert.True(t, byKey[removed].Delta().Equal(decimal.NewFromInt(-2)))
	assert.True(t, byKey[added].Delta().Equal(decimal.NewFromInt(1)))
	_, ok := byKey[kept]
	assert.False(t, ok)
}
