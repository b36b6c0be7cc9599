package shared

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuantityChange is the before and after quantity of one keyed line
type QuantityChange struct {
	Key    uuid.UUID
	Before decimal.Decimal
	After  decimal.Decimal
}

// Delta returns After - Before
func (c QuantityChange) Delta() decimal.Decimal {
	return c.After.Sub(c.Before)
}

// DiffQuantities pairs two keyed quantity maps. Keys missing on one side
// count as zero there. Unchanged keys are omitted. The result is ordered by
// key so that row locks are always taken in the same order.
func DiffQuantities(before, after map[uuid.UUID]decimal.Decimal) []QuantityChange {
	keys := make(map[uuid.UUID]struct{}, len(before)+len(after))
	for k := range before {
		keys[k] = struct{}{}
	}
	for k := range after {
		keys[k] = struct{}{}
	}

	changes := make([]QuantityChange, 0, len(keys))
	for k := range keys {
		b, a := before[k], after[k]
		if b.Equal(a) {
			continue
		}
		changes = append(changes, QuantityChange{Key: k, Before: b, After: a})
	}
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Key.String() < changes[j].Key.String()
	})
	return changes
}
