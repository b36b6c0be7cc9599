package stock

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestIdentity(t *testing.T) {
	unitID := uuid.MustParse("6f1c2a8e-1b2d-4c3e-9f00-112233445566")
	expiry := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	t.Run("formats unit, lot, pack size and expiry", func(t *testing.T) {
		got := Identity(unitID, "LOT7", decimal.NewFromInt(12), expiry)
		assert.Equal(t, "6f1c2a8e-1b2d-4c3e-9f00-112233445566-LOT7-12.00-2025-03-31", got)
	})

	t.Run("is deterministic", func(t *testing.T) {
		a := Identity(unitID, "LOT7", decimal.RequireFromString("2.5"), expiry)
		b := Identity(unitID, "LOT7", decimal.RequireFromString("2.5"), expiry)
		assert.Equal(t, a, b)
	})

	t.Run("differs when any argument differs", func(t *testing.T) {
		base := Identity(unitID, "LOT7", decimal.NewFromInt(12), expiry)

		assert.NotEqual(t, base, Identity(uuid.New(), "LOT7", decimal.NewFromInt(12), expiry))
		assert.NotEqual(t, base, Identity(unitID, "LOT8", decimal.NewFromInt(12), expiry))
		assert.NotEqual(t, base, Identity(unitID, "LOT7", decimal.NewFromInt(6), expiry))
		assert.NotEqual(t, base, Identity(unitID, "LOT7", decimal.NewFromInt(12), expiry.AddDate(0, 0, 1)))
	})

	t.Run("pack sizes equal to two decimals collide", func(t *testing.T) {
		a := Identity(unitID, "L", decimal.RequireFromString("1.001"), expiry)
		b := Identity(unitID, "L", decimal.RequireFromString("1.00"), expiry)
		assert.Equal(t, a, b)
	})

	t.Run("ignores time of day on expiry", func(t *testing.T) {
		a := Identity(unitID, "L", decimal.NewFromInt(1), expiry)
		b := Identity(unitID, "L", decimal.NewFromInt(1), expiry.Add(15*time.Hour))
		assert.Equal(t, a, b)
	})

	t.Run("missing expiry leaves trailing field empty", func(t *testing.T) {
		got := Identity(unitID, "L", decimal.NewFromInt(1), time.Time{})
		assert.Equal(t, unitID.String()+"-L-1.00-", got)
	})
}
