package ledger

import (
	"context"
	"time"

	appshared "github.com/erp/stockledger/internal/application/shared"
	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/google/uuid"
)

// Numberer issues PREFIX-YEAR-COUNTER document numbers.
// Callers hold the series lock (see LockKeys) for the whole unit of work so
// that two transactions never read the same last number.
type Numberer struct {
	now func() time.Time
}

// NewNumberer creates a Numberer on the given clock
func NewNumberer(now func() time.Time) *Numberer {
	if now == nil {
		now = time.Now
	}
	return &Numberer{now: now}
}

// Next returns the number following the last one issued in series
func (n *Numberer) Next(ctx context.Context, repos appshared.Repositories, tenantID uuid.UUID, series ledger.Series) (string, error) {
	now := n.now()
	last, err := repos.NumberRepo().LastNumber(ctx, tenantID, series)
	if err != nil {
		return "", err
	}
	if last == "" {
		last = ledger.Seed(series, now)
	}
	return ledger.Next(last, now)
}

// LockKeys returns the lock keys serializing the given series of a tenant
func LockKeys(tenantID uuid.UUID, series ...ledger.Series) []string {
	keys := make([]string, len(series))
	for i, s := range series {
		keys[i] = appshared.NumberLockKey(tenantID, string(s))
	}
	return keys
}
