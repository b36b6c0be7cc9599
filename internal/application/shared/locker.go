package shared

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Lock is a held exclusive lock
type Lock interface {
	Release(ctx context.Context) error
}

// Locker hands out exclusive locks by key. Obtain blocks until the lock is
// held, the context ends, or the implementation gives up; giving up is
// reported as a retryable concurrency conflict.
type Locker interface {
	Obtain(ctx context.Context, key string) (Lock, error)
}

// NumberLockKey is the lock key serializing one tenant's number series
func NumberLockKey(tenantID uuid.UUID, series string) string {
	return fmt.Sprintf("ledger:number:%s:%s", tenantID, series)
}
