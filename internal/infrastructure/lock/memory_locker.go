package lock

import (
	"context"
	"sync"

	appshared "github.com/erp/stockledger/internal/application/shared"
)

// MemoryLocker is an in-process keyed mutex. Entries are dropped once no
// goroutine holds or waits for their key.
type MemoryLocker struct {
	mu   sync.Mutex
	keys map[string]*keyEntry
}

type keyEntry struct {
	sem  chan struct{}
	refs int
}

// NewMemoryLocker creates an empty MemoryLocker
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{keys: make(map[string]*keyEntry)}
}

// Obtain blocks until key is free or ctx ends
func (l *MemoryLocker) Obtain(ctx context.Context, key string) (appshared.Lock, error) {
	l.mu.Lock()
	e, ok := l.keys[key]
	if !ok {
		e = &keyEntry{sem: make(chan struct{}, 1)}
		l.keys[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
		return &memoryLock{owner: l, key: key, entry: e}, nil
	case <-ctx.Done():
		l.unref(key, e)
		return nil, ctx.Err()
	}
}

func (l *MemoryLocker) unref(key string, e *keyEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.keys, key)
	}
}

// size reports the number of tracked keys
func (l *MemoryLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.keys)
}

type memoryLock struct {
	owner *MemoryLocker
	key   string
	entry *keyEntry
	once  sync.Once
}

// Release frees the lock; releasing twice is a no-op
func (m *memoryLock) Release(context.Context) error {
	m.once.Do(func() {
		<-m.entry.sem
		m.owner.unref(m.key, m.entry)
	})
	return nil
}

var _ appshared.Locker = (*MemoryLocker)(nil)
