package staging

import (
	"context"
	"sync"
	"time"

	"github.com/mind-engage/mindengage-quiz/internal/importer"
)

type entry struct {
	rows    []importer.Row
	expires time.Time
}

// Memory is a process-local Stager. Entries are dropped when read after
// expiry and swept on every Stage.
type Memory struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]entry
}

type MemoryOption func(*Memory)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) MemoryOption { return func(m *Memory) { m.now = now } }

func NewMemory(ttl time.Duration, opts ...MemoryOption) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Memory{ttl: ttl, now: time.Now, items: map[string]entry{}}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Memory) Stage(_ context.Context, rows []importer.Row) (string, error) {
	key := newKey()
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for k, e := range m.items {
		if !now.Before(e.expires) {
			delete(m.items, k)
		}
	}
	m.items[key] = entry{rows: cloneRows(rows), expires: now.Add(m.ttl)}
	return key, nil
}

func (m *Memory) Get(_ context.Context, key string) ([]importer.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	if !m.now().Before(e.expires) {
		delete(m.items, key)
		return nil, ErrNotFound
	}
	return cloneRows(e.rows), nil
}

// Take returns the rows and their deadline and removes the entry.
func (m *Memory) Take(_ context.Context, key string) ([]importer.Row, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[key]
	if !ok {
		return nil, time.Time{}, ErrNotFound
	}
	delete(m.items, key)
	if !m.now().Before(e.expires) {
		return nil, time.Time{}, ErrNotFound
	}
	return e.rows, e.expires, nil
}

// Restore puts rows back under key until expires. A deadline already past
// is a no-op.
func (m *Memory) Restore(_ context.Context, key string, rows []importer.Row, expires time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.now().Before(expires) {
		return nil
	}
	m.items[key] = entry{rows: cloneRows(rows), expires: expires}
	return nil
}

// Len reports the number of entries held, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
