package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	expiresAt time.Time
	page      string
}

// Memory is an in-process Store. MaxItems caps the number of pages kept;
// zero means no cap.
type Memory struct {
	MaxItems int

	mu    sync.RWMutex
	items map[string]entry
	now   func() time.Time
}

func NewMemory(maxItems int) *Memory {
	return &Memory{MaxItems: maxItems, items: make(map[string]entry), now: time.Now}
}

func (m *Memory) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	e, ok := m.items[key]
	m.mu.RUnlock()
	if !ok || !m.clock().Before(e.expiresAt) {
		return "", false, nil
	}
	return e.page, true, nil
}

func (m *Memory) Set(_ context.Context, key, page string, ttl time.Duration) error {
	now := m.clock()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items == nil {
		m.items = make(map[string]entry)
	}
	m.items[key] = entry{expiresAt: now.Add(ttl), page: page}

	if m.MaxItems <= 0 || len(m.items) <= m.MaxItems {
		return nil
	}
	// expired first, then arbitrary keys other than the one just written
	for k, v := range m.items {
		if !now.Before(v.expiresAt) {
			delete(m.items, k)
		}
	}
	for k := range m.items {
		if len(m.items) <= m.MaxItems {
			break
		}
		if k != key {
			delete(m.items, k)
		}
	}
	return nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
