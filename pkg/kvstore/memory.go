package kvstore

import (
	"context"
	"sync"
)

// Memory is an in-process Store. Each instance is its own isolated slot space.
type Memory struct {
	mu    sync.RWMutex
	items map[string][]byte
	// failSet, when non-nil, is returned from Set; tests use it to simulate
	// storage faults.
	failSet error
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string][]byte)}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("get", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return unavailable("set", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet != nil {
		return m.failSet
	}
	m.items[key] = append([]byte(nil), value...)
	return nil
}

// FailWrites makes every following Set return err; nil restores normal writes.
func (m *Memory) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSet = err
}
