package store

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory is the in-memory Store used in tests and as a fallback when no
// database is configured. Values are kept JSON-encoded so the round-trip
// behaviour matches the SQL store exactly.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
	bus    Bus
}

func NewMemory(bus Bus) *Memory {
	return &Memory{values: make(map[string][]byte), bus: bus}
}

func (m *Memory) Get(ctx context.Context, key string, into any) error {
	m.mu.RLock()
	raw, ok := m.values[key]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(raw, into)
}

func (m *Memory) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.values[key] = raw
	m.mu.Unlock()
	if m.bus != nil {
		m.bus.Publish(key)
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	if m.bus != nil {
		m.bus.Publish(key)
	}
	return nil
}
