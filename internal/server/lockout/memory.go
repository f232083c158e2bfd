package lockout

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps lockout state in process memory. State is lost on restart.
type MemoryStore struct {
	mu     sync.Mutex
	states map[Key]State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[Key]State)}
}

func (m *MemoryStore) Load(_ context.Context, key Key) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[key], nil
}

func (m *MemoryStore) Fail(_ context.Context, key Key, now time.Time) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.states[key].Fail(now)
	m.states[key] = s
	return s, nil
}

func (m *MemoryStore) Clear(_ context.Context, key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, key)
	return nil
}

var _ Store = (*MemoryStore)(nil)
