package project

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory project store for testing and for
// sessions that opt out of durability. Data is lost on process exit.
type MemoryStore struct {
	mu      sync.RWMutex
	data    map[string]storedProject
	current string
	hasCur  bool
	closed  bool
}

type storedProject struct {
	data      []byte
	updatedAt time.Time
}

// NewMemoryStore creates a new in-memory project store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]storedProject)}
}

// SaveProject implements Store.
func (m *MemoryStore) SaveProject(id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	// Copy to avoid retaining the caller's slice
	stored := make([]byte, len(data))
	copy(stored, data)

	m.data[id] = storedProject{data: stored, updatedAt: time.Now().UTC()}
	return nil
}

// LoadProject implements Store.
func (m *MemoryStore) LoadProject(id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	p, ok := m.data[id]
	if !ok {
		return nil, ErrNotFound
	}

	out := make([]byte, len(p.data))
	copy(out, p.data)
	return out, nil
}

// ListProjects implements Store.
func (m *MemoryStore) ListProjects() ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	infos := make([]Info, 0, len(m.data))
	for id, p := range m.data {
		infos = append(infos, Info{ID: id, UpdatedAt: p.updatedAt, Size: int64(len(p.data))})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

// DeleteProject implements Store.
func (m *MemoryStore) DeleteProject(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.data, id)
	return nil
}

// SaveCurrent implements Store.
func (m *MemoryStore) SaveCurrent(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	m.current = id
	m.hasCur = true
	return nil
}

// LoadCurrent implements Store.
func (m *MemoryStore) LoadCurrent() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", ErrStoreClosed
	}
	if !m.hasCur {
		return "", ErrNotFound
	}
	return m.current, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.data = nil
	return nil
}

// Len returns the number of stored snapshots. Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
