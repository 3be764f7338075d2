package cookie

import (
	"sync"
	"time"
)

// MemoryStore is an in-memory Store with per-key expiry. It is used in
// tests and in applications that only want "remember me" for the
// lifetime of the process.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value   string
	expires time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (m *MemoryStore) Set(key, value string, expires time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{value: value, expires: expires}
}

// Get returns the stored value, or an empty string when the key is
// absent or its expiry has passed. Expired entries are removed lazily.
func (m *MemoryStore) Get(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return ""
	}
	if time.Now().After(e.expires) {
		delete(m.entries, key)
		return ""
	}
	return e.value
}

func (m *MemoryStore) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}
