package adapter

import (
	"context"
	"sync"
	"time"

	"certprep/internal/domain"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryCacheAdapter is a process-scoped implementation of domain.Cache.
// It backs the import CLI, which runs without a Redis server, and keeps
// resolved media URLs for the lifetime of the process only.
type MemoryCacheAdapter struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryCacheAdapter creates a new in-memory cache.
func NewMemoryCacheAdapter() domain.Cache {
	return &MemoryCacheAdapter{entries: make(map[string]memoryEntry)}
}

// Get retrieves an item from the cache. Expired entries are treated as misses
// and removed lazily.
func (m *MemoryCacheAdapter) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return "", domain.ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return "", domain.ErrCacheMiss
	}
	return entry.value, nil
}

// Set adds an item to the cache. A zero expiration means the entry never
// expires within the process lifetime.
func (m *MemoryCacheAdapter) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	entry := memoryEntry{value: value}
	if expiration > 0 {
		entry.expiresAt = time.Now().Add(expiration)
	}
	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

// Delete removes an item from the cache.
func (m *MemoryCacheAdapter) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Ping always succeeds for the in-memory cache.
func (m *MemoryCacheAdapter) Ping(ctx context.Context) error {
	return nil
}
