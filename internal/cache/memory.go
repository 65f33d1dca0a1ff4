package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process TTL cache with LRU eviction past maxEntries.
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]*memEntry
	maxEntries int

	stopCh   chan struct{}
	stopOnce sync.Once
}

type memEntry struct {
	value    []byte
	expires  time.Time
	accessed time.Time
}

// NewMemory creates a memory cache holding at most maxEntries values.
// A background goroutine sweeps expired entries once a minute until
// Stop is called.
func NewMemory(maxEntries int) *Memory {
	m := &Memory{
		entries:    make(map[string]*memEntry),
		maxEntries: maxEntries,
		stopCh:     make(chan struct{}),
	}
	go m.sweep()
	return m
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok || time.Now().After(e.expires) {
		return nil, false
	}
	e.accessed = time.Now()
	return e.value, true
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[key]; !ok && len(m.entries) >= m.maxEntries {
		m.evictOldest()
	}
	m.entries[key] = &memEntry{
		value:    value,
		expires:  time.Now().Add(ttl),
		accessed: time.Now(),
	}
}

func (m *Memory) Delete(_ context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Stop shuts down the sweep goroutine.
func (m *Memory) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// evictOldest removes the least recently accessed entry. Caller holds
// the write lock.
func (m *Memory) evictOldest() {
	var oldestKey string
	oldest := time.Now()
	for k, e := range m.entries {
		if e.accessed.Before(oldest) {
			oldest = e.accessed
			oldestKey = k
		}
	}
	if oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}

func (m *Memory) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.mu.Lock()
			now := time.Now()
			for k, e := range m.entries {
				if now.After(e.expires) {
					delete(m.entries, k)
				}
			}
			m.mu.Unlock()
		}
	}
}
