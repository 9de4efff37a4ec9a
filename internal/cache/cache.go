// Package cache provides the tag-keyed view cache that action handlers
// invalidate after a successful mutation so subsequent reads re-fetch from
// the database.
package cache

import (
	"context"
	"sync"
	"time"
)

// Store is the view cache contract. Keys are opaque tags built with Tag.
type Store interface {
	Get(ctx context.Context, tag string) ([]byte, bool, error)
	Set(ctx context.Context, tag string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, tags ...string) error
}

// Tag builds the cache tag for one payer-scoped view, e.g.
// Tag("abc123", "healthPlans").
func Tag(payerPubID, view string) string {
	return "payer:" + payerPubID + ":" + view
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process Store for tests and single-node deployments.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory builds an empty in-process store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *Memory) Get(_ context.Context, tag string) ([]byte, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[tag]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		m.mu.Lock()
		// A Set may have refreshed the tag after the read lock was dropped;
		// only evict the entry this Get observed expiring.
		if current, still := m.entries[tag]; still && current.expiresAt.Equal(entry.expiresAt) {
			delete(m.entries, tag)
		}
		m.mu.Unlock()
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (m *Memory) Set(_ context.Context, tag string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[tag] = entry
	m.mu.Unlock()
	return nil
}

func (m *Memory) Invalidate(_ context.Context, tags ...string) error {
	m.mu.Lock()
	for _, tag := range tags {
		delete(m.entries, tag)
	}
	m.mu.Unlock()
	return nil
}
