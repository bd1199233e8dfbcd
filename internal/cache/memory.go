// memory.go provides the in-process cache backend. Each replica holds an
// independent cache; cross-replica coherence is out of scope and handled,
// when needed, by switching to the Valkey backend.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// memEntry pairs a cached response with its expiry deadline. Expiry is
// passive: checked on read, with a periodic sweep to bound memory.
type memEntry struct {
	entry     Entry
	expiresAt time.Time
}

// Memory is a concurrency-safe in-process cache backend.
type Memory struct {
	entries *xsync.MapOf[string, memEntry]
}

// NewMemory creates an empty in-process backend.
func NewMemory() *Memory {
	return &Memory{entries: xsync.NewMapOf[string, memEntry]()}
}

// Get returns the entry for key if present and not expired. Expired
// entries are removed on sight.
func (m *Memory) Get(_ context.Context, key string) (Entry, bool) {
	e, ok := m.entries.Load(key)
	if !ok {
		return Entry{}, false
	}
	if time.Now().After(e.expiresAt) {
		m.entries.Delete(key)
		return Entry{}, false
	}
	return e.entry, true
}

// Set stores an entry with the given TTL. Non-positive TTLs are ignored.
func (m *Memory) Set(_ context.Context, key string, e Entry, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.entries.Store(key, memEntry{entry: e, expiresAt: time.Now().Add(ttl)})
}

// DeletePrefix removes every entry whose key starts with prefix.
func (m *Memory) DeletePrefix(_ context.Context, prefix string) {
	m.entries.Range(func(key string, _ memEntry) bool {
		if strings.HasPrefix(key, prefix) {
			m.entries.Delete(key)
		}
		return true
	})
}

// Len returns the number of stored entries, including not-yet-swept
// expired ones.
func (m *Memory) Len() int {
	return m.entries.Size()
}

// StartSweeper launches a goroutine that periodically drops expired
// entries, bounding memory between reads. It stops when ctx is cancelled.
func (m *Memory) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				now := time.Now()
				m.entries.Range(func(key string, e memEntry) bool {
					if now.After(e.expiresAt) {
						m.entries.Delete(key)
					}
					return true
				})
			}
		}
	}()
}
