package guru

import (
	"context"
	"sync"
	"time"
)

const snapshotTTL = 30 * time.Minute

// SnapshotCache guarda o último snapshot calculado de cada aluno. Get devolve
// (nil, nil) quando não há entrada válida.
type SnapshotCache interface {
	Get(ctx context.Context, learnerID int64) (*Snapshot, error)
	Put(ctx context.Context, learnerID int64, snapshot *Snapshot, ttl time.Duration) error
	Invalidate(ctx context.Context, learnerID int64) error
}

type memoryEntry struct {
	snapshot  Snapshot
	expiresAt time.Time
}

// MemoryCache é a implementação em memória, usada quando o Redis não está
// configurado e nos testes.
type MemoryCache struct {
	entries map[int64]memoryEntry
	mu      sync.RWMutex
}

func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		entries: make(map[int64]memoryEntry),
	}
	go c.cleanupExpiredEntries()
	return c
}

func (c *MemoryCache) Get(ctx context.Context, learnerID int64) (*Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[learnerID]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, nil
	}
	snapshot := entry.snapshot
	return &snapshot, nil
}

func (c *MemoryCache) Put(ctx context.Context, learnerID int64, snapshot *Snapshot, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[learnerID] = memoryEntry{
		snapshot:  *snapshot,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (c *MemoryCache) Invalidate(ctx context.Context, learnerID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, learnerID)
	return nil
}

func (c *MemoryCache) cleanupExpiredEntries() {
	ticker := time.NewTicker(snapshotTTL / 2)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for learnerID, entry := range c.entries {
			if now.After(entry.expiresAt) {
				delete(c.entries, learnerID)
			}
		}
		c.mu.Unlock()
	}
}
