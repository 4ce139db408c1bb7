package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rentworks/backend/internal/domain/report"
)

type snapshotEntry struct {
	snapshot  *report.CustomerFinancialSnapshot
	expiresAt time.Time
}

// InMemorySnapshotCache caches financial snapshots in a map with TTL.
// Suitable for single-instance deployments and testing.
type InMemorySnapshotCache struct {
	mu      sync.RWMutex
	entries map[string]snapshotEntry
	ttl     time.Duration
}

// NewInMemorySnapshotCache creates a new in-memory snapshot cache
func NewInMemorySnapshotCache(ttl time.Duration) *InMemorySnapshotCache {
	return &InMemorySnapshotCache{
		entries: make(map[string]snapshotEntry),
		ttl:     ttl,
	}
}

// Get returns the cached snapshot for the key, if present and not expired
func (c *InMemorySnapshotCache) Get(ctx context.Context, key string) (*report.CustomerFinancialSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[key]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.snapshot, true
}

// Set stores a snapshot under the key with the configured TTL
func (c *InMemorySnapshotCache) Set(ctx context.Context, key string, snapshot *report.CustomerFinancialSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = snapshotEntry{
		snapshot:  snapshot,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// InvalidateCustomer drops every cached snapshot for the customer. Keys are
// prefixed with the customer id, so this is a prefix sweep.
func (c *InMemorySnapshotCache) InvalidateCustomer(ctx context.Context, customerID uuid.UUID) error {
	prefix := "snapshot:" + customerID.String() + ":"

	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

// InvalidateAll drops every cached snapshot
func (c *InMemorySnapshotCache) InvalidateAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]snapshotEntry)
	return nil
}
