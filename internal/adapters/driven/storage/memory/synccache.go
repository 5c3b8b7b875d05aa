package memory

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/custodia-labs/askwork/internal/core/domain"
	"github.com/custodia-labs/askwork/internal/core/ports/driven"
)

// Ensure SyncResultCache implements the interface.
var _ driven.SyncResultCache = (*SyncResultCache)(nil)

// defaultCacheSize bounds the number of requesters remembered at once.
const defaultCacheSize = 1024

// SyncResultCache keeps each requester's last sync result for a fixed TTL.
type SyncResultCache struct {
	lru *expirable.LRU[string, *domain.SyncResult]
}

// NewSyncResultCache creates a cache whose entries expire after ttl.
// A non-positive ttl uses domain.SyncResultTTL.
func NewSyncResultCache(ttl time.Duration) *SyncResultCache {
	if ttl <= 0 {
		ttl = domain.SyncResultTTL
	}
	return &SyncResultCache{
		lru: expirable.NewLRU[string, *domain.SyncResult](defaultCacheSize, nil, ttl),
	}
}

// Get returns the cached result if it has not expired.
func (c *SyncResultCache) Get(requesterID string) (*domain.SyncResult, bool) {
	return c.lru.Get(requesterID)
}

// Put stores a result for the requester, restarting its TTL.
func (c *SyncResultCache) Put(requesterID string, result *domain.SyncResult) {
	c.lru.Add(requesterID, result)
}

// Invalidate drops the requester's cached result.
func (c *SyncResultCache) Invalidate(requesterID string) {
	c.lru.Remove(requesterID)
}

// Purge drops every cached result.
func (c *SyncResultCache) Purge() {
	c.lru.Purge()
}

// Len returns the number of live entries.
func (c *SyncResultCache) Len() int {
	return c.lru.Len()
}
