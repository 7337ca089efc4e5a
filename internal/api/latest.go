package api

import (
	"sync"

	"pickupnav/internal/model"
)

// LatestCache keeps the most recent solve record per tenant so
// GET /v1/solutions/latest does not have to page through the store.
type LatestCache struct {
	mu sync.Mutex
	m  map[string]model.SolveRecord // key: tenantId
}

// NewLatestCache constructs a LatestCache.
func NewLatestCache() *LatestCache { return &LatestCache{m: map[string]model.SolveRecord{}} }

// Upsert stores the record as the tenant's latest solve.
func (c *LatestCache) Upsert(rec model.SolveRecord) {
	if rec.TenantID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[rec.TenantID] = rec
}

// Get returns the tenant's latest solve, if any.
func (c *LatestCache) Get(tenantID string) (model.SolveRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.m[tenantID]
	return rec, ok
}
