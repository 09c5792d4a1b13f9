package jobs

import (
	"sync"
	"time"
)

// DefaultProgressRefresh is the minimum interval between store reads when the
// caller does not configure one.
const DefaultProgressRefresh = 500 * time.Millisecond

// ProgressCache decouples a high-frequency poller from lock contention on the
// store: snapshots are refreshed at most once per interval, and each snapshot
// is internally consistent because the store copies under one lock.
type ProgressCache struct {
	store    *Store
	interval time.Duration

	mu      sync.Mutex
	jobs    []Job
	counts  Counts
	takenAt time.Time
}

// NewProgressCache wraps a store with a refresh interval.
func NewProgressCache(store *Store, interval time.Duration) *ProgressCache {
	if interval <= 0 {
		interval = DefaultProgressRefresh
	}
	return &ProgressCache{store: store, interval: interval}
}

// Snapshot returns the cached jobs and counts, refreshing from the store when
// the cache is older than the interval. The returned slice is shared between
// callers and must not be mutated.
func (p *ProgressCache) Snapshot() ([]Job, Counts) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if time.Since(p.takenAt) >= p.interval || p.takenAt.IsZero() {
		p.jobs, p.counts = p.store.SnapshotAndCounts()
		p.takenAt = time.Now()
	}
	return p.jobs, p.counts
}

// Refresh forces an immediate snapshot, bypassing the interval. Used once at
// run completion so the final view is never stale.
func (p *ProgressCache) Refresh() ([]Job, Counts) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs, p.counts = p.store.SnapshotAndCounts()
	p.takenAt = time.Now()
	return p.jobs, p.counts
}

// TakenAt reports when the current snapshot was captured.
func (p *ProgressCache) TakenAt() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.takenAt
}
