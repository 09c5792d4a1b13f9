package jobs

import (
	"testing"
	"time"
)

func TestProgressCacheRateLimitsReads(t *testing.T) {
	store := NewStore([]string{"/a.mkv"})
	cache := NewProgressCache(store, time.Hour)

	_, counts := cache.Snapshot()
	if counts.Pending != 1 {
		t.Fatalf("unexpected initial counts: %+v", counts)
	}

	store.MarkRunning(0)
	store.Complete(0, Outcome{Status: StatusSuccess}, nil)

	// Within the interval the stale snapshot is served.
	_, counts = cache.Snapshot()
	if counts.Completed != 0 {
		t.Fatalf("cache refreshed inside interval: %+v", counts)
	}
}

func TestProgressCacheRefreshBypassesInterval(t *testing.T) {
	store := NewStore([]string{"/a.mkv"})
	cache := NewProgressCache(store, time.Hour)
	cache.Snapshot()

	store.MarkRunning(0)
	store.Complete(0, Outcome{Status: StatusFailed, Reason: "tool reported error"}, nil)

	_, counts := cache.Refresh()
	if counts.Failed != 1 {
		t.Fatalf("forced refresh served stale data: %+v", counts)
	}
	if cache.TakenAt().IsZero() {
		t.Fatal("TakenAt not recorded")
	}
}

func TestProgressCacheRefreshesWhenStale(t *testing.T) {
	store := NewStore([]string{"/a.mkv"})
	cache := NewProgressCache(store, time.Millisecond)
	cache.Snapshot()

	store.MarkRunning(0)
	time.Sleep(5 * time.Millisecond)

	_, counts := cache.Snapshot()
	if counts.Running != 1 {
		t.Fatalf("stale cache not refreshed: %+v", counts)
	}
}

func TestProgressCacheDefaultInterval(t *testing.T) {
	cache := NewProgressCache(NewStore(nil), 0)
	if cache.interval != DefaultProgressRefresh {
		t.Fatalf("unexpected default interval: %s", cache.interval)
	}
}
