package jobs

import "testing"

func TestStoreTransitions(t *testing.T) {
	store := NewStore([]string{"/a.mkv", "/b.mkv"})

	if !store.MarkRunning(0) {
		t.Fatal("expected pending job to become running")
	}
	if store.MarkRunning(0) {
		t.Fatal("running job must not re-enter running")
	}

	ok := store.Complete(0, Outcome{Status: StatusSuccess}, []string{"/a.en.srt"})
	if !ok {
		t.Fatal("Complete failed")
	}
	snapshot := store.Snapshot()
	if snapshot[0].Status != StatusSuccess {
		t.Fatalf("unexpected status: %s", snapshot[0].Status)
	}
	if len(snapshot[0].SubtitlePaths) != 1 || snapshot[0].SubtitlePaths[0] != "/a.en.srt" {
		t.Fatalf("unexpected subtitle paths: %v", snapshot[0].SubtitlePaths)
	}
	if snapshot[1].Status != StatusPending {
		t.Fatalf("untouched job changed status: %s", snapshot[1].Status)
	}
}

func TestCompleteRejectsNonTerminal(t *testing.T) {
	store := NewStore([]string{"/a.mkv"})
	if store.Complete(0, Outcome{Status: StatusRunning}, nil) {
		t.Fatal("non-terminal outcome must be rejected")
	}
}

func TestCancelSweepRewritesOnlyNonTerminal(t *testing.T) {
	store := NewStore([]string{"/a.mkv", "/b.mkv", "/c.mkv"})
	store.MarkRunning(0)
	store.Complete(0, Outcome{Status: StatusSuccess}, nil)
	store.MarkRunning(1)

	if swept := store.CancelSweep(); swept != 2 {
		t.Fatalf("expected 2 swept jobs, got %d", swept)
	}

	snapshot := store.Snapshot()
	if snapshot[0].Status != StatusSuccess {
		t.Fatalf("terminal job rewritten: %s", snapshot[0].Status)
	}
	for _, i := range []int{1, 2} {
		if snapshot[i].Status != StatusFailed || snapshot[i].Reason != CancelledReason {
			t.Fatalf("job %d not cancelled: %+v", i, snapshot[i])
		}
	}
}

func TestWorkerResultOverwritesSweep(t *testing.T) {
	// A worker finishing naturally after the sweep wins the race by design.
	store := NewStore([]string{"/a.mkv"})
	store.MarkRunning(0)
	store.CancelSweep()
	store.Complete(0, Outcome{Status: StatusSuccess}, nil)
	if got := store.Snapshot()[0].Status; got != StatusSuccess {
		t.Fatalf("expected last-write-wins success, got %s", got)
	}
}

func TestCounts(t *testing.T) {
	store := NewStore([]string{"/a", "/b", "/c", "/d"})
	store.MarkRunning(0)
	store.MarkRunning(1)
	store.Complete(0, Outcome{Status: StatusEmbeddedExists, Reason: "embedded English subtitles"}, nil)
	store.Complete(1, Outcome{Status: StatusFailed, Reason: "tool reported error"}, nil)

	counts := store.Counts()
	want := Counts{Total: 4, Pending: 2, Running: 0, Completed: 1, Failed: 1}
	if counts != want {
		t.Fatalf("unexpected counts: %+v", counts)
	}
	if counts.Done() {
		t.Fatal("run with pending jobs must not be done")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	store := NewStore([]string{"/a.mkv"})
	store.MarkRunning(0)
	store.Complete(0, Outcome{Status: StatusSuccess}, []string{"/a.srt"})

	snapshot := store.Snapshot()
	snapshot[0].Status = StatusFailed
	snapshot[0].SubtitlePaths[0] = "mutated"

	fresh := store.Snapshot()
	if fresh[0].Status != StatusSuccess || fresh[0].SubtitlePaths[0] != "/a.srt" {
		t.Fatalf("snapshot mutation leaked into store: %+v", fresh[0])
	}
}
