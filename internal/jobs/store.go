package jobs

import "sync"

// Store is the shared, mutable collection of jobs for one run. It is created
// fresh per run and shared by reference between the scheduler, its workers,
// and progress readers. Every access happens under one mutex; the lock is
// never held across a subprocess invocation.
type Store struct {
	mu   sync.Mutex
	jobs []Job
}

// NewStore builds a store with one pending job per target, preserving order.
func NewStore(targets []string) *Store {
	jobs := make([]Job, len(targets))
	for i, target := range targets {
		jobs[i] = Job{Target: target, Status: StatusPending}
	}
	return &Store{jobs: jobs}
}

// Len returns the number of jobs in the store.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Target returns the target path for the job at index i.
func (s *Store) Target(i int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.jobs) {
		return ""
	}
	return s.jobs[i].Target
}

// MarkRunning transitions a pending job to running. It reports false when the
// job already left the pending state (for example a cancellation sweep got
// there first).
func (s *Store) MarkRunning(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.jobs) {
		return false
	}
	if s.jobs[i].Status != StatusPending {
		return false
	}
	s.jobs[i].Status = StatusRunning
	return true
}

// Complete writes a terminal outcome plus discovered subtitle paths in one
// lock acquisition. Last write wins: a worker that finished naturally may
// overwrite the cancellation sweep's rewrite, which is the documented race
// resolution. Non-terminal outcomes are rejected.
func (s *Store) Complete(i int, outcome Outcome, paths []string) bool {
	if !outcome.Status.Terminal() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.jobs) {
		return false
	}
	job := &s.jobs[i]
	job.Status = outcome.Status
	job.Reason = outcome.Reason
	job.RecoverableWarning = outcome.RecoverableWarning
	job.SubtitlePaths = append([]string(nil), paths...)
	return true
}

// CancelSweep rewrites every non-terminal job to Failed(Cancelled) and
// returns how many jobs were rewritten.
func (s *Store) CancelSweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	swept := 0
	for i := range s.jobs {
		if s.jobs[i].Status.Terminal() {
			continue
		}
		s.jobs[i].Status = StatusFailed
		s.jobs[i].Reason = CancelledReason
		swept++
	}
	return swept
}

// Snapshot returns a consistent copy of every job, taken under a single lock
// acquisition.
func (s *Store) Snapshot() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() []Job {
	out := make([]Job, len(s.jobs))
	copy(out, s.jobs)
	for i := range out {
		out[i].SubtitlePaths = append([]string(nil), s.jobs[i].SubtitlePaths...)
	}
	return out
}

// Counts aggregates the current statuses under one lock acquisition.
func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return countsOf(s.jobs)
}

// SnapshotAndCounts returns both views from the same lock acquisition so the
// pair is mutually consistent.
func (s *Store) SnapshotAndCounts() ([]Job, Counts) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), countsOf(s.jobs)
}

func countsOf(jobs []Job) Counts {
	counts := Counts{Total: len(jobs)}
	for i := range jobs {
		switch {
		case jobs[i].Status == StatusPending:
			counts.Pending++
		case jobs[i].Status == StatusRunning:
			counts.Running++
		case jobs[i].Status.Completed():
			counts.Completed++
		default:
			counts.Failed++
		}
	}
	return counts
}
