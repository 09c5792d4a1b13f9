package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"subfetch/internal/jobs"
	"subfetch/internal/subliminal"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeRunner simulates tool invocations and tracks the in-flight maximum.
type fakeRunner struct {
	output  string
	err     error
	delay   time.Duration
	started chan string

	mu      sync.Mutex
	inUse   int
	maxSeen int
	calls   int
}

func (f *fakeRunner) Run(_ context.Context, req subliminal.Request) (subliminal.Result, error) {
	f.mu.Lock()
	f.calls++
	f.inUse++
	if f.inUse > f.maxSeen {
		f.maxSeen = f.inUse
	}
	f.mu.Unlock()

	if f.started != nil {
		f.started <- req.Target
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.inUse--
	f.mu.Unlock()

	if f.err != nil {
		return subliminal.Result{}, f.err
	}
	return subliminal.Result{Command: "fake", Output: f.output}, nil
}

func (f *fakeRunner) stats() (maxSeen, calls int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxSeen, f.calls
}

func noProbe(string, []string) (string, bool) { return "", false }

func waitDone(t *testing.T, pool *Pool) {
	t.Helper()
	select {
	case <-pool.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("run did not finish")
	}
}

func targets(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("/media/video-%02d.mkv", i)
	}
	return out
}

func TestSubmitRespectsConcurrencyCeiling(t *testing.T) {
	runner := &fakeRunner{output: "downloaded 1 subtitle", delay: 20 * time.Millisecond}
	pool := NewPool(runner, nil)
	pool.WithEmbeddedProbe(noProbe)

	if err := pool.Submit(context.Background(), targets(10), Options{
		Languages: []string{"en"}, Concurrency: 3,
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitDone(t, pool)

	maxSeen, calls := runner.stats()
	if calls != 10 {
		t.Fatalf("expected 10 invocations, got %d", calls)
	}
	if maxSeen > 3 {
		t.Fatalf("concurrency ceiling exceeded: %d", maxSeen)
	}

	_, counts := pool.FinalSnapshot()
	if !counts.Done() || counts.Failed != 0 {
		t.Fatalf("unexpected final counts: %+v", counts)
	}
}

func TestSubmitValidatesOptions(t *testing.T) {
	pool := NewPool(&fakeRunner{}, nil)
	if err := pool.Submit(context.Background(), nil, Options{Concurrency: 1}); err == nil {
		t.Fatal("expected error for empty targets")
	}
	if err := pool.Submit(context.Background(), targets(1), Options{Concurrency: 0}); err == nil {
		t.Fatal("expected error for zero concurrency")
	}
	if err := pool.Submit(context.Background(), targets(1), Options{Concurrency: 101}); err == nil {
		t.Fatal("expected error for excessive concurrency")
	}
}

func TestSubmitRejectsOverlappingRuns(t *testing.T) {
	runner := &fakeRunner{output: "downloaded 1 subtitle", delay: 50 * time.Millisecond}
	pool := NewPool(runner, nil)
	pool.WithEmbeddedProbe(noProbe)

	if err := pool.Submit(context.Background(), targets(2), Options{Concurrency: 1}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := pool.Submit(context.Background(), targets(2), Options{Concurrency: 1}); err == nil {
		t.Fatal("expected overlapping submit to fail")
	}
	waitDone(t, pool)
}

func TestCancelStopsAdmissionAndSweeps(t *testing.T) {
	started := make(chan string, 20)
	runner := &fakeRunner{output: "downloaded 1 subtitle", started: started, delay: 30 * time.Millisecond}
	pool := NewPool(runner, nil)
	pool.WithEmbeddedProbe(noProbe)

	if err := pool.Submit(context.Background(), targets(20), Options{
		Languages: []string{"en"}, Concurrency: 1,
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	<-started // first job launched its tool
	pool.Cancel()
	waitDone(t, pool)

	snapshot, counts := pool.FinalSnapshot()
	if counts.Failed == 0 {
		t.Fatalf("expected cancelled jobs, counts: %+v", counts)
	}
	if !counts.Done() {
		t.Fatalf("non-terminal jobs after sweep: %+v", counts)
	}
	cancelled := 0
	for _, job := range snapshot {
		if job.Status == jobs.StatusFailed && job.Reason == jobs.CancelledReason {
			cancelled++
		}
	}
	if cancelled == 0 {
		t.Fatal("no job recorded the Cancelled reason")
	}
	if _, calls := runner.stats(); calls >= 20 {
		t.Fatalf("cancellation admitted every job: %d calls", calls)
	}
}

func TestLaunchFailureRecordsReason(t *testing.T) {
	client := subliminal.NewClient("no-such-tool-anywhere", []string{"no-such-python-anywhere"})
	t.Setenv("PATH", t.TempDir())

	pool := NewPool(client, nil)
	pool.WithEmbeddedProbe(noProbe)
	if err := pool.Submit(context.Background(), targets(1), Options{
		Languages: []string{"en"}, Concurrency: 1,
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitDone(t, pool)

	snapshot, _ := pool.FinalSnapshot()
	if snapshot[0].Status != jobs.StatusFailed || snapshot[0].Reason != "subtitle tool not runnable" {
		t.Fatalf("unexpected job: %+v", snapshot[0])
	}
}

func TestRunnerErrorOtherThanLaunch(t *testing.T) {
	runner := &fakeRunner{err: errors.New("boom")}
	pool := NewPool(runner, nil)
	pool.WithEmbeddedProbe(noProbe)
	if err := pool.Submit(context.Background(), targets(1), Options{Concurrency: 1}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitDone(t, pool)

	snapshot, _ := pool.FinalSnapshot()
	if snapshot[0].Status != jobs.StatusFailed || snapshot[0].Reason != "tool reported error" {
		t.Fatalf("unexpected job: %+v", snapshot[0])
	}
}

func TestPoolAllowsSequentialRuns(t *testing.T) {
	runner := &fakeRunner{output: "downloaded 1 subtitle"}
	pool := NewPool(runner, nil)
	pool.WithEmbeddedProbe(noProbe)

	for run := 0; run < 2; run++ {
		if err := pool.Submit(context.Background(), targets(3), Options{Concurrency: 2}); err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		waitDone(t, pool)
	}
	if _, calls := runner.stats(); calls != 6 {
		t.Fatalf("expected 6 invocations across runs, got %d", calls)
	}
}

func TestTokenSemantics(t *testing.T) {
	token := NewToken()
	if token.Cancelled() {
		t.Fatal("fresh token must not be cancelled")
	}
	var wg sync.WaitGroup
	var observed atomic.Int32
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token.Cancel()
			if token.Cancelled() {
				observed.Add(1)
			}
		}()
	}
	wg.Wait()
	if observed.Load() != 4 {
		t.Fatalf("cancel not visible to all goroutines: %d", observed.Load())
	}
}

func TestPoolRunsAgainAfterCancel(t *testing.T) {
	started := make(chan string, 20)
	runner := &fakeRunner{output: "downloaded 1 subtitle", started: started, delay: 20 * time.Millisecond}
	pool := NewPool(runner, nil)
	pool.WithEmbeddedProbe(noProbe)

	if err := pool.Submit(context.Background(), targets(5), Options{Concurrency: 1}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	<-started
	pool.Cancel()
	waitDone(t, pool)

	if err := pool.Submit(context.Background(), targets(2), Options{Concurrency: 2}); err != nil {
		t.Fatalf("Submit after cancel: %v", err)
	}
	waitDone(t, pool)

	snapshot, counts := pool.FinalSnapshot()
	if counts.Failed != 0 {
		t.Fatalf("second run inherited cancellation: %+v", counts)
	}
	for _, job := range snapshot {
		if job.Status != jobs.StatusSuccess {
			t.Fatalf("unexpected job after fresh run: %+v", job)
		}
	}
}
