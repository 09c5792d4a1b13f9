package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"subfetch/internal/classify"
	"subfetch/internal/config"
	"subfetch/internal/jobs"
	"subfetch/internal/logging"
	"subfetch/internal/services"
	"subfetch/internal/subliminal"
)

// Options configures one run.
type Options struct {
	Languages   []string
	Concurrency int
	// Force re-downloads subtitles that already exist.
	Force bool
	// CacheDir becomes the subliminal cache directory for every worker.
	CacheDir string
	// FFprobeBinary drives the embedded-subtitle probe; empty uses "ffprobe".
	FFprobeBinary string
	// ProgressRefresh bounds how often progress reads hit the store.
	ProgressRefresh time.Duration
}

// Pool schedules subtitle downloads over a fixed-size worker pool. Targets
// are admitted in FIFO order with at most Concurrency jobs in flight; workers
// classify tool output into terminal job statuses. One Pool serves one run at
// a time.
type Pool struct {
	runner subliminal.Runner
	logger *slog.Logger

	// probe is swappable for tests; defaults to an ffprobe inspection.
	probe classify.EmbeddedProbe

	mu       sync.Mutex
	running  bool
	runID    string
	token    *Token
	store    *jobs.Store
	progress *jobs.ProgressCache
	done     chan struct{}
}

// NewPool builds a pool around a tool runner. A nil logger disables logging.
func NewPool(runner subliminal.Runner, logger *slog.Logger) *Pool {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pool{
		runner: runner,
		logger: logger.With(logging.String(logging.FieldComponent, "scheduler")),
	}
}

// WithEmbeddedProbe replaces the embedded-subtitle probe (for testing).
func (p *Pool) WithEmbeddedProbe(probe classify.EmbeddedProbe) {
	p.probe = probe
}

// Submit starts a run over targets and returns once the pool is dispatching.
// It fails if a run is already in progress or the options are invalid.
func (p *Pool) Submit(ctx context.Context, targets []string, opts Options) error {
	if len(targets) == 0 {
		return services.Wrap(services.ErrValidation, "scheduler", "submit", "no targets", nil)
	}
	if opts.Concurrency < 1 || opts.Concurrency > config.MaxConcurrent {
		return services.Wrap(services.ErrValidation, "scheduler", "submit",
			fmt.Sprintf("concurrency %d outside [1, %d]", opts.Concurrency, config.MaxConcurrent), nil)
	}

	runID := uuid.NewString()

	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return services.Wrap(services.ErrValidation, "scheduler", "submit", "a run is already in progress", nil)
	}
	p.running = true
	p.runID = runID
	p.token = NewToken()
	p.store = jobs.NewStore(targets)
	p.progress = jobs.NewProgressCache(p.store, opts.ProgressRefresh)
	p.done = make(chan struct{})
	store, token, done := p.store, p.token, p.done
	p.mu.Unlock()

	ctx = services.WithRunID(ctx, runID)
	logging.WithContext(ctx, p.logger).Info("run started",
		logging.Int("targets", len(targets)),
		logging.Int("concurrency", opts.Concurrency),
		logging.Bool("force", opts.Force))

	go p.dispatch(ctx, store, token, done, opts)
	return nil
}

// RunID returns the identifier of the current (or last submitted) run.
func (p *Pool) RunID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.runID
}

// dispatch admits jobs FIFO with a bounded in-flight count, then sweeps
// cancelled jobs and publishes the final snapshot.
func (p *Pool) dispatch(ctx context.Context, store *jobs.Store, token *Token, done chan struct{}, opts Options) {
	logger := logging.WithContext(ctx, p.logger)

	var group errgroup.Group
	group.SetLimit(opts.Concurrency)

	for i := 0; i < store.Len(); i++ {
		if token.Cancelled() || ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			p.runJob(ctx, store, token, i, opts)
			return nil
		})
	}
	group.Wait() //nolint:errcheck // workers record failures in the store

	if token.Cancelled() || ctx.Err() != nil {
		swept := store.CancelSweep()
		if swept > 0 {
			logger.Info("cancellation sweep", logging.Int("jobs", swept))
		}
	}

	p.mu.Lock()
	p.running = false
	if p.progress != nil {
		p.progress.Refresh()
	}
	p.mu.Unlock()

	counts := store.Counts()
	logger.Info("run finished",
		logging.Int("completed", counts.Completed),
		logging.Int("failed", counts.Failed))
	close(done)
}

// Cancel requests cooperative cancellation of the current run. Jobs with a
// launched subprocess run to completion; everything else fails as Cancelled.
func (p *Pool) Cancel() {
	p.mu.Lock()
	token := p.token
	p.mu.Unlock()
	if token != nil {
		token.Cancel()
		p.logger.Info("cancellation requested")
	}
}

// IsRunning reports whether a run is in progress.
func (p *Pool) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Done returns a channel closed when the current run finishes. It returns nil
// when no run was submitted yet.
func (p *Pool) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Snapshot returns the rate-limited progress view of the current run.
func (p *Pool) Snapshot() ([]jobs.Job, jobs.Counts) {
	p.mu.Lock()
	progress := p.progress
	p.mu.Unlock()
	if progress == nil {
		return nil, jobs.Counts{}
	}
	return progress.Snapshot()
}

// FinalSnapshot bypasses the refresh interval; intended after Done.
func (p *Pool) FinalSnapshot() ([]jobs.Job, jobs.Counts) {
	p.mu.Lock()
	progress := p.progress
	p.mu.Unlock()
	if progress == nil {
		return nil, jobs.Counts{}
	}
	return progress.Refresh()
}

// Counts returns the exact live counts for the current run.
func (p *Pool) Counts() jobs.Counts {
	p.mu.Lock()
	store := p.store
	p.mu.Unlock()
	if store == nil {
		return jobs.Counts{}
	}
	return store.Counts()
}
