package deps

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"subfetch/internal/logging"
)

// DefaultPollInterval is how often the monitor re-probes when unconfigured.
const DefaultPollInterval = 5 * time.Second

// DefaultStopTimeout bounds how long Stop waits for the poll goroutine.
const DefaultStopTimeout = 5 * time.Second

// resultCell is a one-shot mailbox with take semantics: the first Take after
// a put returns the value and clears the cell.
type resultCell struct {
	mu     sync.Mutex
	result *InstallResult
}

func (c *resultCell) put(result InstallResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result = &result
}

func (c *resultCell) take() (InstallResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return InstallResult{}, false
	}
	result := *c.result
	c.result = nil
	return result, true
}

// MonitorOptions configures a Monitor.
type MonitorOptions struct {
	PollInterval time.Duration
	StopTimeout  time.Duration
	// AutoInstall triggers each stage's installer once: Python when no
	// interpreter is found, subliminal when Python is present but the
	// package is not.
	AutoInstall bool
}

// installState is the per-stage one-shot installer bookkeeping: started
// never resets, running tracks the in-flight goroutine, and the cell holds
// its result until taken.
type installState struct {
	started atomic.Bool
	running atomic.Bool
	result  resultCell
}

// Monitor polls dependency availability in the background, reporting each
// pass over a channel. Polling stops once both stages are available or the
// monitor is shut down.
type Monitor struct {
	probes     Probes
	installers Installers
	opts       MonitorOptions
	logger     *slog.Logger

	updates  chan Availability
	installs [2]installState

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewMonitor builds a monitor. Installers entries may be nil when
// AutoInstall is off. A nil logger disables logging.
func NewMonitor(probes Probes, installers Installers, opts MonitorOptions, logger *slog.Logger) *Monitor {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.StopTimeout <= 0 {
		opts.StopTimeout = DefaultStopTimeout
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Monitor{
		probes:     probes,
		installers: installers,
		opts:       opts,
		logger:     logger.With(logging.String(logging.FieldComponent, "deps")),
		updates:    make(chan Availability, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Updates delivers one Availability per probe pass. The channel is closed
// when polling ends.
func (m *Monitor) Updates() <-chan Availability {
	return m.updates
}

// TakeInstallResult drains the named stage's installer outcome exactly once.
func (m *Monitor) TakeInstallResult(stage Stage) (InstallResult, bool) {
	return m.installs[stage].result.take()
}

// Installing reports whether the named stage's installer is currently running.
func (m *Monitor) Installing(stage Stage) bool {
	return m.installs[stage].running.Load()
}

// Start launches the polling goroutine.
func (m *Monitor) Start(ctx context.Context) {
	go m.loop(ctx)
}

func (m *Monitor) loop(ctx context.Context) {
	defer close(m.done)
	defer close(m.updates)

	ticker := time.NewTicker(m.opts.PollInterval)
	defer ticker.Stop()

	for {
		avail := m.probe(ctx)

		// A slow receiver only costs staleness, never a stuck monitor.
		select {
		case m.updates <- avail:
		case <-m.stop:
			return
		case <-ctx.Done():
			return
		default:
		}

		if avail.Satisfied() {
			m.logger.Info("all dependencies available", logging.String("python", avail.PythonVersion))
			return
		}
		m.maybeInstall(ctx, avail)

		select {
		case <-ticker.C:
		case <-m.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (m *Monitor) probe(ctx context.Context) Availability {
	var avail Availability
	if m.probes.Python != nil {
		avail.PythonVersion, avail.Python = m.probes.Python(ctx)
	}
	if m.probes.Subliminal != nil {
		avail.Subliminal = m.probes.Subliminal(ctx)
	}
	return avail
}

// maybeInstall starts at most one installer per stage per monitor: Python
// first, subliminal only once an interpreter is present.
func (m *Monitor) maybeInstall(ctx context.Context, avail Availability) {
	if !m.opts.AutoInstall {
		return
	}
	if !avail.Python {
		m.startInstall(ctx, StagePython, m.installers.Python)
		return
	}
	if !avail.Subliminal {
		m.startInstall(ctx, StageSubliminal, m.installers.Subliminal)
	}
}

func (m *Monitor) startInstall(ctx context.Context, stage Stage, installer Installer) {
	if installer == nil {
		return
	}
	state := &m.installs[stage]
	if !state.started.CompareAndSwap(false, true) {
		return
	}
	state.running.Store(true)
	m.logger.Info("installing dependency", logging.String(logging.FieldStage, stage.String()))
	go func() {
		result := installer(ctx)
		result.Stage = stage
		state.result.put(result)
		state.running.Store(false)
		if result.Err != nil {
			m.logger.Error("install failed", logging.String(logging.FieldStage, stage.String()), logging.Error(result.Err))
		} else {
			m.logger.Info("install finished", logging.String(logging.FieldStage, stage.String()), logging.String("method", result.Method))
		}
	}()
}

// Stop shuts the monitor down and waits for the poll goroutine, bounded by
// the stop timeout so a hung probe cannot wedge shutdown.
func (m *Monitor) Stop() bool {
	m.stopOnce.Do(func() { close(m.stop) })
	select {
	case <-m.done:
		return true
	case <-time.After(m.opts.StopTimeout):
		return false
	}
}
