package jobs

// Status represents the lifecycle of a download job.
type Status string

const (
	StatusPending        Status = "pending"
	StatusRunning        Status = "running"
	StatusSuccess        Status = "success"
	StatusEmbeddedExists Status = "embedded_exists"
	StatusFailed         Status = "failed"
)

// CancelledReason is the failure reason recorded when a run is cancelled.
const CancelledReason = "Cancelled"

var allStatuses = []Status{
	StatusPending,
	StatusRunning,
	StatusSuccess,
	StatusEmbeddedExists,
	StatusFailed,
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// Terminal reports whether no further transition can occur from this status.
func (s Status) Terminal() bool {
	switch s {
	case StatusSuccess, StatusEmbeddedExists, StatusFailed:
		return true
	default:
		return false
	}
}

// Completed reports whether the status counts toward the completed total
// shown to the user (subtitles obtained or already present).
func (s Status) Completed() bool {
	return s == StatusSuccess || s == StatusEmbeddedExists
}

// Job tracks a single video's fetch attempt and outcome.
type Job struct {
	// Target is the video path; unique within a run.
	Target string
	Status Status
	// Reason carries the human-readable explanation for EmbeddedExists and
	// Failed statuses; empty otherwise.
	Reason string
	// SubtitlePaths lists subtitle files discovered on disk after the run,
	// in language-specific-then-generic order.
	SubtitlePaths []string
	// RecoverableWarning is set when the tool reported a known transient
	// cache error but subtitle files were still produced.
	RecoverableWarning bool
}

// Outcome is the terminal classification written back into the store.
type Outcome struct {
	Status             Status
	Reason             string
	RecoverableWarning bool
}

// Counts aggregates job statuses for progress reporting.
type Counts struct {
	Total     int
	Pending   int
	Running   int
	Completed int
	Failed    int
}

// Done reports whether every job reached a terminal status.
func (c Counts) Done() bool {
	return c.Total == c.Completed+c.Failed
}
