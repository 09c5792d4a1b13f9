// Package jobs holds the per-run job collection shared between the scheduler,
// its workers, and progress readers.
//
// A Job moves Pending -> Running -> exactly one terminal status (Success,
// EmbeddedExists, Failed). The Store guards the collection with a single
// mutex held only for the instant of a read or write, never across a
// subprocess call. ProgressCache rate-limits snapshot reads for UI-style
// pollers.
package jobs
