// Package scheduler runs subtitle downloads over a bounded worker pool.
//
// A Pool admits targets in submission order with at most the configured
// number of jobs in flight. Each worker drives one subliminal invocation,
// classifies its output, and writes exactly one terminal status into the
// shared job store. Cancellation is cooperative through a shared Token:
// queued jobs are dropped, launched subprocesses always run to completion,
// and a final sweep marks everything non-terminal as failed.
package scheduler
