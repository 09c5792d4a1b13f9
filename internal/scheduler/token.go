package scheduler

import "sync/atomic"

// Token is the shared cooperative cancellation flag for one run. Workers
// consult it before doing new work but never kill a subprocess that already
// launched.
type Token struct {
	cancelled atomic.Bool
}

// NewToken returns a fresh, uncancelled token.
func NewToken() *Token {
	return &Token{}
}

// Cancel sets the flag. Safe to call from any goroutine, idempotent.
func (t *Token) Cancel() {
	t.cancelled.Store(true)
}

// Cancelled reports whether cancellation was requested.
func (t *Token) Cancelled() bool {
	return t.cancelled.Load()
}
