// File: server/options.go
//
// Functional options for the Listener.

package server

import "go.uber.org/zap"

// DefaultMaxPending caps the accepted-but-undispatched connection queue.
const DefaultMaxPending = 128

// Option customizes listener initialization.
type Option func(*Listener)

// WithLogger attaches a logger for lifecycle events.
func WithLogger(log *zap.Logger) Option {
	return func(l *Listener) {
		if log != nil {
			l.log = log
		}
	}
}

// WithMaxPending overrides the pending-queue capacity; connections beyond
// it are closed instead of queued.
func WithMaxPending(n int) Option {
	return func(l *Listener) {
		if n > 0 {
			l.maxPending = n
		}
	}
}
