// File: sock/options.go
//
// Functional options for Socket construction.

package sock

import (
	"go.uber.org/zap"

	"github.com/veliant/netsock/addr"
)

// DefaultBufferSize is the read-ahead buffer capacity for buffered sockets.
const DefaultBufferSize = 8192

type config struct {
	family   addr.Family
	datagram bool
	buffered bool
	bufSize  int
	resolver Resolver
	log      *zap.Logger
}

func defaultConfig() config {
	return config{
		family:   addr.FamilyIPv4,
		bufSize:  DefaultBufferSize,
		resolver: NewNetResolver(),
		log:      zap.NewNop(),
	}
}

// Option customizes Socket construction.
type Option func(*config)

// WithBuffered enables the internal read-ahead buffer. The buffering mode
// is fixed for the socket's lifetime and inherited by accepted sockets.
func WithBuffered() Option {
	return func(c *config) { c.buffered = true }
}

// WithBufferSize sets the read-ahead buffer capacity and implies
// WithBuffered.
func WithBufferSize(n int) Option {
	return func(c *config) {
		c.buffered = true
		if n > 0 {
			c.bufSize = n
		}
	}
}

// WithFamily selects the address family of the raw handle.
func WithFamily(f addr.Family) Option {
	return func(c *config) { c.family = f }
}

// WithIPv6 selects an IPv6 raw handle.
func WithIPv6() Option {
	return func(c *config) { c.family = addr.FamilyIPv6 }
}

// WithDatagram creates a datagram (UDP) handle instead of a stream one.
func WithDatagram() Option {
	return func(c *config) { c.datagram = true }
}

// WithResolver overrides the hostname resolver used by Connect.
func WithResolver(r Resolver) Option {
	return func(c *config) {
		if r != nil {
			c.resolver = r
		}
	}
}

// WithLogger attaches a logger for debug-level lifecycle events. Defaults
// to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}
