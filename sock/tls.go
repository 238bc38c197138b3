// File: sock/tls.go
//
// TLS overlay state. Once a socket is wrapped, every byte-level operation
// and the has-data predicate route through the engine instead of the raw
// handle. The one-byte peek cache, when populated, logically precedes any
// byte the engine or buffer can deliver.

package sock

import (
	"errors"
	"io"

	"github.com/veliant/netsock/api"
	"github.com/veliant/netsock/poll"
)

// tlsOverlay tracks one engine handle, handshake progress and the peek
// cache.
type tlsOverlay struct {
	engine  api.TLSEngine
	done    bool
	peek    byte
	hasPeek bool
}

// WrapTLS attaches a TLS overlay in the client role. Wrapping is
// irreversible for the socket's lifetime; a second wrap fails. A listener
// socket wraps to mark its context for inheritance by accepted sockets;
// the handshake is driven per connection, never on the listener itself.
func (s *Socket) WrapTLS(ctx api.TLSContext) error {
	if err := s.needOpen(); err != nil {
		return err
	}
	if s.tls != nil {
		return api.NewError(api.CodeTLS, "socket is already TLS-wrapped")
	}
	engine, err := ctx.Client(s.rc)
	if err != nil {
		return api.WrapError(api.CodeTLS, "create tls engine", err)
	}
	s.tlsCtx = ctx
	s.tls = &tlsOverlay{engine: engine}
	return nil
}

// wrapServer attaches the overlay in the server role, used for accepted
// sockets inheriting a listener's context.
func (s *Socket) wrapServer(ctx api.TLSContext) error {
	if s.tls != nil {
		return api.NewError(api.CodeTLS, "socket is already TLS-wrapped")
	}
	engine, err := ctx.Server(s.rc)
	if err != nil {
		return api.WrapError(api.CodeTLS, "create tls engine", err)
	}
	s.tlsCtx = ctx
	s.tls = &tlsOverlay{engine: engine}
	return nil
}

// Handshake drives one handshake step. It returns false with a nil error
// while the engine wants more I/O, true once the handshake has completed,
// and an api.ErrTLSFailure-classed error on anything else.
func (s *Socket) Handshake() (bool, error) {
	if err := s.needOpen(); err != nil {
		return false, err
	}
	if s.tls == nil {
		return false, api.NewError(api.CodeTLS, "socket is not TLS-wrapped")
	}
	if s.tls.done {
		return true, nil
	}
	err := s.tls.engine.Handshake()
	if err == nil {
		s.tls.done = true
		return true, nil
	}
	if errors.Is(err, api.ErrWantIO) {
		return false, nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return false, api.WrapError(api.CodeTLS, "connection closed prematurely during handshake", err)
	}
	return false, api.WrapError(api.CodeTLS, "handshake failed", err)
}

// HandshakeDone reports whether the handshake has completed.
func (s *Socket) HandshakeDone() bool {
	return s.tls != nil && s.tls.done
}

// driveHandshake repeats handshake steps until completion, waiting for
// readiness between want-I/O reports, bounded by the budget.
func (s *Socket) driveHandshake(budget poll.Budget) error {
	for {
		done, err := s.Handshake()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if budget.Expired() {
			return api.NewError(api.CodeTimeout, "tls handshake timed out")
		}
		if err := s.rc.WaitReadable(budget.Remaining()); err != nil {
			return err
		}
	}
}

// staged reports lookahead bytes the overlay already holds: the peek cache
// plus application data pending inside the engine.
func (t *tlsOverlay) staged() int {
	n := t.engine.Pending()
	if t.hasPeek {
		n++
	}
	return n
}

// read serves the peek cache first, then the engine. Serving only the
// cached byte is a legal short read; the engine is consulted on the next
// call.
func (t *tlsOverlay) read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if t.hasPeek {
		p[0] = t.peek
		t.hasPeek = false
		return 1, nil
	}
	n, err := t.engine.Read(p)
	if err != nil && err != io.EOF {
		return n, api.WrapError(api.CodeTLS, "tls read", err)
	}
	return n, err
}

// peekByte reads one byte from the engine into the cache exactly once and
// serves it until a read consumes it.
func (t *tlsOverlay) peekByte() (byte, error) {
	if t.hasPeek {
		return t.peek, nil
	}
	var b [1]byte
	n, err := t.engine.Read(b[:])
	if err == io.EOF {
		return 0, io.EOF
	}
	if err != nil {
		return 0, api.WrapError(api.CodeTLS, "tls peek", err)
	}
	if n == 0 {
		return 0, io.EOF
	}
	t.peek = b[0]
	t.hasPeek = true
	return t.peek, nil
}

func (t *tlsOverlay) write(p []byte) (int, error) {
	n, err := t.engine.Write(p)
	if err != nil {
		return n, api.WrapError(api.CodeTLS, "tls write", err)
	}
	return n, nil
}

// shutdown performs the closing handshake with at most one retry when the
// first report is ambiguous.
func (t *tlsOverlay) shutdown() error {
	done, err := t.engine.Shutdown()
	if err == nil && !done {
		_, err = t.engine.Shutdown()
	}
	if err != nil {
		return api.WrapError(api.CodeTLS, "tls shutdown", err)
	}
	return nil
}
