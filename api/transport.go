// File: api/transport.go
//
// Raw connection abstraction underneath the buffered socket layer. The
// OS-backed implementation lives in sock; a scriptable one lives in fake.

package api

// RawConn abstracts a connected raw socket handle: blocking transfers,
// MSG_PEEK-style lookahead and bounded readiness waits.
//
// Read reports end of stream as (0, io.EOF). Short reads and writes are
// returned as counts, not errors.
type RawConn interface {
	// Read performs one blocking receive into p.
	Read(p []byte) (int, error)

	// Peek receives into p without consuming the bytes from the socket.
	Peek(p []byte) (int, error)

	// Write performs one send of p; may deliver fewer bytes than len(p).
	Write(p []byte) (int, error)

	// WaitReadable blocks until the handle is readable or the timeout
	// (milliseconds, -1 for infinite) elapses.
	WaitReadable(timeoutMs int) error

	// WaitWritable blocks until the handle is writable or the timeout
	// elapses.
	WaitWritable(timeoutMs int) error

	// SetBlocking switches the handle between blocking and non-blocking
	// transfer mode.
	SetBlocking(block bool) error

	// Close releases the handle. Safe to call more than once; the handle
	// is released exactly once.
	Close() error

	// Fd returns the OS-level descriptor, for readiness registration.
	Fd() uintptr
}
