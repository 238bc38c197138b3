// File: api/tls.go
//
// Opaque TLS engine contracts. The library does not implement a TLS wire
// protocol; it drives an engine bound to a raw connection and keeps the
// engine state consistent with its own buffering. The crypto/tls-backed
// engine lives in tlsengine; a scriptable one lives in fake.

package api

import "errors"

// ErrWantIO is reported by a TLS engine handshake step that cannot make
// progress until more I/O is possible. It is a retry signal, not a failure.
var ErrWantIO = errors.New("tls engine wants more io")

// TLSContext holds long-lived TLS configuration (protocol bounds, peer
// verification mode, certificate material) and spawns engines bound to
// individual connections.
type TLSContext interface {
	// Client creates an engine performing the client side of the
	// handshake over rc.
	Client(rc RawConn) (TLSEngine, error)

	// Server creates an engine performing the server side of the
	// handshake over rc.
	Server(rc RawConn) (TLSEngine, error)
}

// TLSEngine is one secure session bound to a single raw connection.
type TLSEngine interface {
	// Handshake drives one handshake step. A nil return means the
	// handshake completed; ErrWantIO means the engine needs more I/O and
	// the step should be repeated later. Any other error is fatal.
	Handshake() error

	// Read decrypts application data into p. End of stream is (0, io.EOF).
	Read(p []byte) (int, error)

	// Write encrypts and sends p.
	Write(p []byte) (int, error)

	// Pending reports decrypted application bytes already buffered inside
	// the engine.
	Pending() int

	// Shutdown performs one step of the closing handshake. done=false with
	// a nil error means the close report was ambiguous and one retry is
	// allowed.
	Shutdown() (done bool, err error)
}
