// File: tlsengine/engine.go

package tlsengine

import (
	"crypto/tls"

	"github.com/veliant/netsock/api"
)

// engine is one secure session over a raw connection.
type engine struct {
	conn *tls.Conn
}

var _ api.TLSEngine = (*engine)(nil)

// Handshake drives the handshake. The underlying connection is blocking,
// so the engine never reports api.ErrWantIO; it either completes or fails.
func (e *engine) Handshake() error {
	return e.conn.Handshake()
}

func (e *engine) Read(p []byte) (int, error) {
	return e.conn.Read(p)
}

func (e *engine) Write(p []byte) (int, error) {
	return e.conn.Write(p)
}

// Pending always reports 0: the platform engine does not expose its
// internal plaintext buffer. Lookahead on wrapped sockets is served by the
// socket layer's one-byte peek cache instead.
func (e *engine) Pending() int { return 0 }

// Shutdown sends the close notification. The report is never ambiguous
// with this engine, so done is always true.
func (e *engine) Shutdown() (bool, error) {
	return true, e.conn.CloseWrite()
}
