// File: tlsengine/netconn.go
//
// Adapter presenting an api.RawConn to the engine as a net.Conn.

package tlsengine

import (
	"net"
	"time"

	"github.com/veliant/netsock/api"
)

type rawNetConn struct {
	rc api.RawConn
}

func newRawNetConn(rc api.RawConn) net.Conn {
	return &rawNetConn{rc: rc}
}

func (c *rawNetConn) Read(p []byte) (int, error) {
	return c.rc.Read(p)
}

// Write satisfies the net.Conn contract of delivering the whole buffer:
// short raw writes are continued until done.
func (c *rawNetConn) Write(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := c.rc.Write(p[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, api.NewError(api.CodeShortWrite, "raw write made no progress")
		}
	}
	return total, nil
}

func (c *rawNetConn) Close() error {
	return c.rc.Close()
}

type rawAddr struct{}

func (rawAddr) Network() string { return "raw" }
func (rawAddr) String() string  { return "raw" }

func (c *rawNetConn) LocalAddr() net.Addr  { return rawAddr{} }
func (c *rawNetConn) RemoteAddr() net.Addr { return rawAddr{} }

// Deadlines are unused: waits are bounded by the socket layer's readiness
// protocol before the engine is asked to transfer.
func (c *rawNetConn) SetDeadline(t time.Time) error      { return nil }
func (c *rawNetConn) SetReadDeadline(t time.Time) error  { return nil }
func (c *rawNetConn) SetWriteDeadline(t time.Time) error { return nil }
