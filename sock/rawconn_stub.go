//go:build !linux && !darwin

// File: sock/rawconn_stub.go
//
// Stub constructors for platforms without the raw socket binding. Sockets
// built from an injected api.RawConn still work here.

package sock

import (
	"github.com/veliant/netsock/addr"
	"github.com/veliant/netsock/api"
)

type osConn struct {
	family addr.Family
}

func errUnsupported() error {
	return api.NewError(api.CodeNotSupported, "raw sockets not supported on this platform")
}

func newOSConn(family addr.Family, datagram bool) (*osConn, error) {
	return nil, errUnsupported()
}

func (c *osConn) Fd() uintptr                     { return 0 }
func (c *osConn) Read(p []byte) (int, error)      { return 0, errUnsupported() }
func (c *osConn) Peek(p []byte) (int, error)      { return 0, errUnsupported() }
func (c *osConn) Write(p []byte) (int, error)     { return 0, errUnsupported() }
func (c *osConn) WaitReadable(timeoutMs int) error { return errUnsupported() }
func (c *osConn) WaitWritable(timeoutMs int) error { return errUnsupported() }
func (c *osConn) SetBlocking(block bool) error    { return errUnsupported() }
func (c *osConn) Close() error                    { return nil }

func (c *osConn) bind(ip addr.IPAddr, port uint16) error { return errUnsupported() }
func (c *osConn) listen(backlog int) error               { return errUnsupported() }
func (c *osConn) accept() (*osConn, Endpoint, error)     { return nil, Endpoint{}, errUnsupported() }
func (c *osConn) connect(ep Endpoint) error              { return errUnsupported() }
func (c *osConn) soError() (int, error)                  { return 0, errUnsupported() }
func (c *osConn) localEndpoint() (Endpoint, error)       { return Endpoint{}, errUnsupported() }
func (c *osConn) sendTo(p []byte, ep Endpoint) (int, error) {
	return 0, errUnsupported()
}
func (c *osConn) recvFrom(p []byte) (int, Endpoint, error) {
	return 0, Endpoint{}, errUnsupported()
}
func (c *osConn) setBoolOption(opt BoolOption, on bool) error { return errUnsupported() }
func (c *osConn) boolOption(opt BoolOption) (bool, error)     { return false, errUnsupported() }

func inProgress(err error) bool { return false }
