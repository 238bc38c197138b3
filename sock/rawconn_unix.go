//go:build linux || darwin

// File: sock/rawconn_unix.go
//
// OS-backed raw connection for Unix-like systems. All transfers operate in
// network byte order consistently with the addr package's layout.

package sock

import (
	"io"

	"golang.org/x/sys/unix"

	"github.com/veliant/netsock/addr"
	"github.com/veliant/netsock/api"
	"github.com/veliant/netsock/poll"
)

// osConn owns one OS socket descriptor. The descriptor is released exactly
// once regardless of how many times Close is called.
type osConn struct {
	fd     int
	family addr.Family
	closed bool
}

var _ api.RawConn = (*osConn)(nil)

func osError(op string, err error) error {
	return api.WrapError(api.CodeOS, op, err)
}

// newOSConn allocates a raw handle for the given family and type.
func newOSConn(family addr.Family, datagram bool) (*osConn, error) {
	domain := unix.AF_INET
	if family == addr.FamilyIPv6 {
		domain = unix.AF_INET6
	}
	typ := unix.SOCK_STREAM
	if datagram {
		typ = unix.SOCK_DGRAM
	}
	fd, err := unix.Socket(domain, typ, 0)
	if err != nil {
		return nil, osError("socket", err)
	}
	return &osConn{fd: fd, family: family}, nil
}

// adoptFd wraps an already connected descriptor, as produced by accept.
func adoptFd(fd int, family addr.Family) *osConn {
	return &osConn{fd: fd, family: family}
}

func (c *osConn) Fd() uintptr { return uintptr(c.fd) }

// ioRetry repeats one transfer while a signal interrupts it.
func ioRetry(op func() (int, error)) (int, error) {
	for {
		n, err := op()
		if err != unix.EINTR {
			return n, err
		}
	}
}

func (c *osConn) Read(p []byte) (int, error) {
	n, err := ioRetry(func() (int, error) { return unix.Read(c.fd, p) })
	if err != nil {
		return 0, osError("recv", err)
	}
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (c *osConn) Peek(p []byte) (int, error) {
	n, err := ioRetry(func() (int, error) {
		n, _, err := unix.Recvfrom(c.fd, p, unix.MSG_PEEK)
		return n, err
	})
	if err != nil {
		return 0, osError("recv MSG_PEEK", err)
	}
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (c *osConn) Write(p []byte) (int, error) {
	n, err := ioRetry(func() (int, error) { return unix.Write(c.fd, p) })
	if err != nil {
		return 0, osError("send", err)
	}
	return n, nil
}

func (c *osConn) WaitReadable(timeoutMs int) error {
	return poll.WaitReadable(uintptr(c.fd), timeoutMs)
}

func (c *osConn) WaitWritable(timeoutMs int) error {
	return poll.WaitWritable(uintptr(c.fd), timeoutMs)
}

func (c *osConn) SetBlocking(block bool) error {
	if err := unix.SetNonblock(c.fd, !block); err != nil {
		return osError("set blocking mode", err)
	}
	return nil
}

func (c *osConn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if err := unix.Close(c.fd); err != nil {
		return osError("close", err)
	}
	return nil
}

// bind attaches the handle to a local address.
func (c *osConn) bind(ip addr.IPAddr, port uint16) error {
	sa, err := sockaddrFrom(ip, port)
	if err != nil {
		return err
	}
	if err := unix.Bind(c.fd, sa); err != nil {
		return osError("bind", err)
	}
	return nil
}

func (c *osConn) listen(backlog int) error {
	if err := unix.Listen(c.fd, backlog); err != nil {
		return osError("listen", err)
	}
	return nil
}

// accept blocks until a peer connects and returns the new handle plus the
// peer endpoint.
func (c *osConn) accept() (*osConn, Endpoint, error) {
	for {
		nfd, sa, err := unix.Accept(c.fd)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return nil, Endpoint{}, osError("accept", err)
		}
		return adoptFd(nfd, c.family), endpointFrom(sa), nil
	}
}

// connect issues one connect attempt; in non-blocking mode in-progress
// codes surface to the caller unchanged.
func (c *osConn) connect(ep Endpoint) error {
	sa, err := sockaddrFrom(ep.Addr, ep.Port)
	if err != nil {
		return err
	}
	return unix.Connect(c.fd, sa)
}

// soError drains the pending asynchronous error after a non-blocking
// connect completes.
func (c *osConn) soError() (int, error) {
	v, err := unix.GetsockoptInt(c.fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return 0, osError("getsockopt SO_ERROR", err)
	}
	return v, nil
}

func (c *osConn) localEndpoint() (Endpoint, error) {
	sa, err := unix.Getsockname(c.fd)
	if err != nil {
		return Endpoint{}, osError("getsockname", err)
	}
	return endpointFrom(sa), nil
}

func (c *osConn) sendTo(p []byte, ep Endpoint) (int, error) {
	sa, err := sockaddrFrom(ep.Addr, ep.Port)
	if err != nil {
		return 0, err
	}
	if err := unix.Sendto(c.fd, p, 0, sa); err != nil {
		return 0, osError("sendto", err)
	}
	return len(p), nil
}

func (c *osConn) recvFrom(p []byte) (int, Endpoint, error) {
	for {
		n, sa, err := unix.Recvfrom(c.fd, p, 0)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, Endpoint{}, osError("recvfrom", err)
		}
		return n, endpointFrom(sa), nil
	}
}

func (c *osConn) setBoolOption(opt BoolOption, on bool) error {
	if opt == OptAcceptConn {
		return api.NewError(api.CodeNotSupported, "SO_ACCEPTCONN is query-only")
	}
	level, name, err := sockoptName(opt)
	if err != nil {
		return err
	}
	v := 0
	if on {
		v = 1
	}
	if err := unix.SetsockoptInt(c.fd, level, name, v); err != nil {
		return osError("setsockopt "+opt.String(), err)
	}
	return nil
}

func (c *osConn) boolOption(opt BoolOption) (bool, error) {
	level, name, err := sockoptName(opt)
	if err != nil {
		return false, err
	}
	v, err := unix.GetsockoptInt(c.fd, level, name)
	if err != nil {
		return false, osError("getsockopt "+opt.String(), err)
	}
	return v != 0, nil
}

func sockoptName(opt BoolOption) (level, name int, err error) {
	switch opt {
	case OptAcceptConn:
		return unix.SOL_SOCKET, unix.SO_ACCEPTCONN, nil
	case OptBroadcast:
		return unix.SOL_SOCKET, unix.SO_BROADCAST, nil
	case OptDebug:
		return unix.SOL_SOCKET, unix.SO_DEBUG, nil
	case OptDontRoute:
		return unix.SOL_SOCKET, unix.SO_DONTROUTE, nil
	case OptKeepAlive:
		return unix.SOL_SOCKET, unix.SO_KEEPALIVE, nil
	case OptOOBInline:
		return unix.SOL_SOCKET, unix.SO_OOBINLINE, nil
	case OptReuseAddr:
		return unix.SOL_SOCKET, unix.SO_REUSEADDR, nil
	}
	return 0, 0, api.NewError(api.CodeNotSupported, "unknown socket option")
}

// sockaddrFrom converts an address/port pair into the platform sockaddr.
func sockaddrFrom(ip addr.IPAddr, port uint16) (unix.Sockaddr, error) {
	switch ip.Family() {
	case addr.FamilyIPv4:
		return &unix.SockaddrInet4{Port: int(port), Addr: ip.As4()}, nil
	case addr.FamilyIPv6:
		return &unix.SockaddrInet6{Port: int(port), Addr: ip.As16()}, nil
	}
	return nil, api.NewError(api.CodeInvalidAddress, "zero IPAddr has no sockaddr form")
}

func endpointFrom(sa unix.Sockaddr) Endpoint {
	switch v := sa.(type) {
	case *unix.SockaddrInet4:
		return Endpoint{Addr: addr.From4(v.Addr), Port: uint16(v.Port)}
	case *unix.SockaddrInet6:
		return Endpoint{Addr: addr.From16(v.Addr), Port: uint16(v.Port)}
	}
	return Endpoint{}
}

// inProgress reports the platform codes meaning "non-blocking connect is
// under way".
func inProgress(err error) bool {
	return err == unix.EINPROGRESS || err == unix.EALREADY || err == unix.EINTR
}
