// File: sock/socket.go
//
// The Socket facade. Dispatch order for every byte-level operation: TLS
// overlay first (peek cache, then engine), then the read-ahead buffer,
// then the raw handle.

package sock

import (
	"io"
	"syscall"

	"go.uber.org/zap"

	"github.com/veliant/netsock/addr"
	"github.com/veliant/netsock/api"
	"github.com/veliant/netsock/poll"
	"github.com/veliant/netsock/pool"
)

// Socket is a raw OS socket handle with optional read buffering and an
// optional TLS overlay. The buffering mode is fixed at construction; the
// TLS overlay, once attached, stays for the socket's lifetime.
//
// The zero Socket is valid only as the target of AcceptInto.
type Socket struct {
	rc     api.RawConn
	os     *osConn
	family addr.Family

	buffered bool
	buf      *readBuffer
	bufPool  *pool.BytePool

	tls    *tlsOverlay
	tlsCtx api.TLSContext

	resolver Resolver
	log      *zap.Logger

	remote Endpoint
	closed bool
}

// New allocates an OS-backed socket.
func New(opts ...Option) (*Socket, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	oc, err := newOSConn(cfg.family, cfg.datagram)
	if err != nil {
		return nil, err
	}
	s := &Socket{rc: oc, os: oc}
	s.applyConfig(cfg)
	return s, nil
}

// NewFromConn composes a Socket over an externally provided raw
// connection. Operations that need the OS handle layer (Bind, Listen,
// AcceptInto, Connect, socket options) are not available on such sockets.
func NewFromConn(rc api.RawConn, opts ...Option) *Socket {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	s := &Socket{rc: rc}
	s.applyConfig(cfg)
	return s
}

func (s *Socket) applyConfig(cfg config) {
	s.family = cfg.family
	s.resolver = cfg.resolver
	s.log = cfg.log
	s.buffered = cfg.buffered
	if cfg.buffered {
		s.bufPool = pool.Default(cfg.bufSize)
		s.buf = &readBuffer{data: s.bufPool.GetBuffer()}
	}
}

// Buffered reports the construction-time buffering mode.
func (s *Socket) Buffered() bool { return s.buffered }

// Family returns the address family of the raw handle.
func (s *Socket) Family() addr.Family { return s.family }

// RemoteEndpoint returns the peer endpoint after Connect or AcceptInto.
func (s *Socket) RemoteEndpoint() Endpoint { return s.remote }

// LocalEndpoint returns the locally bound endpoint.
func (s *Socket) LocalEndpoint() (Endpoint, error) {
	if err := s.needOS(); err != nil {
		return Endpoint{}, err
	}
	return s.os.localEndpoint()
}

func (s *Socket) needOS() error {
	if s.closed {
		return api.NewError(api.CodeClosed, "socket is closed")
	}
	if s.os == nil {
		return api.NewError(api.CodeNotSupported, "operation requires an OS-backed socket")
	}
	return nil
}

func (s *Socket) needOpen() error {
	if s.closed || s.rc == nil {
		return api.NewError(api.CodeClosed, "socket is closed")
	}
	return nil
}

// sourceRead performs one transfer from the innermost available source:
// the TLS overlay when attached, the raw handle otherwise.
func (s *Socket) sourceRead(p []byte) (int, error) {
	if s.tls != nil {
		return s.tls.read(p)
	}
	return s.rc.Read(p)
}

// readSome reads at most len(p) bytes with at most one refill or raw
// transfer. End of stream is (0, io.EOF).
func (s *Socket) readSome(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if s.buffered {
		if s.buf.empty() {
			if _, err := s.buf.fill(s.sourceRead); err != nil {
				return 0, err
			}
			if s.buf.empty() {
				return 0, io.EOF
			}
		}
		return s.buf.take(p), nil
	}
	return s.sourceRead(p)
}

// Read reads into p. In buffered mode it keeps refilling until p is full,
// returning a short count only when the stream ends or fails after at
// least one byte was copied; with nothing copied the end/failure itself is
// returned. In unbuffered mode it performs a single transfer with the
// usual short-read semantics.
func (s *Socket) Read(p []byte) (int, error) {
	if err := s.needOpen(); err != nil {
		return 0, err
	}
	if !s.buffered {
		return s.readSome(p)
	}
	n := 0
	for n < len(p) {
		m, err := s.readSome(p[n:])
		if err != nil || m == 0 {
			if n > 0 {
				return n, nil
			}
			if err != nil {
				return 0, err
			}
			return 0, io.EOF
		}
		n += m
	}
	return n, nil
}

// PeekByte returns the next byte without consuming it. Buffered sockets
// serve it from the buffer, refilling first if needed; unbuffered TLS
// sockets use the one-byte peek cache; unbuffered plain sockets use a
// MSG_PEEK receive.
func (s *Socket) PeekByte() (byte, error) {
	if err := s.needOpen(); err != nil {
		return 0, err
	}
	if s.buffered {
		if s.buf.empty() {
			if _, err := s.buf.fill(s.sourceRead); err != nil {
				return 0, err
			}
			if s.buf.empty() {
				return 0, io.EOF
			}
		}
		return s.buf.peek(), nil
	}
	if s.tls != nil {
		return s.tls.peekByte()
	}
	var b [1]byte
	n, err := s.rc.Peek(b[:])
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return b[0], nil
}

// WaitFor implements the readiness protocol: staged bytes (buffer, TLS
// peek cache, engine-pending data) are reported immediately capped at
// need; an infinite timeout reports need without blocking, relying on the
// blocking transfer; otherwise one bounded readiness wait is performed and
// 1 is returned, meaning at least one byte should be transferable. Callers
// must still expect short transfers.
func (s *Socket) WaitFor(timeoutMs, need int) (int, error) {
	if err := s.needOpen(); err != nil {
		return 0, err
	}
	if staged := s.stagedBytes(); staged > 0 {
		if staged > need {
			return need, nil
		}
		return staged, nil
	}
	if timeoutMs < 0 {
		return need, nil
	}
	if err := s.rc.WaitReadable(timeoutMs); err != nil {
		return 0, err
	}
	return 1, nil
}

func (s *Socket) stagedBytes() int {
	n := 0
	if s.buffered && s.buf != nil {
		n += s.buf.buffered()
	}
	if s.tls != nil {
		n += s.tls.staged()
	}
	return n
}

// readByte fetches one byte through the timed path. The budget covers the
// whole enclosing operation, not each byte.
func (s *Socket) readByte(budget poll.Budget) (byte, error) {
	if _, err := s.WaitFor(budget.Remaining(), 1); err != nil {
		return 0, err
	}
	var b [1]byte
	n, err := s.readSome(b[:])
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return b[0], nil
}

// ReadLine reads one line, recognizing "\r\n", bare "\n" and a bare "\r"
// not followed by "\n". The terminator is not included in the result,
// except that an empty line returns the terminator text itself so that an
// empty line is distinguishable from end of stream: a closed stream with
// no bytes returns ("", io.EOF). The timeout spans the whole call.
func (s *Socket) ReadLine(timeoutMs int) (string, error) {
	if err := s.needOpen(); err != nil {
		return "", err
	}
	budget := poll.NewBudget(timeoutMs)
	var line []byte
	for {
		b, err := s.readByte(budget)
		if err == io.EOF {
			if len(line) == 0 {
				return "", io.EOF
			}
			return string(line), nil
		}
		if err != nil {
			return "", err
		}
		switch b {
		case '\n':
			return lineOrTerminator(line, "\n"), nil
		case '\r':
			// Distinguish "\r\n" from a bare "\r" by looking one byte
			// ahead without consuming it.
			if _, werr := s.WaitFor(budget.Remaining(), 1); werr != nil {
				return "", werr
			}
			next, perr := s.PeekByte()
			if perr == io.EOF {
				return lineOrTerminator(line, "\r"), nil
			}
			if perr != nil {
				return "", perr
			}
			if next == '\n' {
				var drop [1]byte
				if _, derr := s.readSome(drop[:]); derr != nil && derr != io.EOF {
					return "", derr
				}
				return lineOrTerminator(line, "\r\n"), nil
			}
			return lineOrTerminator(line, "\r"), nil
		default:
			line = append(line, b)
		}
	}
}

// lineOrTerminator substitutes the terminator for an empty line.
func lineOrTerminator(line []byte, term string) string {
	if len(line) == 0 {
		return term
	}
	return string(line)
}

// Skip discards exactly n bytes through the timed read path.
func (s *Socket) Skip(n int, timeoutMs int) error {
	if err := s.needOpen(); err != nil {
		return err
	}
	budget := poll.NewBudget(timeoutMs)
	var scratch [512]byte
	for n > 0 {
		if _, err := s.WaitFor(budget.Remaining(), 1); err != nil {
			return err
		}
		want := n
		if want > len(scratch) {
			want = len(scratch)
		}
		m, err := s.readSome(scratch[:want])
		if err != nil {
			return err
		}
		if m == 0 {
			return io.EOF
		}
		n -= m
	}
	return nil
}

// Write sends p in one transfer. Delivering fewer bytes than requested is
// an api.ErrShortWrite-classed error carrying the delivered count, kept
// distinct from a hard transfer failure.
func (s *Socket) Write(p []byte) (int, error) {
	if err := s.needOpen(); err != nil {
		return 0, err
	}
	var (
		n   int
		err error
	)
	if s.tls != nil {
		n, err = s.tls.write(p)
	} else {
		n, err = s.rc.Write(p)
	}
	if err != nil {
		return n, err
	}
	if n < len(p) {
		return n, api.NewError(api.CodeShortWrite, "delivered fewer bytes than requested")
	}
	return n, nil
}

// Bind attaches the socket to a local address.
func (s *Socket) Bind(ip addr.IPAddr, port uint16) error {
	if err := s.needOS(); err != nil {
		return err
	}
	return s.os.bind(ip, port)
}

// Listen marks the socket as a listener.
func (s *Socket) Listen(backlog int) error {
	if err := s.needOS(); err != nil {
		return err
	}
	return s.os.listen(backlog)
}

// AcceptInto blocks until a peer connects and mutates client in place to
// own the new connection. The client inherits the listener's buffering
// mode and, when the listener is TLS-wrapped, its TLS context — the server
// handshake is fully driven before returning. The client object must
// already exist; any handle it owned is released first.
func (s *Socket) AcceptInto(client *Socket) error {
	if err := s.needOS(); err != nil {
		return err
	}
	conn, peer, err := s.os.accept()
	if err != nil {
		return err
	}
	if client.rc != nil && !client.closed {
		_ = client.Close()
	}
	*client = Socket{
		rc:       conn,
		os:       conn,
		family:   s.family,
		resolver: s.resolver,
		log:      s.log,
		remote:   peer,
	}
	if s.buffered {
		client.buffered = true
		client.bufPool = s.bufPool
		client.buf = &readBuffer{data: s.bufPool.GetBuffer()}
	}
	if s.tlsCtx != nil {
		if err := client.wrapServer(s.tlsCtx); err != nil {
			_ = client.Close()
			return err
		}
		if err := client.driveHandshake(poll.NewBudget(poll.Infinite)); err != nil {
			_ = client.Close()
			return err
		}
	}
	s.log.Debug("accepted connection",
		zap.String("peer", peer.Addr.String()),
		zap.Uint16("port", peer.Port))
	return nil
}

// Connect resolves host and connects to the first reachable candidate.
//
// Without a timeout (timeoutMs < 0) each candidate is tried with a
// blocking connect and the last candidate's failure is returned if none
// succeeds. With a timeout the handle is switched to non-blocking,
// candidates are attempted until one connects or reports in-progress, a
// single writability wait bounded by the budget follows, and blocking mode
// is restored; a TLS-wrapped socket then completes its handshake within
// the same budget before returning.
func (s *Socket) Connect(host string, port uint16, timeoutMs int) error {
	if err := s.needOS(); err != nil {
		return err
	}
	eps, err := s.resolver.Resolve(host, port, s.family)
	if err != nil {
		return api.WrapError(api.CodeOS, "resolve "+host, err)
	}
	s.log.Debug("connecting",
		zap.String("host", host),
		zap.Uint16("port", port),
		zap.Int("candidates", len(eps)),
		zap.Int("timeout_ms", timeoutMs))

	// remote holds a candidate while the attempt is in flight; a failed
	// attempt must not leave it reporting a peer that was never reached.
	established := false
	defer func() {
		if !established {
			s.remote = Endpoint{}
		}
	}()

	if timeoutMs < 0 {
		var lastErr error
		for _, ep := range eps {
			if lastErr = s.os.connect(ep); lastErr == nil {
				s.remote = ep
				established = true
				return nil
			}
		}
		return osError("connect", lastErr)
	}

	budget := poll.NewBudget(timeoutMs)
	if err := s.rc.SetBlocking(false); err != nil {
		return err
	}
	var lastErr error
	connected := false
	waiting := false
	for _, ep := range eps {
		err := s.os.connect(ep)
		if err == nil {
			s.remote = ep
			connected = true
			break
		}
		if inProgress(err) {
			s.remote = ep
			waiting = true
			break
		}
		lastErr = err
	}
	if !connected {
		if !waiting {
			_ = s.rc.SetBlocking(true)
			return osError("connect", lastErr)
		}
		if err := s.rc.WaitWritable(budget.Remaining()); err != nil {
			_ = s.rc.SetBlocking(true)
			return err
		}
		code, err := s.os.soError()
		if err != nil {
			_ = s.rc.SetBlocking(true)
			return err
		}
		if code != 0 {
			_ = s.rc.SetBlocking(true)
			return osError("connect", syscall.Errno(code))
		}
	}
	if err := s.rc.SetBlocking(true); err != nil {
		return err
	}
	if s.tls != nil {
		if err := s.driveHandshake(budget); err != nil {
			return err
		}
		if !s.tls.done {
			return api.NewError(api.CodeTLS, "handshake did not complete after connect")
		}
	}
	established = true
	return nil
}

// SetOption sets a boolean socket option.
func (s *Socket) SetOption(opt BoolOption, on bool) error {
	if err := s.needOS(); err != nil {
		return err
	}
	return s.os.setBoolOption(opt, on)
}

// Option queries a boolean socket option.
func (s *Socket) Option(opt BoolOption) (bool, error) {
	if err := s.needOS(); err != nil {
		return false, err
	}
	return s.os.boolOption(opt)
}

// SendTo sends one datagram to the given endpoint.
func (s *Socket) SendTo(p []byte, ep Endpoint) (int, error) {
	if err := s.needOS(); err != nil {
		return 0, err
	}
	return s.os.sendTo(p, ep)
}

// RecvFrom receives one datagram and reports its source endpoint.
func (s *Socket) RecvFrom(p []byte) (int, Endpoint, error) {
	if err := s.needOS(); err != nil {
		return 0, Endpoint{}, err
	}
	return s.os.recvFrom(p)
}

// Close releases the socket. On a TLS socket with a completed handshake
// the closing handshake runs first, with at most one retry when the first
// report is ambiguous; the raw handle is released even when the shutdown
// fails. A wrapped socket that never handshook (a TLS listener, a failed
// connect) has no session to close down. Further calls are no-ops.
func (s *Socket) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var tlsErr error
	if s.tls != nil && s.tls.done {
		tlsErr = s.tls.shutdown()
	}
	if s.buf != nil {
		s.bufPool.PutBuffer(s.buf.data)
		s.buf = nil
	}
	var closeErr error
	if s.rc != nil {
		closeErr = s.rc.Close()
	}
	if s.log != nil {
		s.log.Debug("socket closed", zap.Bool("tls", s.tls != nil))
	}
	if tlsErr != nil {
		return tlsErr
	}
	return closeErr
}
