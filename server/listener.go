// File: server/listener.go
//
// Package server layers an accept loop on top of a listening socket.
// Accepted connections are staged in a FIFO and handed to the caller's
// handler one at a time, keeping the per-socket single-owner contract of
// the sock package intact: the accept goroutine owns a socket only until
// it is queued, the dispatch goroutine only until the handler returns.
package server

import (
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/veliant/netsock/sock"
)

// Handler processes one accepted connection. The handler owns the socket
// and must close it.
type Handler func(*sock.Socket)

// Acceptor is the listening side of the sock facade.
type Acceptor interface {
	AcceptInto(client *sock.Socket) error
	Close() error
}

// Stats is a snapshot of listener counters.
type Stats struct {
	Accepted   int64
	Dispatched int64
	Dropped    int64
}

// Listener runs the accept and dispatch loops.
type Listener struct {
	acceptor   Acceptor
	handler    Handler
	log        *zap.Logger
	maxPending int

	mu      sync.Mutex
	cond    *sync.Cond
	pending *queue.Queue
	started bool
	closed  bool
	wg      sync.WaitGroup

	accepted   atomic.Int64
	dispatched atomic.Int64
	dropped    atomic.Int64
}

// New creates a listener over an already bound and listening socket.
func New(acceptor Acceptor, handler Handler, opts ...Option) (*Listener, error) {
	if acceptor == nil || handler == nil {
		return nil, errors.New("server: acceptor and handler are required")
	}
	l := &Listener{
		acceptor:   acceptor,
		handler:    handler,
		log:        zap.NewNop(),
		maxPending: DefaultMaxPending,
		pending:    queue.New(),
	}
	l.cond = sync.NewCond(&l.mu)
	for _, o := range opts {
		o(l)
	}
	return l, nil
}

// Start launches the accept and dispatch goroutines. A second Start is an
// error; a closed listener cannot be restarted.
func (l *Listener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return errors.New("server: listener is closed")
	}
	if l.started {
		return errors.New("server: listener already started")
	}
	l.started = true
	l.wg.Add(2)
	go l.acceptLoop()
	go l.dispatchLoop()
	l.log.Info("listener started")
	return nil
}

func (l *Listener) acceptLoop() {
	defer l.wg.Done()
	for {
		client := new(sock.Socket)
		if err := l.acceptor.AcceptInto(client); err != nil {
			l.mu.Lock()
			closed := l.closed
			l.mu.Unlock()
			if !closed {
				l.log.Warn("accept failed", zap.Error(err))
			}
			l.cond.Broadcast()
			return
		}
		l.accepted.Add(1)

		l.mu.Lock()
		if l.closed {
			l.mu.Unlock()
			_ = client.Close()
			return
		}
		if l.pending.Length() >= l.maxPending {
			l.mu.Unlock()
			l.dropped.Add(1)
			l.log.Warn("pending queue full, dropping connection")
			_ = client.Close()
			continue
		}
		l.pending.Add(client)
		l.mu.Unlock()
		l.cond.Signal()
	}
}

func (l *Listener) dispatchLoop() {
	defer l.wg.Done()
	for {
		l.mu.Lock()
		for l.pending.Length() == 0 && !l.closed {
			l.cond.Wait()
		}
		if l.pending.Length() == 0 && l.closed {
			l.mu.Unlock()
			return
		}
		client := l.pending.Remove().(*sock.Socket)
		l.mu.Unlock()

		l.dispatched.Add(1)
		l.handler(client)
	}
}

// Stats returns a snapshot of the listener counters.
func (l *Listener) Stats() Stats {
	return Stats{
		Accepted:   l.accepted.Load(),
		Dispatched: l.dispatched.Load(),
		Dropped:    l.dropped.Load(),
	}
}

// Close stops both loops, closes the listening socket to unblock the
// accept call, and closes connections still waiting in the queue.
// Idempotent.
func (l *Listener) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	var stale []*sock.Socket
	for l.pending.Length() > 0 {
		stale = append(stale, l.pending.Remove().(*sock.Socket))
	}
	l.mu.Unlock()
	l.cond.Broadcast()

	err := l.acceptor.Close()
	for _, c := range stale {
		_ = c.Close()
	}
	l.wg.Wait()
	l.log.Info("listener closed",
		zap.Int64("accepted", l.accepted.Load()),
		zap.Int64("dispatched", l.dispatched.Load()),
		zap.Int64("dropped", l.dropped.Load()))
	if err != nil {
		return errors.Wrap(err, "close listening socket")
	}
	return nil
}
