// File: fake/tlsengine.go

package fake

import (
	"bytes"
	"io"
	"sync"

	"github.com/veliant/netsock/api"
)

// ShutdownStep scripts one Shutdown call of the fake engine.
type ShutdownStep struct {
	Done bool
	Err  error
}

// TLSEngine is a scriptable api.TLSEngine.
type TLSEngine struct {
	mu              sync.Mutex
	handshakeScript []error
	handshakeCalls  int
	shutdownScript  []ShutdownStep
	shutdownCalls   int
	plaintext       bytes.Buffer
	pending         int
	written         bytes.Buffer
	readErr         error
}

var _ api.TLSEngine = (*TLSEngine)(nil)

// NewTLSEngine creates an engine whose handshake succeeds immediately and
// whose shutdown completes on the first call.
func NewTLSEngine() *TLSEngine {
	return &TLSEngine{}
}

// ScriptHandshake queues the results of successive Handshake calls. An
// exhausted script succeeds.
func (e *TLSEngine) ScriptHandshake(results ...error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handshakeScript = append(e.handshakeScript, results...)
}

// ScriptShutdown queues the results of successive Shutdown calls. An
// exhausted script reports done.
func (e *TLSEngine) ScriptShutdown(steps ...ShutdownStep) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shutdownScript = append(e.shutdownScript, steps...)
}

// QueuePlaintext appends decrypted application data for Read.
func (e *TLSEngine) QueuePlaintext(data []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.plaintext.Write(data)
}

// SetPending sets the engine-buffered application byte count.
func (e *TLSEngine) SetPending(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = n
}

// SetReadError makes every following Read fail.
func (e *TLSEngine) SetReadError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.readErr = err
}

// HandshakeCalls reports how many handshake steps were driven.
func (e *TLSEngine) HandshakeCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.handshakeCalls
}

// ShutdownCalls reports how many shutdown steps were driven.
func (e *TLSEngine) ShutdownCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shutdownCalls
}

// Written returns everything delivered through Write.
func (e *TLSEngine) Written() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]byte, e.written.Len())
	copy(out, e.written.Bytes())
	return out
}

func (e *TLSEngine) Handshake() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handshakeCalls++
	if len(e.handshakeScript) == 0 {
		return nil
	}
	err := e.handshakeScript[0]
	e.handshakeScript = e.handshakeScript[1:]
	return err
}

func (e *TLSEngine) Read(p []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readErr != nil {
		return 0, e.readErr
	}
	if e.plaintext.Len() == 0 {
		return 0, io.EOF
	}
	n, _ := e.plaintext.Read(p)
	if e.pending > n {
		e.pending -= n
	} else {
		e.pending = 0
	}
	return n, nil
}

func (e *TLSEngine) Write(p []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.written.Write(p)
	return len(p), nil
}

func (e *TLSEngine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending
}

func (e *TLSEngine) Shutdown() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shutdownCalls++
	if len(e.shutdownScript) == 0 {
		return true, nil
	}
	step := e.shutdownScript[0]
	e.shutdownScript = e.shutdownScript[1:]
	return step.Done, step.Err
}

// TLSContext is a scriptable api.TLSContext handing out prepared engines.
type TLSContext struct {
	ClientEngine *TLSEngine
	ServerEngine *TLSEngine
	ClientErr    error
	ServerErr    error
}

var _ api.TLSContext = (*TLSContext)(nil)

// NewTLSContext creates a context whose client and server engines succeed
// immediately.
func NewTLSContext() *TLSContext {
	return &TLSContext{
		ClientEngine: NewTLSEngine(),
		ServerEngine: NewTLSEngine(),
	}
}

func (c *TLSContext) Client(rc api.RawConn) (api.TLSEngine, error) {
	if c.ClientErr != nil {
		return nil, c.ClientErr
	}
	return c.ClientEngine, nil
}

func (c *TLSContext) Server(rc api.RawConn) (api.TLSEngine, error) {
	if c.ServerErr != nil {
		return nil, c.ServerErr
	}
	return c.ServerEngine, nil
}
