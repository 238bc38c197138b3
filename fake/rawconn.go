// File: fake/rawconn.go
//
// Package fake provides scriptable implementations of the api contracts
// for testing: a raw connection with predictable fragmentation and a TLS
// engine with scripted handshake and shutdown behavior.
package fake

import (
	"bytes"
	"io"
	"sync"

	"github.com/veliant/netsock/api"
)

// RawConn is a scriptable api.RawConn. Reads consume at most one queued
// chunk per call, so fragmentation across transfers is fully controlled by
// the test.
type RawConn struct {
	mu         sync.Mutex
	chunks     [][]byte
	readErr    error
	writeErr   error
	writeLimit int
	written    bytes.Buffer
	waitErr    error
	closeCount int
	blocking   bool
}

var _ api.RawConn = (*RawConn)(nil)

// NewRawConn creates an empty fake connection in blocking mode.
func NewRawConn() *RawConn {
	return &RawConn{blocking: true}
}

// Queue appends one read fragment. A drained queue reads as end of
// stream.
func (c *RawConn) Queue(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	c.chunks = append(c.chunks, buf)
}

// QueueString is Queue for string fragments.
func (c *RawConn) QueueString(data string) { c.Queue([]byte(data)) }

// SetReadError makes every following Read fail.
func (c *RawConn) SetReadError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readErr = err
}

// SetWriteError makes every following Write fail.
func (c *RawConn) SetWriteError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeErr = err
}

// SetWriteLimit caps the bytes delivered per Write, simulating short
// writes. Zero means unlimited.
func (c *RawConn) SetWriteLimit(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeLimit = n
}

// SetWaitError makes readiness waits fail, simulating a primitive error
// or an expired deadline.
func (c *RawConn) SetWaitError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waitErr = err
}

// Written returns everything delivered through Write.
func (c *RawConn) Written() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]byte, c.written.Len())
	copy(out, c.written.Bytes())
	return out
}

// CloseCount reports how many times Close was called.
func (c *RawConn) CloseCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeCount
}

// Blocking reports the current transfer mode.
func (c *RawConn) Blocking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blocking
}

func (c *RawConn) Read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return 0, c.readErr
	}
	if len(c.chunks) == 0 {
		return 0, io.EOF
	}
	head := c.chunks[0]
	n := copy(p, head)
	if n == len(head) {
		c.chunks = c.chunks[1:]
	} else {
		c.chunks[0] = head[n:]
	}
	return n, nil
}

func (c *RawConn) Peek(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return 0, c.readErr
	}
	if len(c.chunks) == 0 {
		return 0, io.EOF
	}
	return copy(p, c.chunks[0]), nil
}

func (c *RawConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	n := len(p)
	if c.writeLimit > 0 && n > c.writeLimit {
		n = c.writeLimit
	}
	c.written.Write(p[:n])
	return n, nil
}

// WaitReadable succeeds while data is queued; with an empty queue it
// reports the scripted wait error, or an expired deadline for bounded
// waits.
func (c *RawConn) WaitReadable(timeoutMs int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.waitErr != nil {
		return c.waitErr
	}
	if len(c.chunks) > 0 || timeoutMs < 0 {
		return nil
	}
	return api.NewError(api.CodeTimeout, "readiness wait timed out")
}

func (c *RawConn) WaitWritable(timeoutMs int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.waitErr != nil {
		return c.waitErr
	}
	return nil
}

func (c *RawConn) SetBlocking(block bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocking = block
	return nil
}

func (c *RawConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeCount++
	return nil
}

func (c *RawConn) Fd() uintptr { return 0 }
