// File: pool/bytepool.go
//
// Package pool provides fixed-size byte buffer pooling for socket read
// buffers. Sockets lease a buffer at construction and return it on close,
// keeping steady-state allocation flat under connection churn.
package pool

import "sync"

// BytePool hands out byte slices of one fixed size.
type BytePool struct {
	size int
	p    sync.Pool
}

// NewBytePool creates a pool of buffers of exactly size bytes.
func NewBytePool(size int) *BytePool {
	bp := &BytePool{size: size}
	bp.p.New = func() any {
		return make([]byte, size)
	}
	return bp
}

// Size returns the buffer size this pool serves.
func (b *BytePool) Size() int { return b.size }

// GetBuffer returns a buffer of the pool's size. Contents are unspecified.
func (b *BytePool) GetBuffer() []byte {
	return b.p.Get().([]byte)
}

// PutBuffer returns a buffer to the pool. Buffers of the wrong size are
// dropped for the GC instead of poisoning the pool.
func (b *BytePool) PutBuffer(buf []byte) {
	if cap(buf) != b.size {
		return
	}
	b.p.Put(buf[:b.size])
}

// defaultPools serves the common buffer sizes used by sockets, keyed by
// size, created on first use.
var (
	defaultMu    sync.Mutex
	defaultPools = map[int]*BytePool{}
)

// Default returns the process-wide pool for the given buffer size.
func Default(size int) *BytePool {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	bp, ok := defaultPools[size]
	if !ok {
		bp = NewBytePool(size)
		defaultPools[size] = bp
	}
	return bp
}
