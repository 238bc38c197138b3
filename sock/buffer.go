// File: sock/buffer.go
//
// Fixed-capacity read-ahead buffer with two cursors. pos == length means
// empty; the next read must refill from the transfer source.

package sock

type readBuffer struct {
	data   []byte
	pos    int
	length int
}

// invariant: 0 <= pos <= length <= len(data)

func (b *readBuffer) empty() bool { return b.pos == b.length }

// buffered returns the byte count available without a refill.
func (b *readBuffer) buffered() int { return b.length - b.pos }

// take copies buffered bytes into p and advances the read cursor.
func (b *readBuffer) take(p []byte) int {
	n := copy(p, b.data[b.pos:b.length])
	b.pos += n
	return n
}

// peek returns the next buffered byte without advancing. Only valid when
// not empty.
func (b *readBuffer) peek() byte { return b.data[b.pos] }

// fill collapses the cursors and issues exactly one read of up to the full
// capacity. A zero or failed read leaves the buffer empty; the result is
// propagated, never retried here.
func (b *readBuffer) fill(read func([]byte) (int, error)) (int, error) {
	b.pos, b.length = 0, 0
	n, err := read(b.data)
	if err != nil || n <= 0 {
		return 0, err
	}
	b.length = n
	return n, nil
}
