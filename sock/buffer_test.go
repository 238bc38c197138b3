// File: sock/buffer_test.go

package sock

import (
	"errors"
	"io"
	"testing"
)

func TestReadBufferCursors(t *testing.T) {
	b := &readBuffer{data: make([]byte, 8)}
	if !b.empty() {
		t.Fatal("new buffer should be empty")
	}

	src := []byte("abcdef")
	n, err := b.fill(func(p []byte) (int, error) {
		return copy(p, src), nil
	})
	if err != nil || n != 6 {
		t.Fatalf("fill = (%d, %v), want (6, nil)", n, err)
	}
	if b.buffered() != 6 {
		t.Fatalf("buffered() = %d, want 6", b.buffered())
	}

	out := make([]byte, 4)
	if got := b.take(out); got != 4 || string(out) != "abcd" {
		t.Fatalf("take = %d %q", got, out)
	}
	if b.peek() != 'e' {
		t.Fatalf("peek = %c, want e", b.peek())
	}
	if got := b.take(out); got != 2 || string(out[:2]) != "ef" {
		t.Fatalf("second take = %d %q", got, out[:2])
	}
	if !b.empty() {
		t.Fatal("buffer should be exhausted")
	}
}

func TestReadBufferFillCollapsesOnFailure(t *testing.T) {
	b := &readBuffer{data: make([]byte, 8)}
	b.length = 5
	b.pos = 5

	fail := errors.New("boom")
	if _, err := b.fill(func(p []byte) (int, error) { return 0, fail }); err != fail {
		t.Fatalf("fill error = %v, want boom", err)
	}
	if b.pos != 0 || b.length != 0 {
		t.Fatalf("cursors = (%d,%d), want (0,0)", b.pos, b.length)
	}

	if n, err := b.fill(func(p []byte) (int, error) { return 0, io.EOF }); n != 0 || err != io.EOF {
		t.Fatalf("fill at EOF = (%d, %v)", n, err)
	}
	if !b.empty() {
		t.Fatal("buffer not empty after EOF fill")
	}
}
