// File: sock/socket_test.go

package sock_test

import (
	"io"
	"testing"

	"github.com/veliant/netsock/api"
	"github.com/veliant/netsock/fake"
	"github.com/veliant/netsock/sock"
)

func TestBufferedReadCoalescesFragments(t *testing.T) {
	rc := fake.NewRawConn()
	rc.QueueString("hel")
	rc.QueueString("lo wo")
	rc.QueueString("rld!")
	s := sock.NewFromConn(rc, sock.WithBufferSize(64))
	defer s.Close()

	out := make([]byte, 12)
	n, err := s.Read(out)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 12 || string(out) != "hello world!" {
		t.Fatalf("Read = (%d, %q)", n, out)
	}

	// No residual bytes: the next read must hit the drained source.
	if _, err := s.Read(out[:1]); err != io.EOF {
		t.Fatalf("expected EOF after exact read, got %v", err)
	}
}

func TestBufferedReadShortOnEOF(t *testing.T) {
	rc := fake.NewRawConn()
	rc.QueueString("abc")
	s := sock.NewFromConn(rc, sock.WithBufferSize(16))
	defer s.Close()

	out := make([]byte, 10)
	n, err := s.Read(out)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 3 || string(out[:3]) != "abc" {
		t.Fatalf("Read = (%d, %q), want short count 3", n, out[:n])
	}
	if _, err := s.Read(out); err != io.EOF {
		t.Fatalf("second Read = %v, want io.EOF", err)
	}
}

func TestUnbufferedReadSingleTransfer(t *testing.T) {
	rc := fake.NewRawConn()
	rc.QueueString("abc")
	rc.QueueString("def")
	s := sock.NewFromConn(rc)
	defer s.Close()

	out := make([]byte, 6)
	n, err := s.Read(out)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 3 {
		t.Fatalf("unbuffered Read = %d, want one fragment of 3", n)
	}
}

func TestPeekByte(t *testing.T) {
	rc := fake.NewRawConn()
	rc.QueueString("xy")
	s := sock.NewFromConn(rc)
	defer s.Close()

	b, err := s.PeekByte()
	if err != nil || b != 'x' {
		t.Fatalf("PeekByte = (%c, %v)", b, err)
	}
	// Peeking must not consume.
	b, err = s.PeekByte()
	if err != nil || b != 'x' {
		t.Fatalf("second PeekByte = (%c, %v)", b, err)
	}
	one := make([]byte, 1)
	if _, err := s.Read(one); err != nil || one[0] != 'x' {
		t.Fatalf("Read after peek = (%q, %v)", one, err)
	}
}

func TestPeekByteBuffered(t *testing.T) {
	rc := fake.NewRawConn()
	rc.QueueString("q")
	s := sock.NewFromConn(rc, sock.WithBufferSize(8))
	defer s.Close()

	b, err := s.PeekByte()
	if err != nil || b != 'q' {
		t.Fatalf("PeekByte = (%c, %v)", b, err)
	}
	one := make([]byte, 1)
	if n, err := s.Read(one); n != 1 || err != nil || one[0] != 'q' {
		t.Fatalf("Read = (%d, %q, %v)", n, one, err)
	}
}

func TestReadLineTerminators(t *testing.T) {
	cases := []struct {
		name  string
		input string
		lines []string
	}{
		{"crlf", "abc\r\n", []string{"abc"}},
		{"bare lf", "abc\n", []string{"abc"}},
		{"bare cr mid-stream", "ab\rcd\n", []string{"ab", "cd"}},
		{"two lines", "a\nb\n", []string{"a", "b"}},
		{"empty line crlf", "\r\n", []string{"\r\n"}},
		{"empty line lf", "\nrest\n", []string{"\n", "rest"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rc := fake.NewRawConn()
			rc.QueueString(tc.input)
			s := sock.NewFromConn(rc, sock.WithBufferSize(32))
			defer s.Close()

			for i, want := range tc.lines {
				got, err := s.ReadLine(-1)
				if err != nil {
					t.Fatalf("line %d: %v", i, err)
				}
				if got != want {
					t.Fatalf("line %d = %q, want %q", i, got, want)
				}
			}
		})
	}
}

func TestReadLineBareCRAtEOF(t *testing.T) {
	rc := fake.NewRawConn()
	rc.QueueString("\r")
	s := sock.NewFromConn(rc)
	defer s.Close()

	got, err := s.ReadLine(-1)
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if got != "\r" {
		t.Fatalf("ReadLine = %q, want empty-line substitution %q", got, "\r")
	}
}

func TestReadLineClosedStream(t *testing.T) {
	rc := fake.NewRawConn()
	s := sock.NewFromConn(rc)
	defer s.Close()

	got, err := s.ReadLine(-1)
	if err != io.EOF {
		t.Fatalf("ReadLine on closed stream = (%q, %v), want io.EOF", got, err)
	}
	if got != "" {
		t.Fatalf("ReadLine returned %q, want empty", got)
	}
}

func TestReadLineTimeout(t *testing.T) {
	rc := fake.NewRawConn()
	s := sock.NewFromConn(rc, sock.WithBufferSize(8))
	defer s.Close()

	_, err := s.ReadLine(25)
	if api.CodeOf(err) != api.CodeTimeout {
		t.Fatalf("ReadLine error = %v, want CodeTimeout", err)
	}
}

func TestSkip(t *testing.T) {
	rc := fake.NewRawConn()
	rc.QueueString("hello ")
	rc.QueueString("world")
	s := sock.NewFromConn(rc, sock.WithBufferSize(4))
	defer s.Close()

	if err := s.Skip(6, -1); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	out := make([]byte, 5)
	n, err := s.Read(out)
	if err != nil || n != 5 || string(out) != "world" {
		t.Fatalf("Read after Skip = (%d, %q, %v)", n, out, err)
	}
}

func TestSkipPastEOF(t *testing.T) {
	rc := fake.NewRawConn()
	rc.QueueString("ab")
	s := sock.NewFromConn(rc)
	defer s.Close()

	if err := s.Skip(5, -1); err != io.EOF {
		t.Fatalf("Skip past EOF = %v, want io.EOF", err)
	}
}

func TestWriteShortDelivery(t *testing.T) {
	rc := fake.NewRawConn()
	rc.SetWriteLimit(3)
	s := sock.NewFromConn(rc)
	defer s.Close()

	n, err := s.Write([]byte("hello"))
	if n != 3 {
		t.Fatalf("Write = %d, want delivered count 3", n)
	}
	if api.CodeOf(err) != api.CodeShortWrite {
		t.Fatalf("Write error = %v, want CodeShortWrite", err)
	}

	rc.SetWriteLimit(0)
	if n, err := s.Write([]byte("hello")); n != 5 || err != nil {
		t.Fatalf("full Write = (%d, %v)", n, err)
	}
}

func TestWaitForStagedData(t *testing.T) {
	rc := fake.NewRawConn()
	rc.QueueString("abcd")
	s := sock.NewFromConn(rc, sock.WithBufferSize(16))
	defer s.Close()

	// Pull the fragment into the buffer without consuming it.
	if _, err := s.PeekByte(); err != nil {
		t.Fatalf("PeekByte: %v", err)
	}
	// Staged bytes are reported immediately, capped at need. A zero
	// timeout proves no wait happens.
	if n, err := s.WaitFor(0, 2); n != 2 || err != nil {
		t.Fatalf("WaitFor(0,2) = (%d, %v), want (2, nil)", n, err)
	}
	if n, err := s.WaitFor(0, 99); n != 4 || err != nil {
		t.Fatalf("WaitFor(0,99) = (%d, %v), want (4, nil)", n, err)
	}
}

func TestWaitForInfiniteTimeout(t *testing.T) {
	rc := fake.NewRawConn()
	s := sock.NewFromConn(rc)
	defer s.Close()

	// Infinite timeout trusts the blocking transfer call.
	if n, err := s.WaitFor(-1, 7); n != 7 || err != nil {
		t.Fatalf("WaitFor(-1,7) = (%d, %v), want (7, nil)", n, err)
	}
}

func TestWaitForTimesOut(t *testing.T) {
	rc := fake.NewRawConn()
	s := sock.NewFromConn(rc)
	defer s.Close()

	_, err := s.WaitFor(10, 1)
	if api.CodeOf(err) != api.CodeTimeout {
		t.Fatalf("WaitFor error = %v, want CodeTimeout", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	rc := fake.NewRawConn()
	s := sock.NewFromConn(rc)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if rc.CloseCount() != 1 {
		t.Fatalf("raw handle closed %d times, want exactly once", rc.CloseCount())
	}
	if _, err := s.Read(make([]byte, 1)); api.CodeOf(err) != api.CodeClosed {
		t.Fatalf("Read after Close = %v, want CodeClosed", err)
	}
}

func TestOSOnlyOperationsRejectComposedSockets(t *testing.T) {
	s := sock.NewFromConn(fake.NewRawConn())
	defer s.Close()

	if err := s.Listen(1); api.CodeOf(err) != api.CodeNotSupported {
		t.Fatalf("Listen = %v, want CodeNotSupported", err)
	}
	if err := s.Connect("localhost", 80, -1); api.CodeOf(err) != api.CodeNotSupported {
		t.Fatalf("Connect = %v, want CodeNotSupported", err)
	}
}
