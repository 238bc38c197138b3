//go:build linux || darwin

// File: poll/poll_unix_test.go

package poll

import (
	"testing"

	"golang.org/x/sys/unix"

	"github.com/veliant/netsock/api"
)

func pipePair(t *testing.T) (r, w int) {
	t.Helper()
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		t.Fatalf("pipe: %v", err)
	}
	t.Cleanup(func() {
		unix.Close(fds[0])
		unix.Close(fds[1])
	})
	return fds[0], fds[1]
}

func TestWaitReadableTimesOut(t *testing.T) {
	r, _ := pipePair(t)
	err := WaitReadable(uintptr(r), 20)
	if err == nil {
		t.Fatal("expected timeout on empty pipe")
	}
	if api.CodeOf(err) != api.CodeTimeout {
		t.Fatalf("error code = %v, want CodeTimeout (%v)", api.CodeOf(err), err)
	}
}

func TestWaitReadableSeesData(t *testing.T) {
	r, w := pipePair(t)
	if _, err := unix.Write(w, []byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := WaitReadable(uintptr(r), 1000); err != nil {
		t.Fatalf("WaitReadable: %v", err)
	}
}

func TestWaitWritable(t *testing.T) {
	_, w := pipePair(t)
	if err := WaitWritable(uintptr(w), 1000); err != nil {
		t.Fatalf("WaitWritable on empty pipe: %v", err)
	}
}
