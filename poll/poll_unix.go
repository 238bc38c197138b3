//go:build linux || darwin

// File: poll/poll_unix.go
//
// Readiness waits via poll(2) for Unix-like systems.

package poll

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/veliant/netsock/api"
)

// WaitReadable blocks until fd is readable or the timeout (milliseconds,
// Infinite for unbounded) elapses. Expiry is an api.ErrTimeout-classed
// error; a primitive failure is api.ErrOSFailure-classed.
func WaitReadable(fd uintptr, timeoutMs int) error {
	return wait(fd, unix.POLLIN, timeoutMs)
}

// WaitWritable is WaitReadable for the write direction.
func WaitWritable(fd uintptr, timeoutMs int) error {
	return wait(fd, unix.POLLOUT, timeoutMs)
}

func wait(fd uintptr, events int16, timeoutMs int) error {
	fds := []unix.PollFd{{Fd: int32(fd), Events: events}}
	remaining := timeoutMs
	start := time.Now()
	for {
		n, err := unix.Poll(fds, remaining)
		if err == unix.EINTR {
			// Interrupted by a signal; keep waiting with the time that is
			// actually left.
			if timeoutMs >= 0 {
				elapsed := int(time.Since(start) / time.Millisecond)
				remaining = timeoutMs - elapsed
				if remaining <= 0 {
					return api.NewError(api.CodeTimeout, "readiness wait timed out")
				}
			}
			continue
		}
		if err != nil {
			return api.WrapError(api.CodeOS, "poll", err)
		}
		if n == 0 {
			return api.NewError(api.CodeTimeout, "readiness wait timed out")
		}
		if fds[0].Revents&(unix.POLLERR|unix.POLLNVAL) != 0 {
			return api.NewError(api.CodeOS, "handle reported error state")
		}
		return nil
	}
}
