//go:build !linux && !darwin

// File: poll/poll_stub.go
//
// Stub for platforms without a poll(2) binding.

package poll

import "github.com/veliant/netsock/api"

// WaitReadable is not available on this platform.
func WaitReadable(fd uintptr, timeoutMs int) error {
	return api.NewError(api.CodeNotSupported, "readiness wait not supported on this platform")
}

// WaitWritable is not available on this platform.
func WaitWritable(fd uintptr, timeoutMs int) error {
	return api.NewError(api.CodeNotSupported, "readiness wait not supported on this platform")
}
