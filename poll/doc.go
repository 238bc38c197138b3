// File: poll/doc.go
//
// Package poll wraps the OS readiness primitive behind bounded
// WaitReadable/WaitWritable calls and provides the timeout budget used to
// spread one deadline across several waits. Platform implementations are
// separated by build tags; unsupported platforms get a stub.
package poll
