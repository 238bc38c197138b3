// File: sock/doc.go
//
// Package sock implements the socket facade: a raw OS socket handle with
// optional internal read buffering, timeout-bounded blocking reads and an
// optional TLS overlay. One Socket has one logical owner at a time;
// concurrent use from several goroutines must be serialized by the caller.
package sock
