// File: api/errors.go
//
// Common error taxonomy for the netsock library.

package api

import (
	"errors"
	"fmt"
)

// Sentinel errors used across the library. Wrapped errors can be classified
// with errors.Is against these, or with CodeOf.
var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrTimeout        = errors.New("operation timed out")
	ErrOSFailure      = errors.New("system call failed")
	ErrTLSFailure     = errors.New("tls failure")
	ErrShortWrite     = errors.New("short write")
	ErrClosed         = errors.New("socket is closed")
	ErrNotSupported   = errors.New("operation not supported")
)

// Code identifies an error class of the library taxonomy.
type Code int

const (
	CodeOK Code = iota
	CodeInvalidAddress
	CodeTimeout
	CodeOS
	CodeTLS
	CodeShortWrite
	CodeClosed
	CodeNotSupported
	CodeInternal
)

// sentinel returns the sentinel error matching a code.
func (c Code) sentinel() error {
	switch c {
	case CodeInvalidAddress:
		return ErrInvalidAddress
	case CodeTimeout:
		return ErrTimeout
	case CodeOS:
		return ErrOSFailure
	case CodeTLS:
		return ErrTLSFailure
	case CodeShortWrite:
		return ErrShortWrite
	case CodeClosed:
		return ErrClosed
	case CodeNotSupported:
		return ErrNotSupported
	}
	return nil
}

// Error is a structured library error carrying a taxonomy code, a message
// and an optional underlying cause (an errno for CodeOS, the engine
// diagnostic for CodeTLS).
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes the cause chain for errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if s := e.Code.sentinel(); s != nil {
		out = append(out, s)
	}
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	return out
}

// NewError creates a structured error with the given code and message.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError creates a structured error around an underlying cause.
func WrapError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf classifies any error against the taxonomy. Unrecognized errors
// report CodeInternal; nil reports CodeOK.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	switch {
	case errors.Is(err, ErrInvalidAddress):
		return CodeInvalidAddress
	case errors.Is(err, ErrTimeout):
		return CodeTimeout
	case errors.Is(err, ErrOSFailure):
		return CodeOS
	case errors.Is(err, ErrTLSFailure):
		return CodeTLS
	case errors.Is(err, ErrShortWrite):
		return CodeShortWrite
	case errors.Is(err, ErrClosed):
		return CodeClosed
	case errors.Is(err, ErrNotSupported):
		return CodeNotSupported
	}
	return CodeInternal
}
