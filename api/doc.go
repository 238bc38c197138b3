// File: api/doc.go
//
// Package api defines the shared contracts of the netsock library: the
// error taxonomy, the raw connection abstraction, address resolution, and
// the opaque TLS engine interfaces. Concrete implementations live in the
// sock, poll and tlsengine packages; fakes for testing live in fake.
package api
