// File: tlsengine/context.go
//
// Package tlsengine implements the api.TLSContext / api.TLSEngine
// contracts on top of the platform TLS engine (crypto/tls). The engine is
// treated as opaque by the socket layer: it is created here, bound to a
// raw connection, and driven through the api interfaces only.
package tlsengine

import (
	"crypto/tls"
	"crypto/x509"
	"sync"

	"github.com/veliant/netsock/api"
)

// Version selects the protocol bounds of a context.
type Version int

const (
	// VersionAny accepts every protocol version the engine supports.
	VersionAny Version = iota
	// VersionSSL20 and VersionSSL30 exist for configuration compatibility;
	// the engine no longer implements them and rejects such contexts.
	VersionSSL20
	VersionSSL30
	VersionTLS10
	VersionTLS12
	VersionTLS13
)

// VerifyMode selects peer certificate verification.
type VerifyMode int

const (
	// VerifyNone disables peer verification on both roles.
	VerifyNone VerifyMode = iota
	// VerifyPeer makes clients verify the server chain and servers demand
	// and verify a client certificate.
	VerifyPeer
)

var (
	initOnce    sync.Once
	systemRoots *x509.CertPool
)

// initEngine performs the process-wide one-time engine initialization.
// Repeated calls are no-ops.
func initEngine() {
	initOnce.Do(func() {
		// A nil pool falls back to the engine's own defaults.
		systemRoots, _ = x509.SystemCertPool()
	})
}

// Context is long-lived TLS configuration shared by many sockets.
type Context struct {
	cfg        *tls.Config
	serverName string
}

var _ api.TLSContext = (*Context)(nil)

// ContextOption customizes context creation.
type ContextOption func(*Context) error

// WithKeyPair loads a certificate/key file pair into the context. Loading
// fails when either file is absent or the key does not match the
// certificate.
func WithKeyPair(certFile, keyFile string) ContextOption {
	return func(c *Context) error {
		cert, err := tls.LoadX509KeyPair(certFile, keyFile)
		if err != nil {
			return api.WrapError(api.CodeTLS, "load key pair", err)
		}
		c.cfg.Certificates = append(c.cfg.Certificates, cert)
		return nil
	}
}

// WithServerName sets the name clients present for SNI and verify the
// server certificate against.
func WithServerName(name string) ContextOption {
	return func(c *Context) error {
		c.serverName = name
		return nil
	}
}

// WithClientCAs sets the pool servers verify client certificates against
// under VerifyPeer.
func WithClientCAs(pool *x509.CertPool) ContextOption {
	return func(c *Context) error {
		c.cfg.ClientCAs = pool
		return nil
	}
}

// NewContext creates a context with the given protocol bounds and
// verification mode.
func NewContext(v Version, m VerifyMode, opts ...ContextOption) (*Context, error) {
	initEngine()
	cfg := &tls.Config{}
	switch v {
	case VersionAny:
		// Engine defaults.
	case VersionSSL20, VersionSSL30:
		return nil, api.NewError(api.CodeNotSupported, "SSLv2/SSLv3 are no longer supported by the engine")
	case VersionTLS10:
		cfg.MinVersion = tls.VersionTLS10
	case VersionTLS12:
		cfg.MinVersion = tls.VersionTLS12
	case VersionTLS13:
		cfg.MinVersion = tls.VersionTLS13
	default:
		return nil, api.NewError(api.CodeNotSupported, "unknown protocol version")
	}
	switch m {
	case VerifyNone:
		cfg.InsecureSkipVerify = true
		cfg.ClientAuth = tls.NoClientCert
	case VerifyPeer:
		cfg.RootCAs = systemRoots
		cfg.ClientAuth = tls.RequireAndVerifyClientCert
	default:
		return nil, api.NewError(api.CodeNotSupported, "unknown verify mode")
	}
	ctx := &Context{cfg: cfg}
	for _, o := range opts {
		if err := o(ctx); err != nil {
			return nil, err
		}
	}
	return ctx, nil
}

// Client implements api.TLSContext.
func (c *Context) Client(rc api.RawConn) (api.TLSEngine, error) {
	cfg := c.cfg.Clone()
	cfg.ServerName = c.serverName
	return &engine{conn: tls.Client(newRawNetConn(rc), cfg)}, nil
}

// Server implements api.TLSContext.
func (c *Context) Server(rc api.RawConn) (api.TLSEngine, error) {
	if len(c.cfg.Certificates) == 0 {
		return nil, api.NewError(api.CodeTLS, "server context has no certificate")
	}
	return &engine{conn: tls.Server(newRawNetConn(rc), c.cfg.Clone())}, nil
}
