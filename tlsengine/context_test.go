// File: tlsengine/context_test.go

package tlsengine

import (
	"crypto/tls"
	"testing"

	"github.com/veliant/netsock/api"
	"github.com/veliant/netsock/fake"
)

func TestNewContextVersionBounds(t *testing.T) {
	cases := []struct {
		version Version
		min     uint16
	}{
		{VersionAny, 0},
		{VersionTLS10, tls.VersionTLS10},
		{VersionTLS12, tls.VersionTLS12},
		{VersionTLS13, tls.VersionTLS13},
	}
	for _, tc := range cases {
		ctx, err := NewContext(tc.version, VerifyNone)
		if err != nil {
			t.Fatalf("NewContext(%v): %v", tc.version, err)
		}
		if ctx.cfg.MinVersion != tc.min {
			t.Errorf("version %v: MinVersion = %#x, want %#x", tc.version, ctx.cfg.MinVersion, tc.min)
		}
	}
}

func TestNewContextRejectsDeadProtocols(t *testing.T) {
	for _, v := range []Version{VersionSSL20, VersionSSL30} {
		_, err := NewContext(v, VerifyNone)
		if api.CodeOf(err) != api.CodeNotSupported {
			t.Errorf("NewContext(%v) = %v, want CodeNotSupported", v, err)
		}
	}
	if _, err := NewContext(Version(99), VerifyNone); api.CodeOf(err) != api.CodeNotSupported {
		t.Errorf("unknown version accepted: %v", err)
	}
}

func TestNewContextVerifyModes(t *testing.T) {
	none, err := NewContext(VersionAny, VerifyNone)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	if !none.cfg.InsecureSkipVerify || none.cfg.ClientAuth != tls.NoClientCert {
		t.Errorf("VerifyNone config = (skip %v, auth %v)", none.cfg.InsecureSkipVerify, none.cfg.ClientAuth)
	}

	peer, err := NewContext(VersionAny, VerifyPeer)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	if peer.cfg.InsecureSkipVerify || peer.cfg.ClientAuth != tls.RequireAndVerifyClientCert {
		t.Errorf("VerifyPeer config = (skip %v, auth %v)", peer.cfg.InsecureSkipVerify, peer.cfg.ClientAuth)
	}
}

func TestWithKeyPairMissingFiles(t *testing.T) {
	_, err := NewContext(VersionAny, VerifyNone,
		WithKeyPair("/nonexistent/cert.pem", "/nonexistent/key.pem"))
	if api.CodeOf(err) != api.CodeTLS {
		t.Fatalf("NewContext = %v, want CodeTLS", err)
	}
}

func TestServerRequiresCertificate(t *testing.T) {
	ctx, err := NewContext(VersionAny, VerifyNone)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	if _, err := ctx.Server(fake.NewRawConn()); api.CodeOf(err) != api.CodeTLS {
		t.Fatalf("Server without certificate = %v, want CodeTLS", err)
	}
}

func TestClientSharesConfigSafely(t *testing.T) {
	ctx, err := NewContext(VersionAny, VerifyNone, WithServerName("example.com"))
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	if _, err := ctx.Client(fake.NewRawConn()); err != nil {
		t.Fatalf("Client: %v", err)
	}
	// The per-connection clone must not leak the SNI name back into the
	// shared config.
	if ctx.cfg.ServerName != "" {
		t.Fatalf("shared config ServerName = %q, want empty", ctx.cfg.ServerName)
	}
	if ctx.serverName != "example.com" {
		t.Fatalf("serverName = %q", ctx.serverName)
	}
}
