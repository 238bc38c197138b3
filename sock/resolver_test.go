// File: sock/resolver_test.go

package sock_test

import (
	"testing"

	"github.com/veliant/netsock/addr"
	"github.com/veliant/netsock/api"
	"github.com/veliant/netsock/sock"
)

func TestResolveLiteralShortCircuits(t *testing.T) {
	r := sock.NewNetResolver()

	eps, err := r.Resolve("192.168.1.10", 8080, addr.FamilyIPv4)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(eps) != 1 || eps[0].Addr != addr.MustParse("192.168.1.10") || eps[0].Port != 8080 {
		t.Fatalf("Resolve = %+v", eps)
	}

	eps, err = r.Resolve("::1", 443, addr.FamilyIPv6)
	if err != nil {
		t.Fatalf("Resolve v6 literal: %v", err)
	}
	if len(eps) != 1 || eps[0].Addr != addr.IPv6Loopback() {
		t.Fatalf("Resolve v6 literal = %+v", eps)
	}
}

func TestResolveLiteralFamilyMismatch(t *testing.T) {
	r := sock.NewNetResolver()

	_, err := r.Resolve("::1", 80, addr.FamilyIPv4)
	if api.CodeOf(err) != api.CodeInvalidAddress {
		t.Fatalf("Resolve = %v, want CodeInvalidAddress", err)
	}
	_, err = r.Resolve("10.0.0.1", 80, addr.FamilyIPv6)
	if api.CodeOf(err) != api.CodeInvalidAddress {
		t.Fatalf("Resolve = %v, want CodeInvalidAddress", err)
	}
}
