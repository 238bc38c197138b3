// File: sock/resolver.go
//
// Hostname resolution for Connect. The resolver is an external
// collaborator behind an interface so callers can substitute their own
// ordering or caching.

package sock

import (
	"context"
	"net"

	"github.com/pkg/errors"

	"github.com/veliant/netsock/addr"
	"github.com/veliant/netsock/api"
)

// Endpoint is one candidate connection target.
type Endpoint struct {
	Addr addr.IPAddr
	Port uint16
}

// Resolver turns a hostname or IP literal into an ordered candidate list
// restricted to one address family.
type Resolver interface {
	Resolve(host string, port uint16, family addr.Family) ([]Endpoint, error)
}

// NetResolver resolves through the standard library resolver.
type NetResolver struct {
	r *net.Resolver
}

// NewNetResolver creates a resolver backed by net.DefaultResolver.
func NewNetResolver() *NetResolver {
	return &NetResolver{r: net.DefaultResolver}
}

// Resolve implements Resolver. IP literals short-circuit the lookup.
func (n *NetResolver) Resolve(host string, port uint16, family addr.Family) ([]Endpoint, error) {
	if ip, err := addr.Parse(host); err == nil {
		if ip.Family() != family {
			return nil, api.NewError(api.CodeInvalidAddress, "literal address family does not match socket family")
		}
		return []Endpoint{{Addr: ip, Port: port}}, nil
	}

	network := "ip4"
	if family == addr.FamilyIPv6 {
		network = "ip6"
	}
	ips, err := n.r.LookupNetIP(context.Background(), network, host)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", host)
	}
	out := make([]Endpoint, 0, len(ips))
	for _, ip := range ips {
		if family == addr.FamilyIPv4 && ip.Is4() {
			out = append(out, Endpoint{Addr: addr.From4(ip.As4()), Port: port})
		} else if family == addr.FamilyIPv6 && ip.Is6() && !ip.Is4In6() {
			out = append(out, Endpoint{Addr: addr.From16(ip.As16()), Port: port})
		}
	}
	if len(out) == 0 {
		return nil, errors.Errorf("resolve %s: no %s addresses", host, family)
	}
	return out, nil
}
