// File: addr/ipaddr.go
//
// Package addr provides an immutable IP address value type with parsing,
// canonical formatting and well-known constants for both families.
package addr

import "github.com/veliant/netsock/api"

// Family tags the active variant of an IPAddr.
type Family uint8

const (
	// FamilyNone is the zero IPAddr; it compares unequal to every address.
	FamilyNone Family = iota
	FamilyIPv4
	FamilyIPv6
)

// String returns the conventional family name.
func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "ipv4"
	case FamilyIPv6:
		return "ipv6"
	}
	return "none"
}

// IPAddr is an IPv4 or IPv6 address in network byte order. The zero value
// is no address. IPAddr is comparable: two addresses are equal iff they
// have the same family and the same bytes, so cross-family comparison is
// simply unequal, never an error.
type IPAddr struct {
	family Family
	v4     [4]byte
	v6     [16]byte
}

// From4 constructs an IPv4 address from 4 octets in network order.
func From4(b [4]byte) IPAddr {
	return IPAddr{family: FamilyIPv4, v4: b}
}

// From16 constructs an IPv6 address from 16 octets in network order.
func From16(b [16]byte) IPAddr {
	return IPAddr{family: FamilyIPv6, v6: b}
}

// IPv4Any returns the IPv4 wildcard address 0.0.0.0.
func IPv4Any() IPAddr { return From4([4]byte{0, 0, 0, 0}) }

// IPv4Loopback returns 127.0.0.1.
func IPv4Loopback() IPAddr { return From4([4]byte{127, 0, 0, 1}) }

// IPv4Broadcast returns the limited broadcast address 255.255.255.255.
func IPv4Broadcast() IPAddr { return From4([4]byte{255, 255, 255, 255}) }

// IPv6Any returns the IPv6 wildcard address ::.
func IPv6Any() IPAddr { return From16([16]byte{}) }

// IPv6Loopback returns ::1.
func IPv6Loopback() IPAddr {
	var b [16]byte
	b[15] = 1
	return From16(b)
}

// Family returns the active variant tag.
func (a IPAddr) Family() Family { return a.family }

// Is4 reports whether the address is IPv4.
func (a IPAddr) Is4() bool { return a.family == FamilyIPv4 }

// Is6 reports whether the address is IPv6.
func (a IPAddr) Is6() bool { return a.family == FamilyIPv6 }

// IsValid reports whether the address holds either variant.
func (a IPAddr) IsValid() bool { return a.family != FamilyNone }

// As4 returns the 4 octets of an IPv4 address. It panics on any other
// variant, matching the immutability of the tag.
func (a IPAddr) As4() [4]byte {
	if a.family != FamilyIPv4 {
		panic("addr: As4 on non-IPv4 address")
	}
	return a.v4
}

// As16 returns the 16 octets of an IPv6 address. It panics on any other
// variant.
func (a IPAddr) As16() [16]byte {
	if a.family != FamilyIPv6 {
		panic("addr: As16 on non-IPv6 address")
	}
	return a.v6
}

// Equal reports structural equality. Addresses of different families are
// unequal.
func (a IPAddr) Equal(b IPAddr) bool { return a == b }

// MarshalText implements encoding.TextMarshaler using the canonical form.
func (a IPAddr) MarshalText() ([]byte, error) {
	if !a.IsValid() {
		return nil, api.NewError(api.CodeInvalidAddress, "zero IPAddr has no text form")
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler via Parse.
func (a *IPAddr) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
