// File: addr/parse.go
//
// Textual IP address parsing. The grammar is strict: a malformed input
// never yields a partially filled address.

package addr

import (
	"fmt"
	"strings"

	"github.com/veliant/netsock/api"
)

// Parse parses s as an IP address. Inputs containing a colon are parsed as
// IPv6, everything else as IPv4. Malformed inputs fail with an
// api.ErrInvalidAddress-classed error.
func Parse(s string) (IPAddr, error) {
	if strings.ContainsRune(s, ':') {
		return parseIPv6(s)
	}
	return parseIPv4(s)
}

// MustParse is Parse for trusted literals; it panics on malformed input.
func MustParse(s string) IPAddr {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func parseError(s, reason string) error {
	return api.NewError(api.CodeInvalidAddress, fmt.Sprintf("parse %q: %s", s, reason))
}

// parseIPv4 parses exactly four 1-3 digit decimal groups in [0,255]
// separated by dots.
func parseIPv4(s string) (IPAddr, error) {
	var out [4]byte
	rest := s
	for g := 0; g < 4; g++ {
		if g > 0 {
			if len(rest) == 0 || rest[0] != '.' {
				return IPAddr{}, parseError(s, "expected 4 dotted groups")
			}
			rest = rest[1:]
		}
		v, n, ok := dtoi(rest)
		if !ok || v > 255 {
			return IPAddr{}, parseError(s, "decimal group out of range")
		}
		out[g] = byte(v)
		rest = rest[n:]
	}
	if len(rest) != 0 {
		return IPAddr{}, parseError(s, "trailing characters after 4 groups")
	}
	return From4(out), nil
}

// parseIPv6 parses up to 8 colon-separated hex groups with at most one
// "::" elision and an optional embedded IPv4 dotted-quad tail. Elided
// groups are back-filled with zeros by shifting the trailing groups to the
// end of the 16-byte value.
func parseIPv6(s string) (IPAddr, error) {
	var out [16]byte
	ellipsis := -1 // byte offset of the "::", or -1
	rest := s

	// A leading "::" must be the literal double colon.
	if len(rest) >= 2 && rest[0] == ':' && rest[1] == ':' {
		ellipsis = 0
		rest = rest[2:]
		if len(rest) == 0 {
			return From16(out), nil
		}
	} else if len(rest) > 0 && rest[0] == ':' {
		return IPAddr{}, parseError(s, "single leading colon")
	}

	i := 0
	for i < 16 {
		v, n, ok := xtoi(rest)
		if !ok || v > 0xffff {
			return IPAddr{}, parseError(s, "malformed hex group")
		}

		// An embedded IPv4 tail consumes the final 32 bits.
		if n < len(rest) && rest[n] == '.' {
			if ellipsis < 0 && i != 12 {
				return IPAddr{}, parseError(s, "embedded IPv4 not in final position")
			}
			if i+4 > 16 {
				return IPAddr{}, parseError(s, "embedded IPv4 overflows address")
			}
			v4, err := parseIPv4(rest)
			if err != nil {
				return IPAddr{}, parseError(s, "malformed embedded IPv4 tail")
			}
			quad := v4.As4()
			copy(out[i:], quad[:])
			i += 4
			rest = ""
			break
		}

		out[i] = byte(v >> 8)
		out[i+1] = byte(v)
		i += 2
		rest = rest[n:]
		if len(rest) == 0 {
			break
		}
		if rest[0] != ':' {
			return IPAddr{}, parseError(s, "expected colon between groups")
		}
		if len(rest) == 1 {
			return IPAddr{}, parseError(s, "single trailing colon")
		}
		rest = rest[1:]
		if rest[0] == ':' {
			if ellipsis >= 0 {
				return IPAddr{}, parseError(s, "second \"::\" elision")
			}
			ellipsis = i
			rest = rest[1:]
			if len(rest) == 0 {
				break
			}
		}
	}

	if len(rest) != 0 {
		return IPAddr{}, parseError(s, "more than 8 groups")
	}
	if i < 16 {
		if ellipsis < 0 {
			return IPAddr{}, parseError(s, "too few groups without \"::\"")
		}
		// Shift the groups after the elision to the end and zero the gap.
		n := 16 - i
		for j := i - 1; j >= ellipsis; j-- {
			out[j+n] = out[j]
		}
		for j := ellipsis + n - 1; j >= ellipsis; j-- {
			out[j] = 0
		}
	} else if ellipsis >= 0 {
		// 8 explicit groups leave no room for an elided run.
		return IPAddr{}, parseError(s, "\"::\" with 8 explicit groups")
	}
	return From16(out), nil
}

// dtoi reads a decimal number of at most 3 digits from the head of s.
func dtoi(s string) (v int, consumed int, ok bool) {
	n := 0
	for n < len(s) && '0' <= s[n] && s[n] <= '9' {
		v = v*10 + int(s[n]-'0')
		n++
		if n > 3 {
			return 0, 0, false
		}
	}
	if n == 0 {
		return 0, 0, false
	}
	return v, n, true
}

// xtoi reads a hex number of at most 4 digits from the head of s.
func xtoi(s string) (v int, consumed int, ok bool) {
	n := 0
	for n < len(s) {
		c := s[n]
		switch {
		case '0' <= c && c <= '9':
			v = v<<4 + int(c-'0')
		case 'a' <= c && c <= 'f':
			v = v<<4 + int(c-'a') + 10
		case 'A' <= c && c <= 'F':
			v = v<<4 + int(c-'A') + 10
		default:
			if n == 0 {
				return 0, 0, false
			}
			return v, n, true
		}
		n++
		if n > 4 {
			return 0, 0, false
		}
	}
	if n == 0 {
		return 0, 0, false
	}
	return v, n, true
}
