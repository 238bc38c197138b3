// File: addr/format.go
//
// Canonical text rendering: dotted quad for IPv4, compressed lowercase hex
// for IPv6 with the longest zero-run elided to "::".

package addr

import "strconv"

const hexDigits = "0123456789abcdef"

// String renders the canonical textual form. The zero IPAddr renders as
// "invalid".
func (a IPAddr) String() string {
	switch a.family {
	case FamilyIPv4:
		return formatIPv4(a.v4)
	case FamilyIPv6:
		return formatIPv6(a.v6)
	}
	return "invalid"
}

func formatIPv4(b [4]byte) string {
	out := make([]byte, 0, 15)
	for i, octet := range b {
		if i > 0 {
			out = append(out, '.')
		}
		out = strconv.AppendUint(out, uint64(octet), 10)
	}
	return string(out)
}

func formatIPv6(b [16]byte) string {
	// Locate the longest run of all-zero 16-bit groups, first run winning
	// ties. e0/e1 are byte offsets of the run, or -1 when none exists.
	e0, e1 := -1, -1
	for i := 0; i < 16; i += 2 {
		j := i
		for j < 16 && b[j] == 0 && b[j+1] == 0 {
			j += 2
		}
		if j > i && j-i > e1-e0 {
			e0, e1 = i, j
		}
		if j > i {
			i = j - 2
		}
	}
	if e1-e0 == 16 {
		return "::"
	}

	out := make([]byte, 0, 39)
	for i := 0; i < 16; i += 2 {
		if i == e0 {
			out = append(out, ':', ':')
			i = e1
			if i >= 16 {
				break
			}
		} else if i > 0 {
			out = append(out, ':')
		}
		out = appendHex(out, uint16(b[i])<<8|uint16(b[i+1]))
	}
	return string(out)
}

// appendHex writes v in lowercase hex with no leading zeros; zero renders
// as a lone "0".
func appendHex(out []byte, v uint16) []byte {
	if v == 0 {
		return append(out, '0')
	}
	started := false
	for shift := 12; shift >= 0; shift -= 4 {
		d := (v >> uint(shift)) & 0xf
		if d == 0 && !started {
			continue
		}
		started = true
		out = append(out, hexDigits[d])
	}
	return out
}
