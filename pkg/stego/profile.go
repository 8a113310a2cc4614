package stego

import (
	"fmt"
	"strings"
)

// Profile selects the low-two-bit pattern used to store one payload bit.
type Profile int

const (
	// Plain stores 1 as low bits 10 and 0 as 00.
	Plain Profile = iota
	// Protected stores 1 as low bits 11 and 0 as 00 (tri-level).
	// The header always uses this profile.
	Protected
)

const (
	lowBitsMask  byte = 0x03
	protectedOne byte = 0x03
	plainOne     byte = 0x02
	zeroBits     byte = 0x00
)

func (p Profile) String() string {
	switch p {
	case Plain:
		return "plain"
	case Protected:
		return "protected"
	default:
		return fmt.Sprintf("Profile(%d)", int(p))
	}
}

// ParseProfile accepts "plain" (alias "default") and "protected".
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain", "default", "":
		return Plain, nil
	case "protected":
		return Protected, nil
	}
	return Plain, fmt.Errorf("unknown profile %q", s)
}

func (p Profile) one() byte {
	if p == Protected {
		return protectedOne
	}
	return plainOne
}

// set writes bit into the two low bits of v.
func (p Profile) set(v byte, bit bool) byte {
	low := zeroBits
	if bit {
		low = p.one()
	}
	return (v &^ lowBitsMask) | low
}

// get decodes the two low bits of v. Anything but the profile's
// pattern for 1 reads as 0.
func (p Profile) get(v byte) bool {
	return v&lowBitsMask == p.one()
}

// isTriLevel reports whether v's low bits are 11 or 00.
func isTriLevel(v byte) bool {
	low := v & lowBitsMask
	return low == protectedOne || low == zeroBits
}
