package sds

import (
	"fmt"
)

// Unit is the model code found at offset 1 of the identification reply.
type Unit byte

const (
	NoUnit = Unit(0)
	BC1612 = Unit(0x15)
)

func (u Unit) IsSupported() bool {
	return u == BC1612
}

func (u Unit) String() string {
	switch u {
	case NoUnit:
		return "NONE"
	case BC1612:
		return "BC 16.12"
	default:
		return fmt.Sprintf("0x%02x", byte(u))
	}
}
