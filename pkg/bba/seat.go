package bba

import (
	"fmt"
	"strings"
)

// Seat identifies a position at the table. Values follow the dealing order
// used by the engine: North is 0 and the remaining seats continue clockwise.
type Seat uint8

const (
	North Seat = iota
	East
	South
	West
)

func (s Seat) valid() bool { return s <= West }

// Next returns the seat to the left, the one that calls after s.
func (s Seat) Next() Seat { return (s + 1) % 4 }

// Side returns the partnership s belongs to.
func (s Seat) Side() Side {
	if s == North || s == South {
		return SideNS
	}
	return SideEW
}

func (s Seat) String() string {
	switch s {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	}
	return fmt.Sprintf("Seat(%d)", uint8(s))
}

// ParseSeat reads a seat from its PBN letter or full name, ignoring case.
func ParseSeat(s string) (Seat, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "N", "NORTH":
		return North, nil
	case "E", "EAST":
		return East, nil
	case "S", "SOUTH":
		return South, nil
	case "W", "WEST":
		return West, nil
	}
	return North, fmt.Errorf("%w: %q", ErrInvalidDealer, s)
}

// Side identifies a partnership: North-South or East-West.
type Side uint8

const (
	SideNS Side = iota
	SideEW
)

func (s Side) valid() bool { return s == SideNS || s == SideEW }

func (s Side) String() string {
	if s == SideNS {
		return "NS"
	}
	return "EW"
}

// Vulnerability encodes which partnerships are vulnerable on the board.
type Vulnerability uint8

const (
	VulNone Vulnerability = iota
	VulNS
	VulEW
	VulBoth
)

func (v Vulnerability) valid() bool { return v <= VulBoth }

func (v Vulnerability) String() string {
	switch v {
	case VulNone:
		return "None"
	case VulNS:
		return "NS"
	case VulEW:
		return "EW"
	case VulBoth:
		return "Both"
	}
	return fmt.Sprintf("Vulnerability(%d)", uint8(v))
}

// ParseVulnerability reads any of the spellings that appear in PBN files.
// An empty string means no one is vulnerable, which is how the tag is
// commonly omitted.
func ParseVulnerability(s string) (Vulnerability, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "-", "NONE", "LOVE":
		return VulNone, nil
	case "NS", "N-S":
		return VulNS, nil
	case "EW", "E-W":
		return VulEW, nil
	case "BOTH", "ALL":
		return VulBoth, nil
	}
	return VulNone, fmt.Errorf("%w: %q", ErrInvalidVulnerability, s)
}
