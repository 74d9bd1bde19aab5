package bba

import (
	"strings"
)

// Pass is the canonical spelling of a pass. The engine and PBN files also
// use the short form "P"; IsPass accepts both.
const Pass = "Pass"

// IsPass reports whether call denotes a pass, in either spelling and any
// case.
func IsPass(call string) bool {
	return strings.EqualFold(call, "Pass") || strings.EqualFold(call, "P")
}

// NormalizeCall rewrites a call token into the canonical form used
// throughout this module: "Pass", "X", "XX", or an upper-case contract call
// with "NT" spelled out ("1NT", not "1N"). Tokens it does not recognize are
// returned unchanged apart from trimming, so engine output that is already
// canonical passes through.
func NormalizeCall(call string) string {
	c := strings.TrimSpace(call)
	switch strings.ToUpper(c) {
	case "P", "PASS", "--":
		return Pass
	case "X", "D", "DBL":
		return "X"
	case "XX", "R", "RDBL":
		return "XX"
	}
	if len(c) >= 2 && c[0] >= '1' && c[0] <= '7' {
		strain := strings.ToUpper(c[1:])
		if strain == "N" || strain == "NT" {
			return c[:1] + "NT"
		}
		switch strain {
		case "C", "D", "H", "S":
			return c[:1] + strain
		}
	}
	return c
}

// levelAndStrain splits a contract call into its level (1..7) and strain
// ("C", "D", "H", "S", "NT"). ok is false for passes, doubles, and anything
// else that is not a contract call.
func levelAndStrain(call string) (level int, strain string, ok bool) {
	c := NormalizeCall(call)
	if len(c) < 2 || c[0] < '1' || c[0] > '7' {
		return 0, "", false
	}
	strain = c[1:]
	switch strain {
	case "C", "D", "H", "S", "NT":
		return int(c[0] - '0'), strain, true
	}
	return 0, "", false
}
