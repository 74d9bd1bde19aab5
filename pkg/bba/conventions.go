package bba

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// conventionOptions maps convention-card names, lowercased, to the engine
// option they toggle. The table covers the names that appear in the card
// files shipped with the engine; names not listed here are forwarded to the
// engine as written, so cards for newer engine builds keep working without
// a wrapper release.
var conventionOptions = map[string]string{
	"stayman":         "Stayman",
	"bergen":          "Bergen",
	"bergen raises":   "Bergen",
	"blackwood 0314":  "Blackwood_0314",
	"blackwood 1430":  "Blackwood_1430",
	"jacoby 2nt":      "Jacoby_2NT",
	"cappelletti":     "Cappelletti",
	"drury":           "Drury",
	"lebensohl":       "Lebensohl",
	"michaels cuebid": "Michaels_Cuebid",
	"splinter":        "Splinter",
	"texas transfer":  "Texas_Transfer",
	"unusual 2nt":     "Unusual_2NT",
	"system type":     "System_Type",
	"opponent type":   "Opponent_Type",
}

// OptionName resolves a convention-card key to the engine option it
// configures. Unknown keys resolve to themselves.
func OptionName(key string) string {
	if name, ok := conventionOptions[strings.ToLower(strings.TrimSpace(key))]; ok {
		return name
	}
	return key
}

// ParseConventions reads convention settings in the card file format: one
// "key = value" per line, with "#" and ";" starting comment lines and blank
// lines ignored. Values are base-10 integers. Lines that do not parse are
// skipped rather than reported, matching how the engine's own tools read
// these files; a card full of noise simply yields an empty map.
func ParseConventions(r io.Reader) map[string]int {
	out := make(map[string]int)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}
		line = strings.TrimSuffix(line, "\r")
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		if key == "" {
			continue
		}
		value, err := strconv.Atoi(strings.TrimSpace(line[eq+1:]))
		if err != nil {
			continue
		}
		out[key] = value
	}
	return out
}

// ReadConventionFile loads a convention card from disk. An unreadable file
// and a file with no usable entries are the same failure as far as callers
// are concerned: both wrap ErrInvalidConventionFile.
func ReadConventionFile(path string) (map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConventionFile, err)
	}
	defer f.Close()

	conventions := ParseConventions(f)
	if len(conventions) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConventionFile, path)
	}
	return conventions, nil
}
