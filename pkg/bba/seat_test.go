package bba

import (
	"errors"
	"testing"
)

func TestParseSeat(t *testing.T) {
	tests := []struct {
		in   string
		want Seat
	}{
		{"N", North}, {"n", North}, {"North", North}, {"NORTH", North},
		{"E", East}, {"east", East},
		{"S", South}, {"South", South},
		{"W", West}, {" w ", West},
	}
	for _, tc := range tests {
		got, err := ParseSeat(tc.in)
		if err != nil {
			t.Fatalf("ParseSeat(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseSeat(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := ParseSeat("Q"); !errors.Is(err, ErrInvalidDealer) {
		t.Fatalf("ParseSeat(Q) error = %v, want ErrInvalidDealer", err)
	}
}

func TestSeatRotation(t *testing.T) {
	order := []Seat{North, East, South, West, North}
	for i := 0; i < 4; i++ {
		if got := order[i].Next(); got != order[i+1] {
			t.Fatalf("%v.Next() = %v, want %v", order[i], got, order[i+1])
		}
	}
}

func TestSeatSide(t *testing.T) {
	if North.Side() != SideNS || South.Side() != SideNS {
		t.Fatal("North and South must be on side NS")
	}
	if East.Side() != SideEW || West.Side() != SideEW {
		t.Fatal("East and West must be on side EW")
	}
}

func TestParseVulnerability(t *testing.T) {
	tests := []struct {
		in   string
		want Vulnerability
	}{
		{"", VulNone}, {"-", VulNone}, {"None", VulNone}, {"LOVE", VulNone},
		{"NS", VulNS}, {"N-S", VulNS}, {"ns", VulNS},
		{"EW", VulEW}, {"E-W", VulEW},
		{"Both", VulBoth}, {"All", VulBoth}, {"ALL", VulBoth},
	}
	for _, tc := range tests {
		got, err := ParseVulnerability(tc.in)
		if err != nil {
			t.Fatalf("ParseVulnerability(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseVulnerability(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := ParseVulnerability("NSEW"); !errors.Is(err, ErrInvalidVulnerability) {
		t.Fatalf("ParseVulnerability(NSEW) error = %v, want ErrInvalidVulnerability", err)
	}
}
