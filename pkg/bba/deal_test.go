package bba

import (
	"errors"
	"testing"
)

const sampleDeal = "N:KQT2.AT3.J653.KJ A864.KQ5.T9.Q765 J97.J87642.Q4.92 53.9.AK872.AT843"

func TestParseDealValid(t *testing.T) {
	d, err := ParseDeal(sampleDeal)
	if err != nil {
		t.Fatalf("ParseDeal: %v", err)
	}
	if d.First != North {
		t.Fatalf("First = %v, want North", d.First)
	}
	if got := d.Hand(East); got != "A864.KQ5.T9.Q765" {
		t.Fatalf("Hand(East) = %q", got)
	}
	if got := d.String(); got != sampleDeal {
		t.Fatalf("String() = %q, want input round-trip", got)
	}
}

func TestParseDealFromOtherSeat(t *testing.T) {
	d, err := ParseDeal("E:A864.KQ5.T9.Q765 J97.J87642.Q4.92 53.9.AK872.AT843 KQT2.AT3.J653.KJ")
	if err != nil {
		t.Fatalf("ParseDeal: %v", err)
	}
	if got := d.Hand(North); got != "KQT2.AT3.J653.KJ" {
		t.Fatalf("Hand(North) = %q", got)
	}
	if got := d.Hand(East); got != "A864.KQ5.T9.Q765" {
		t.Fatalf("Hand(East) = %q", got)
	}
}

func TestParseDealRejectsMalformed(t *testing.T) {
	bad := []string{
		"",
		"N",
		"KQT2.AT3.J653.KJ A864.KQ5.T9.Q765 J97.J87642.Q4.92 53.9.AK872.AT843", // no seat
		"X:a.b.c.d a.b.c.d a.b.c.d a.b.c.d",                                   // bad seat, bad ranks
		"N:KQT2.AT3.J653.KJ A864.KQ5.T9.Q765 J97.J87642.Q4.92",                // three hands
		"N:KQT2.AT3.J653 A864.KQ5.T9.Q765 J97.J87642.Q4.92 53.9.AK872.AT843", // three suits
		"N:KQT2.AT3.J653.K1 A864.KQ5.T9.Q765 J97.J87642.Q4.92 53.9.AK872.AT843", // digit 1 is not a rank
	}
	for _, pbn := range bad {
		if err := CheckDeal(pbn); !errors.Is(err, ErrInvalidHand) {
			t.Fatalf("CheckDeal(%q) error = %v, want ErrInvalidHand", pbn, err)
		}
	}
}

func TestParseDealHiddenHands(t *testing.T) {
	// Hidden hands appear as "-" in some deal sources.
	if err := CheckDeal("S:- AKQJT98765432... - -"); err != nil {
		t.Fatalf("CheckDeal with hidden hands: %v", err)
	}
}
