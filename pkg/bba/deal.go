package bba

import (
	"fmt"
	"strings"
)

// Deal is a parsed PBN deal: the seat the listing starts from and the four
// hands clockwise from it. Each hand keeps the PBN suit order
// spades.hearts.diamonds.clubs.
type Deal struct {
	First Seat
	Hands [4]string
}

// ParseDeal validates the structural shape of a PBN deal string and splits
// it into hands. The accepted layout is
//
//	"<seat>:<hand> <hand> <hand> <hand>"
//
// with each hand written as four dot-separated suit holdings using the rank
// letters AKQJT98765432. Whether the 52 cards actually form a legal deal is
// the engine's business; this check only refuses strings the engine could
// not even read. Failures wrap ErrInvalidHand.
func ParseDeal(pbn string) (Deal, error) {
	var d Deal
	s := strings.TrimSpace(pbn)
	if len(s) < 2 || s[1] != ':' {
		return d, fmt.Errorf("%w: missing seat prefix", ErrInvalidHand)
	}
	first, err := ParseSeat(s[:1])
	if err != nil {
		return d, fmt.Errorf("%w: bad seat letter %q", ErrInvalidHand, s[:1])
	}
	d.First = first

	hands := strings.Fields(s[2:])
	if len(hands) != 4 {
		return d, fmt.Errorf("%w: expected 4 hands, got %d", ErrInvalidHand, len(hands))
	}
	for i, h := range hands {
		if err := checkHand(h); err != nil {
			return d, fmt.Errorf("%w: hand %d: %v", ErrInvalidHand, i, err)
		}
		d.Hands[i] = h
	}
	return d, nil
}

// CheckDeal reports whether pbn is a structurally valid PBN deal string.
func CheckDeal(pbn string) error {
	_, err := ParseDeal(pbn)
	return err
}

// String renders the deal back into PBN form.
func (d Deal) String() string {
	return fmt.Sprintf("%s:%s %s %s %s", d.First, d.Hands[0], d.Hands[1], d.Hands[2], d.Hands[3])
}

// Hand returns the holding of the given seat.
func (d Deal) Hand(s Seat) string {
	return d.Hands[(int(s)+4-int(d.First))%4]
}

func checkHand(h string) error {
	// "-" marks a hidden hand in some PBN sources; the engine tolerates it.
	if h == "-" {
		return nil
	}
	suits := strings.Split(h, ".")
	if len(suits) != 4 {
		return fmt.Errorf("expected 4 suits, got %d", len(suits))
	}
	for _, suit := range suits {
		for _, r := range suit {
			if !strings.ContainsRune("AKQJT98765432akqjt", r) {
				return fmt.Errorf("bad rank %q", r)
			}
		}
	}
	return nil
}
