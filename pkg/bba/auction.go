package bba

import (
	"fmt"
)

// Auction records the calls made at one table in the order they were made,
// together with the dealer who opens the bidding. The zero value is an empty
// auction dealt by North.
//
// The cursor that determines whose turn it is advances only when a call is
// produced through Record; writing a call at an index with Put never moves
// it. The record may therefore be longer than the cursor when calls have
// been placed ahead of the engine, which is how table replays are fed in.
type Auction struct {
	dealer  Seat
	calls   []string
	cursor  int
	started bool
}

// NewAuction returns an empty auction opened by the given dealer.
func NewAuction(dealer Seat) *Auction {
	return &Auction{dealer: dealer}
}

// Dealer returns the seat that opens the bidding.
func (a *Auction) Dealer() Seat { return a.dealer }

// SetDealer moves the opening seat. The recorded calls are kept; callers
// that want a fresh auction reset it themselves.
func (a *Auction) SetDealer(dealer Seat) error {
	if !dealer.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidDealer, dealer)
	}
	a.dealer = dealer
	return nil
}

// Turn returns the seat due to make the next produced call: the dealer,
// rotated clockwise once per call produced so far.
func (a *Auction) Turn() Seat {
	return Seat((int(a.dealer) + a.cursor) % 4)
}

// Len returns the number of entries in the record, placeholders included.
func (a *Auction) Len() int { return len(a.calls) }

// Started reports whether any call has been produced since the last reset.
func (a *Auction) Started() bool { return a.started }

// Record appends a produced call and advances the turn.
func (a *Auction) Record(call string) {
	a.calls = append(a.calls, call)
	a.cursor++
	a.started = true
}

// Put writes a call at the given index, growing the record with empty
// placeholders when the index is past the end. The turn cursor is not
// touched.
func (a *Auction) Put(index int, call string) error {
	if index < 0 {
		return fmt.Errorf("%w: %d", ErrCallIndex, index)
	}
	for len(a.calls) <= index {
		a.calls = append(a.calls, "")
	}
	a.calls[index] = call
	return nil
}

// CallAt returns the recorded call at the given index.
func (a *Auction) CallAt(index int) (string, error) {
	if index < 0 || index >= len(a.calls) {
		return "", fmt.Errorf("%w: %d of %d", ErrCallIndex, index, len(a.calls))
	}
	return a.calls[index], nil
}

// Calls returns a copy of the record. Mutating the copy does not affect the
// auction.
func (a *Auction) Calls() []string {
	if len(a.calls) == 0 {
		return nil
	}
	out := make([]string, len(a.calls))
	copy(out, a.calls)
	return out
}

// Reset clears the record, the turn cursor, and the started flag. The
// dealer is kept.
func (a *Auction) Reset() {
	a.calls = nil
	a.cursor = 0
	a.started = false
}

// Complete reports whether the auction has ended. Fewer than four calls is
// never a finished auction. A record with no contract call anywhere ends
// once four calls are on the table. Otherwise the auction ends when the
// last three entries of the record are passes. The check reads the record
// exactly as written, so placeholder entries count as non-passes.
func (a *Auction) Complete() bool {
	if len(a.calls) < 4 {
		return false
	}
	hasBid := false
	for _, c := range a.calls {
		if !IsPass(c) {
			hasBid = true
			break
		}
	}
	if !hasBid {
		return true
	}
	n := len(a.calls)
	return IsPass(a.calls[n-1]) && IsPass(a.calls[n-2]) && IsPass(a.calls[n-3])
}

// Contract returns the final contract of a finished auction in PBN form,
// for example "4H", "3NTX", or "2SXX". A passed-out auction yields "Pass".
// An auction that is not complete yields the empty string.
func (a *Auction) Contract() string {
	if !a.Complete() {
		return ""
	}
	contract := ""
	doubled := ""
	for _, c := range a.calls {
		if _, _, ok := levelAndStrain(c); ok {
			contract = NormalizeCall(c)
			doubled = ""
			continue
		}
		switch NormalizeCall(c) {
		case "X":
			doubled = "X"
		case "XX":
			doubled = "XX"
		}
	}
	if contract == "" {
		return Pass
	}
	return contract + doubled
}
