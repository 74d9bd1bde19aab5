package bba

import "context"

// Engine captures the capability contract a concrete bidding-engine binding
// must provide. The rest of the package never knows which binding it is
// talking to; the auction record and the error contract live entirely on
// this side of the interface.
//
// Ownership: an Engine serves exactly one Instance, which serializes all
// calls to it. Bindings that multiplex a shared process or connection do
// their own locking underneath.
//
// Faults: bindings report failures as errors. A panic that escapes a
// binding is caught at the Instance boundary and reported as a fault, so a
// misbehaving engine cannot take the caller down with it.
//
// Suggest returns the engine's recommended call for the seat most recently
// given to SetPosition. An empty suggestion is legal and is read as a pass.
// RecordCall informs the engine of a call made at the table without asking
// for a recommendation, which is how externally supplied calls are fed in.
type Engine interface {
	SetDeal(ctx context.Context, pbn string) error
	SetDealer(ctx context.Context, dealer Seat) error
	SetVulnerability(ctx context.Context, vul Vulnerability) error
	SetPosition(ctx context.Context, seat Seat) error
	Suggest(ctx context.Context) (string, error)
	RecordCall(ctx context.Context, call string) error
	SetOption(ctx context.Context, side Side, name string, value int) error
	Option(ctx context.Context, side Side, name string) (int, error)
	Close() error
}
