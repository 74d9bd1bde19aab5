package bba

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/bridgetools/bba-go/pkg/bba/logging"
)

var ErrNilEngine = errors.New("engine must not be nil")

// Instance owns one engine binding and the auction record that goes with
// it. Instances are independent of each other; a program may run one per
// table seat, each loaded with its own convention card. An Instance is not
// safe for concurrent use by multiple goroutines; callers serialize access
// or dedicate a goroutine per instance.
//
// Every operation reports failures through the package error contract: the
// returned error carries one of the sentinel errors, CodeOf maps it to its
// numeric Code, and the message is recorded in the calling goroutine's
// last-error slot.
type Instance struct {
	engine  Engine
	auction Auction
	vul     Vulnerability
	log     logging.Logger
}

// New constructs an Instance around the given engine binding. The auction
// starts empty with North as dealer and no one vulnerable. The engine is
// owned by the instance from here on and is released by Close.
func New(engine Engine) (*Instance, error) {
	return NewWithLogger(engine, nil)
}

// NewWithLogger is New with an explicit logger. Passing nil binds to the
// slog default.
func NewWithLogger(engine Engine, log logging.Logger) (*Instance, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}
	if log == nil {
		log = logging.New(nil)
	}
	in := &Instance{engine: engine, log: log}
	runtime.SetFinalizer(in, func(in *Instance) { _ = in.Close() })
	return in, nil
}

// Close releases the engine binding. It is idempotent and safe on a nil
// receiver; only the first call reaches the engine.
func (in *Instance) Close() error {
	if in == nil || in.engine == nil {
		return nil
	}
	runtime.SetFinalizer(in, nil)
	engine := in.engine
	in.engine = nil
	return engine.Close()
}

func (in *Instance) usable() error {
	if in == nil || in.engine == nil {
		return ErrInstanceClosed
	}
	return nil
}

func (in *Instance) fail(err error) error {
	recordFailure(err.Error())
	return err
}

// guard runs one engine call and converts an escaped panic into an error,
// so a misbehaving binding stays inside the error contract.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine panic: %v", r)
		}
	}()
	return fn()
}

// SetDeal hands the engine a new board. The deal string must be in PBN
// layout; see ParseDeal for the exact shape accepted. On success any
// recorded auction is discarded, since calls made on the previous board
// mean nothing on this one. Dealer, vulnerability, and convention settings
// survive.
func (in *Instance) SetDeal(ctx context.Context, pbn string) error {
	if err := in.usable(); err != nil {
		return in.fail(err)
	}
	if err := CheckDeal(pbn); err != nil {
		return in.fail(err)
	}
	if err := guard(func() error { return in.engine.SetDeal(ctx, pbn) }); err != nil {
		return in.fail(fmt.Errorf("%w: %v", ErrInvalidHand, err))
	}
	in.auction.Reset()
	return nil
}

// SetDealer moves the opening seat. The auction record is kept as is.
func (in *Instance) SetDealer(ctx context.Context, dealer Seat) error {
	if err := in.usable(); err != nil {
		return in.fail(err)
	}
	if !dealer.valid() {
		return in.fail(fmt.Errorf("%w: %d", ErrInvalidDealer, dealer))
	}
	if err := guard(func() error { return in.engine.SetDealer(ctx, dealer) }); err != nil {
		return in.fail(fmt.Errorf("%w: %v", ErrInvalidDealer, err))
	}
	return in.auction.SetDealer(dealer)
}

// SetVulnerability tells the engine which partnerships are vulnerable.
func (in *Instance) SetVulnerability(ctx context.Context, vul Vulnerability) error {
	if err := in.usable(); err != nil {
		return in.fail(err)
	}
	if !vul.valid() {
		return in.fail(fmt.Errorf("%w: %d", ErrInvalidVulnerability, vul))
	}
	if err := guard(func() error { return in.engine.SetVulnerability(ctx, vul) }); err != nil {
		return in.fail(fmt.Errorf("%w: %v", ErrInvalidVulnerability, err))
	}
	in.vul = vul
	return nil
}

// Dealer returns the seat that opens the bidding.
func (in *Instance) Dealer() (Seat, error) {
	if err := in.usable(); err != nil {
		return North, in.fail(err)
	}
	return in.auction.Dealer(), nil
}

// Vulnerability returns the most recently set vulnerability.
func (in *Instance) Vulnerability() (Vulnerability, error) {
	if err := in.usable(); err != nil {
		return VulNone, in.fail(err)
	}
	return in.vul, nil
}

// Turn returns the seat due to make the next produced call.
func (in *Instance) Turn() (Seat, error) {
	if err := in.usable(); err != nil {
		return North, in.fail(err)
	}
	return in.auction.Turn(), nil
}

// NextCall asks the engine for the call of the seat whose turn it is,
// records it, and advances the turn. A finished auction is refused before
// the engine is consulted, so asking again after the final pass reports
// ErrAuctionComplete and changes nothing. An empty suggestion from the
// engine is recorded as a pass.
func (in *Instance) NextCall(ctx context.Context) (string, error) {
	if err := in.usable(); err != nil {
		return "", in.fail(err)
	}
	if in.auction.Complete() {
		return "", in.fail(ErrAuctionComplete)
	}
	seat := in.auction.Turn()
	var call string
	err := guard(func() error {
		if err := in.engine.SetPosition(ctx, seat); err != nil {
			return err
		}
		c, err := in.engine.Suggest(ctx)
		if err != nil {
			return err
		}
		call = c
		return nil
	})
	if err != nil {
		return "", in.fail(fmt.Errorf("%w: %v", ErrBiddingFailed, err))
	}
	if call == "" {
		call = Pass
	}
	in.auction.Record(call)
	return call, nil
}

// PutCall writes a call into the auction record at the given index, growing
// the record with empty placeholders when the index is past the end. The
// call is also fed to the engine so its view of the table matches the
// record. The turn cursor does not move; only NextCall advances it.
func (in *Instance) PutCall(ctx context.Context, index int, call string) error {
	if err := in.usable(); err != nil {
		return in.fail(err)
	}
	if index < 0 {
		return in.fail(fmt.Errorf("%w: %d", ErrCallIndex, index))
	}
	if err := guard(func() error { return in.engine.RecordCall(ctx, call) }); err != nil {
		return in.fail(fmt.Errorf("%w: %v", ErrBiddingFailed, err))
	}
	return in.auction.Put(index, call)
}

// CallAt returns the recorded call at the given index.
func (in *Instance) CallAt(index int) (string, error) {
	if err := in.usable(); err != nil {
		return "", in.fail(err)
	}
	call, err := in.auction.CallAt(index)
	if err != nil {
		return "", in.fail(err)
	}
	return call, nil
}

// CallCount returns the number of entries in the auction record,
// placeholders included.
func (in *Instance) CallCount() (int, error) {
	if err := in.usable(); err != nil {
		return 0, in.fail(err)
	}
	return in.auction.Len(), nil
}

// Calls returns a copy of the auction record.
func (in *Instance) Calls() ([]string, error) {
	if err := in.usable(); err != nil {
		return nil, in.fail(err)
	}
	return in.auction.Calls(), nil
}

// ResetAuction clears the auction record and the turn cursor. The deal,
// dealer, vulnerability, and convention settings all survive, so the same
// board can be bid again from the top.
func (in *Instance) ResetAuction() error {
	if err := in.usable(); err != nil {
		return in.fail(err)
	}
	in.auction.Reset()
	return nil
}

// Complete reports whether the recorded auction has ended.
func (in *Instance) Complete() (bool, error) {
	if err := in.usable(); err != nil {
		return false, in.fail(err)
	}
	return in.auction.Complete(), nil
}

// Contract returns the final contract of a finished auction, or the empty
// string while bidding is still open.
func (in *Instance) Contract() (string, error) {
	if err := in.usable(); err != nil {
		return "", in.fail(err)
	}
	return in.auction.Contract(), nil
}

// LoadConventions reads a convention card from disk and applies every
// usable entry to the engine for the given partnership. Entries the engine
// rejects are skipped individually; a card the engine dislikes in part is
// still a card. Only an unreadable or empty card fails the whole call.
func (in *Instance) LoadConventions(ctx context.Context, path string, side Side) error {
	if err := in.usable(); err != nil {
		return in.fail(err)
	}
	if !side.valid() {
		return in.fail(fmt.Errorf("%w: side %d out of range", ErrEngineFault, side))
	}
	conventions, err := ReadConventionFile(path)
	if err != nil {
		return in.fail(err)
	}
	for key, value := range conventions {
		if err := in.applyConvention(ctx, side, key, value); err != nil {
			in.log.Debug(ctx, "convention skipped", "key", key, "err", err)
		}
	}
	return nil
}

// SetConvention applies a single convention setting to the engine. The key
// is resolved through the convention-card name table; keys the table does
// not know are forwarded as written.
func (in *Instance) SetConvention(ctx context.Context, side Side, key string, value int) error {
	if err := in.usable(); err != nil {
		return in.fail(err)
	}
	if !side.valid() {
		return in.fail(fmt.Errorf("%w: side %d out of range", ErrEngineFault, side))
	}
	if err := in.applyConvention(ctx, side, key, value); err != nil {
		return in.fail(fmt.Errorf("%w: %v", ErrEngineFault, err))
	}
	return nil
}

func (in *Instance) applyConvention(ctx context.Context, side Side, key string, value int) error {
	return guard(func() error {
		return in.engine.SetOption(ctx, side, OptionName(key), value)
	})
}
