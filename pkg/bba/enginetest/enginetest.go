package enginetest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bridgetools/bba-go/pkg/bba"
)

// Engine is an in-memory bba.Engine for tests and examples. Suggestions are
// played back from a fixed script; once the script runs out every further
// suggestion is empty, which the facade reads as a pass, so any script
// eventually drives an auction to completion. Every mutation the facade
// forwards is recorded and can be inspected afterwards.
//
// All methods are safe for concurrent use so tests may assert from other
// goroutines while an instance drives the engine.
type Engine struct {
	mu sync.Mutex

	script []string
	next   int

	deal     string
	dealer   bba.Seat
	vul      bba.Vulnerability
	position bba.Seat
	recorded []string
	options  map[string]int

	counts    map[string]int
	failNext  map[string]error
	panicNext map[string]bool
	closed    bool
}

// New returns an engine that suggests the given calls in order.
func New(script ...string) *Engine {
	return &Engine{
		script:    script,
		options:   make(map[string]int),
		counts:    make(map[string]int),
		failNext:  make(map[string]error),
		panicNext: make(map[string]bool),
	}
}

// FailNext arranges for the next invocation of the named operation to
// return err. The arrangement is consumed by that invocation.
func (e *Engine) FailNext(op string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failNext[op] = err
}

// PanicNext arranges for the next invocation of the named operation to
// panic, for exercising the fault boundary.
func (e *Engine) PanicNext(op string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.panicNext[op] = true
}

// enter bumps the call counter for op and fires any armed failure. The
// caller holds e.mu.
func (e *Engine) enter(op string) error {
	e.counts[op]++
	if e.panicNext[op] {
		delete(e.panicNext, op)
		panic(fmt.Sprintf("enginetest: injected panic in %s", op))
	}
	if err := e.failNext[op]; err != nil {
		delete(e.failNext, op)
		return err
	}
	if e.closed {
		return errors.New("enginetest: engine closed")
	}
	return nil
}

func (e *Engine) SetDeal(_ context.Context, pbn string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter("SetDeal"); err != nil {
		return err
	}
	e.deal = pbn
	return nil
}

func (e *Engine) SetDealer(_ context.Context, dealer bba.Seat) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter("SetDealer"); err != nil {
		return err
	}
	e.dealer = dealer
	return nil
}

func (e *Engine) SetVulnerability(_ context.Context, vul bba.Vulnerability) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter("SetVulnerability"); err != nil {
		return err
	}
	e.vul = vul
	return nil
}

func (e *Engine) SetPosition(_ context.Context, seat bba.Seat) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter("SetPosition"); err != nil {
		return err
	}
	e.position = seat
	return nil
}

func (e *Engine) Suggest(_ context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter("Suggest"); err != nil {
		return "", err
	}
	if e.next >= len(e.script) {
		return "", nil
	}
	call := e.script[e.next]
	e.next++
	return call, nil
}

func (e *Engine) RecordCall(_ context.Context, call string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter("RecordCall"); err != nil {
		return err
	}
	e.recorded = append(e.recorded, call)
	return nil
}

func (e *Engine) SetOption(_ context.Context, side bba.Side, name string, value int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter("SetOption"); err != nil {
		return err
	}
	e.options[optionKey(side, name)] = value
	return nil
}

func (e *Engine) Option(_ context.Context, side bba.Side, name string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enter("Option"); err != nil {
		return 0, err
	}
	value, ok := e.options[optionKey(side, name)]
	if !ok {
		return 0, fmt.Errorf("enginetest: option %s/%s not set", side, name)
	}
	return value, nil
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.counts["Close"]++
	e.closed = true
	return nil
}

// Deal returns the deal most recently forwarded by the facade.
func (e *Engine) Deal() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deal
}

// Dealer returns the dealer most recently forwarded by the facade.
func (e *Engine) Dealer() bba.Seat {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dealer
}

// Vulnerability returns the vulnerability most recently forwarded.
func (e *Engine) Vulnerability() bba.Vulnerability {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.vul
}

// Position returns the seat most recently forwarded via SetPosition.
func (e *Engine) Position() bba.Seat {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position
}

// Recorded returns a copy of the calls fed in through RecordCall.
func (e *Engine) Recorded() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.recorded))
	copy(out, e.recorded)
	return out
}

// OptionValue returns the stored value for a side/name pair and whether it
// was ever set.
func (e *Engine) OptionValue(side bba.Side, name string) (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	value, ok := e.options[optionKey(side, name)]
	return value, ok
}

// CallCount returns how many times the named operation has been invoked.
func (e *Engine) CallCount(op string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.counts[op]
}

func optionKey(side bba.Side, name string) string {
	return side.String() + "/" + name
}

var _ bba.Engine = (*Engine)(nil)
