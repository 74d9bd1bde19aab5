package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bridgetools/bba-go/pkg/bba"
	"github.com/bridgetools/bba-go/pkg/bba/logging"
	"github.com/bridgetools/bba-go/pkg/pbn"
)

// ErrAuctionTooLong reports an auction that failed to terminate within the
// call cap. A healthy engine never comes close; hitting the cap means the
// engine is suggesting calls in a loop.
var ErrAuctionTooLong = errors.New("auction exceeded the call cap")

// DefaultMaxCalls bounds a single auction. The longest auction a legal deal
// can produce is far below this; the cap exists to fence in a looping
// engine, not to constrain bidding.
const DefaultMaxCalls = 100

// Factory constructs a fresh engine binding. The runner owns engines it
// makes and closes them when the run ends.
type Factory func(ctx context.Context) (bba.Engine, error)

// Config carries the per-run settings shared by every deal.
type Config struct {
	// NSCard and EWCard are convention card paths applied to each
	// partnership. Empty means the engine's defaults.
	NSCard string
	EWCard string

	// MaxCalls caps a single auction; zero means DefaultMaxCalls.
	MaxCalls int

	// Workers is the number of deals bid concurrently by Games. Each
	// worker owns one engine instance for its share of the file. Zero and
	// one both mean sequential.
	Workers int

	Log logging.Logger
}

// Runner drives deals through engine instances to finished auctions.
type Runner struct {
	factory Factory
	cfg     Config
}

// New returns a Runner that builds engines with the given factory.
func New(factory Factory, cfg Config) (*Runner, error) {
	if factory == nil {
		return nil, errors.New("runner: factory must not be nil")
	}
	if cfg.MaxCalls <= 0 {
		cfg.MaxCalls = DefaultMaxCalls
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Log == nil {
		cfg.Log = logging.New(nil)
	}
	return &Runner{factory: factory, cfg: cfg}, nil
}

// Stats summarizes a batch run.
type Stats struct {
	Deals    int // games taken from the input
	Auctions int // auctions bid to completion
	Failures int // games that did not produce an auction
}

// Result pairs an input game with what became of it. On success the Game
// carries the generated Auction and a Contract tag; on failure Err says why
// and the game is returned as it came in.
type Result struct {
	Game pbn.Game
	Err  error
}

// newInstance builds and configures an engine instance for this run's
// convention cards.
func (r *Runner) newInstance(ctx context.Context) (*bba.Instance, error) {
	eng, err := r.factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("runner: engine factory: %w", err)
	}
	inst, err := bba.NewWithLogger(eng, r.cfg.Log)
	if err != nil {
		_ = eng.Close()
		return nil, err
	}
	if r.cfg.NSCard != "" {
		if err := inst.LoadConventions(ctx, r.cfg.NSCard, bba.SideNS); err != nil {
			_ = inst.Close()
			return nil, fmt.Errorf("runner: NS card: %w", err)
		}
	}
	if r.cfg.EWCard != "" {
		if err := inst.LoadConventions(ctx, r.cfg.EWCard, bba.SideEW); err != nil {
			_ = inst.Close()
			return nil, fmt.Errorf("runner: EW card: %w", err)
		}
	}
	return inst, nil
}

// Deal bids a single board to completion on a fresh engine instance and
// returns the auction.
func (r *Runner) Deal(ctx context.Context, deal string, dealer bba.Seat, vul bba.Vulnerability) ([]string, error) {
	inst, err := r.newInstance(ctx)
	if err != nil {
		return nil, err
	}
	defer inst.Close()
	return r.bidBoard(ctx, inst, deal, dealer, vul)
}

// bidBoard configures one board on an already-built instance and drives the
// auction to completion.
func (r *Runner) bidBoard(ctx context.Context, inst *bba.Instance, deal string, dealer bba.Seat, vul bba.Vulnerability) ([]string, error) {
	if err := inst.SetDeal(ctx, deal); err != nil {
		return nil, err
	}
	if err := inst.SetDealer(ctx, dealer); err != nil {
		return nil, err
	}
	if err := inst.SetVulnerability(ctx, vul); err != nil {
		return nil, err
	}
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		done, err := inst.Complete()
		if err != nil {
			return nil, err
		}
		if done {
			return inst.Calls()
		}
		n, err := inst.CallCount()
		if err != nil {
			return nil, err
		}
		if n >= r.cfg.MaxCalls {
			return nil, fmt.Errorf("%w (%d)", ErrAuctionTooLong, n)
		}
		if _, err := inst.NextCall(ctx); err != nil {
			return nil, err
		}
	}
}

// Games bids every game in the input and returns results aligned with it.
// Workers split the file between them, each reusing one engine instance
// across its share; setting a new deal resets the auction state, so boards
// stay independent. Per-game failures land in the matching Result and do
// not stop the run. The returned error reports run-level problems only,
// such as an engine that cannot be built.
func (r *Runner) Games(ctx context.Context, games []pbn.Game) ([]Result, Stats, error) {
	results := make([]Result, len(games))
	if len(games) == 0 {
		return results, Stats{}, nil
	}

	workers := r.cfg.Workers
	if workers > len(games) {
		workers = len(games)
	}

	jobs := make(chan int)
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inst, err := r.newInstance(ctx)
			if err != nil {
				errs <- err
				// Keep receiving so the sender is never stranded.
				for range jobs {
				}
				return
			}
			defer inst.Close()
			for i := range jobs {
				results[i] = r.runGame(ctx, inst, games[i])
			}
		}()
	}

	for i := range games {
		select {
		case <-ctx.Done():
		case jobs <- i:
			continue
		}
		break
	}
	close(jobs)
	wg.Wait()
	close(errs)

	if err := <-errs; err != nil {
		return nil, Stats{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, Stats{}, err
	}

	var stats Stats
	stats.Deals = len(games)
	for _, res := range results {
		if res.Err != nil {
			stats.Failures++
		} else {
			stats.Auctions++
		}
	}
	return results, stats, nil
}

// runGame bids one input game and fills in its Auction and Contract.
func (r *Runner) runGame(ctx context.Context, inst *bba.Instance, game pbn.Game) Result {
	res := Result{Game: game}
	// The result owns its tags; the input game stays untouched.
	res.Game.Tags = append([]pbn.Tag(nil), game.Tags...)

	deal, ok := game.Deal()
	if !ok {
		res.Err = errors.New("runner: game has no Deal tag")
		return res
	}
	dealer, err := game.Dealer()
	if err != nil {
		res.Err = err
		return res
	}
	vul, err := game.Vulnerable()
	if err != nil {
		res.Err = err
		return res
	}

	calls, err := r.bidBoard(ctx, inst, deal, dealer, vul)
	if err != nil {
		res.Err = err
		return res
	}

	res.Game.Auction = calls
	auction := bba.NewAuction(dealer)
	for _, c := range calls {
		auction.Record(c)
	}
	res.Game.SetTag("Contract", auction.Contract())
	return res
}
