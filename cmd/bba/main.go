package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/bridgetools/bba-go/internal/engineproc"
	"github.com/bridgetools/bba-go/pkg/bba"
	"github.com/bridgetools/bba-go/pkg/bba/logging"
	"github.com/bridgetools/bba-go/pkg/pbn"
	"github.com/bridgetools/bba-go/pkg/runner"
)

type options struct {
	input    string
	output   string
	deal     string
	dealer   string
	vul      string
	nsCard   string
	ewCard   string
	engine   string
	workers  int
	maxCalls int
	dryRun   bool
}

func main() {
	var (
		opts        options
		interactive = flag.Bool("i", false, "Interactive auction stepping with a TUI")
		verbose     = flag.Bool("v", false, "Verbose logging")
		showVersion = flag.Bool("version", false, "Print version information and exit")
	)
	flag.StringVar(&opts.input, "input", "", "PBN file with deals to bid (- for stdin)")
	flag.StringVar(&opts.output, "output", "-", "PBN output path (- for stdout)")
	flag.StringVar(&opts.deal, "deal", "", "Bid a single deal given in PBN hand notation")
	flag.StringVar(&opts.dealer, "dealer", "N", "Dealer seat for -deal (N, E, S, W)")
	flag.StringVar(&opts.vul, "vul", "None", "Vulnerability for -deal (None, NS, EW, Both)")
	flag.StringVar(&opts.nsCard, "ns-conventions", "", "Convention card applied to North-South")
	flag.StringVar(&opts.ewCard, "ew-conventions", "", "Convention card applied to East-West")
	flag.StringVar(&opts.engine, "engine", os.Getenv("BBA_ENGINE"), "Engine host binary (defaults to $BBA_ENGINE)")
	flag.IntVar(&opts.workers, "j", 1, "Parallel engine instances for batch runs")
	flag.IntVar(&opts.maxCalls, "max-calls", runner.DefaultMaxCalls, "Abort an auction after this many calls")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "Parse and validate the input without bidding")
	flag.Parse()

	if *showVersion {
		fmt.Printf("bba-go %s (engine build %s)\n", bba.WrapperVersion(), bba.EngineVersion())
		return
	}

	log := newLogger(*verbose)

	if *interactive {
		if err := runInteractive(opts, log); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if opts.input == "" && opts.deal == "" {
		fmt.Fprintln(os.Stderr, "Usage: bba -input deals.pbn [-output out.pbn] [-ns-conventions card.bbsa] [-j 4]")
		fmt.Fprintln(os.Stderr, "       bba -deal \"N:AKQJ.T98.765.432 ...\" [-dealer S] [-vul NS]")
		fmt.Fprintln(os.Stderr, "       bba -input deals.pbn -dry-run")
		fmt.Fprintln(os.Stderr, "       bba -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(context.Background(), opts, log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) logging.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return logging.New(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func engineFactory(opts options, log logging.Logger) (runner.Factory, error) {
	if opts.engine == "" {
		return nil, errors.New("no engine host configured: pass -engine or set BBA_ENGINE")
	}
	return func(ctx context.Context) (bba.Engine, error) {
		return engineproc.Start(ctx, engineproc.Config{Path: opts.engine, Log: log})
	}, nil
}

func run(ctx context.Context, opts options, log logging.Logger) error {
	if opts.dryRun {
		return dryRun(opts)
	}

	factory, err := engineFactory(opts, log)
	if err != nil {
		return err
	}
	r, err := runner.New(factory, runner.Config{
		NSCard:   opts.nsCard,
		EWCard:   opts.ewCard,
		MaxCalls: opts.maxCalls,
		Workers:  opts.workers,
		Log:      log,
	})
	if err != nil {
		return err
	}

	if opts.deal != "" {
		return runSingle(ctx, r, opts)
	}
	return runBatch(ctx, r, opts)
}

func runSingle(ctx context.Context, r *runner.Runner, opts options) error {
	dealer, err := bba.ParseSeat(opts.dealer)
	if err != nil {
		return err
	}
	vul, err := bba.ParseVulnerability(opts.vul)
	if err != nil {
		return err
	}

	calls, err := r.Deal(ctx, opts.deal, dealer, vul)
	if err != nil {
		return err
	}

	fmt.Printf("Auction (dealer %s, vul %s):\n", dealer, vul)
	for i, call := range calls {
		if i > 0 {
			if i%4 == 0 {
				fmt.Println()
			} else {
				fmt.Print(" ")
			}
		}
		fmt.Print(call)
	}
	fmt.Println()

	a := bba.NewAuction(dealer)
	for _, call := range calls {
		a.Record(call)
	}
	fmt.Printf("Contract: %s\n", a.Contract())
	return nil
}

func runBatch(ctx context.Context, r *runner.Runner, opts options) error {
	games, err := readGames(opts.input)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		return fmt.Errorf("no games in %s", opts.input)
	}

	results, stats, err := r.Games(ctx, games)
	if err != nil {
		return err
	}

	out := make([]pbn.Game, 0, len(results))
	for i, res := range results {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "board %d: %v\n", i+1, res.Err)
		}
		out = append(out, res.Game)
	}
	if err := writeGames(opts.output, out); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "bid %d boards: %d auctions, %d failures\n",
		stats.Deals, stats.Auctions, stats.Failures)
	return nil
}

func dryRun(opts options) error {
	if opts.input == "" {
		return errors.New("dry-run needs -input")
	}
	games, err := readGames(opts.input)
	if err != nil {
		return err
	}

	bad := 0
	for i, g := range games {
		pbnDeal, ok := g.Deal()
		if !ok {
			fmt.Fprintf(os.Stderr, "board %d: no Deal tag\n", i+1)
			bad++
			continue
		}
		if _, err := bba.ParseDeal(pbnDeal); err != nil {
			fmt.Fprintf(os.Stderr, "board %d: %v\n", i+1, err)
			bad++
		}
	}
	fmt.Printf("%d boards, %d invalid\n", len(games), bad)
	if bad > 0 {
		return fmt.Errorf("%d of %d boards invalid", bad, len(games))
	}
	return nil
}

func readGames(path string) ([]pbn.Game, error) {
	if path == "-" {
		return pbn.Read(os.Stdin)
	}
	return pbn.ReadFile(path)
}

func writeGames(path string, games []pbn.Game) error {
	if path == "-" || path == "" {
		return pbn.Write(os.Stdout, games)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := pbn.Write(f, games); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
