package pbn

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bridgetools/bba-go/pkg/bba"
)

// Tag is one PBN tag pair, e.g. [Dealer "N"].
type Tag struct {
	Name  string
	Value string
}

// Game is one game record from a PBN file: its tag pairs in file order and
// the auction call tokens, when an Auction section is present.
type Game struct {
	Tags    []Tag
	Auction []string
}

// Tag returns the value of the named tag pair. Names compare
// case-insensitively, as PBN readers conventionally do.
func (g *Game) Tag(name string) (string, bool) {
	for _, t := range g.Tags {
		if strings.EqualFold(t.Name, name) {
			return t.Value, true
		}
	}
	return "", false
}

// SetTag replaces the named tag pair or appends it when absent.
func (g *Game) SetTag(name, value string) {
	for i, t := range g.Tags {
		if strings.EqualFold(t.Name, name) {
			g.Tags[i].Value = value
			return
		}
	}
	g.Tags = append(g.Tags, Tag{Name: name, Value: value})
}

// Deal returns the raw deal string from the Deal tag.
func (g *Game) Deal() (string, bool) {
	return g.Tag("Deal")
}

// Dealer reads the Dealer tag. A missing tag defaults to North, matching
// how partial records are commonly filled in.
func (g *Game) Dealer() (bba.Seat, error) {
	v, ok := g.Tag("Dealer")
	if !ok {
		return bba.North, nil
	}
	return bba.ParseSeat(v)
}

// Vulnerable reads the Vulnerable tag. A missing tag means no one is
// vulnerable.
func (g *Game) Vulnerable() (bba.Vulnerability, error) {
	v, ok := g.Tag("Vulnerable")
	if !ok {
		return bba.VulNone, nil
	}
	return bba.ParseVulnerability(v)
}

// Read parses PBN game records from r. Games are separated by blank lines.
// Escape lines starting with "%" and comment lines starting with ";" are
// skipped, as are tag lines that do not parse; the format is littered with
// dialects and a batch run should not die on a cosmetic line. Call tokens
// following an [Auction] tag are collected into Game.Auction, with note
// references ("=1=") and annotation glyphs dropped and an "AP" token
// expanded into the passes that end the auction.
func Read(r io.Reader) ([]Game, error) {
	var games []Game
	var current *Game
	inAuction := false

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			if current != nil {
				games = append(games, *current)
				current = nil
				inAuction = false
			}
		case strings.HasPrefix(trimmed, "%"), strings.HasPrefix(trimmed, ";"):
			// Directives and comments carry nothing we replay.
		case strings.HasPrefix(trimmed, "["):
			name, value, ok := parseTagPair(trimmed)
			if !ok {
				continue
			}
			if current == nil {
				current = &Game{}
			}
			current.Tags = append(current.Tags, Tag{Name: name, Value: value})
			inAuction = strings.EqualFold(name, "Auction")
		case inAuction && current != nil:
			current.Auction = append(current.Auction, auctionTokens(trimmed)...)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("pbn: read: %w", err)
	}
	if current != nil {
		games = append(games, *current)
	}
	for i := range games {
		games[i].Auction = expandAllPass(games[i].Auction)
	}
	return games, nil
}

// ReadFile reads every game record in the named PBN file.
func ReadFile(path string) ([]Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pbn: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Write renders game records back into PBN: tag pairs in order, then the
// auction four calls per line, then a blank separator line. The Auction tag
// itself is emitted from the game's dealer so records built without one
// still come out well formed.
func Write(w io.Writer, games []Game) error {
	bw := bufio.NewWriter(w)
	for _, g := range games {
		for _, t := range g.Tags {
			if strings.EqualFold(t.Name, "Auction") {
				continue
			}
			fmt.Fprintf(bw, "[%s %q]\n", t.Name, t.Value)
		}
		if len(g.Auction) > 0 {
			dealer, ok := g.Tag("Dealer")
			if !ok {
				dealer = "N"
			}
			fmt.Fprintf(bw, "[Auction %q]\n", dealer)
			for i := 0; i < len(g.Auction); i += 4 {
				end := i + 4
				if end > len(g.Auction) {
					end = len(g.Auction)
				}
				fmt.Fprintln(bw, strings.Join(g.Auction[i:end], " "))
			}
		}
		fmt.Fprintln(bw)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("pbn: write: %w", err)
	}
	return nil
}

func parseTagPair(line string) (name, value string, ok bool) {
	if !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") {
		return "", "", false
	}
	body := strings.TrimSpace(line[1 : len(line)-1])
	sp := strings.IndexAny(body, " \t")
	if sp < 0 {
		return "", "", false
	}
	name = body[:sp]
	rest := strings.TrimSpace(body[sp+1:])
	if len(rest) < 2 || rest[0] != '"' || rest[len(rest)-1] != '"' {
		return "", "", false
	}
	return name, rest[1 : len(rest)-1], true
}

// auctionTokens splits an auction line into call tokens, dropping note
// references and numeric annotation glyphs.
func auctionTokens(line string) []string {
	var out []string
	for _, tok := range strings.Fields(line) {
		if strings.HasPrefix(tok, "=") || strings.HasPrefix(tok, "$") || tok == "*" {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// CollapseAllPass abbreviates the passes that close a finished auction into
// a single "AP" token, the inverse of the expansion Read applies. A whole
// passed-out board collapses to just "AP". Unfinished auctions come back
// unchanged.
func CollapseAllPass(calls []string) []string {
	a := bba.NewAuction(bba.North)
	for _, c := range calls {
		a.Record(c)
	}
	if !a.Complete() {
		return calls
	}
	n := len(calls)
	for n > 0 && bba.IsPass(calls[n-1]) {
		n--
	}
	out := make([]string, 0, n+1)
	out = append(out, calls[:n]...)
	return append(out, "AP")
}

// expandAllPass rewrites a trailing "AP" token into the explicit passes
// that close the auction.
func expandAllPass(calls []string) []string {
	hasAP := false
	for _, c := range calls {
		if strings.EqualFold(c, "AP") || strings.EqualFold(c, "AllPass") {
			hasAP = true
			break
		}
	}
	if !hasAP {
		return calls
	}
	var out []string
	for _, c := range calls {
		if !strings.EqualFold(c, "AP") && !strings.EqualFold(c, "AllPass") {
			out = append(out, c)
			continue
		}
		a := bba.NewAuction(bba.North)
		for _, prior := range out {
			a.Record(prior)
		}
		for !a.Complete() {
			a.Record(bba.Pass)
			out = append(out, bba.Pass)
		}
	}
	return out
}
