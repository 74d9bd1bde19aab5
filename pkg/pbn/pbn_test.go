package pbn

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bridgetools/bba-go/pkg/bba"
)

const sampleFile = `% PBN 2.1
% EXPORT
[Event "Club Teams"]
[Board "1"]
[Dealer "N"]
[Vulnerable "None"]
[Deal "N:KQT2.AT3.J653.KJ A864.KQ5.T9.Q765 J97.J87642.Q4.92 53.9.AK872.AT843"]
; table one
[Auction "N"]
1C Pass 1H Pass
1NT AP

[Event "Club Teams"]
[Board "2"]
[Dealer "E"]
[Vulnerable "NS"]
[Deal "E:A864.KQ5.T9.Q765 J97.J87642.Q4.92 53.9.AK872.AT843 KQT2.AT3.J653.KJ"]
`

func TestReadGames(t *testing.T) {
	games, err := Read(strings.NewReader(sampleFile))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}

	g := games[0]
	if board, _ := g.Tag("Board"); board != "1" {
		t.Fatalf("Board = %q", board)
	}
	dealer, err := g.Dealer()
	if err != nil || dealer != bba.North {
		t.Fatalf("Dealer = %v, %v", dealer, err)
	}
	vul, err := g.Vulnerable()
	if err != nil || vul != bba.VulNone {
		t.Fatalf("Vulnerable = %v, %v", vul, err)
	}
	want := []string{"1C", "Pass", "1H", "Pass", "1NT", "Pass", "Pass", "Pass"}
	if len(g.Auction) != len(want) {
		t.Fatalf("Auction = %v, want %v", g.Auction, want)
	}
	for i := range want {
		if g.Auction[i] != want[i] {
			t.Fatalf("Auction = %v, want %v", g.Auction, want)
		}
	}

	g2 := games[1]
	dealer2, err := g2.Dealer()
	if err != nil || dealer2 != bba.East {
		t.Fatalf("second game dealer = %v, %v", dealer2, err)
	}
	if len(g2.Auction) != 0 {
		t.Fatalf("second game auction = %v, want none", g2.Auction)
	}
}

func TestReadSkipsNoise(t *testing.T) {
	input := strings.Join([]string{
		`[Dealer "S"]`,
		`[Broken tag without value]`,
		`[Auction "S"]`,
		`1S =1= Pass $21 2S *`,
		`AP`,
		``,
	}, "\n")
	games, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("got %d games, want 1", len(games))
	}
	want := []string{"1S", "Pass", "2S", "Pass", "Pass", "Pass"}
	got := games[0].Auction
	if len(got) != len(want) {
		t.Fatalf("Auction = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Auction = %v, want %v", got, want)
		}
	}
}

func TestAllPassGame(t *testing.T) {
	input := "[Dealer \"W\"]\n[Auction \"W\"]\nAP\n"
	games, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(games) != 1 || len(games[0].Auction) != 4 {
		t.Fatalf("games = %+v, want one game with four passes", games)
	}
	for _, c := range games[0].Auction {
		if !bba.IsPass(c) {
			t.Fatalf("Auction = %v", games[0].Auction)
		}
	}
}

func TestWriteRoundTrip(t *testing.T) {
	games := []Game{{
		Tags: []Tag{
			{Name: "Board", Value: "7"},
			{Name: "Dealer", Value: "S"},
			{Name: "Vulnerable", Value: "Both"},
			{Name: "Deal", Value: "S:53.9.AK872.AT843 KQT2.AT3.J653.KJ A864.KQ5.T9.Q765 J97.J87642.Q4.92"},
		},
		Auction: []string{"1D", "Pass", "1H", "Pass", "2H", "Pass", "Pass", "Pass"},
	}}

	var buf bytes.Buffer
	if err := Write(&buf, games); err != nil {
		t.Fatalf("Write: %v", err)
	}
	text := buf.String()
	if !strings.Contains(text, "[Auction \"S\"]") {
		t.Fatalf("output missing auction tag:\n%s", text)
	}
	if !strings.Contains(text, "1D Pass 1H Pass\n2H Pass Pass Pass\n") {
		t.Fatalf("auction not wrapped four per line:\n%s", text)
	}

	back, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read back: %v", err)
	}
	if len(back) != 1 {
		t.Fatalf("round trip produced %d games", len(back))
	}
	if len(back[0].Auction) != len(games[0].Auction) {
		t.Fatalf("round trip auction = %v", back[0].Auction)
	}
	if board, _ := back[0].Tag("Board"); board != "7" {
		t.Fatalf("round trip Board = %q", board)
	}
}

func TestCollapseAllPass(t *testing.T) {
	tests := []struct {
		name  string
		calls []string
		want  []string
	}{
		{"closing passes", []string{"1NT", "Pass", "3NT", "Pass", "Pass", "Pass"}, []string{"1NT", "Pass", "3NT", "AP"}},
		{"passed out", []string{"Pass", "Pass", "Pass", "Pass"}, []string{"AP"}},
		{"open auction unchanged", []string{"1NT", "Pass"}, []string{"1NT", "Pass"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CollapseAllPass(tc.calls)
			if len(got) != len(tc.want) {
				t.Fatalf("CollapseAllPass(%v) = %v, want %v", tc.calls, got, tc.want)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("CollapseAllPass(%v) = %v, want %v", tc.calls, got, tc.want)
				}
			}
		})
	}
}

func TestSetTag(t *testing.T) {
	var g Game
	g.SetTag("Contract", "4H")
	g.SetTag("Contract", "4S")
	if len(g.Tags) != 1 {
		t.Fatalf("Tags = %v", g.Tags)
	}
	if v, ok := g.Tag("contract"); !ok || v != "4S" {
		t.Fatalf("Tag(contract) = %q, %v", v, ok)
	}
}
