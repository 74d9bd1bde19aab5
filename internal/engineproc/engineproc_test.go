package engineproc_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/bridgetools/bba-go/internal/engineproc"
	"github.com/bridgetools/bba-go/pkg/bba"
)

// TestHelperProcess is not a real test. It is re-executed as the engine
// host subprocess and speaks the wire protocol on stdin/stdout until its
// stdin closes.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	var script []string
	if s := os.Getenv("BBA_HELPER_SCRIPT"); s != "" {
		script = strings.Split(s, ",")
	}
	options := make(map[string]int)

	dec := json.NewDecoder(os.Stdin)
	enc := json.NewEncoder(os.Stdout)
	for {
		var req map[string]any
		if err := dec.Decode(&req); err != nil {
			return
		}
		optionKey := fmt.Sprintf("%v/%v", req["side"], req["name"])
		switch req["op"] {
		case "ping", "set_dealer", "set_vulnerability", "set_position", "record_call":
			enc.Encode(map[string]any{"ok": true})
		case "set_deal":
			if req["pbn"] == "bad" {
				enc.Encode(map[string]any{"ok": false, "error": "unparseable deal"})
			} else {
				enc.Encode(map[string]any{"ok": true})
			}
		case "suggest":
			call := ""
			if len(script) > 0 {
				call, script = script[0], script[1:]
			}
			enc.Encode(map[string]any{"ok": true, "value": call})
		case "set_option":
			options[optionKey] = int(req["value"].(float64))
			enc.Encode(map[string]any{"ok": true})
		case "get_option":
			enc.Encode(map[string]any{"ok": true, "number": options[optionKey]})
		default:
			enc.Encode(map[string]any{"ok": false, "error": "unknown op"})
		}
	}
}

func startHelper(t *testing.T, script string) *engineproc.Engine {
	t.Helper()
	eng, err := engineproc.Start(context.Background(), engineproc.Config{
		Path: os.Args[0],
		Args: []string{"-test.run=TestHelperProcess", "--"},
		Env:  []string{"GO_WANT_HELPER_PROCESS=1", "BBA_HELPER_SCRIPT=" + script},
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { eng.Close() })
	return eng
}

func TestSuggestFollowsHostScript(t *testing.T) {
	eng := startHelper(t, "1NT,Pass")
	ctx := context.Background()

	if err := eng.SetDeal(ctx, "N:AKQJ.T98.765.432 - - -"); err != nil {
		t.Fatalf("SetDeal: %v", err)
	}
	if err := eng.SetDealer(ctx, bba.North); err != nil {
		t.Fatalf("SetDealer: %v", err)
	}
	if err := eng.SetVulnerability(ctx, bba.VulNone); err != nil {
		t.Fatalf("SetVulnerability: %v", err)
	}

	for _, want := range []string{"1NT", "Pass", ""} {
		if err := eng.SetPosition(ctx, bba.North); err != nil {
			t.Fatalf("SetPosition: %v", err)
		}
		got, err := eng.Suggest(ctx)
		if err != nil {
			t.Fatalf("Suggest: %v", err)
		}
		if got != want {
			t.Fatalf("Suggest = %q, want %q", got, want)
		}
	}
}

func TestHostErrorSurfaces(t *testing.T) {
	eng := startHelper(t, "")
	err := eng.SetDeal(context.Background(), "bad")
	if err == nil {
		t.Fatal("SetDeal with a rejected deal did not fail")
	}
	if !strings.Contains(err.Error(), "unparseable deal") {
		t.Fatalf("SetDeal error = %v, want the host's message", err)
	}
}

func TestOptionRoundTrip(t *testing.T) {
	eng := startHelper(t, "")
	ctx := context.Background()

	if err := eng.SetOption(ctx, bba.SideNS, "Stayman", 1); err != nil {
		t.Fatalf("SetOption: %v", err)
	}
	got, err := eng.Option(ctx, bba.SideNS, "Stayman")
	if err != nil {
		t.Fatalf("Option: %v", err)
	}
	if got != 1 {
		t.Fatalf("Option = %d, want 1", got)
	}
	if got, err := eng.Option(ctx, bba.SideEW, "Stayman"); err != nil || got != 0 {
		t.Fatalf("Option for the other side = %d, %v, want 0, nil", got, err)
	}
}

func TestRecordCallForwarded(t *testing.T) {
	eng := startHelper(t, "")
	if err := eng.RecordCall(context.Background(), "2C"); err != nil {
		t.Fatalf("RecordCall: %v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	eng := startHelper(t, "")
	if err := eng.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := eng.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestUseAfterCloseFails(t *testing.T) {
	eng := startHelper(t, "")
	if err := eng.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := eng.RecordCall(context.Background(), "Pass"); !errors.Is(err, engineproc.ErrEngineClosed) {
		t.Fatalf("RecordCall after Close = %v, want ErrEngineClosed", err)
	}
}

func TestCanceledContextIsHonored(t *testing.T) {
	eng := startHelper(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := eng.SetPosition(ctx, bba.East); !errors.Is(err, context.Canceled) {
		t.Fatalf("SetPosition with canceled context = %v, want context.Canceled", err)
	}
}

func TestStartRejectsMissingBinary(t *testing.T) {
	_, err := engineproc.Start(context.Background(), engineproc.Config{Path: "/does/not/exist"})
	if err == nil {
		t.Fatal("Start with a missing host binary did not fail")
	}
}
