package engineproc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/bridgetools/bba-go/pkg/bba"
	"github.com/bridgetools/bba-go/pkg/bba/logging"
)

// ErrEngineClosed reports use of an engine whose host process is gone.
var ErrEngineClosed = errors.New("engineproc: engine closed")

// Config locates and configures the engine host process.
type Config struct {
	// Path is the host binary that wraps the engine and speaks the wire
	// protocol on stdin/stdout.
	Path string

	// Args are passed to the host binary verbatim.
	Args []string

	// Env entries are appended to the current environment.
	Env []string

	Log logging.Logger
}

// Engine runs the bidding engine in a host subprocess and implements
// bba.Engine over a line-delimited JSON protocol: one request object per
// line on stdin, one response object per line on stdout. Host stderr is
// drained and logged.
//
// Calls are serialized internally, so a shared Engine cannot interleave
// requests, but the intended shape is one Engine per Instance.
type Engine struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	enc    *json.Encoder
	out    *bufio.Scanner
	closed bool
	log    logging.Logger
}

type request struct {
	Op    string `json:"op"`
	PBN   string `json:"pbn,omitempty"`
	Seat  string `json:"seat,omitempty"`
	Vul   string `json:"vulnerability,omitempty"`
	Call  string `json:"call,omitempty"`
	Side  string `json:"side,omitempty"`
	Name  string `json:"name,omitempty"`
	Value int    `json:"value"`
}

type response struct {
	OK     bool   `json:"ok"`
	Value  string `json:"value,omitempty"`
	Number int    `json:"number,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Start launches the host process and verifies it answers the protocol.
// The engine owns the process until Close.
func Start(ctx context.Context, cfg Config) (*Engine, error) {
	if cfg.Path == "" {
		return nil, errors.New("engineproc: host path is empty")
	}
	if _, err := os.Stat(cfg.Path); err != nil {
		return nil, fmt.Errorf("engineproc: host binary: %w", err)
	}
	log := cfg.Log
	if log == nil {
		log = logging.New(nil)
	}

	cmd := exec.Command(cfg.Path, cfg.Args...)
	cmd.Env = append(os.Environ(), cfg.Env...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("engineproc: stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("engineproc: stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("engineproc: stderr: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("engineproc: start host: %w", err)
	}

	e := &Engine{
		cmd:   cmd,
		stdin: stdin,
		enc:   json.NewEncoder(stdin),
		out:   bufio.NewScanner(stdout),
		log:   log,
	}
	go e.drainStderr(stderr)

	if _, err := e.roundTrip(ctx, request{Op: "ping"}); err != nil {
		_ = e.Close()
		return nil, fmt.Errorf("engineproc: handshake: %w", err)
	}
	return e, nil
}

func (e *Engine) drainStderr(r io.Reader) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		e.log.Debug(context.Background(), "engine host stderr", "line", sc.Text())
	}
}

// roundTrip sends one request and reads its response. A canceled context is
// honored before the request is written; once a request is on the wire the
// read blocks until the host answers or Close tears the pipes down.
func (e *Engine) roundTrip(ctx context.Context, req request) (response, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return response{}, ErrEngineClosed
	}
	if err := ctx.Err(); err != nil {
		return response{}, err
	}
	if err := e.enc.Encode(req); err != nil {
		return response{}, fmt.Errorf("engineproc: send %s: %w", req.Op, err)
	}
	if !e.out.Scan() {
		if err := e.out.Err(); err != nil {
			return response{}, fmt.Errorf("engineproc: read %s: %w", req.Op, err)
		}
		return response{}, fmt.Errorf("engineproc: host exited during %s", req.Op)
	}
	var resp response
	if err := json.Unmarshal(e.out.Bytes(), &resp); err != nil {
		return response{}, fmt.Errorf("engineproc: decode %s: %w", req.Op, err)
	}
	if !resp.OK {
		if resp.Error == "" {
			resp.Error = "host refused " + req.Op
		}
		return response{}, errors.New(resp.Error)
	}
	return resp, nil
}

func (e *Engine) SetDeal(ctx context.Context, pbn string) error {
	_, err := e.roundTrip(ctx, request{Op: "set_deal", PBN: pbn})
	return err
}

func (e *Engine) SetDealer(ctx context.Context, dealer bba.Seat) error {
	_, err := e.roundTrip(ctx, request{Op: "set_dealer", Seat: dealer.String()})
	return err
}

func (e *Engine) SetVulnerability(ctx context.Context, vul bba.Vulnerability) error {
	_, err := e.roundTrip(ctx, request{Op: "set_vulnerability", Vul: vul.String()})
	return err
}

func (e *Engine) SetPosition(ctx context.Context, seat bba.Seat) error {
	_, err := e.roundTrip(ctx, request{Op: "set_position", Seat: seat.String()})
	return err
}

func (e *Engine) Suggest(ctx context.Context) (string, error) {
	resp, err := e.roundTrip(ctx, request{Op: "suggest"})
	if err != nil {
		return "", err
	}
	return resp.Value, nil
}

func (e *Engine) RecordCall(ctx context.Context, call string) error {
	_, err := e.roundTrip(ctx, request{Op: "record_call", Call: call})
	return err
}

func (e *Engine) SetOption(ctx context.Context, side bba.Side, name string, value int) error {
	_, err := e.roundTrip(ctx, request{
		Op:    "set_option",
		Side:  side.String(),
		Name:  name,
		Value: value,
	})
	return err
}

func (e *Engine) Option(ctx context.Context, side bba.Side, name string) (int, error) {
	resp, err := e.roundTrip(ctx, request{Op: "get_option", Side: side.String(), Name: name})
	if err != nil {
		return 0, err
	}
	return resp.Number, nil
}

// Close shuts the host process down. Stdin is closed first so a healthy
// host exits on its own; one that lingers is killed. Close is idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	stdin := e.stdin
	cmd := e.cmd
	e.mu.Unlock()

	_ = stdin.Close()

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		return exitError(err)
	case <-time.After(2 * time.Second):
	}
	_ = cmd.Process.Kill()
	return exitError(<-done)
}

// exitError filters the uninteresting ways a host exits. Being killed by
// our own Close is a clean shutdown, not a failure.
func exitError(err error) error {
	if err == nil {
		return nil
	}
	var exit *exec.ExitError
	if errors.As(err, &exit) {
		return nil
	}
	return fmt.Errorf("engineproc: host shutdown: %w", err)
}

var _ bba.Engine = (*Engine)(nil)
