package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bridgetools/bba-go/pkg/bba"
	"github.com/bridgetools/bba-go/pkg/bba/logging"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1E6F50")).
			Padding(0, 1)

	seatStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#87CEEB"))

	turnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1E6F50"))

	contractStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type tuiState int

const (
	stateSetup tuiState = iota
	stateBidding
)

type auctionModel struct {
	opts options
	log  logging.Logger

	inst   *bba.Instance
	dealer bba.Seat

	state    tuiState
	inputs   []textinput.Model
	focusIdx int

	callInput textinput.Model

	calls    []string
	turn     bba.Seat
	complete bool
	contract string
	err      error
}

type engineReadyMsg struct {
	inst   *bba.Instance
	dealer bba.Seat
	err    error
}

type auctionMsg struct {
	calls    []string
	turn     bba.Seat
	complete bool
	contract string
	err      error
}

func newAuctionModel(opts options, log logging.Logger) *auctionModel {
	labels := []struct{ prompt, placeholder, value string }{
		{"deal: ", "N:AKQJ.T98.765.432 ...", opts.deal},
		{"dealer: ", "N", opts.dealer},
		{"vul: ", "None", opts.vul},
	}
	inputs := make([]textinput.Model, len(labels))
	for i, l := range labels {
		ti := textinput.New()
		ti.Prompt = l.prompt
		ti.Placeholder = l.placeholder
		ti.SetValue(l.value)
		ti.Width = 70
		if i == 0 {
			ti.Focus()
		}
		inputs[i] = ti
	}

	call := textinput.New()
	call.Prompt = "call: "
	call.Placeholder = "empty = ask the engine"
	call.Width = 30

	return &auctionModel{
		opts:      opts,
		log:       log,
		state:     stateSetup,
		inputs:    inputs,
		callInput: call,
	}
}

func (m *auctionModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *auctionModel) startTable() tea.Msg {
	ctx := context.Background()

	deal := strings.TrimSpace(m.inputs[0].Value())
	dealer, err := bba.ParseSeat(m.inputs[1].Value())
	if err != nil {
		return engineReadyMsg{err: err}
	}
	vul, err := bba.ParseVulnerability(m.inputs[2].Value())
	if err != nil {
		return engineReadyMsg{err: err}
	}

	factory, err := engineFactory(m.opts, m.log)
	if err != nil {
		return engineReadyMsg{err: err}
	}
	eng, err := factory(ctx)
	if err != nil {
		return engineReadyMsg{err: err}
	}
	inst, err := bba.NewWithLogger(eng, m.log)
	if err != nil {
		_ = eng.Close()
		return engineReadyMsg{err: err}
	}

	fail := func(err error) tea.Msg {
		_ = inst.Close()
		return engineReadyMsg{err: err}
	}
	if m.opts.nsCard != "" {
		if err := inst.LoadConventions(ctx, m.opts.nsCard, bba.SideNS); err != nil {
			return fail(err)
		}
	}
	if m.opts.ewCard != "" {
		if err := inst.LoadConventions(ctx, m.opts.ewCard, bba.SideEW); err != nil {
			return fail(err)
		}
	}
	if err := inst.SetDeal(ctx, deal); err != nil {
		return fail(err)
	}
	if err := inst.SetDealer(ctx, dealer); err != nil {
		return fail(err)
	}
	if err := inst.SetVulnerability(ctx, vul); err != nil {
		return fail(err)
	}

	return engineReadyMsg{inst: inst, dealer: dealer}
}

func (m *auctionModel) snapshot(err error) tea.Msg {
	msg := auctionMsg{err: err}
	if calls, cerr := m.inst.Calls(); cerr == nil {
		msg.calls = calls
	}
	if turn, terr := m.inst.Turn(); terr == nil {
		msg.turn = turn
	}
	if done, derr := m.inst.Complete(); derr == nil {
		msg.complete = done
	}
	if msg.complete {
		if contract, cerr := m.inst.Contract(); cerr == nil {
			msg.contract = contract
		}
	}
	return msg
}

func (m *auctionModel) engineBid() tea.Msg {
	_, err := m.inst.NextCall(context.Background())
	return m.snapshot(err)
}

// userBid places a typed call at the end of the record, or rewrites an
// earlier one when the input is an "index call" pair, like "2 X".
func (m *auctionModel) userBid(input string) tea.Cmd {
	return func() tea.Msg {
		index := -1
		call := input
		if fields := strings.Fields(input); len(fields) == 2 {
			if n, err := strconv.Atoi(fields[0]); err == nil {
				index = n
				call = fields[1]
			}
		}
		var err error
		if index < 0 {
			index, err = m.inst.CallCount()
		}
		if err == nil {
			err = m.inst.PutCall(context.Background(), index, call)
		}
		return m.snapshot(err)
	}
}

func (m *auctionModel) resetAuction() tea.Msg {
	return m.snapshot(m.inst.ResetAuction())
}

func (m *auctionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if m.inst != nil {
				_ = m.inst.Close()
			}
			return m, tea.Quit

		case "tab":
			if m.state == stateSetup {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "ctrl+r":
			if m.state == stateBidding {
				return m, m.resetAuction
			}

		case "enter":
			switch m.state {
			case stateSetup:
				return m, m.startTable
			case stateBidding:
				call := strings.TrimSpace(m.callInput.Value())
				m.callInput.SetValue("")
				if call == "" {
					return m, m.engineBid
				}
				return m, m.userBid(call)
			}
		}

	case engineReadyMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.inst = msg.inst
		m.dealer = msg.dealer
		m.turn = msg.dealer
		m.state = stateBidding
		m.err = nil
		m.calls = nil
		m.complete = false
		m.contract = ""
		m.callInput.Focus()
		return m, textinput.Blink

	case auctionMsg:
		m.calls = msg.calls
		m.turn = msg.turn
		m.complete = msg.complete
		m.contract = msg.contract
		m.err = msg.err
	}

	var cmds []tea.Cmd
	if m.state == stateSetup {
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
	} else {
		var cmd tea.Cmd
		m.callInput, cmd = m.callInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *auctionModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("BBA Auction"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSetup:
		b.WriteString("Set up the board:\n\n")
		for _, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString("\n")
		}
		if m.err != nil {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter start • esc quit"))

	case stateBidding:
		seat := m.dealer
		headers := make([]string, 4)
		for i := range headers {
			headers[i] = seatStyle.Render(fmt.Sprintf("%-6s", seat.String()))
			seat = seat.Next()
		}
		b.WriteString(strings.Join(headers, ""))
		b.WriteString("\n")

		for i, call := range m.calls {
			if i > 0 && i%4 == 0 {
				b.WriteString("\n")
			}
			b.WriteString(fmt.Sprintf("%-6s", call))
		}
		if len(m.calls) > 0 {
			b.WriteString("\n")
		}
		b.WriteString("\n")

		if m.complete {
			b.WriteString(contractStyle.Render("Contract: " + m.contract))
			b.WriteString("\n")
		} else {
			b.WriteString(turnStyle.Render(" " + m.turn.String() + " to call "))
			b.WriteString("\n\n")
			b.WriteString(m.callInput.View())
			b.WriteString("\n")
		}

		if m.err != nil {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter bid (empty asks the engine, \"2 X\" rewrites call 2) • ctrl+r restart • esc quit"))
	}

	b.WriteString("\n")
	return b.String()
}

func runInteractive(opts options, log logging.Logger) error {
	p := tea.NewProgram(newAuctionModel(opts, log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
