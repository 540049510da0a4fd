package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Mohsinsiddi/cdico/internal/app"
	"github.com/Mohsinsiddi/cdico/internal/wallet"
)

// DAppConfig describes the page header.
type DAppConfig struct {
	Network string
	View    app.View
}

// DApp is the interactive ICO page. It doubles as the controller's Alerter
// and as the wallet picker, suspending the page while the picker runs.
type DApp struct {
	mu      sync.Mutex
	prog    *tea.Program
	pending []tea.Msg
}

// NewDApp creates a page. Alerts raised before Run are shown once it starts.
func NewDApp() *DApp { return &DApp{} }

// Alert shows msg as a banner until the next key press.
func (d *DApp) Alert(msg string) { d.send(alertMsg(msg)) }

// PickWallet releases the terminal, shows the wallet picker and restores
// the page.
func (d *DApp) PickWallet(ctx context.Context, wallets []*wallet.Wallet) (*wallet.Wallet, error) {
	d.mu.Lock()
	p := d.prog
	d.mu.Unlock()
	if p != nil {
		if err := p.ReleaseTerminal(); err != nil {
			return nil, err
		}
		defer p.RestoreTerminal() //nolint:errcheck
	}
	return PickWallet(ctx, wallets)
}

// Run shows the page until the user quits or ctx is done.
func (d *DApp) Run(ctx context.Context, ctrl *app.Controller, cfg DAppConfig) error {
	if cfg.View == (app.View{}) {
		cfg.View = app.DefaultView
	}
	p := tea.NewProgram(newDAppModel(ctx, ctrl, cfg), tea.WithContext(ctx), tea.WithAltScreen())

	d.mu.Lock()
	d.prog = p
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()

	ctrl.OnChange(func(app.State) { d.send(changedMsg{}) })
	for _, msg := range pending {
		go p.Send(msg)
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// send delivers msg without blocking the caller, which may be running
// inside the program's own update loop.
func (d *DApp) send(msg tea.Msg) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.prog == nil {
		d.pending = append(d.pending, msg)
		return
	}
	go d.prog.Send(msg)
}

// --- model ---

type (
	changedMsg struct{}
	alertMsg   string
	opDoneMsg  struct {
		op  string
		err error
	}
)

type dappModel struct {
	ctx  context.Context
	ctrl *app.Controller
	cfg  DAppConfig

	state app.State
	input textinput.Model
	spin  spinner.Model

	busy  string // connect or refresh in flight
	alert string
	flash string
}

func newDAppModel(ctx context.Context, ctrl *app.Controller, cfg DAppConfig) dappModel {
	in := textinput.New()
	in.Placeholder = app.AmountHint
	in.CharLimit = 12
	in.Width = 20
	in.Prompt = "› "
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StyleChain

	return dappModel{
		ctx:   ctx,
		ctrl:  ctrl,
		cfg:   cfg,
		state: ctrl.Snapshot(),
		input: in,
		spin:  sp,
		busy:  "connect",
	}
}

func (m dappModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, m.op("connect", m.ctrl.Bootstrap))
}

// op runs fn on a command goroutine and reports back with opDoneMsg.
func (m dappModel) op(name string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: name, err: fn(m.ctx)}
	}
}

func (m dappModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		m.state = m.ctrl.Snapshot()
		return m, nil

	case alertMsg:
		m.alert = string(msg)
		return m, nil

	case opDoneMsg:
		m.state = m.ctrl.Snapshot()
		if msg.op == m.busy {
			m.busy = ""
		}
		if msg.err != nil {
			m.flash = Err(msg.op + ": " + msg.err.Error())
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m dappModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	// Like a browser alert, the banner swallows the next key.
	if m.alert != "" {
		m.alert = ""
		return m, nil
	}
	m.flash = ""
	scr := m.cfg.View.Render(m.state)

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit

	case "c":
		if scr.ShowConnect && m.busy == "" {
			m.busy = "connect"
			return m, m.op("connect", m.ctrl.Bootstrap)
		}
		return m, nil

	case "r":
		if m.state.Connected && m.busy == "" {
			m.busy = "refresh"
			return m, m.op("refresh", m.ctrl.Refresh)
		}
		return m, nil

	case "enter":
		if scr.Action == app.ActionMint && !scr.MintDisabled && m.state.Connected {
			return m, m.op("mint", func(ctx context.Context) error {
				_, err := m.ctrl.MintTyped(ctx)
				return err
			})
		}
		return m, nil

	case "l":
		if scr.Action == app.ActionClaim {
			return m, m.op("claim", func(ctx context.Context) error {
				_, err := m.ctrl.Claim(ctx)
				return err
			})
		}
		return m, nil

	case "y":
		if m.state.LastTx == "" {
			m.flash = Meta("no transaction yet")
		} else if err := clipboard.WriteAll(m.state.LastTx); err != nil {
			m.flash = Err("copy failed: " + err.Error())
		} else {
			m.flash = Success("copied " + TruncateAddr(m.state.LastTx))
		}
		return m, nil
	}

	// The amount field only exists on the mint screen.
	if scr.Action != app.ActionMint || !amountKey(msg) {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetAmount(m.input.Value())
	m.state = m.ctrl.Snapshot()
	return m, cmd
}

// amountKey reports whether msg edits the amount field: digits and the
// usual editing keys.
func amountKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyLeft, tea.KeyRight, tea.KeyHome, tea.KeyEnd:
		return true
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if !unicode.IsDigit(r) {
				return false
			}
		}
		return len(msg.Runes) > 0
	}
	return false
}

func (m dappModel) View() string {
	scr := m.cfg.View.Render(m.state)
	var sb strings.Builder

	sb.WriteString(StyleTitle.Render(app.Title))
	sb.WriteString("\n")
	sb.WriteString(Meta(app.Description))
	sb.WriteString("\n")
	if m.cfg.Network != "" {
		header := ChainName(m.cfg.Network)
		if m.state.Address != "" {
			header += "  " + Addr(m.state.Address)
		}
		sb.WriteString(header)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if m.alert != "" {
		sb.WriteString(StyleAlert.Render(m.alert))
		sb.WriteString("\n\n")
	}

	if scr.ShowConnect {
		if m.busy == "connect" {
			sb.WriteString(m.spin.View() + " " + Meta("connecting…"))
		} else {
			sb.WriteString(Button(app.ConnectLabel, true) + " " + Key("c"))
		}
		sb.WriteString("\n\n")
	} else {
		sb.WriteString(Val(scr.BalanceLine))
		sb.WriteString("\n")
		sb.WriteString(Val(scr.SupplyLine))
		sb.WriteString("\n\n")
	}

	switch scr.Action {
	case app.ActionLoading:
		sb.WriteString(m.spin.View() + " " + Button(app.LoadingLabel, false))
	case app.ActionClaim:
		sb.WriteString(scr.ClaimLine)
		sb.WriteString("\n")
		sb.WriteString(Button(app.ClaimLabel, true) + " " + Key("l"))
	default:
		sb.WriteString(m.input.View())
		sb.WriteString("\n")
		sb.WriteString(Button(app.MintLabel, !scr.MintDisabled && m.state.Connected) + " " + Key("enter"))
	}
	sb.WriteString("\n")

	if m.state.LastTx != "" {
		sb.WriteString("\n" + Meta("last tx ") + Addr(m.state.LastTx))
		if m.state.LastTxURL != "" {
			sb.WriteString("\n" + Meta(m.state.LastTxURL))
		}
		sb.WriteString("\n")
	}

	if m.busy == "refresh" {
		sb.WriteString("\n" + m.spin.View() + " " + Meta("refreshing…") + "\n")
	}
	if m.flash != "" {
		sb.WriteString("\n" + m.flash + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(controls())
	sb.WriteString("\n")
	return sb.String()
}

func controls() string {
	hints := []string{
		Key("0-9") + Meta(" amount"),
		Key("enter") + Meta(" mint"),
		Key("l") + Meta(" claim"),
		Key("r") + Meta(" refresh"),
		Key("y") + Meta(" copy tx"),
		Key("q") + Meta(" quit"),
	}
	return strings.Join(hints, "   ")
}
