// Package app owns the page state of the ICO client and sequences wallet
// connection, contract queries and transactions.
package app

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/Mohsinsiddi/cdico/internal/config"
	"github.com/Mohsinsiddi/cdico/internal/ico"
	"github.com/Mohsinsiddi/cdico/internal/provider"
)

// Errors.
var (
	ErrNotConnected = errors.New("wallet not connected")
	ErrBusy         = errors.New("a transaction is already pending")
	ErrNoTerms      = errors.New("sale terms are not available")
)

// Alerter is where success and wrong-network notices go.
type Alerter = provider.Alerter

// Connector verifies the wallet connection. *provider.Resolver satisfies it.
type Connector interface {
	Resolve(ctx context.Context, needSigner bool) (*provider.Handle, error)
}

// Queries reads the sale. *ico.Queries satisfies it.
type Queries interface {
	MintedSupply(ctx context.Context) (*big.Int, error)
	Balance(ctx context.Context) (*big.Int, error)
	Claimable(ctx context.Context) (*big.Int, error)
}

// Transactions writes to the sale. *ico.Transactions satisfies it.
type Transactions interface {
	Mint(ctx context.Context, amount *big.Int) (*ico.Result, error)
	Claim(ctx context.Context) (*ico.Result, error)
}

// TermsReader reads the contract's sale parameters. *ico.Queries satisfies it.
type TermsReader interface {
	SaleTerms(ctx context.Context) (ico.Terms, error)
}

// Backend is what the controller drives. It is built once, on first use.
type Backend struct {
	Connector Connector
	Queries   Queries
	Tx        Transactions
	// Terms is optional.
	Terms TermsReader
	// Close, when set, releases the backend's connections.
	Close func()
}

// SetupFunc builds the Backend.
type SetupFunc func() (*Backend, error)

// Controller holds the page state. All methods are safe for concurrent use.
type Controller struct {
	setup   SetupFunc
	once    sync.Once
	backend *Backend
	initErr error

	alerter Alerter
	logger  *log.Logger

	mu        sync.Mutex
	state     State
	observers []func(State)
}

// NewController creates a Controller. setup runs lazily, at most once.
func NewController(setup SetupFunc, alerter Alerter, logger *log.Logger) *Controller {
	if alerter == nil {
		alerter = provider.AlertFunc(func(string) {})
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		setup:   setup,
		alerter: alerter,
		logger:  logger,
		state:   newState(),
	}
}

// OnChange registers fn to receive a snapshot after every state change.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// SetAmount stores the typed mint amount.
func (c *Controller) SetAmount(s string) {
	c.update(func(st *State) { st.Amount = s })
}

// Bootstrap connects if needed and, once the connection is confirmed, loads
// the balances.
func (c *Controller) Bootstrap(ctx context.Context) error {
	if !c.Snapshot().Connected {
		if err := c.Connect(ctx); err != nil {
			return err
		}
	}
	return c.Refresh(ctx)
}

// Connect opens the wallet connection and checks the network. On failure
// the page stays disconnected.
func (c *Controller) Connect(ctx context.Context) error {
	b, err := c.backendOnce()
	if err != nil {
		return err
	}
	h, err := b.Connector.Resolve(ctx, false)
	if err != nil {
		c.logger.Error("connecting wallet", "err", err)
		c.update(func(st *State) {
			st.Connected = false
			st.Address = ""
		})
		return err
	}
	c.logger.Info("wallet connected", "account", h.Account.Hex(), "network", h.Network.Name)
	c.update(func(st *State) {
		st.Connected = true
		st.Address = h.Account.Hex()
	})
	return nil
}

// Refresh re-reads supply, balance and claimable concurrently. A failed
// query is logged and its value reset to zero; Refresh itself only fails
// when not connected.
func (c *Controller) Refresh(ctx context.Context) error {
	if !c.Snapshot().Connected {
		return ErrNotConnected
	}
	b, err := c.backendOnce()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, config.RefreshTimeout)
	defer cancel()

	var minted, balance, claimable *big.Int
	var g errgroup.Group
	g.Go(func() error {
		minted = c.failSoft(ctx, "minted supply", b.Queries.MintedSupply)
		return nil
	})
	g.Go(func() error {
		balance = c.failSoft(ctx, "token balance", b.Queries.Balance)
		return nil
	})
	g.Go(func() error {
		claimable = c.failSoft(ctx, "claimable tokens", b.Queries.Claimable)
		return nil
	})
	_ = g.Wait()

	c.update(func(st *State) {
		st.Minted = minted
		st.Balance = balance
		st.Claimable = claimable
	})
	return nil
}

func (c *Controller) failSoft(ctx context.Context, what string, query func(context.Context) (*big.Int, error)) *big.Int {
	v, err := query(ctx)
	if err != nil {
		c.logger.Error("reading "+what, "err", err)
		return new(big.Int)
	}
	return v
}

// Mint buys amount tokens, alerts on success and refreshes once.
func (c *Controller) Mint(ctx context.Context, amount *big.Int) (*ico.Result, error) {
	return c.transact(ctx, "mint", MintedAlert, func(tx Transactions) (*ico.Result, error) {
		return tx.Mint(ctx, amount)
	})
}

// MintTyped mints the amount stored with SetAmount.
func (c *Controller) MintTyped(ctx context.Context) (*ico.Result, error) {
	amount, ok := ParseAmount(c.Snapshot().Amount)
	if !ok {
		return nil, ico.ErrInvalidAmount
	}
	return c.Mint(ctx, amount)
}

// Claim claims the tokens owed for unclaimed NFTs, alerts on success and
// refreshes once.
func (c *Controller) Claim(ctx context.Context) (*ico.Result, error) {
	return c.transact(ctx, "claim", ClaimedAlert, func(tx Transactions) (*ico.Result, error) {
		return tx.Claim(ctx)
	})
}

func (c *Controller) transact(ctx context.Context, what, alert string, fn func(Transactions) (*ico.Result, error)) (*ico.Result, error) {
	if !c.Snapshot().Connected {
		return nil, ErrNotConnected
	}
	b, err := c.backendOnce()
	if err != nil {
		return nil, err
	}

	release, err := c.begin()
	if err != nil {
		return nil, err
	}
	defer release()

	res, err := fn(b.Tx)
	if err != nil {
		c.logger.Error(what+" failed", "err", err)
		return res, err
	}

	c.update(func(st *State) {
		st.LastTx = res.Hash.Hex()
		st.LastTxURL = res.ExplorerURL
	})
	c.alerter.Alert(alert)
	release()
	if err := c.Refresh(ctx); err != nil {
		c.logger.Warn("refresh after "+what, "err", err)
	}
	return res, nil
}

// begin raises the pending indicator. The returned release lowers it and
// is safe to call more than once.
func (c *Controller) begin() (release func(), err error) {
	c.mu.Lock()
	if c.state.Loading {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.state.Loading = true
	snap, obs := c.state.clone(), c.observersLocked()
	c.mu.Unlock()
	notify(obs, snap)

	var once sync.Once
	return func() {
		once.Do(func() { c.update(func(st *State) { st.Loading = false }) })
	}, nil
}

// SaleTerms reads the price and caps enforced by the token contract. It
// does not touch the page state.
func (c *Controller) SaleTerms(ctx context.Context) (ico.Terms, error) {
	if !c.Snapshot().Connected {
		return ico.Terms{}, ErrNotConnected
	}
	b, err := c.backendOnce()
	if err != nil {
		return ico.Terms{}, err
	}
	if b.Terms == nil {
		return ico.Terms{}, ErrNoTerms
	}
	return b.Terms.SaleTerms(ctx)
}

// Close releases the backend if it was built. The controller cannot
// connect afterwards.
func (c *Controller) Close() {
	c.once.Do(func() { c.initErr = errors.New("controller closed") })
	if c.backend != nil && c.backend.Close != nil {
		c.backend.Close()
	}
}

func (c *Controller) backendOnce() (*Backend, error) {
	c.once.Do(func() {
		c.backend, c.initErr = c.setup()
	})
	return c.backend, c.initErr
}

func (c *Controller) update(fn func(*State)) {
	c.mu.Lock()
	fn(&c.state)
	snap, obs := c.state.clone(), c.observersLocked()
	c.mu.Unlock()
	notify(obs, snap)
}

var _ TermsReader = (*ico.Queries)(nil)

func (c *Controller) observersLocked() []func(State) {
	return append([]func(State){}, c.observers...)
}

func notify(obs []func(State), s State) {
	for _, fn := range obs {
		fn(s)
	}
}
