// Package provider connects the user's account to a node of the configured
// network and hands out verified read or signing handles.
package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"

	"github.com/Mohsinsiddi/cdico/internal/chain"
	"github.com/Mohsinsiddi/cdico/internal/config"
	"github.com/Mohsinsiddi/cdico/internal/wallet"
)

// EnvInjectedKey carries a private key that connects without any prompt,
// the terminal counterpart of a browser-injected wallet.
const EnvInjectedKey = "CDICO_PRIVATE_KEY"

// Errors.
var (
	ErrNoAccount = errors.New("no wallet available to connect")
	ErrNoRPC     = errors.New("no RPC endpoint for network")
)

// WalletSource lists stored signing wallets. *wallet.Manager satisfies it.
type WalletSource interface {
	List() ([]*wallet.Wallet, error)
	Get(name string) (*wallet.Wallet, error)
	Default() *wallet.Wallet
	Signer(name string) (*wallet.Signer, error)
}

// RPCSelector picks one URL out of a network's RPC list. *rpc.Selector
// satisfies it.
type RPCSelector interface {
	Select(ctx context.Context, urls []string) (string, error)
}

// PickFunc asks the user to choose among several wallets.
type PickFunc func(ctx context.Context, wallets []*wallet.Wallet) (*wallet.Wallet, error)

// ModalConfig configures a Modal.
type ModalConfig struct {
	Network *chain.Network
	// RPCURL, when set, is used as-is instead of selecting from Network.RPCs.
	RPCURL   string
	Selector RPCSelector

	// InjectedKey is used before any stored wallet unless
	// DisableInjectedProvider is set.
	InjectedKey             string
	DisableInjectedProvider bool

	Wallets WalletSource
	Session *wallet.Session
	// Preferred names the wallet to use, e.g. from --wallet.
	Preferred string
	// Pick is consulted when several wallets qualify. Nil means the
	// connection fails instead of prompting.
	Pick PickFunc

	Logger *log.Logger
}

// Connection is the outcome of a successful Modal.Connect.
type Connection struct {
	Network    *chain.Network
	RPCURL     string
	Account    common.Address
	WalletName string // empty for the injected key
	Injected   bool
	Signer     *wallet.Signer
}

// Modal chooses an account and an endpoint once and caches the result, like
// a browser wallet-selection dialog that remembers the user's choice.
type Modal struct {
	cfg ModalConfig

	mu   sync.Mutex
	conn *Connection
}

// NewModal creates a Modal.
func NewModal(cfg ModalConfig) *Modal {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Modal{cfg: cfg}
}

// Network returns the network the modal connects to.
func (m *Modal) Network() *chain.Network { return m.cfg.Network }

// Session returns the session store, which may be nil.
func (m *Modal) Session() *wallet.Session { return m.cfg.Session }

// Connect returns the cached connection or establishes one.
func (m *Modal) Connect(ctx context.Context) (*Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != nil {
		return m.conn, nil
	}

	if m.cfg.Network == nil {
		return nil, errors.New("modal has no network")
	}

	conn, err := m.account(ctx)
	if err != nil {
		return nil, err
	}

	url, err := m.endpoint(ctx)
	if err != nil {
		return nil, err
	}
	conn.Network = m.cfg.Network
	conn.RPCURL = url

	m.cfg.Logger.Debug("wallet connected",
		"account", conn.Account.Hex(), "wallet", conn.WalletName,
		"injected", conn.Injected, "rpc", url)
	m.conn = conn
	return conn, nil
}

// Disconnect forgets the cached connection so the next Connect starts over.
func (m *Modal) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conn = nil
}

// Connected reports whether a connection is cached.
func (m *Modal) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn != nil
}

func (m *Modal) account(ctx context.Context) (*Connection, error) {
	if m.cfg.InjectedKey != "" && !m.cfg.DisableInjectedProvider {
		s, err := wallet.NewKeySigner(m.cfg.InjectedKey)
		if err != nil {
			return nil, fmt.Errorf("injected key: %w", err)
		}
		return &Connection{Account: s.Address(), Injected: true, Signer: s}, nil
	}

	if m.cfg.Wallets == nil {
		return nil, ErrNoAccount
	}

	w, err := m.chooseWallet(ctx)
	if err != nil {
		return nil, err
	}
	s, err := m.cfg.Wallets.Signer(w.Name)
	if err != nil {
		return nil, err
	}
	return &Connection{Account: s.Address(), WalletName: w.Name, Signer: s}, nil
}

// chooseWallet walks the preference order: explicit name, the wallet last
// connected on this network, the default wallet, then the picker.
func (m *Modal) chooseWallet(ctx context.Context) (*wallet.Wallet, error) {
	if m.cfg.Preferred != "" {
		return m.cfg.Wallets.Get(m.cfg.Preferred)
	}

	if m.cfg.Session != nil {
		if name, ok := m.cfg.Session.Wallet(m.cfg.Network.Name); ok {
			if w, err := m.cfg.Wallets.Get(name); err == nil {
				return w, nil
			}
			m.cfg.Logger.Warn("remembered wallet is gone", "wallet", name)
		}
	}

	if w := m.cfg.Wallets.Default(); w != nil {
		return w, nil
	}

	wallets, err := m.cfg.Wallets.List()
	if err != nil {
		return nil, err
	}
	if len(wallets) == 0 {
		return nil, fmt.Errorf("%w: add one with `cdico wallet add` or set %s", ErrNoAccount, EnvInjectedKey)
	}
	if m.cfg.Pick == nil {
		return nil, fmt.Errorf("%w: %d wallets and none is the default", ErrNoAccount, len(wallets))
	}
	return m.cfg.Pick(ctx, wallets)
}

func (m *Modal) endpoint(ctx context.Context) (string, error) {
	if m.cfg.RPCURL != "" {
		return m.cfg.RPCURL, nil
	}
	urls := m.cfg.Network.RPCs
	if len(urls) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoRPC, m.cfg.Network.Name)
	}
	if m.cfg.Selector == nil {
		return urls[0], nil
	}

	ctx, cancel := context.WithTimeout(ctx, config.RPCSelectTimeout)
	defer cancel()
	url, err := m.cfg.Selector.Select(ctx, urls)
	if err != nil {
		return "", fmt.Errorf("selecting RPC for %s: %w", m.cfg.Network.Name, err)
	}
	return url, nil
}
