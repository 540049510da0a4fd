package provider

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"

	"github.com/Mohsinsiddi/cdico/internal/chain"
	"github.com/Mohsinsiddi/cdico/internal/wallet"
)

// ErrWrongNetwork is returned when the node reports a chain id other than
// the configured network's.
var ErrWrongNetwork = errors.New("connected to the wrong network")

// Alerter shows a blocking notice to the user.
type Alerter interface {
	Alert(msg string)
}

// AlertFunc adapts a function to Alerter.
type AlertFunc func(msg string)

// Alert calls f(msg).
func (f AlertFunc) Alert(msg string) { f(msg) }

// Handle is a verified connection to the expected network. Signer is nil
// for read-only handles.
type Handle struct {
	Client  *chain.EVMClient
	Network *chain.Network
	ChainID *big.Int
	Account common.Address
	Signer  *wallet.Signer
}

// Resolver turns the modal's connection into network-checked handles.
type Resolver struct {
	modal   *Modal
	alerter Alerter
	opts    []chain.Option
	logger  *log.Logger

	mu      sync.Mutex
	clients map[string]*chain.EVMClient
}

// NewResolver creates a Resolver. opts are applied to every EVM client it dials.
func NewResolver(modal *Modal, alerter Alerter, logger *log.Logger, opts ...chain.Option) *Resolver {
	if alerter == nil {
		alerter = AlertFunc(func(string) {})
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{
		modal:   modal,
		alerter: alerter,
		opts:    opts,
		logger:  logger,
		clients: make(map[string]*chain.EVMClient),
	}
}

// Resolve connects (prompting once if needed), checks the chain id and
// returns a handle. The chain id is read on every call, so switching the
// node to another network is caught before the next contract call.
func (r *Resolver) Resolve(ctx context.Context, needSigner bool) (*Handle, error) {
	conn, err := r.modal.Connect(ctx)
	if err != nil {
		return nil, err
	}

	client, err := r.client(conn.RPCURL)
	if err != nil {
		return nil, err
	}

	id, err := client.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	if id != conn.Network.ChainID {
		r.alerter.Alert("Change network to " + conn.Network.Name)
		return nil, fmt.Errorf("%w: node is on chain %d, want %s (%d)",
			ErrWrongNetwork, id, conn.Network.Name, conn.Network.ChainID)
	}

	if s := r.modal.Session(); s != nil && conn.WalletName != "" {
		if err := s.Remember(conn.Network.Name, conn.WalletName); err != nil {
			r.logger.Warn("saving session", "err", err)
		}
	}

	h := &Handle{
		Client:  client,
		Network: conn.Network,
		ChainID: big.NewInt(id),
		Account: conn.Account,
	}
	if needSigner {
		h.Signer = conn.Signer
	}
	return h, nil
}

// Close releases every dialed client.
func (r *Resolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for url, c := range r.clients {
		c.Close()
		delete(r.clients, url)
	}
}

func (r *Resolver) client(url string) (*chain.EVMClient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.clients[url]; ok {
		return c, nil
	}
	c, err := chain.NewEVMClient(url, r.opts...)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	r.clients[url] = c
	return c, nil
}
