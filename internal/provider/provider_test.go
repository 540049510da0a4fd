package provider_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/cdico/internal/chain"
	"github.com/Mohsinsiddi/cdico/internal/chaintest"
	"github.com/Mohsinsiddi/cdico/internal/logging"
	"github.com/Mohsinsiddi/cdico/internal/provider"
	"github.com/Mohsinsiddi/cdico/internal/wallet"
)

// Hardhat/Anvil accounts #0 and #1.
const (
	key0  = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	addr0 = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	key1  = "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
	addr1 = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

var goerli = &chain.Network{Name: "goerli", DisplayName: "Goerli", ChainID: 5}

type alerts struct {
	mu   sync.Mutex
	msgs []string
}

func (a *alerts) Alert(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.msgs = append(a.msgs, msg)
}

func (a *alerts) all() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.msgs...)
}

type fixedSelector struct {
	url   string
	calls int
}

func (s *fixedSelector) Select(context.Context, []string) (string, error) {
	s.calls++
	return s.url, nil
}

func newManager(t *testing.T, keys map[string]string) *wallet.Manager {
	t.Helper()
	m := wallet.NewManager()
	for name, k := range keys {
		_, err := m.Import(name, k)
		require.NoError(t, err)
	}
	return m
}

// ---------------------------------------------------------------------------
// Modal
// ---------------------------------------------------------------------------

func TestModalInjectedKeyWins(t *testing.T) {
	m := provider.NewModal(provider.ModalConfig{
		Network:     goerli,
		RPCURL:      "http://node",
		InjectedKey: key1,
		Wallets:     newManager(t, map[string]string{"alice": key0}),
		Logger:      logging.Discard(),
	})

	conn, err := m.Connect(context.Background())
	require.NoError(t, err)
	assert.True(t, conn.Injected)
	assert.Empty(t, conn.WalletName)
	assert.Equal(t, addr1, conn.Account.Hex())
	assert.Equal(t, "http://node", conn.RPCURL)
}

func TestModalInjectedDisabled(t *testing.T) {
	m := provider.NewModal(provider.ModalConfig{
		Network:                 goerli,
		RPCURL:                  "http://node",
		InjectedKey:             key1,
		DisableInjectedProvider: true,
		Wallets:                 newManager(t, map[string]string{"alice": key0}),
		Logger:                  logging.Discard(),
	})

	conn, err := m.Connect(context.Background())
	require.NoError(t, err)
	assert.False(t, conn.Injected)
	assert.Equal(t, "alice", conn.WalletName)
	assert.Equal(t, addr0, conn.Account.Hex())
}

func TestModalCachesConnection(t *testing.T) {
	sel := &fixedSelector{url: "http://picked"}
	picks := 0
	m := provider.NewModal(provider.ModalConfig{
		Network:  &chain.Network{Name: "goerli", ChainID: 5, RPCs: []string{"http://a", "http://b"}},
		Selector: sel,
		Wallets:  newManager(t, map[string]string{"alice": key0}),
		Pick: func(context.Context, []*wallet.Wallet) (*wallet.Wallet, error) {
			picks++
			return nil, errors.New("unexpected prompt")
		},
		Logger: logging.Discard(),
	})

	first, err := m.Connect(context.Background())
	require.NoError(t, err)
	second, err := m.Connect(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, sel.calls)
	assert.Equal(t, 0, picks, "sole wallet connects without prompting")
	assert.Equal(t, "http://picked", first.RPCURL)

	m.Disconnect()
	assert.False(t, m.Connected())
	_, err = m.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sel.calls)
}

func TestModalPrefersSessionWallet(t *testing.T) {
	mgr := newManager(t, map[string]string{"alice": key0, "bob": key1})
	require.NoError(t, mgr.SetDefault("alice"))
	session := wallet.NewSession(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, session.Remember("goerli", "bob"))

	m := provider.NewModal(provider.ModalConfig{
		Network: goerli, RPCURL: "http://node",
		Wallets: mgr, Session: session, Logger: logging.Discard(),
	})
	conn, err := m.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "bob", conn.WalletName)
}

func TestModalPreferredWallet(t *testing.T) {
	mgr := newManager(t, map[string]string{"alice": key0, "bob": key1})
	m := provider.NewModal(provider.ModalConfig{
		Network: goerli, RPCURL: "http://node",
		Wallets: mgr, Preferred: "bob", Logger: logging.Discard(),
	})
	conn, err := m.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, addr1, conn.Account.Hex())

	m = provider.NewModal(provider.ModalConfig{
		Network: goerli, RPCURL: "http://node",
		Wallets: mgr, Preferred: "carol", Logger: logging.Discard(),
	})
	_, err = m.Connect(context.Background())
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
}

func TestModalPromptsWhenAmbiguous(t *testing.T) {
	mgr := newManager(t, map[string]string{"alice": key0, "bob": key1})
	var offered []string
	m := provider.NewModal(provider.ModalConfig{
		Network: goerli, RPCURL: "http://node",
		Wallets: noDefault{mgr},
		Pick: func(_ context.Context, ws []*wallet.Wallet) (*wallet.Wallet, error) {
			for _, w := range ws {
				offered = append(offered, w.Name)
			}
			return ws[1], nil
		},
		Logger: logging.Discard(),
	})
	conn, err := m.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, offered)
	assert.Equal(t, "bob", conn.WalletName)
}

func TestModalNoWallets(t *testing.T) {
	m := provider.NewModal(provider.ModalConfig{
		Network: goerli, RPCURL: "http://node",
		Wallets: wallet.NewManager(), Logger: logging.Discard(),
	})
	_, err := m.Connect(context.Background())
	assert.ErrorIs(t, err, provider.ErrNoAccount)
	assert.False(t, m.Connected())
}

func TestModalNoRPC(t *testing.T) {
	m := provider.NewModal(provider.ModalConfig{
		Network: goerli, InjectedKey: key0, Logger: logging.Discard(),
	})
	_, err := m.Connect(context.Background())
	assert.ErrorIs(t, err, provider.ErrNoRPC)
}

// noDefault hides the default wallet so the picker is consulted.
type noDefault struct{ *wallet.Manager }

func (noDefault) Default() *wallet.Wallet { return nil }

// ---------------------------------------------------------------------------
// Resolver
// ---------------------------------------------------------------------------

func newResolver(t *testing.T, node *chaintest.Node, a provider.Alerter, session *wallet.Session) *provider.Resolver {
	t.Helper()
	m := provider.NewModal(provider.ModalConfig{
		Network: goerli,
		RPCURL:  node.URL(),
		Wallets: newManager(t, map[string]string{"alice": key0}),
		Session: session,
		Logger:  logging.Discard(),
	})
	r := provider.NewResolver(m, a, logging.Discard())
	t.Cleanup(r.Close)
	return r
}

func TestResolveReadOnly(t *testing.T) {
	node := chaintest.NewNode(t, 5)
	r := newResolver(t, node, &alerts{}, nil)

	h, err := r.Resolve(context.Background(), false)
	require.NoError(t, err)
	assert.Nil(t, h.Signer)
	assert.Equal(t, common.HexToAddress(addr0), h.Account)
	assert.Equal(t, int64(5), h.ChainID.Int64())
	assert.Equal(t, "goerli", h.Network.Name)
}

func TestResolveWithSigner(t *testing.T) {
	node := chaintest.NewNode(t, 5)
	r := newResolver(t, node, &alerts{}, nil)

	h, err := r.Resolve(context.Background(), true)
	require.NoError(t, err)
	require.NotNil(t, h.Signer)
	assert.Equal(t, h.Account, h.Signer.Address())
}

func TestResolveWrongNetworkAlertsEveryCall(t *testing.T) {
	node := chaintest.NewNode(t, 1)
	a := &alerts{}
	r := newResolver(t, node, a, nil)

	for i := 0; i < 2; i++ {
		h, err := r.Resolve(context.Background(), false)
		assert.Nil(t, h)
		assert.ErrorIs(t, err, provider.ErrWrongNetwork)
	}
	assert.Equal(t, []string{"Change network to goerli", "Change network to goerli"}, a.all())
	assert.Equal(t, 2, node.Calls("eth_chainId"))
	assert.Zero(t, node.Calls("eth_call"))
}

func TestResolveNoticesNetworkSwitch(t *testing.T) {
	node := chaintest.NewNode(t, 5)
	a := &alerts{}
	r := newResolver(t, node, a, nil)

	_, err := r.Resolve(context.Background(), false)
	require.NoError(t, err)

	node.SetChainID(11155111)
	_, err = r.Resolve(context.Background(), false)
	assert.ErrorIs(t, err, provider.ErrWrongNetwork)
	assert.Len(t, a.all(), 1)
}

func TestResolveRemembersSession(t *testing.T) {
	node := chaintest.NewNode(t, 5)
	session := wallet.NewSession(filepath.Join(t.TempDir(), "session.json"))
	r := newResolver(t, node, &alerts{}, session)

	_, err := r.Resolve(context.Background(), false)
	require.NoError(t, err)

	name, ok := session.Wallet("goerli")
	assert.True(t, ok)
	assert.Equal(t, "alice", name)
}

func TestResolveSessionUntouchedOnWrongNetwork(t *testing.T) {
	node := chaintest.NewNode(t, 1)
	session := wallet.NewSession(filepath.Join(t.TempDir(), "session.json"))
	r := newResolver(t, node, &alerts{}, session)

	_, err := r.Resolve(context.Background(), false)
	require.Error(t, err)
	_, ok := session.Wallet("goerli")
	assert.False(t, ok)
}

func TestResolveNodeDown(t *testing.T) {
	node := chaintest.NewNode(t, 5)
	a := &alerts{}
	r := newResolver(t, node, a, nil)
	node.Close()

	_, err := r.Resolve(context.Background(), false)
	require.Error(t, err)
	assert.NotErrorIs(t, err, provider.ErrWrongNetwork)
	assert.Empty(t, a.all())
}

func TestAlertFunc(t *testing.T) {
	var got string
	provider.AlertFunc(func(msg string) { got = msg }).Alert("hi")
	assert.Equal(t, "hi", got)
}
