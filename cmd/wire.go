package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/Mohsinsiddi/cdico/internal/app"
	"github.com/Mohsinsiddi/cdico/internal/chain"
	"github.com/Mohsinsiddi/cdico/internal/ico"
	"github.com/Mohsinsiddi/cdico/internal/provider"
	"github.com/Mohsinsiddi/cdico/internal/rpc"
	"github.com/Mohsinsiddi/cdico/internal/wallet"
)

// newWalletManager opens the wallet store and keychain under the config dir.
func newWalletManager() (*wallet.Manager, error) {
	ks, err := wallet.OpenKeystore(cfg.Dir())
	if err != nil {
		return nil, fmt.Errorf("opening keychain: %w", err)
	}
	return wallet.NewManager(
		wallet.WithStore(wallet.NewJSONStore(cfg.WalletsPath())),
		wallet.WithKeystore(ks),
	), nil
}

// currentNetwork resolves the configured network against the registry.
func currentNetwork() (*chain.Network, error) {
	return chain.NewRegistry().GetByName(cfg.Network)
}

// clientOptions are applied to every EVM client the commands dial.
func clientOptions() []chain.Option {
	var opts []chain.Option
	if cfg.RPCRateLimit > 0 {
		opts = append(opts, chain.WithRateLimit(cfg.RPCRateLimit))
	}
	return opts
}

// newController wires config, wallets, provider and contract layers into a
// page controller. Nothing is dialled until the controller first needs it.
func newController(alerter app.Alerter, pick provider.PickFunc, lg *log.Logger) *app.Controller {
	setup := func() (*app.Backend, error) {
		network, err := currentNetwork()
		if err != nil {
			return nil, err
		}
		token, nft, err := cfg.Contracts()
		if err != nil {
			return nil, err
		}
		price, err := cfg.TokenPrice()
		if err != nil {
			return nil, err
		}
		algo, err := rpc.ParseAlgorithm(cfg.RPCAlgorithm)
		if err != nil {
			return nil, err
		}
		mgr, err := newWalletManager()
		if err != nil {
			return nil, err
		}

		preferred := walletFlag
		if preferred == "" {
			preferred = cfg.DefaultWallet
		}
		modal := provider.NewModal(provider.ModalConfig{
			Network:     network,
			RPCURL:      cfg.RPCURL,
			Selector:    rpc.NewSelector(algo),
			InjectedKey: os.Getenv(provider.EnvInjectedKey),
			Wallets:     mgr,
			Session:     wallet.NewSession(cfg.SessionPath()),
			Preferred:   preferred,
			Pick:        pick,
			Logger:      lg,
		})
		resolver := provider.NewResolver(modal, alerter, lg, clientOptions()...)

		contracts := ico.Contracts{Token: token, NFT: nft}
		queries := ico.NewQueries(resolver, contracts, lg)
		return &app.Backend{
			Connector: resolver,
			Queries:   queries,
			Tx:        ico.NewTransactions(resolver, contracts, price, lg),
			Terms:     queries,
			Close:     resolver.Close,
		}, nil
	}
	return app.NewController(setup, alerter, lg)
}

// pageView sizes the supply and claim lines from config.
func pageView() app.View {
	return app.View{MaxSupply: cfg.MaxSupply, TokensPerNFT: cfg.TokensPerNFT}
}
