package chain

import (
	"errors"
	"strings"
)

// ErrNetworkNotFound is returned when a network is not in the registry.
var ErrNetworkNotFound = errors.New("network not found")

// Network holds the metadata the client needs for one EVM network.
type Network struct {
	Name           string   `json:"name"`
	DisplayName    string   `json:"display_name"`
	ChainID        int64    `json:"chain_id"`
	NativeCurrency string   `json:"native_currency"`
	RPCs           []string `json:"rpcs"`
	Explorer       string   `json:"explorer"`
	FaucetURL      string   `json:"faucet_url,omitempty"`
}

// TxURL returns the explorer link for a transaction hash, or "" when the
// network has no explorer.
func (n *Network) TxURL(hash string) string {
	if n.Explorer == "" {
		return ""
	}
	return strings.TrimRight(n.Explorer, "/") + "/tx/" + hash
}

// Registry is the network registry.
type Registry struct {
	networks []Network
	byName   map[string]*Network
	byID     map[int64]*Network
}

// NewRegistry returns the registry of every network the ICO contracts are
// known to run on.
func NewRegistry() *Registry {
	networks := allNetworks()
	r := &Registry{
		networks: networks,
		byName:   make(map[string]*Network, len(networks)),
		byID:     make(map[int64]*Network, len(networks)),
	}
	for i := range r.networks {
		n := &r.networks[i]
		r.byName[n.Name] = n
		r.byID[n.ChainID] = n
	}
	return r
}

// All returns every network in the registry.
func (r *Registry) All() []Network {
	return r.networks
}

// GetByName finds a network by its slug name (e.g. "goerli").
func (r *Registry) GetByName(name string) (*Network, error) {
	n, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, ErrNetworkNotFound
	}
	return n, nil
}

// GetByChainID finds a network by its numeric chain ID.
func (r *Registry) GetByChainID(id int64) (*Network, error) {
	n, ok := r.byID[id]
	if !ok {
		return nil, ErrNetworkNotFound
	}
	return n, nil
}

// --- network data ---

func allNetworks() []Network {
	return []Network{
		{
			Name: "goerli", DisplayName: "Goerli", ChainID: 5,
			NativeCurrency: "ETH",
			RPCs: []string{
				"https://ethereum-goerli.publicnode.com",
				"https://rpc.ankr.com/eth_goerli",
			},
			Explorer:  "https://goerli.etherscan.io",
			FaucetURL: "https://goerlifaucet.com",
		},
		{
			Name: "sepolia", DisplayName: "Sepolia", ChainID: 11155111,
			NativeCurrency: "ETH",
			RPCs: []string{
				"https://rpc.sepolia.org",
				"https://ethereum-sepolia-rpc.publicnode.com",
				"https://sepolia.gateway.tenderly.co",
			},
			Explorer:  "https://sepolia.etherscan.io",
			FaucetURL: "https://sepoliafaucet.com",
		},
		{
			Name: "localhost", DisplayName: "Localhost", ChainID: 31337,
			NativeCurrency: "ETH",
			RPCs:           []string{"http://127.0.0.1:8545"},
		},
	}
}
