package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGetByName(t *testing.T) {
	r := NewRegistry()

	n, err := r.GetByName("goerli")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n.ChainID)
	assert.NotEmpty(t, n.RPCs)

	n, err = r.GetByName("  Sepolia ")
	require.NoError(t, err)
	assert.Equal(t, int64(11155111), n.ChainID)
}

func TestRegistryUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.GetByName("solana")
	assert.ErrorIs(t, err, ErrNetworkNotFound)
	_, err = r.GetByChainID(1)
	assert.ErrorIs(t, err, ErrNetworkNotFound)
}

func TestRegistryGetByChainID(t *testing.T) {
	n, err := NewRegistry().GetByChainID(31337)
	require.NoError(t, err)
	assert.Equal(t, "localhost", n.Name)
}

func TestRegistryUniqueIDs(t *testing.T) {
	seen := map[int64]bool{}
	for _, n := range NewRegistry().All() {
		assert.False(t, seen[n.ChainID], "duplicate chain id %d", n.ChainID)
		seen[n.ChainID] = true
	}
}

func TestTxURL(t *testing.T) {
	r := NewRegistry()
	g, _ := r.GetByName("goerli")
	assert.Equal(t, "https://goerli.etherscan.io/tx/0xabc", g.TxURL("0xabc"))

	l, _ := r.GetByName("localhost")
	assert.Empty(t, l.TxURL("0xabc"))
}
