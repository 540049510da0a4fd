package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Mohsinsiddi/cdico/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tokenAddr = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	nftAddr   = "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"
)

func TestLoadDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "goerli", cfg.Network)
	assert.Equal(t, "fastest", cfg.RPCAlgorithm)
	assert.Equal(t, "1000000000000000", cfg.TokenPriceWei)
	assert.Equal(t, int64(10000), cfg.MaxSupply)
	assert.Equal(t, int64(10), cfg.TokensPerNFT)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, dir, cfg.Dir())
}

func TestSaveAndReloadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	require.NoError(t, cfg.Set("network", "sepolia"))
	require.NoError(t, cfg.Set("token_address", tokenAddr))
	require.NoError(t, cfg.Set("nft_address", nftAddr))
	require.NoError(t, cfg.Set("rpc_algorithm", "failover"))
	require.NoError(t, cfg.Save())

	reloaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "sepolia", reloaded.Network)
	assert.Equal(t, tokenAddr, reloaded.TokenAddress)
	assert.Equal(t, "failover", reloaded.RPCAlgorithm)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"network":"sepolia"}`), 0o600))
	t.Setenv("CDICO_NETWORK", "localhost")
	t.Setenv("CDICO_TOKEN_ADDRESS", tokenAddr)

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Network)
	assert.Equal(t, tokenAddr, cfg.TokenAddress)
}

func TestLoadRejectsBadAlgorithm(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"rpc_algorithm":"random"}`), 0o600))
	_, err := config.Load(dir)
	assert.Error(t, err)
}

func TestLoadRejectsBadJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{nope`), 0o600))
	_, err := config.Load(dir)
	assert.Error(t, err)
}

func TestContractsRequired(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	_, _, err = cfg.Contracts()
	assert.ErrorIs(t, err, config.ErrContractsNotSet)

	require.NoError(t, cfg.Set("token_address", tokenAddr))
	require.NoError(t, cfg.Set("nft_address", nftAddr))
	token, nft, err := cfg.Contracts()
	require.NoError(t, err)
	assert.Equal(t, tokenAddr, token.Hex())
	assert.Equal(t, nftAddr, nft.Hex())
}

func TestSetValidates(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.ErrorIs(t, cfg.Set("token_address", "0xnope"), config.ErrInvalidAddress)
	assert.ErrorIs(t, cfg.Set("colour", "blue"), config.ErrUnknownKey)
	assert.Error(t, cfg.Set("max_supply", "ten"))
	assert.Error(t, cfg.Set("token_price_wei", "0"))

	require.NoError(t, cfg.Set("rpc_rate_limit", "12.5"))
	assert.Equal(t, 12.5, cfg.RPCRateLimit)
}

func TestRejectedSetLeavesConfigUnchanged(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	require.ErrorIs(t, cfg.Set("token_address", "0xnope"), config.ErrInvalidAddress)
	assert.Empty(t, cfg.TokenAddress)
	require.Error(t, cfg.Set("max_supply", "-5"))
	assert.Equal(t, int64(10000), cfg.MaxSupply)

	require.NoError(t, cfg.Set("network", "sepolia"))
	assert.Equal(t, "sepolia", cfg.Network)
}

func TestSaveSkipsEnvOnlyValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"nft_address":"`+nftAddr+`"}`), 0o600))
	t.Setenv("CDICO_TOKEN_ADDRESS", tokenAddr)
	t.Setenv("CDICO_RPC_URL", "http://127.0.0.1:9999")

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	require.Equal(t, tokenAddr, cfg.TokenAddress)
	require.NoError(t, cfg.Set("network", "sepolia"))
	cfg.LogLevel = "debug"
	require.NoError(t, cfg.Save())

	t.Setenv("CDICO_TOKEN_ADDRESS", "")
	t.Setenv("CDICO_RPC_URL", "")
	reloaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "sepolia", reloaded.Network)
	assert.Equal(t, nftAddr, reloaded.NFTAddress, "file values survive")
	assert.Empty(t, reloaded.TokenAddress)
	assert.Empty(t, reloaded.RPCURL)
	assert.Equal(t, "info", reloaded.LogLevel, "direct assignment is not persisted")

	info, err := os.Stat(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestTokenPrice(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	p, err := cfg.TokenPrice()
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000", p.String())
}

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "wallets.json"), cfg.WalletsPath())
	assert.Equal(t, filepath.Join(dir, "session.json"), cfg.SessionPath())
	assert.Equal(t, filepath.Join(dir, "cdico.log"), cfg.LogPath())
}

func TestDefaultDirFromEnv(t *testing.T) {
	t.Setenv("CDICO_CONFIG_DIR", "/tmp/cdico-test")
	dir, err := config.DefaultDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/cdico-test", dir)
}

func TestKeysSorted(t *testing.T) {
	keys := config.Keys()
	assert.Contains(t, keys, "token_address")
	assert.IsNonDecreasing(t, keys)
}
