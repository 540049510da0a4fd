package wallet

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well-known Hardhat/Anvil test account #0. Never fund on mainnet.
const (
	testPrivKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testSignerAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func TestImportDerivesAddress(t *testing.T) {
	m := NewManager()

	w, err := m.Import("alice", "0x"+testPrivKeyHex)
	require.NoError(t, err)
	assert.Equal(t, testSignerAddr, w.Address)
	assert.Equal(t, "cdico.alice", w.KeyRef)
	assert.True(t, w.IsDefault, "first wallet becomes the default")
	assert.NotEmpty(t, w.CreatedAt)

	key, err := m.Keystore().Retrieve(w.KeyRef)
	require.NoError(t, err)
	assert.Equal(t, testPrivKeyHex, key)
}

func TestImportRejectsBadKey(t *testing.T) {
	m := NewManager()
	_, err := m.Import("alice", "0xnothex")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestImportRejectsBadName(t *testing.T) {
	m := NewManager()
	_, err := m.Import("", testPrivKeyHex)
	assert.ErrorIs(t, err, ErrInvalidName)
	_, err = m.Import("a b", testPrivKeyHex)
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestImportDuplicate(t *testing.T) {
	m := NewManager()
	_, err := m.Import("alice", testPrivKeyHex)
	require.NoError(t, err)
	_, err = m.Import("alice", testPrivKeyHex)
	assert.ErrorIs(t, err, ErrWalletExists)
}

func TestGenerate(t *testing.T) {
	m := NewManager()
	w, err := m.Generate("fresh")
	require.NoError(t, err)
	assert.Len(t, w.Address, 42)

	s, err := m.Signer("fresh")
	require.NoError(t, err)
	assert.Equal(t, w.Address, s.Address().Hex())
}

func TestRemoveDeletesKey(t *testing.T) {
	m := NewManager()
	w, err := m.Import("alice", testPrivKeyHex)
	require.NoError(t, err)

	require.NoError(t, m.Remove("alice"))
	_, err = m.Get("alice")
	assert.ErrorIs(t, err, ErrWalletNotFound)
	_, err = m.Keystore().Retrieve(w.KeyRef)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	assert.ErrorIs(t, m.Remove("alice"), ErrWalletNotFound)
}

func TestListSorted(t *testing.T) {
	m := NewManager()
	_, err := m.Generate("zed")
	require.NoError(t, err)
	_, err = m.Generate("amy")
	require.NoError(t, err)

	ws, err := m.List()
	require.NoError(t, err)
	require.Len(t, ws, 2)
	assert.Equal(t, "amy", ws[0].Name)
	assert.Equal(t, "zed", ws[1].Name)
}

func TestDefault(t *testing.T) {
	m := NewManager()
	assert.Nil(t, m.Default())

	_, err := m.Generate("one")
	require.NoError(t, err)
	_, err = m.Generate("two")
	require.NoError(t, err)
	assert.Equal(t, "one", m.Default().Name)

	require.NoError(t, m.SetDefault("two"))
	assert.Equal(t, "two", m.Default().Name)

	assert.ErrorIs(t, m.SetDefault("missing"), ErrWalletNotFound)
}

func TestJSONStoreRoundTripThroughManager(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "wallets.json")
	ks := NewInMemoryKeystore()

	m := NewManager(WithStore(NewJSONStore(path)), WithKeystore(ks))
	_, err := m.Import("alice", testPrivKeyHex)
	require.NoError(t, err)

	reopened := NewManager(WithStore(NewJSONStore(path)), WithKeystore(ks))
	w, err := reopened.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, testSignerAddr, w.Address)
	assert.True(t, w.IsDefault)
}

func TestJSONStoreMissingFile(t *testing.T) {
	ws, err := NewJSONStore(filepath.Join(t.TempDir(), "none.json")).Load()
	require.NoError(t, err)
	assert.Empty(t, ws)
}
