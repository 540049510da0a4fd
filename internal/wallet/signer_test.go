package wallet

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dynamicTx(chainID int64) *types.Transaction {
	to := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   big.NewInt(chainID),
		Nonce:     3,
		GasTipCap: big.NewInt(1_000_000_000),
		GasFeeCap: big.NewInt(2_000_000_000),
		Gas:       90_000,
		To:        &to,
		Value:     big.NewInt(1_000_000_000_000_000),
		Data:      []byte{0xa0, 0x71, 0x2d, 0x68},
	})
}

func TestKeySignerAddress(t *testing.T) {
	s, err := NewKeySigner("0x" + testPrivKeyHex)
	require.NoError(t, err)
	assert.Equal(t, testSignerAddr, s.Address().Hex())
}

func TestKeySignerInvalid(t *testing.T) {
	_, err := NewKeySigner("zz")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestSignTxRecoversSender(t *testing.T) {
	s, err := NewKeySigner(testPrivKeyHex)
	require.NoError(t, err)

	raw, err := s.SignTx(dynamicTx(5), big.NewInt(5))
	require.NoError(t, err)

	var tx types.Transaction
	require.NoError(t, tx.UnmarshalBinary(raw))
	from, err := types.Sender(types.NewLondonSigner(big.NewInt(5)), &tx)
	require.NoError(t, err)
	assert.Equal(t, testSignerAddr, from.Hex())
	assert.Equal(t, uint64(3), tx.Nonce())
	assert.Equal(t, "1000000000000000", tx.Value().String())
}

func TestStoredSignerMatchesKeySigner(t *testing.T) {
	ks := NewInMemoryKeystore()
	ref, err := ks.Store("alice", testPrivKeyHex)
	require.NoError(t, err)

	s := NewSigner(&Wallet{Name: "alice", Address: testSignerAddr, KeyRef: ref}, ks)
	raw, err := s.SignTx(dynamicTx(5), big.NewInt(5))
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
}

func TestSignerMissingKey(t *testing.T) {
	s := NewSigner(&Wallet{Name: "ghost", Address: testSignerAddr, KeyRef: "cdico.ghost"}, NewInMemoryKeystore())
	_, err := s.SignTx(dynamicTx(5), big.NewInt(5))
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestSignerKeyAddressMismatch(t *testing.T) {
	ks := NewInMemoryKeystore()
	ref, err := ks.Store("alice", testPrivKeyHex)
	require.NoError(t, err)

	s := NewSigner(&Wallet{Name: "alice", Address: "0x0000000000000000000000000000000000000001", KeyRef: ref}, ks)
	_, err = s.SignTx(dynamicTx(5), big.NewInt(5))
	assert.ErrorIs(t, err, ErrInvalidKey)
}
