package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer signs EVM transactions for one account.
type Signer struct {
	address common.Address
	key     func() (*ecdsa.PrivateKey, error)
}

// NewSigner creates a signer for a stored wallet. The key is read from ks
// on every signature and never cached.
func NewSigner(w *Wallet, ks KeyStore) *Signer {
	return &Signer{
		address: common.HexToAddress(w.Address),
		key: func() (*ecdsa.PrivateKey, error) {
			hexKey, err := ks.Retrieve(w.KeyRef)
			if err != nil {
				return nil, fmt.Errorf("retrieving key for %q: %w", w.Name, err)
			}
			return crypto.HexToECDSA(normaliseHexKey(hexKey))
		},
	}
}

// NewKeySigner creates a signer from a raw hex private key, such as one
// injected through the environment.
func NewKeySigner(hexKey string) (*Signer, error) {
	priv, err := crypto.HexToECDSA(normaliseHexKey(hexKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &Signer{
		address: crypto.PubkeyToAddress(priv.PublicKey),
		key:     func() (*ecdsa.PrivateKey, error) { return priv, nil },
	}, nil
}

// SignTx signs an EVM transaction and returns the raw signed bytes.
func (s *Signer) SignTx(tx *types.Transaction, chainID *big.Int) ([]byte, error) {
	privKey, err := s.key()
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	if got := crypto.PubkeyToAddress(privKey.PublicKey); got != s.address {
		return nil, fmt.Errorf("%w: key belongs to %s, wallet is %s", ErrInvalidKey, got.Hex(), s.address.Hex())
	}

	signed, err := types.SignTx(tx, types.NewLondonSigner(chainID), privKey)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshaling signed tx: %w", err)
	}
	return raw, nil
}

// Address returns the account the signer signs for.
func (s *Signer) Address() common.Address {
	return s.address
}
