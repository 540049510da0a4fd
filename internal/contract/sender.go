package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/Mohsinsiddi/cdico/internal/chain"
)

// TxBackend is what the Sender needs from a node. *chain.EVMClient
// satisfies it.
type TxBackend interface {
	EstimateGas(ctx context.Context, from, to common.Address, data []byte, value *big.Int) (uint64, error)
	SuggestFees(ctx context.Context) (chain.Fees, error)
	PendingNonce(ctx context.Context, addr common.Address) (uint64, error)
	SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error)
}

// TxSigner signs transactions for one account. *wallet.Signer satisfies it.
type TxSigner interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) ([]byte, error)
}

// Sender sends write transactions to one contract.
type Sender struct {
	backend TxBackend
	address common.Address
	abi     abi.ABI
	signer  TxSigner
	chainID *big.Int

	// GasFallback is used when the node cannot estimate gas.
	GasFallback uint64
	// OnGasFallback, when set, is told why estimation failed.
	OnGasFallback func(method string, err error)
}

// NewSender creates a Sender.
func NewSender(backend TxBackend, address common.Address, parsed abi.ABI, signer TxSigner, chainID *big.Int) *Sender {
	return &Sender{
		backend:     backend,
		address:     address,
		abi:         parsed,
		signer:      signer,
		chainID:     chainID,
		GasFallback: 200_000,
	}
}

// Send calls a write function with value attached and broadcasts the
// transaction. Returns the transaction hash.
func (s *Sender) Send(ctx context.Context, method string, value *big.Int, args ...interface{}) (common.Hash, error) {
	m, ok := s.abi.Methods[method]
	if !ok {
		return common.Hash{}, fmt.Errorf("%w: %s", ErrMethodNotFound, method)
	}
	if m.IsConstant() {
		return common.Hash{}, fmt.Errorf("%w: %s", ErrNotWriteMethod, method)
	}
	if value == nil {
		value = new(big.Int)
	}
	if value.Sign() > 0 && !m.IsPayable() {
		return common.Hash{}, fmt.Errorf("%s is not payable", method)
	}

	calldata, err := s.abi.Pack(method, args...)
	if err != nil {
		return common.Hash{}, fmt.Errorf("encoding %s: %w", method, err)
	}

	from := s.signer.Address()

	gas, err := s.backend.EstimateGas(ctx, from, s.address, calldata, value)
	if err != nil {
		if s.OnGasFallback != nil {
			s.OnGasFallback(method, err)
		}
		gas = s.GasFallback
	}

	fees, err := s.backend.SuggestFees(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("getting gas price: %w", err)
	}

	nonce, err := s.backend.PendingNonce(ctx, from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("getting nonce: %w", err)
	}

	to := s.address
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   s.chainID,
		Nonce:     nonce,
		GasTipCap: fees.TipCap,
		GasFeeCap: fees.FeeCap,
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      calldata,
	})

	raw, err := s.signer.SignTx(tx, s.chainID)
	if err != nil {
		return common.Hash{}, fmt.Errorf("signing transaction: %w", err)
	}

	hash, err := s.backend.SendRawTransaction(ctx, raw)
	if err != nil {
		return common.Hash{}, fmt.Errorf("broadcasting transaction: %w", err)
	}
	return hash, nil
}
