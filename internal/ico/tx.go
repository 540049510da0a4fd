package ico

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"

	"github.com/Mohsinsiddi/cdico/internal/chain"
	"github.com/Mohsinsiddi/cdico/internal/config"
	"github.com/Mohsinsiddi/cdico/internal/contract"
	"github.com/Mohsinsiddi/cdico/internal/provider"
)

// Errors.
var (
	ErrInvalidAmount = errors.New("amount must be a positive integer")
	ErrReverted      = errors.New("transaction reverted")
	ErrNoSigner      = errors.New("handle has no signer")
	ErrPriceMismatch = errors.New("configured token price differs from the contract's")
)

// MintPayment returns amount × unitPrice wei.
func MintPayment(amount, unitPrice *big.Int) *big.Int {
	return new(big.Int).Mul(amount, unitPrice)
}

// Result describes a mined transaction.
type Result struct {
	Hash        common.Hash
	Receipt     *chain.Receipt
	ExplorerURL string
}

// Transactions sends mint and claim transactions and waits for them to be mined.
type Transactions struct {
	resolver  Resolver
	contracts Contracts
	unitPrice *big.Int
	logger    *log.Logger

	// ConfirmTimeout bounds the wait for a receipt.
	ConfirmTimeout time.Duration
}

// NewTransactions creates Transactions paying unitPrice wei per minted token.
func NewTransactions(r Resolver, c Contracts, unitPrice *big.Int, logger *log.Logger) *Transactions {
	if logger == nil {
		logger = log.Default()
	}
	return &Transactions{
		resolver:       r,
		contracts:      c,
		unitPrice:      new(big.Int).Set(unitPrice),
		logger:         logger,
		ConfirmTimeout: config.TxConfirmTimeout,
	}
}

// Mint buys amount whole tokens.
func (t *Transactions) Mint(ctx context.Context, amount *big.Int) (*Result, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	value := MintPayment(amount, t.unitPrice)
	return t.send(ctx, "mint", config.GasLimitMint, func(tok *contract.Token, s *contract.Sender) (common.Hash, error) {
		// The contract reverts unless msg.value is exactly amount × tokenPrice.
		onChain, err := tok.TokenPrice(ctx)
		if err != nil {
			return common.Hash{}, fmt.Errorf("reading token price: %w", err)
		}
		if onChain.Cmp(t.unitPrice) != 0 {
			return common.Hash{}, fmt.Errorf("%w: contract asks %s ETH, config has %s ETH",
				ErrPriceMismatch, chain.FormatEther(onChain), chain.FormatEther(t.unitPrice))
		}
		return tok.Mint(ctx, s, amount, value)
	})
}

// Claim claims the tokens owed for every unclaimed NFT of the account.
func (t *Transactions) Claim(ctx context.Context) (*Result, error) {
	return t.send(ctx, "claim", config.GasLimitClaim, func(tok *contract.Token, s *contract.Sender) (common.Hash, error) {
		return tok.Claim(ctx, s)
	})
}

type sendFunc func(tok *contract.Token, s *contract.Sender) (common.Hash, error)

func (t *Transactions) send(ctx context.Context, method string, gasFallback uint64, fn sendFunc) (*Result, error) {
	h, err := t.resolver.Resolve(ctx, true)
	if err != nil {
		return nil, err
	}
	if h.Signer == nil {
		return nil, ErrNoSigner
	}

	tok := contract.NewToken(h.Client, t.contracts.Token)
	sender := tok.NewSender(h.Client, h.Signer, h.ChainID)
	sender.GasFallback = gasFallback
	sender.OnGasFallback = func(m string, err error) {
		t.logger.Warn("gas estimation failed, using fallback", "method", m, "gas", gasFallback, "err", err)
	}

	hash, err := fn(tok, sender)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	t.logger.Info("transaction sent", "method", method, "hash", hash.Hex())

	receipt, err := h.Client.WaitForReceipt(ctx, hash, t.ConfirmTimeout)
	if err != nil {
		return nil, fmt.Errorf("%s: waiting for %s: %w", method, hash.Hex(), err)
	}

	res := &Result{Hash: hash, Receipt: receipt, ExplorerURL: h.Network.TxURL(hash.Hex())}
	if !receipt.Succeeded() {
		return res, fmt.Errorf("%s %s: %w", method, hash.Hex(), ErrReverted)
	}
	t.logger.Info("transaction mined", "method", method, "block", receipt.BlockNumber, "gas_used", receipt.GasUsed)
	return res, nil
}

var _ Resolver = (*provider.Resolver)(nil)
