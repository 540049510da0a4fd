package contract

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Token is a typed binding of the Crypto Dev Token contract.
type Token struct {
	*Caller
}

// NewToken binds the token contract at address.
func NewToken(backend Backend, address common.Address) *Token {
	b, _ := GetBuiltin(TokenID)
	return &Token{Caller: NewCaller(backend, address, b.ABI)}
}

// TotalSupply returns how many tokens (in wei units) have been minted.
func (t *Token) TotalSupply(ctx context.Context) (*big.Int, error) {
	return t.CallBig(ctx, "totalSupply")
}

// BalanceOf returns the token balance of account.
func (t *Token) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	return t.CallBig(ctx, "balanceOf", account)
}

// TokenIDsClaimed reports whether the NFT with tokenID was already used to
// claim tokens.
func (t *Token) TokenIDsClaimed(ctx context.Context, tokenID *big.Int) (bool, error) {
	return t.CallBool(ctx, "tokenIdsClaimed", tokenID)
}

// TokenPrice returns the on-chain unit price in wei.
func (t *Token) TokenPrice(ctx context.Context) (*big.Int, error) {
	return t.CallBig(ctx, "tokenPrice")
}

// TokensPerNFT returns how many whole tokens one NFT claims.
func (t *Token) TokensPerNFT(ctx context.Context) (*big.Int, error) {
	return t.CallBig(ctx, "tokensPerNFT")
}

// MaxTotalSupply returns the supply cap in wei units.
func (t *Token) MaxTotalSupply(ctx context.Context) (*big.Int, error) {
	return t.CallBig(ctx, "maxTotalSupply")
}

// Mint sends mint(amount) paying value wei.
func (t *Token) Mint(ctx context.Context, s *Sender, amount, value *big.Int) (common.Hash, error) {
	return s.Send(ctx, "mint", value, amount)
}

// Claim sends claim().
func (t *Token) Claim(ctx context.Context, s *Sender) (common.Hash, error) {
	return s.Send(ctx, "claim", nil)
}

// NewSender returns a Sender for this token signed by signer.
func (t *Token) NewSender(backend TxBackend, signer TxSigner, chainID *big.Int) *Sender {
	return NewSender(backend, t.address, t.abi, signer, chainID)
}
