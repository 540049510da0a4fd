package contract

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// NFT is a typed binding of the Crypto Devs collection.
type NFT struct {
	*Caller
}

// NewNFT binds the NFT contract at address.
func NewNFT(backend Backend, address common.Address) *NFT {
	b, _ := GetBuiltin(NFTID)
	return &NFT{Caller: NewCaller(backend, address, b.ABI)}
}

// BalanceOf returns how many NFTs owner holds.
func (n *NFT) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	return n.CallBig(ctx, "balanceOf", owner)
}

// TokenOfOwnerByIndex returns the id of owner's index-th NFT.
func (n *NFT) TokenOfOwnerByIndex(ctx context.Context, owner common.Address, index *big.Int) (*big.Int, error) {
	return n.CallBig(ctx, "tokenOfOwnerByIndex", owner, index)
}
