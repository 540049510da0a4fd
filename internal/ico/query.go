// Package ico reads and writes the Crypto Dev Token sale through verified
// provider handles.
package ico

import (
	"context"
	"fmt"
	"math/big"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"

	"github.com/Mohsinsiddi/cdico/internal/contract"
	"github.com/Mohsinsiddi/cdico/internal/provider"
)

// Resolver hands out network-checked handles. *provider.Resolver satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, needSigner bool) (*provider.Handle, error)
}

// Contracts holds the deployed addresses of the sale.
type Contracts struct {
	Token common.Address
	NFT   common.Address
}

// Queries performs the read-only contract calls. Every query resolves its
// own handle, so each one re-checks the network.
type Queries struct {
	resolver  Resolver
	contracts Contracts
	logger    *log.Logger
}

// NewQueries creates Queries.
func NewQueries(r Resolver, c Contracts, logger *log.Logger) *Queries {
	if logger == nil {
		logger = log.Default()
	}
	return &Queries{resolver: r, contracts: c, logger: logger}
}

// Terms are the sale parameters the token contract enforces, all in wei
// units.
type Terms struct {
	Price     *big.Int // tokenPrice(): wei per whole token
	MaxSupply *big.Int // maxTotalSupply()
	PerNFT    *big.Int // tokensPerNFT()
}

// SaleTerms reads the price and caps from the token contract.
func (q *Queries) SaleTerms(ctx context.Context) (Terms, error) {
	h, err := q.resolver.Resolve(ctx, false)
	if err != nil {
		return Terms{}, err
	}
	token := contract.NewToken(h.Client, q.contracts.Token)

	var terms Terms
	if terms.Price, err = token.TokenPrice(ctx); err != nil {
		return Terms{}, fmt.Errorf("reading token price: %w", err)
	}
	if terms.MaxSupply, err = token.MaxTotalSupply(ctx); err != nil {
		return Terms{}, fmt.Errorf("reading max supply: %w", err)
	}
	if terms.PerNFT, err = token.TokensPerNFT(ctx); err != nil {
		return Terms{}, fmt.Errorf("reading tokens per NFT: %w", err)
	}
	return terms, nil
}

// MintedSupply returns the token's totalSupply in wei units.
func (q *Queries) MintedSupply(ctx context.Context) (*big.Int, error) {
	h, err := q.resolver.Resolve(ctx, false)
	if err != nil {
		return nil, err
	}
	supply, err := contract.NewToken(h.Client, q.contracts.Token).TotalSupply(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading total supply: %w", err)
	}
	return supply, nil
}

// Balance returns the connected account's token balance in wei units.
func (q *Queries) Balance(ctx context.Context) (*big.Int, error) {
	h, err := q.resolver.Resolve(ctx, true)
	if err != nil {
		return nil, err
	}
	bal, err := contract.NewToken(h.Client, q.contracts.Token).BalanceOf(ctx, h.Account)
	if err != nil {
		return nil, fmt.Errorf("reading token balance: %w", err)
	}
	return bal, nil
}

// Claimable counts the connected account's NFTs whose token id has not yet
// been used to claim. NFTs are checked one at a time, in index order.
func (q *Queries) Claimable(ctx context.Context) (*big.Int, error) {
	h, err := q.resolver.Resolve(ctx, true)
	if err != nil {
		return nil, err
	}
	nft := contract.NewNFT(h.Client, q.contracts.NFT)
	token := contract.NewToken(h.Client, q.contracts.Token)

	owned, err := nft.BalanceOf(ctx, h.Account)
	if err != nil {
		return nil, fmt.Errorf("reading NFT balance: %w", err)
	}

	unclaimed := new(big.Int)
	if owned.Sign() == 0 {
		return unclaimed, nil
	}

	one := big.NewInt(1)
	for i := new(big.Int); i.Cmp(owned) < 0; i.Add(i, one) {
		id, err := nft.TokenOfOwnerByIndex(ctx, h.Account, i)
		if err != nil {
			return nil, fmt.Errorf("reading NFT #%s of owner: %w", i, err)
		}
		claimed, err := token.TokenIDsClaimed(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("checking NFT %s: %w", id, err)
		}
		if !claimed {
			unclaimed.Add(unclaimed, one)
		}
	}
	q.logger.Debug("claimable counted", "owned", owned, "unclaimed", unclaimed)
	return unclaimed, nil
}
