package chaintest

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Default sale contract addresses, as deployed by a fresh Hardhat node.
var (
	TokenAddress = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	NFTAddress   = common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
)

// Sig returns the 4-byte selector of a canonical function signature.
func Sig(signature string) []byte {
	return crypto.Keccak256([]byte(signature))[:4]
}

// Sale scripts the token and NFT contracts of the ICO on a Node.
type Sale struct {
	node *Node

	mu       sync.Mutex
	supply   *big.Int
	balances map[common.Address]*big.Int
	nfts     map[common.Address][]int64
	claimed  map[int64]bool
	price    *big.Int
	maxSup   *big.Int
	perNFT   *big.Int
}

var weiPerToken = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// NewSale registers the sale contracts on node with zero supply and no holders.
func NewSale(node *Node) *Sale {
	s := &Sale{
		node:     node,
		supply:   new(big.Int),
		balances: make(map[common.Address]*big.Int),
		nfts:     make(map[common.Address][]int64),
		claimed:  make(map[int64]bool),
		price:    big.NewInt(1_000_000_000_000_000),
		maxSup:   new(big.Int).Mul(big.NewInt(10000), weiPerToken),
		perNFT:   new(big.Int).Mul(big.NewInt(10), weiPerToken),
	}
	node.HandleCall(TokenAddress, Sig("totalSupply()"), s.totalSupply)
	node.HandleCall(TokenAddress, Sig("balanceOf(address)"), s.tokenBalance)
	node.HandleCall(TokenAddress, Sig("tokenIdsClaimed(uint256)"), s.tokenIDsClaimed)
	node.HandleCall(TokenAddress, Sig("tokenPrice()"), s.word(&s.price))
	node.HandleCall(TokenAddress, Sig("maxTotalSupply()"), s.word(&s.maxSup))
	node.HandleCall(TokenAddress, Sig("tokensPerNFT()"), s.word(&s.perNFT))
	node.HandleCall(NFTAddress, Sig("balanceOf(address)"), s.nftBalance)
	node.HandleCall(NFTAddress, Sig("tokenOfOwnerByIndex(address,uint256)"), s.tokenOfOwnerByIndex)
	return s
}

// SetSupply sets the token totalSupply in wei units.
func (s *Sale) SetSupply(v *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supply = new(big.Int).Set(v)
}

// SetPrice sets the token's tokenPrice() in wei. The default is 0.001 ether.
func (s *Sale) SetPrice(v *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.price = new(big.Int).Set(v)
}

// SetBalance sets the token balance of owner in wei units.
func (s *Sale) SetBalance(owner common.Address, v *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[owner] = new(big.Int).Set(v)
}

// GiveNFTs makes owner hold the NFTs with the given token ids, in order.
func (s *Sale) GiveNFTs(owner common.Address, ids ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nfts[owner] = append(s.nfts[owner], ids...)
}

// MarkClaimed flags token ids as already used for a claim.
func (s *Sale) MarkClaimed(ids ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.claimed[id] = true
	}
}

// TotalSupplyCalls returns how many totalSupply() calls reached the token.
func (s *Sale) TotalSupplyCalls() int {
	return s.node.SelectorCalls(TokenAddress, Sig("totalSupply()"))
}

// TokenBalanceCalls returns how many balanceOf calls reached the token.
func (s *Sale) TokenBalanceCalls() int {
	return s.node.SelectorCalls(TokenAddress, Sig("balanceOf(address)"))
}

// NFTBalanceCalls returns how many balanceOf calls reached the NFT.
func (s *Sale) NFTBalanceCalls() int {
	return s.node.SelectorCalls(NFTAddress, Sig("balanceOf(address)"))
}

// OwnerIndexCalls returns how many tokenOfOwnerByIndex calls reached the NFT.
func (s *Sale) OwnerIndexCalls() int {
	return s.node.SelectorCalls(NFTAddress, Sig("tokenOfOwnerByIndex(address,uint256)"))
}

// TokenPriceCalls returns how many tokenPrice() calls reached the token.
func (s *Sale) TokenPriceCalls() int {
	return s.node.SelectorCalls(TokenAddress, Sig("tokenPrice()"))
}

// word answers a no-argument getter with the current value of *v.
func (s *Sale) word(v **big.Int) CallHandler {
	return func([]byte) ([]byte, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return Word(*v), nil
	}
}

func (s *Sale) totalSupply([]byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Word(s.supply), nil
}

func (s *Sale) tokenBalance(args []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.balances[ArgAddress(args, 0)]; ok {
		return Word(b), nil
	}
	return Uint(0), nil
}

func (s *Sale) tokenIDsClaimed(args []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Bool(s.claimed[ArgUint(args, 0).Int64()]), nil
}

func (s *Sale) nftBalance(args []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Uint(int64(len(s.nfts[ArgAddress(args, 0)]))), nil
}

func (s *Sale) tokenOfOwnerByIndex(args []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.nfts[ArgAddress(args, 0)]
	i := ArgUint(args, 1)
	if !i.IsInt64() || i.Int64() >= int64(len(ids)) {
		return nil, ErrRevert
	}
	return Uint(ids[i.Int64()]), nil
}
