package contract

// TokenID is the registry key of the Crypto Dev Token ICO contract.
const TokenID = "cryptodevtoken"

// Function selectors:
//
//	totalSupply()       → 0x18160ddd
//	balanceOf(address)  → 0x70a08231
//	mint(uint256)       → 0xa0712d68  payable
//	claim()             → 0x4e71d92d
func init() {
	RegisterBuiltin(TokenID,
		"Crypto Dev Token (CD)",
		"ERC-20 ICO: mint at a fixed ether price, claim free tokens per Crypto Devs NFT.",
		tokenABI)
}

const tokenABI = `[
  {"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"mint","stateMutability":"payable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"claim","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"tokenIdsClaimed","stateMutability":"view","inputs":[{"name":"","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"tokenPrice","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"tokensPerNFT","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"maxTotalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[],"outputs":[]}
]`
