package contract

// NFTID is the registry key of the Crypto Devs NFT collection.
const NFTID = "cryptodevs"

func init() {
	RegisterBuiltin(NFTID,
		"Crypto Devs (CD NFT)",
		"ERC-721 Enumerable collection whose holders may claim free tokens.",
		nftABI)
}

const nftABI = `[
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"tokenOfOwnerByIndex","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"index","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"ownerOf","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]}
]`
