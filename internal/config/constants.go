package config

import "time"

// Gas limits used as EstimateGas fallbacks when the node cannot simulate the tx.
// These are conservative upper bounds; actual gas used will be lower.
const (
	GasLimitMint         = uint64(120_000) // token mint(uint256)
	GasLimitClaim        = uint64(400_000) // claim() loops over every owned NFT
	GasLimitContractCall = uint64(200_000) // any other state-changing call
)

// Timeouts.
const (
	RPCSelectTimeout = 10 * time.Second // RPC benchmark before connecting
	TxConfirmTimeout = 3 * time.Minute  // transaction confirmation wait
	RefreshTimeout   = 30 * time.Second // one round of contract queries
)
