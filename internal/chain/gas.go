package chain

import (
	"context"
	"math/big"
)

// Fees holds the EIP-1559 fee parameters for one transaction.
type Fees struct {
	GasPrice *big.Int // eth_gasPrice at the time of the quote (Wei)
	TipCap   *big.Int // maxPriorityFeePerGas
	FeeCap   *big.Int // maxFeePerGas
}

// FeesFromGasPrice derives EIP-1559 fees from a legacy gas price quote: the
// tip equals the gas price and the cap leaves room for one base fee doubling.
func FeesFromGasPrice(gasPrice *big.Int) Fees {
	if gasPrice == nil {
		gasPrice = new(big.Int)
	}
	return Fees{
		GasPrice: new(big.Int).Set(gasPrice),
		TipCap:   new(big.Int).Set(gasPrice),
		FeeCap:   new(big.Int).Mul(gasPrice, big.NewInt(2)),
	}
}

// SuggestFees quotes fees for a transaction sent now.
func (c *EVMClient) SuggestFees(ctx context.Context) (Fees, error) {
	gp, err := c.GasPrice(ctx)
	if err != nil {
		return Fees{}, err
	}
	return FeesFromGasPrice(gp), nil
}
