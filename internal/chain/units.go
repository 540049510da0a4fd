package chain

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// EtherDecimals is the number of decimals of ether and of the ICO token.
const EtherDecimals = 18

// FormatEther renders a wei amount the way ethers.js does: at least one
// fractional digit, no trailing zeros ("0.0", "1.0", "1.5").
func FormatEther(wei *big.Int) string {
	return FormatUnits(wei, EtherDecimals)
}

// FormatUnits renders raw as a decimal with the given number of decimals.
func FormatUnits(raw *big.Int, decimals int32) string {
	if raw == nil {
		return "0.0"
	}
	s := decimal.NewFromBigInt(raw, -decimals).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
