package app

import (
	"math/big"
	"strings"
)

// State is everything the page renders. Quantities are in wei units and
// never nil in a snapshot.
type State struct {
	Connected bool
	Address   string

	Balance   *big.Int // tokens held by the account
	Minted    *big.Int // token totalSupply
	Claimable *big.Int // owned NFTs not yet used for a claim

	Loading bool
	Amount  string // typed mint amount, whole tokens

	LastTx    string
	LastTxURL string
}

func newState() State {
	return State{Balance: new(big.Int), Minted: new(big.Int), Claimable: new(big.Int)}
}

func (s State) clone() State {
	s.Balance = copyBig(s.Balance)
	s.Minted = copyBig(s.Minted)
	s.Claimable = copyBig(s.Claimable)
	return s
}

func copyBig(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

// ParseAmount parses a typed mint amount. Only positive whole numbers are
// accepted.
func ParseAmount(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") {
		return nil, false
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() <= 0 {
		return nil, false
	}
	return v, true
}
