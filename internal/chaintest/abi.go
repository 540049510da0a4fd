package chaintest

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

// Word encodes v as a 32-byte ABI word.
func Word(v *big.Int) []byte {
	return math.U256Bytes(new(big.Int).Set(v))
}

// Uint encodes v as a 32-byte ABI word.
func Uint(v int64) []byte { return Word(big.NewInt(v)) }

// Bool encodes b as a 32-byte ABI word.
func Bool(b bool) []byte {
	if b {
		return Uint(1)
	}
	return Uint(0)
}

// ArgUint decodes the i-th static argument of calldata as an unsigned int.
func ArgUint(args []byte, i int) *big.Int {
	if len(args) < (i+1)*32 {
		return new(big.Int)
	}
	return new(big.Int).SetBytes(args[i*32 : (i+1)*32])
}

// ArgAddress decodes the i-th static argument of calldata as an address.
func ArgAddress(args []byte, i int) common.Address {
	if len(args) < (i+1)*32 {
		return common.Address{}
	}
	return common.BytesToAddress(args[i*32+12 : (i+1)*32])
}

// Const returns a handler that always answers with the same word.
func Const(v int64) CallHandler {
	return func([]byte) ([]byte, error) { return Uint(v), nil }
}
