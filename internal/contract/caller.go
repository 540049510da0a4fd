package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Errors.
var (
	ErrMethodNotFound = errors.New("method not found in ABI")
	ErrNotReadMethod  = errors.New("method is not a read function")
	ErrNotWriteMethod = errors.New("method is not a write function")
	ErrEmptyResult    = errors.New("empty call result (no contract at address?)")
)

// Backend executes read-only calls. *chain.EVMClient satisfies it.
type Backend interface {
	CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// Caller calls read-only (view/pure) functions of one contract.
type Caller struct {
	backend Backend
	address common.Address
	abi     abi.ABI
}

// NewCaller creates a Caller for the contract at address.
func NewCaller(backend Backend, address common.Address, parsed abi.ABI) *Caller {
	return &Caller{backend: backend, address: address, abi: parsed}
}

// Address returns the contract address.
func (c *Caller) Address() common.Address { return c.address }

// Call invokes a read function and returns its decoded outputs.
func (c *Caller) Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	m, ok := c.abi.Methods[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMethodNotFound, method)
	}
	if !m.IsConstant() {
		return nil, fmt.Errorf("%w: %s (stateMutability: %s)", ErrNotReadMethod, method, m.StateMutability)
	}

	calldata, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", method, err)
	}

	out, err := c.backend.CallContract(ctx, c.address, calldata)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", method, err)
	}
	if len(out) == 0 && len(m.Outputs) > 0 {
		return nil, fmt.Errorf("calling %s on %s: %w", method, c.address.Hex(), ErrEmptyResult)
	}

	values, err := c.abi.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", method, err)
	}
	return values, nil
}

// CallBig invokes a read function returning a single uint256.
func (c *Caller) CallBig(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	values, err := c.Call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	v, ok := first(values).(*big.Int)
	if !ok {
		return nil, fmt.Errorf("decoding %s: unexpected output %T", method, first(values))
	}
	return v, nil
}

// CallBool invokes a read function returning a single bool.
func (c *Caller) CallBool(ctx context.Context, method string, args ...interface{}) (bool, error) {
	values, err := c.Call(ctx, method, args...)
	if err != nil {
		return false, err
	}
	v, ok := first(values).(bool)
	if !ok {
		return false, fmt.Errorf("decoding %s: unexpected output %T", method, first(values))
	}
	return v, nil
}

func first(values []interface{}) interface{} {
	if len(values) == 0 {
		return nil
	}
	return values[0]
}
