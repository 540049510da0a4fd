package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

var (
	// ErrTxTimeout is returned by WaitForReceipt when the transaction is not
	// mined before the deadline.
	ErrTxTimeout = errors.New("transaction not mined in time")

	// ErrNodeUnavailable is returned while the circuit breaker is open.
	ErrNodeUnavailable = errors.New("rpc node unavailable")
)

const (
	defaultHTTPTimeout  = 15 * time.Second
	defaultPollInterval = 2 * time.Second
	breakerTripAfter    = 5
	breakerOpenFor      = 30 * time.Second
)

// EVMClient is a context-aware JSON-RPC client for EVM chains. Every call is
// rate limited, passes through a circuit breaker and is traced.
type EVMClient struct {
	url          string
	rpc          *gethrpc.Client
	limiter      *rate.Limiter
	breaker      *gobreaker.CircuitBreaker[json.RawMessage]
	tracer       trace.Tracer
	pollInterval time.Duration
	httpClient   *http.Client
}

// Option configures an EVMClient.
type Option func(*EVMClient)

// WithRateLimit caps outgoing requests per second. Zero or negative disables
// the limit.
func WithRateLimit(rps float64) Option {
	return func(c *EVMClient) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithPollInterval sets how often WaitForReceipt polls the node.
func WithPollInterval(d time.Duration) Option {
	return func(c *EVMClient) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// NewEVMClient creates a new EVM JSON-RPC client pointed at url.
func NewEVMClient(url string, opts ...Option) (*EVMClient, error) {
	c := &EVMClient{
		url:          url,
		limiter:      rate.NewLimiter(rate.Inf, 0),
		tracer:       otel.Tracer("github.com/Mohsinsiddi/cdico/internal/chain"),
		pollInterval: defaultPollInterval,
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, o := range opts {
		o(c)
	}

	client, err := gethrpc.DialOptions(context.Background(), url, gethrpc.WithHTTPClient(c.httpClient))
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	c.rpc = client

	c.breaker = gobreaker.NewCircuitBreaker[json.RawMessage](gobreaker.Settings{
		Name:    url,
		Timeout: breakerOpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripAfter
		},
		// A JSON-RPC error (revert, bad params) proves the node is alive.
		IsSuccessful: func(err error) bool {
			var rpcErr gethrpc.Error
			return err == nil || errors.As(err, &rpcErr) || errors.Is(err, context.Canceled)
		},
	})
	return c, nil
}

// URL returns the endpoint this client talks to.
func (c *EVMClient) URL() string { return c.url }

// Close releases the underlying transport.
func (c *EVMClient) Close() { c.rpc.Close() }

// ChainID returns the chain's ID.
func (c *EVMClient) ChainID(ctx context.Context) (int64, error) {
	var id hexutil.Big
	if err := c.call(ctx, &id, "eth_chainId"); err != nil {
		return 0, err
	}
	return (*big.Int)(&id).Int64(), nil
}

// BlockNumber returns the latest block number.
func (c *EVMClient) BlockNumber(ctx context.Context) (uint64, error) {
	var n hexutil.Uint64
	if err := c.call(ctx, &n, "eth_blockNumber"); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

// CallContract executes a read-only contract call against the latest block.
func (c *EVMClient) CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	var out hexutil.Bytes
	arg := map[string]interface{}{
		"to":   to,
		"data": hexutil.Bytes(data),
	}
	if err := c.call(ctx, &out, "eth_call", arg, "latest"); err != nil {
		return nil, err
	}
	return out, nil
}

// EstimateGas estimates gas for a transaction.
func (c *EVMClient) EstimateGas(ctx context.Context, from, to common.Address, data []byte, value *big.Int) (uint64, error) {
	arg := map[string]interface{}{
		"from": from,
		"to":   to,
	}
	if len(data) > 0 {
		arg["data"] = hexutil.Bytes(data)
	}
	if value != nil && value.Sign() > 0 {
		arg["value"] = (*hexutil.Big)(value)
	}
	var gas hexutil.Uint64
	if err := c.call(ctx, &gas, "eth_estimateGas", arg); err != nil {
		return 0, err
	}
	return uint64(gas), nil
}

// GasPrice returns the current gas price.
func (c *EVMClient) GasPrice(ctx context.Context) (*big.Int, error) {
	var gp hexutil.Big
	if err := c.call(ctx, &gp, "eth_gasPrice"); err != nil {
		return nil, err
	}
	return (*big.Int)(&gp), nil
}

// PendingNonce returns the transaction count including queued transactions.
func (c *EVMClient) PendingNonce(ctx context.Context, addr common.Address) (uint64, error) {
	var n hexutil.Uint64
	if err := c.call(ctx, &n, "eth_getTransactionCount", addr, "pending"); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

// SendRawTransaction broadcasts a signed, RLP-encoded transaction.
func (c *EVMClient) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	var hash common.Hash
	if err := c.call(ctx, &hash, "eth_sendRawTransaction", hexutil.Bytes(raw)); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

// Receipt holds the on-chain receipt of a mined transaction.
type Receipt struct {
	Hash        common.Hash
	Status      uint64 // 1 = success, 0 = reverted
	BlockNumber uint64
	GasUsed     uint64
}

// Succeeded reports whether the transaction executed without reverting.
func (r *Receipt) Succeeded() bool { return r.Status == 1 }

type receiptJSON struct {
	Status      hexutil.Uint64 `json:"status"`
	BlockNumber hexutil.Uint64 `json:"blockNumber"`
	GasUsed     hexutil.Uint64 `json:"gasUsed"`
}

// TransactionReceipt fetches the receipt for hash.
// Returns nil, nil if the transaction is still pending.
func (c *EVMClient) TransactionReceipt(ctx context.Context, hash common.Hash) (*Receipt, error) {
	var r *receiptJSON
	if err := c.call(ctx, &r, "eth_getTransactionReceipt", hash); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, nil
	}
	return &Receipt{
		Hash:        hash,
		Status:      uint64(r.Status),
		BlockNumber: uint64(r.BlockNumber),
		GasUsed:     uint64(r.GasUsed),
	}, nil
}

// WaitForReceipt polls until the transaction is mined, ctx is done or
// timeout expires. A reverted receipt is returned as-is; callers inspect
// Status.
func (c *EVMClient) WaitForReceipt(ctx context.Context, hash common.Hash, timeout time.Duration) (*Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.TransactionReceipt(ctx, hash)
		if err != nil && ctx.Err() == nil {
			return nil, err
		}
		if receipt != nil {
			return receipt, nil
		}
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %s after %s", ErrTxTimeout, hash.Hex(), timeout)
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Ping tests the RPC endpoint and returns latency + block number.
func (c *EVMClient) Ping(ctx context.Context) (latency time.Duration, blockNum uint64, err error) {
	start := time.Now()
	blockNum, err = c.BlockNumber(ctx)
	return time.Since(start), blockNum, err
}

// --- internal JSON-RPC plumbing ---

func (c *EVMClient) call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	ctx, span := c.tracer.Start(ctx, method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("rpc.system", "jsonrpc"),
			attribute.String("rpc.method", method),
			attribute.String("server.address", c.url),
		))
	defer span.End()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	raw, err := c.breaker.Execute(func() (json.RawMessage, error) {
		var raw json.RawMessage
		err := c.rpc.CallContext(ctx, &raw, method, args...)
		return raw, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %v", ErrNodeUnavailable, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%s: %w", method, err)
	}

	if result == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		span.RecordError(err)
		return fmt.Errorf("parsing %s result: %w", method, err)
	}
	return nil
}
