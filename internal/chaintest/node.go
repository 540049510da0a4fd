// Package chaintest provides an in-process JSON-RPC node for tests. It
// answers the handful of eth_ methods the client uses and dispatches eth_call
// on (contract, selector) so tests can script contract state.
package chaintest

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrRevert makes a CallHandler answer with an execution-reverted RPC error.
var ErrRevert = errors.New("execution reverted")

// CallHandler answers one eth_call. args is the calldata after the selector.
type CallHandler func(args []byte) ([]byte, error)

type rpcErr struct {
	code int
	msg  string
}

// Node is a scripted JSON-RPC node backed by httptest.
type Node struct {
	srv *httptest.Server

	mu            sync.Mutex
	chainID       int64
	gasPrice      *big.Int
	gas           uint64
	nonce         uint64
	blockNumber   uint64
	receiptStatus uint64
	pendingPolls  int
	handlers      map[string]CallHandler
	calls         map[string]int
	selectorCalls map[string]int
	failures      map[string]rpcErr
	sent          []*types.Transaction
	polls         map[common.Hash]int
}

// NewNode starts a node reporting chainID. It is closed on test cleanup.
func NewNode(t testing.TB, chainID int64) *Node {
	t.Helper()
	n := &Node{
		chainID:       chainID,
		gasPrice:      big.NewInt(1_000_000_000),
		gas:           90_000,
		blockNumber:   1_000,
		receiptStatus: 1,
		handlers:      make(map[string]CallHandler),
		calls:         make(map[string]int),
		selectorCalls: make(map[string]int),
		failures:      make(map[string]rpcErr),
		polls:         make(map[common.Hash]int),
	}
	n.srv = httptest.NewServer(http.HandlerFunc(n.serve))
	t.Cleanup(n.srv.Close)
	return n
}

// URL returns the HTTP endpoint of the node.
func (n *Node) URL() string { return n.srv.URL }

// Close stops the node early, making every further request fail.
func (n *Node) Close() { n.srv.Close() }

// SetChainID changes the reported chain id.
func (n *Node) SetChainID(id int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.chainID = id
}

// SetGasPrice changes the eth_gasPrice answer.
func (n *Node) SetGasPrice(wei *big.Int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.gasPrice = new(big.Int).Set(wei)
}

// SetReceiptStatus sets the status of every subsequently mined receipt.
func (n *Node) SetReceiptStatus(status uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.receiptStatus = status
}

// SetPendingPolls makes eth_getTransactionReceipt answer null that many times
// per transaction before returning the receipt.
func (n *Node) SetPendingPolls(polls int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pendingPolls = polls
}

// Fail makes every call to method answer with a JSON-RPC error.
func (n *Node) Fail(method string, code int, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures[method] = rpcErr{code: code, msg: msg}
}

// HandleCall registers the answer for eth_call to (contract, selector).
func (n *Node) HandleCall(to common.Address, selector []byte, h CallHandler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers[callKey(to, selector)] = h
}

// Calls returns how many times method was requested.
func (n *Node) Calls(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[method]
}

// SelectorCalls returns how many eth_calls hit (contract, selector).
func (n *Node) SelectorCalls(to common.Address, selector []byte) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.selectorCalls[callKey(to, selector)]
}

// SentTxs returns the decoded transactions received via
// eth_sendRawTransaction, oldest first.
func (n *Node) SentTxs() []*types.Transaction {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]*types.Transaction, len(n.sent))
	copy(out, n.sent)
	return out
}

func callKey(to common.Address, selector []byte) string {
	return strings.ToLower(to.Hex()) + ":" + hex.EncodeToString(selector)
}

// --- request handling ---

type request struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type callArg struct {
	From  *common.Address `json:"from"`
	To    *common.Address `json:"to"`
	Data  hexutil.Bytes   `json:"data"`
	Input hexutil.Bytes   `json:"input"`
}

func (n *Node) serve(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	result, e := n.dispatch(req)

	resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
	if e != nil {
		resp["error"] = map[string]interface{}{"code": e.code, "message": e.msg}
	} else {
		resp["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp) //nolint:errcheck
}

func (n *Node) dispatch(req request) (interface{}, *rpcErr) {
	n.mu.Lock()
	n.calls[req.Method]++
	if f, ok := n.failures[req.Method]; ok {
		n.mu.Unlock()
		return nil, &f
	}
	n.mu.Unlock()

	switch req.Method {
	case "eth_chainId":
		n.mu.Lock()
		defer n.mu.Unlock()
		return hexutil.Uint64(n.chainID), nil
	case "eth_blockNumber":
		n.mu.Lock()
		defer n.mu.Unlock()
		return hexutil.Uint64(n.blockNumber), nil
	case "eth_gasPrice":
		n.mu.Lock()
		defer n.mu.Unlock()
		return (*hexutil.Big)(n.gasPrice), nil
	case "eth_estimateGas":
		n.mu.Lock()
		defer n.mu.Unlock()
		return hexutil.Uint64(n.gas), nil
	case "eth_getTransactionCount":
		n.mu.Lock()
		defer n.mu.Unlock()
		return hexutil.Uint64(n.nonce), nil
	case "eth_call":
		return n.ethCall(req.Params)
	case "eth_sendRawTransaction":
		return n.sendRaw(req.Params)
	case "eth_getTransactionReceipt":
		return n.receipt(req.Params)
	}
	return nil, &rpcErr{code: -32601, msg: "method not found"}
}

func (n *Node) ethCall(params []json.RawMessage) (interface{}, *rpcErr) {
	if len(params) == 0 {
		return nil, &rpcErr{code: -32602, msg: "missing call argument"}
	}
	var arg callArg
	if err := json.Unmarshal(params[0], &arg); err != nil || arg.To == nil {
		return nil, &rpcErr{code: -32602, msg: "invalid call argument"}
	}
	data := arg.Data
	if len(data) == 0 {
		data = arg.Input
	}
	if len(data) < 4 {
		return hexutil.Bytes{}, nil
	}

	key := callKey(*arg.To, data[:4])
	n.mu.Lock()
	n.selectorCalls[key]++
	h, ok := n.handlers[key]
	n.mu.Unlock()
	if !ok {
		// An address without code answers empty, like a real node.
		return hexutil.Bytes{}, nil
	}

	out, err := h(data[4:])
	if err != nil {
		return nil, &rpcErr{code: 3, msg: err.Error()}
	}
	return hexutil.Bytes(out), nil
}

func (n *Node) sendRaw(params []json.RawMessage) (interface{}, *rpcErr) {
	if len(params) == 0 {
		return nil, &rpcErr{code: -32602, msg: "missing raw transaction"}
	}
	var raw hexutil.Bytes
	if err := json.Unmarshal(params[0], &raw); err != nil {
		return nil, &rpcErr{code: -32602, msg: err.Error()}
	}
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return nil, &rpcErr{code: -32000, msg: "rlp: " + err.Error()}
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, tx)
	n.nonce++
	return tx.Hash(), nil
}

func (n *Node) receipt(params []json.RawMessage) (interface{}, *rpcErr) {
	if len(params) == 0 {
		return nil, &rpcErr{code: -32602, msg: "missing hash"}
	}
	var hash common.Hash
	if err := json.Unmarshal(params[0], &hash); err != nil {
		return nil, &rpcErr{code: -32602, msg: err.Error()}
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	known := false
	for _, tx := range n.sent {
		if tx.Hash() == hash {
			known = true
			break
		}
	}
	if !known {
		return nil, nil
	}
	if n.polls[hash] < n.pendingPolls {
		n.polls[hash]++
		return nil, nil
	}
	n.blockNumber++
	return map[string]interface{}{
		"transactionHash": hash,
		"status":          hexutil.Uint64(n.receiptStatus),
		"blockNumber":     hexutil.Uint64(n.blockNumber),
		"gasUsed":         hexutil.Uint64(n.gas),
	}, nil
}
