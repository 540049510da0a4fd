// Package rpc chooses which node of a network the client talks to.
package rpc

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoHealthyRPC is returned when no healthy RPC endpoint is available.
var ErrNoHealthyRPC = errors.New("no healthy RPC endpoint available")

// Algorithm defines how an RPC endpoint is selected.
type Algorithm string

const (
	AlgorithmFastest  Algorithm = "fastest"
	AlgorithmFailover Algorithm = "failover"

	// Discard nodes more than this many blocks behind the best.
	staleBlockThreshold = 3
)

// ParseAlgorithm validates a configured algorithm name. Empty means fastest.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case "", AlgorithmFastest:
		return AlgorithmFastest, nil
	case AlgorithmFailover:
		return AlgorithmFailover, nil
	}
	return "", fmt.Errorf("unknown rpc algorithm %q (want fastest or failover)", s)
}

// Endpoint represents a single RPC endpoint with its measured attributes.
type Endpoint struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	Healthy     bool
}

// Pick selects an endpoint from a benchmarked list according to algo.
// Fastest scores healthy, non-stale endpoints on latency and block recency;
// failover returns the first healthy endpoint in configured order.
func Pick(endpoints []Endpoint, algo Algorithm) (*Endpoint, error) {
	if algo == AlgorithmFailover {
		for i := range endpoints {
			if endpoints[i].Healthy {
				return &endpoints[i], nil
			}
		}
		return nil, ErrNoHealthyRPC
	}

	var bestBlock uint64
	for _, e := range endpoints {
		if e.Healthy && e.BlockNumber > bestBlock {
			bestBlock = e.BlockNumber
		}
	}

	var winner *Endpoint
	var bestScore float64
	for i := range endpoints {
		e := &endpoints[i]
		if !e.Healthy {
			continue
		}
		if bestBlock-e.BlockNumber > staleBlockThreshold {
			continue
		}
		if s := score(e, bestBlock); winner == nil || s > bestScore {
			winner, bestScore = e, s
		}
	}
	if winner == nil {
		return nil, ErrNoHealthyRPC
	}
	return winner, nil
}

// --- scoring ---

func score(e *Endpoint, bestBlock uint64) float64 {
	var s float64

	// Latency score: higher = faster. Sub-microsecond latencies count as one.
	us := e.Latency.Microseconds()
	if us < 1 {
		us = 1
	}
	s += 1_000_000.0 / float64(us)

	// Loses a point per block behind the best node.
	s -= float64(bestBlock - e.BlockNumber)
	return s
}
