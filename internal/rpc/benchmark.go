package rpc

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Mohsinsiddi/cdico/internal/chain"
)

const (
	// Per-endpoint ping deadline during a benchmark.
	pingTimeout = 5 * time.Second
	// Cache the winner for this duration before re-benchmarking.
	cacheTTL = 5 * time.Minute
	// Concurrent pings per benchmark run.
	maxParallelPings = 8
)

// BenchmarkResult holds the result of a single endpoint benchmark.
type BenchmarkResult struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	Err         error
}

// Benchmark pings every URL concurrently and returns results in input order.
func Benchmark(ctx context.Context, urls []string) []BenchmarkResult {
	results := make([]BenchmarkResult, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelPings)
	for i, u := range urls {
		g.Go(func() error {
			results[i] = ping(ctx, u)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func ping(ctx context.Context, url string) BenchmarkResult {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	c, err := chain.NewEVMClient(url)
	if err != nil {
		return BenchmarkResult{URL: url, Err: err}
	}
	defer c.Close()

	latency, block, err := c.Ping(ctx)
	return BenchmarkResult{URL: url, Latency: latency, BlockNumber: block, Err: err}
}

// ResultsToEndpoints converts benchmark results to picker Endpoints.
func ResultsToEndpoints(results []BenchmarkResult) []Endpoint {
	endpoints := make([]Endpoint, 0, len(results))
	for _, r := range results {
		endpoints = append(endpoints, Endpoint{
			URL:         r.URL,
			Latency:     r.Latency,
			BlockNumber: r.BlockNumber,
			Healthy:     r.Err == nil,
		})
	}
	return endpoints
}

// Selector benchmarks a network's RPC list and remembers the winner for a
// while, so repeated connections do not re-ping every node.
type Selector struct {
	algo Algorithm
	ttl  time.Duration
	now  func() time.Time

	mu    sync.Mutex
	cache map[string]cachedPick
	runs  int
}

type cachedPick struct {
	url     string
	expires time.Time
}

// NewSelector creates a Selector using algo.
func NewSelector(algo Algorithm) *Selector {
	return &Selector{
		algo:  algo,
		ttl:   cacheTTL,
		now:   time.Now,
		cache: make(map[string]cachedPick),
	}
}

// Runs reports how many benchmarks the selector has performed.
func (s *Selector) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

// Select returns the best URL of urls. A single URL is returned untouched.
func (s *Selector) Select(ctx context.Context, urls []string) (string, error) {
	switch len(urls) {
	case 0:
		return "", ErrNoHealthyRPC
	case 1:
		return urls[0], nil
	}

	key := strings.Join(urls, ",")
	s.mu.Lock()
	if c, ok := s.cache[key]; ok && s.now().Before(c.expires) {
		s.mu.Unlock()
		return c.url, nil
	}
	s.runs++
	s.mu.Unlock()

	winner, err := Pick(ResultsToEndpoints(Benchmark(ctx, urls)), s.algo)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.cache[key] = cachedPick{url: winner.URL, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return winner.URL, nil
}

// Invalidate forgets every cached winner, e.g. after the chosen node failed.
func (s *Selector) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]cachedPick)
}
