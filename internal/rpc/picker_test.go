package rpc_test

import (
	"testing"
	"time"

	"github.com/Mohsinsiddi/cdico/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthy(url string, latency time.Duration, block uint64) rpc.Endpoint {
	return rpc.Endpoint{URL: url, Latency: latency, BlockNumber: block, Healthy: true}
}

func down(url string) rpc.Endpoint {
	return rpc.Endpoint{URL: url}
}

func TestPickSelectsFastest(t *testing.T) {
	endpoints := []rpc.Endpoint{
		healthy("http://slow.rpc", 200*time.Millisecond, 100),
		healthy("http://fast.rpc", 30*time.Millisecond, 100),
		healthy("http://medium.rpc", 80*time.Millisecond, 100),
	}

	winner, err := rpc.Pick(endpoints, rpc.AlgorithmFastest)
	require.NoError(t, err)
	assert.Equal(t, "http://fast.rpc", winner.URL)
}

func TestPickDiscardsStaleNodes(t *testing.T) {
	endpoints := []rpc.Endpoint{
		healthy("http://fresh.rpc", 50*time.Millisecond, 1000),
		healthy("http://stale.rpc", 10*time.Millisecond, 990),
	}

	winner, err := rpc.Pick(endpoints, rpc.AlgorithmFastest)
	require.NoError(t, err)
	assert.Equal(t, "http://fresh.rpc", winner.URL, "stale node should be discarded even if faster")
}

func TestPickIgnoresUnhealthyBlockHeight(t *testing.T) {
	endpoints := []rpc.Endpoint{
		{URL: "http://liar.rpc", BlockNumber: 5000},
		healthy("http://ok.rpc", 50*time.Millisecond, 1000),
	}

	winner, err := rpc.Pick(endpoints, rpc.AlgorithmFastest)
	require.NoError(t, err)
	assert.Equal(t, "http://ok.rpc", winner.URL)
}

func TestPickZeroLatency(t *testing.T) {
	endpoints := []rpc.Endpoint{
		healthy("http://a.rpc", 0, 10),
		healthy("http://b.rpc", time.Millisecond, 10),
	}
	winner, err := rpc.Pick(endpoints, rpc.AlgorithmFastest)
	require.NoError(t, err)
	assert.Equal(t, "http://a.rpc", winner.URL)
}

func TestPickFailover(t *testing.T) {
	endpoints := []rpc.Endpoint{
		down("http://primary.rpc"),
		healthy("http://secondary.rpc", 300*time.Millisecond, 100),
		healthy("http://tertiary.rpc", 10*time.Millisecond, 100),
	}

	winner, err := rpc.Pick(endpoints, rpc.AlgorithmFailover)
	require.NoError(t, err)
	assert.Equal(t, "http://secondary.rpc", winner.URL)
}

func TestPickNoHealthy(t *testing.T) {
	endpoints := []rpc.Endpoint{down("http://a"), down("http://b")}

	_, err := rpc.Pick(endpoints, rpc.AlgorithmFastest)
	assert.ErrorIs(t, err, rpc.ErrNoHealthyRPC)
	_, err = rpc.Pick(endpoints, rpc.AlgorithmFailover)
	assert.ErrorIs(t, err, rpc.ErrNoHealthyRPC)
	_, err = rpc.Pick(nil, rpc.AlgorithmFastest)
	assert.ErrorIs(t, err, rpc.ErrNoHealthyRPC)
}

func TestParseAlgorithm(t *testing.T) {
	a, err := rpc.ParseAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, rpc.AlgorithmFastest, a)

	a, err = rpc.ParseAlgorithm("failover")
	require.NoError(t, err)
	assert.Equal(t, rpc.AlgorithmFailover, a)

	_, err = rpc.ParseAlgorithm("round-robin")
	assert.Error(t, err)
}
