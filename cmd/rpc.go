package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/cdico/internal/rpc"
	"github.com/Mohsinsiddi/cdico/internal/ui"
)

var rpcCmd = &cobra.Command{
	Use:   "rpc",
	Short: "Inspect the network's RPC endpoints",
}

var rpcBenchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Benchmark the network's RPCs and show which one would be used",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := currentNetwork()
		if err != nil {
			return err
		}
		algo, err := rpc.ParseAlgorithm(cfg.RPCAlgorithm)
		if err != nil {
			return err
		}
		urls := n.RPCs
		if cfg.RPCURL != "" {
			urls = append([]string{cfg.RPCURL}, urls...)
		}

		fmt.Printf("%s\n\n", ui.StyleTitle.Render(fmt.Sprintf("Benchmarking %s RPCs...", n.DisplayName)))

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()
		results := rpc.Benchmark(ctx, urls)

		fmt.Println(benchmarkTable(results))
		best, err := rpc.Pick(rpc.ResultsToEndpoints(results), algo)
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("%s picks %s", algo, best.URL)))
		if cfg.RPCURL != "" {
			fmt.Println(ui.Hint("rpc_url is set, so it is used as-is: " + cfg.RPCURL))
		}
		return nil
	},
}

func benchmarkTable(results []rpc.BenchmarkResult) string {
	t := ui.NewTable([]ui.Column{
		{Title: "RPC URL", Width: 40},
		{Title: "Latency", Width: 12},
		{Title: "Block #", Width: 12},
		{Title: "Status", Width: 10},
	})
	for _, r := range results {
		status := ui.Success("healthy")
		latency := fmt.Sprintf("%dms", r.Latency.Milliseconds())
		block := fmt.Sprintf("%d", r.BlockNumber)

		if r.Err != nil {
			status = ui.Err("down")
			latency = "—"
			block = "—"
		}
		t.AddRow(ui.Row{r.URL, latency, block, status})
	}
	return t.Render()
}

func init() {
	rpcCmd.AddCommand(rpcBenchmarkCmd)
}
