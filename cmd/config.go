package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/cdico/internal/config"
	"github.com/Mohsinsiddi/cdico/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(ui.KeyValueBlock("Current Configuration", configPairs(cfg)))
		fmt.Println(ui.Meta("Config directory: " + cfg.Dir()))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration key",
	Long: `Set a configuration key and save it.

Keys: network, rpc_url, rpc_algorithm, token_address, nft_address,
token_price_wei, max_supply, tokens_per_nft, default_wallet, log_level,
rpc_rate_limit, trace_file.

Every key can also be overridden per run with CDICO_<KEY>, e.g.
CDICO_TOKEN_ADDRESS=0x... cdico status`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("%s set to %q", args[0], args[1])))
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable configuration keys",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, k := range config.Keys() {
			fmt.Println(k)
		}
	},
}

func configPairs(c *config.Config) [][2]string {
	orUnset := func(s string) string {
		if s == "" {
			return ui.Meta("(unset)")
		}
		return s
	}
	return [][2]string{
		{"network", c.Network},
		{"rpc_url", orUnset(c.RPCURL)},
		{"rpc_algorithm", c.RPCAlgorithm},
		{"token_address", orUnset(c.TokenAddress)},
		{"nft_address", orUnset(c.NFTAddress)},
		{"token_price_wei", c.TokenPriceWei},
		{"max_supply", strconv.FormatInt(c.MaxSupply, 10)},
		{"tokens_per_nft", strconv.FormatInt(c.TokensPerNFT, 10)},
		{"default_wallet", orUnset(c.DefaultWallet)},
		{"log_level", c.LogLevel},
		{"rpc_rate_limit", strconv.FormatFloat(c.RPCRateLimit, 'f', -1, 64)},
		{"trace_file", orUnset(c.TraceFile)},
	}
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd, configKeysCmd)
}
