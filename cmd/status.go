package cmd

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/cdico/internal/app"
	"github.com/Mohsinsiddi/cdico/internal/chain"
	"github.com/Mohsinsiddi/cdico/internal/ico"
	"github.com/Mohsinsiddi/cdico/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show your balance, the minted supply and claimable tokens",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl := newOneShotController()
		defer ctrl.Close()

		spin := ui.NewSpinner("Loading...")
		spin.Start()
		err := ctrl.Bootstrap(cmd.Context())
		spin.Stop()
		if err != nil {
			return err
		}

		st := ctrl.Snapshot()
		fmt.Println(renderStatus(pageView(), cfg.Network, st))

		terms, err := ctrl.SaleTerms(cmd.Context())
		if err != nil {
			logger.Warn("reading sale terms", "err", err)
			return nil
		}
		price, err := cfg.TokenPrice()
		if err != nil {
			return err
		}
		fmt.Println(renderTerms(terms, price))
		return nil
	},
}

// renderTerms prints the contract's sale parameters and flags a configured
// price the contract would reject.
func renderTerms(t ico.Terms, configured *big.Int) string {
	out := ui.KeyValueBlock("Sale terms", [][2]string{
		{"Price", chain.FormatEther(t.Price) + " ETH per token"},
		{"Max supply", chain.FormatEther(t.MaxSupply)},
		{"Per NFT", chain.FormatEther(t.PerNFT) + " tokens"},
	})
	if t.Price.Cmp(configured) != 0 {
		out += "\n" + ui.Warn(fmt.Sprintf("token_price_wei is %s; mints will be refused until it matches %s",
			configured, t.Price))
	}
	return out
}

// renderStatus prints the page as a key/value block with the next step.
func renderStatus(v app.View, network string, st app.State) string {
	scr := v.Render(st)
	pairs := [][2]string{
		{"Account", ui.Addr(st.Address)},
		{"Network", ui.ChainName(network)},
		{"Balance", scr.BalanceLine},
		{"Supply", scr.SupplyLine},
	}
	if scr.Action == app.ActionClaim {
		pairs = append(pairs, [2]string{"Claim", scr.ClaimLine})
	}
	out := ui.KeyValueBlock(app.Title, pairs)
	if scr.Action == app.ActionClaim {
		return out + "\n" + ui.Hint("Claim them with: cdico claim")
	}
	return out + "\n" + ui.Hint("Mint with: cdico mint <amount>")
}
