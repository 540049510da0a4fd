package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/cdico/internal/app"
	"github.com/Mohsinsiddi/cdico/internal/chain"
	"github.com/Mohsinsiddi/cdico/internal/ico"
	"github.com/Mohsinsiddi/cdico/internal/ui"
)

var mintYes bool

var mintCmd = &cobra.Command{
	Use:   "mint <amount>",
	Short: "Mint Crypto Dev Tokens by paying ether",
	Long: `Mint <amount> whole Crypto Dev Tokens. The payment is amount × token price
(token_price_wei in config) and is shown for confirmation before sending.

Examples:
  cdico mint 10
  cdico mint 1 --yes --wallet alice`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, ok := app.ParseAmount(args[0])
		if !ok {
			return fmt.Errorf("%w: %q (want a positive whole number)", ico.ErrInvalidAmount, args[0])
		}
		price, err := cfg.TokenPrice()
		if err != nil {
			return err
		}

		ctrl := newOneShotController()
		defer ctrl.Close()
		if err := ctrl.Connect(cmd.Context()); err != nil {
			return err
		}

		cost := chain.FormatEther(ico.MintPayment(amount, price))
		if !mintYes && !ui.ConfirmPayment(cmd.Context(), amount.String(), cost, cfg.Network) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		spin := ui.NewSpinner("Minting " + amount.String() + " tokens...")
		spin.Start()
		res, err := ctrl.Mint(cmd.Context(), amount)
		spin.Stop()
		return reportTx("Mint", res, err, ctrl.Snapshot())
	},
}

// reportTx prints a mined transaction, or the reverted one alongside the
// error, followed by the refreshed balances.
func reportTx(title string, res *ico.Result, err error, st app.State) error {
	if res != nil {
		fmt.Println(txBlock(title, res))
	}
	if err != nil {
		if errors.Is(err, ico.ErrReverted) {
			fmt.Println(ui.Err(title + " reverted on-chain"))
		}
		return err
	}
	fmt.Println(renderStatus(pageView(), cfg.Network, st))
	return nil
}

func txBlock(title string, res *ico.Result) string {
	pairs := [][2]string{{"Tx hash", ui.Addr(res.Hash.Hex())}}
	if r := res.Receipt; r != nil {
		status := ui.Success("success")
		if !r.Succeeded() {
			status = ui.Err("reverted")
		}
		pairs = append(pairs,
			[2]string{"Status", status},
			[2]string{"Block", fmt.Sprintf("%d", r.BlockNumber)},
			[2]string{"Gas used", fmt.Sprintf("%d", r.GasUsed)},
		)
	}
	if res.ExplorerURL != "" {
		pairs = append(pairs, [2]string{"Explorer", res.ExplorerURL})
	}
	return ui.KeyValueBlock(title, pairs)
}

func init() {
	mintCmd.Flags().BoolVarP(&mintYes, "yes", "y", false, "skip the payment confirmation")
}
