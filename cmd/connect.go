package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/cdico/internal/app"
	"github.com/Mohsinsiddi/cdico/internal/ui"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect a wallet and remember it for this network",
	Long: `Connect a wallet to the configured network.

The wallet is chosen in this order: $CDICO_PRIVATE_KEY, --wallet, the wallet
last connected on this network, the default wallet, then a picker when more
than one wallet is stored. The choice is remembered for later runs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl := newOneShotController()
		defer ctrl.Close()

		if err := ctrl.Connect(cmd.Context()); err != nil {
			return err
		}
		st := ctrl.Snapshot()
		fmt.Println(ui.KeyValueBlock("Connected", [][2]string{
			{"Account", ui.Addr(st.Address)},
			{"Network", ui.ChainName(cfg.Network)},
		}))
		return nil
	},
}

// newOneShotController builds a controller for the non-interactive verbs:
// alerts print to stderr and the wallet picker runs inline.
func newOneShotController() *app.Controller {
	return newController(ui.PrintAlerter{W: os.Stderr}, ui.PickWallet, logger)
}
