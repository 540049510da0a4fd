package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/cdico/internal/ui"
)

var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Claim free tokens for your unclaimed Crypto Dev NFTs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl := newOneShotController()
		defer ctrl.Close()

		if err := ctrl.Bootstrap(cmd.Context()); err != nil {
			return err
		}
		st := ctrl.Snapshot()
		if st.Claimable.Sign() == 0 {
			fmt.Println(ui.Info("No unclaimed Crypto Dev NFTs for " + ui.Addr(st.Address)))
			return nil
		}

		scr := pageView().Render(st)
		spin := ui.NewSpinner(scr.ClaimLine + " Claiming...")
		spin.Start()
		res, err := ctrl.Claim(cmd.Context())
		spin.Stop()
		return reportTx("Claim", res, err, ctrl.Snapshot())
	},
}
