package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/cdico/internal/logging"
	"github.com/Mohsinsiddi/cdico/internal/ui"
)

var appCmd = &cobra.Command{
	Use:   "app",
	Short: "Open the interactive ICO page",
	Long: `Open the full-screen ICO page.

  c       connect a wallet
  0-9     type the amount of tokens to mint
  enter   mint the typed amount
  l       claim tokens for your NFTs (shown when you have some)
  r       refresh balances
  y       copy the last transaction hash
  q       quit

Logs go to cdico.log in the config directory so they do not tear the screen.`,
	Args: cobra.NoArgs,
	RunE: runApp,
}

func runApp(cmd *cobra.Command, args []string) error {
	fileLog, closer, err := logging.NewFile(cfg.LogPath(), logLevel())
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer closer.Close()

	page := ui.NewDApp()
	ctrl := newController(page, page.PickWallet, fileLog)
	defer ctrl.Close()

	return page.Run(cmd.Context(), ctrl, ui.DAppConfig{
		Network: cfg.Network,
		View:    pageView(),
	})
}
