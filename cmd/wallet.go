package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/cdico/internal/ui"
	"github.com/Mohsinsiddi/cdico/internal/wallet"
)

var (
	walletKeyFlag string
	walletYes     bool
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage signing wallets",
}

var walletAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Import a wallet from a private key",
	Long: `Import a signing wallet. The private key is stored in the OS keychain
(or an encrypted file keyring when none is available); only the name and
address are written to wallets.json.

Without --key the key is read from a hidden prompt.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		key := walletKeyFlag
		if key == "" {
			var err error
			key, err = ui.PromptSecret(cmd.Context(), fmt.Sprintf("Private key for %q", name))
			if err != nil {
				return err
			}
		}

		mgr, err := newWalletManager()
		if err != nil {
			return err
		}
		w, err := mgr.Import(name, key)
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Wallet %q added: %s", name, ui.Addr(w.Address))))
		if !w.IsDefault {
			fmt.Println(ui.Hint(fmt.Sprintf("Set as default with: cdico wallet use %s", name)))
		}
		return nil
	},
}

var walletGenerateCmd = &cobra.Command{
	Use:   "generate <name>",
	Short: "Generate a new wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newWalletManager()
		if err != nil {
			return err
		}
		w, err := mgr.Generate(args[0])
		if err != nil {
			return err
		}
		fmt.Println(ui.KeyValueBlock("New wallet", [][2]string{
			{"Name", w.Name},
			{"Address", ui.Addr(w.Address)},
			{"Default", fmt.Sprintf("%t", w.IsDefault)},
		}))
		if n, err := currentNetwork(); err == nil && n.FaucetURL != "" {
			fmt.Println(ui.Hint("Fund it with test ether: " + n.FaucetURL))
		}
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all wallets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newWalletManager()
		if err != nil {
			return err
		}
		wallets, err := mgr.List()
		if err != nil {
			return err
		}
		if len(wallets) == 0 {
			fmt.Println(ui.Info("No wallets configured yet."))
			fmt.Println(ui.Hint("Add one with: cdico wallet add <name>  (or: cdico wallet generate <name>)"))
			return nil
		}

		session := wallet.NewSession(cfg.SessionPath())
		connected, _ := session.Wallet(cfg.Network)
		fmt.Println(walletTable(wallets, connected))
		fmt.Println(ui.Meta(fmt.Sprintf("%d wallet(s) configured", len(wallets))))
		return nil
	},
}

func walletTable(wallets []*wallet.Wallet, connected string) string {
	t := ui.NewTable([]ui.Column{
		{Title: "Name", Width: 16},
		{Title: "Address", Width: 44},
		{Title: "Default", Width: 8},
		{Title: "Connected", Width: 10},
	})
	for _, w := range wallets {
		def, conn := "", ""
		if w.IsDefault {
			def = ui.StyleSuccess.Render("✓")
		}
		if w.Name == connected {
			conn = ui.StyleSuccess.Render("✓")
		}
		t.AddRow(ui.Row{ui.Val(w.Name), ui.Addr(w.Address), def, conn})
	}
	return t.Render()
}

var walletUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the default wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		mgr, err := newWalletManager()
		if err != nil {
			return err
		}
		if err := mgr.SetDefault(name); err != nil {
			return err
		}
		if err := cfg.Set("default_wallet", name); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default wallet set to %q.", name)))
		fmt.Println(ui.Hint("It is connected whenever --wallet and $CDICO_PRIVATE_KEY are unset."))
		return nil
	},
}

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a wallet and its stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !walletYes && !ui.Confirm(cmd.Context(), fmt.Sprintf("Remove wallet %q and delete its key?", name)) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		mgr, err := newWalletManager()
		if err != nil {
			return err
		}
		if err := mgr.Remove(name); err != nil {
			return err
		}
		if err := wallet.NewSession(cfg.SessionPath()).Forget(name); err != nil {
			logger.Warn("forgetting session", "wallet", name, "err", err)
		}
		if cfg.DefaultWallet == name {
			if err := cfg.Set("default_wallet", ""); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return err
			}
		}
		fmt.Println(ui.Success(fmt.Sprintf("Wallet %q removed.", name)))
		return nil
	},
}

func init() {
	walletAddCmd.Flags().StringVar(&walletKeyFlag, "key", "", "hex private key (prompted when omitted)")
	walletRemoveCmd.Flags().BoolVarP(&walletYes, "yes", "y", false, "skip the confirmation")

	walletCmd.AddCommand(
		walletAddCmd,
		walletGenerateCmd,
		walletListCmd,
		walletUseCmd,
		walletRemoveCmd,
	)
}

