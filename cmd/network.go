package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/cdico/internal/chain"
	"github.com/Mohsinsiddi/cdico/internal/ui"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "List known networks and the configured one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := chain.NewRegistry()
		fmt.Println(networkTable(reg.All(), cfg.Network))
		if _, err := reg.GetByName(cfg.Network); err != nil {
			fmt.Println(ui.Warn(fmt.Sprintf("configured network %q is not known", cfg.Network)))
		}
		return nil
	},
}

var networkUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the network the sale is deployed on",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := chain.NewRegistry().GetByName(args[0])
		if err != nil {
			return err
		}
		if err := cfg.Set("network", n.Name); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Network set to " + ui.ChainName(n.DisplayName)))
		return nil
	},
}

func networkTable(networks []chain.Network, current string) string {
	t := ui.NewTable([]ui.Column{
		{Title: "", Width: 2},
		{Title: "Name", Width: 12},
		{Title: "Display", Width: 12},
		{Title: "Chain ID", Width: 10},
		{Title: "RPCs", Width: 5},
		{Title: "Explorer", Width: 30},
	})
	for _, n := range networks {
		mark := ""
		if n.Name == current {
			mark = ui.StyleSuccess.Render("●")
		}
		explorer := n.Explorer
		if explorer == "" {
			explorer = "—"
		}
		t.AddRow(ui.Row{
			mark,
			ui.ChainName(n.Name),
			n.DisplayName,
			fmt.Sprintf("%d", n.ChainID),
			fmt.Sprintf("%d", len(n.RPCs)),
			ui.Meta(explorer),
		})
	}
	return t.Render()
}

func init() {
	networkCmd.AddCommand(networkUseCmd)
}
