package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/cdico/internal/contract"
	"github.com/Mohsinsiddi/cdico/internal/ui"
)

var contractsCmd = &cobra.Command{
	Use:   "contracts",
	Short: "List the built-in contract ABIs and their selectors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, b := range contract.AllBuiltins() {
			fmt.Println(ui.StyleTitle.Render(b.Name) + "  " + ui.Meta(b.Description))
			fmt.Println(ui.Meta("  address: ") + addressOrUnset(configuredAddress(b.ID)))
			fmt.Println(methodTable(b))
			fmt.Println()
		}
		return nil
	},
}

// configuredAddress maps a built-in to the config key holding its address.
func configuredAddress(id string) string {
	switch id {
	case contract.TokenID:
		return cfg.TokenAddress
	case contract.NFTID:
		return cfg.NFTAddress
	}
	return ""
}

func addressOrUnset(addr string) string {
	if addr == "" {
		return ui.Warn("not set")
	}
	return ui.Addr(addr)
}

func methodTable(b contract.BuiltinKind) string {
	t := ui.NewTable([]ui.Column{
		{Title: "Selector", Width: 12},
		{Title: "Method", Width: 40},
		{Title: "Mutability", Width: 12},
	})
	for _, m := range b.Methods() {
		t.AddRow(ui.Row{ui.Meta(m.Selector), ui.Val(m.Signature), m.Mutability})
	}
	return t.Render()
}
