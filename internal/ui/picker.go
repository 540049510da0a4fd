package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/Mohsinsiddi/cdico/internal/wallet"
)

// PickerItem is one entry shown in a picker.
type PickerItem struct {
	Label    string // primary text (e.g. wallet name)
	SubLabel string // secondary text (e.g. address)
	Value    string // value returned on selection
}

func (i PickerItem) option() huh.Option[string] {
	label := i.Label
	if i.SubLabel != "" {
		label += "  " + StyleMeta.Render(i.SubLabel)
	}
	return huh.NewOption(label, i.Value)
}

// PickItem shows a select list and returns the chosen item's Value.
// Returns ErrCancelled when the user aborts.
func PickItem(ctx context.Context, title string, items []PickerItem) (string, error) {
	if len(items) == 0 {
		return "", errors.New("nothing to pick from")
	}
	opts := make([]huh.Option[string], len(items))
	for i, it := range items {
		opts[i] = it.option()
	}
	var v string
	err := run(ctx, huh.NewSelect[string]().Title(title).Options(opts...).Value(&v))
	return v, err
}

// WalletItems maps wallets to picker entries.
func WalletItems(wallets []*wallet.Wallet) []PickerItem {
	items := make([]PickerItem, len(wallets))
	for i, w := range wallets {
		sub := TruncateAddr(w.Address)
		if w.IsDefault {
			sub += " (default)"
		}
		items[i] = PickerItem{Label: w.Name, SubLabel: sub, Value: w.Name}
	}
	return items
}

// PickWallet is the wallet-selection dialog shown when connecting.
func PickWallet(ctx context.Context, wallets []*wallet.Wallet) (*wallet.Wallet, error) {
	name, err := PickItem(ctx, "Connect a wallet", WalletItems(wallets))
	if err != nil {
		return nil, err
	}
	for _, w := range wallets {
		if w.Name == name {
			return w, nil
		}
	}
	return nil, ErrCancelled
}
