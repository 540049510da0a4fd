package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("cancelled")

func run(ctx context.Context, fields ...huh.Field) error {
	err := huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(huh.ThemeCatppuccin()).
		RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCancelled
	}
	return err
}

// Confirm asks a yes/no question. Aborting counts as no.
func Confirm(ctx context.Context, prompt string) bool {
	var ok bool
	if err := run(ctx, huh.NewConfirm().Title(prompt).Affirmative("Yes").Negative("No").Value(&ok)); err != nil {
		return false
	}
	return ok
}

// ConfirmPayment asks before sending ether to the sale contract.
func ConfirmPayment(ctx context.Context, amount, cost, network string) bool {
	return Confirm(ctx, fmt.Sprintf("Mint %s Crypto Dev Tokens for %s ETH on %s?", amount, cost, network))
}

// PromptSecret reads a hidden value, such as a private key.
func PromptSecret(ctx context.Context, title string) (string, error) {
	var v string
	err := run(ctx, huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("required")
			}
			return nil
		}).
		Value(&v))
	return strings.TrimSpace(v), err
}
