package app

import (
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/cdico/internal/chain"
)

// Page copy.
const (
	Title        = "Welcome to Crypto Dev ICO"
	Description  = "You can claim or mint Crypto Dev Tokens here"
	ConnectLabel = "Connect Wallet"
	LoadingLabel = "Loading..."
	ClaimLabel   = "Claim Tokens"
	MintLabel    = "Mint Tokens"
	AmountHint   = "Amount of Token"
)

// Alerts.
const (
	MintedAlert  = "Successfully minted Crypto Dev Tokens"
	ClaimedAlert = "Successfully claimed tokens"
)

// Action is the single affordance offered below the balances.
type Action int

const (
	ActionMint Action = iota
	ActionClaim
	ActionLoading
)

func (a Action) String() string {
	switch a {
	case ActionClaim:
		return ClaimLabel
	case ActionLoading:
		return LoadingLabel
	default:
		return MintLabel
	}
}

// Screen is the rendered page, independent of any terminal.
type Screen struct {
	ShowConnect bool
	BalanceLine string
	SupplyLine  string

	Action       Action
	ClaimLine    string
	MintDisabled bool
}

// View holds the sale constants shown on the page.
type View struct {
	MaxSupply    int64
	TokensPerNFT int64
}

// DefaultView matches the deployed sale: 10000 tokens, 10 per NFT.
var DefaultView = View{MaxSupply: 10_000, TokensPerNFT: 10}

// Render derives the page from s with DefaultView.
func Render(s State) Screen { return DefaultView.Render(s) }

// Render derives the page from s.
func (v View) Render(s State) Screen {
	var scr Screen
	if s.Connected {
		scr.BalanceLine = fmt.Sprintf("You've minted %s Crypto Dev Token", chain.FormatEther(s.Balance))
		scr.SupplyLine = fmt.Sprintf("Overall %s/%d have been minted", chain.FormatEther(s.Minted), v.MaxSupply)
	} else {
		scr.ShowConnect = true
	}

	switch {
	case s.Loading:
		scr.Action = ActionLoading
	case s.Claimable != nil && s.Claimable.Sign() != 0:
		scr.Action = ActionClaim
		owed := new(big.Int).Mul(s.Claimable, big.NewInt(v.TokensPerNFT))
		scr.ClaimLine = fmt.Sprintf("%s Tokens to be claimed!", owed)
	default:
		scr.Action = ActionMint
		_, ok := ParseAmount(s.Amount)
		scr.MintDisabled = !ok
	}
	return scr
}
