package app

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func wei(s string) *big.Int {
	v, _ := new(big.Int).SetString(s, 10)
	return v
}

func TestRenderDisconnected(t *testing.T) {
	scr := Render(newState())
	assert.True(t, scr.ShowConnect)
	assert.Empty(t, scr.BalanceLine)
	assert.Empty(t, scr.SupplyLine)
	assert.Equal(t, ActionMint, scr.Action)
	assert.True(t, scr.MintDisabled)
}

func TestRenderConnectedLines(t *testing.T) {
	s := newState()
	s.Connected = true
	s.Balance = wei("1500000000000000000")
	s.Minted = wei("0")

	scr := Render(s)
	assert.False(t, scr.ShowConnect)
	assert.Equal(t, "You've minted 1.5 Crypto Dev Token", scr.BalanceLine)
	assert.Equal(t, "Overall 0.0/10000 have been minted", scr.SupplyLine)
}

func TestRenderAction(t *testing.T) {
	tests := []struct {
		name      string
		loading   bool
		claimable int64
		amount    string
		action    Action
		disabled  bool
		claimLine string
	}{
		{name: "loading wins", loading: true, claimable: 3, action: ActionLoading},
		{name: "claim", claimable: 3, action: ActionClaim, claimLine: "30 Tokens to be claimed!"},
		{name: "mint enabled", amount: "4", action: ActionMint},
		{name: "mint empty", amount: "", action: ActionMint, disabled: true},
		{name: "mint zero", amount: "0", action: ActionMint, disabled: true},
		{name: "mint negative", amount: "-2", action: ActionMint, disabled: true},
		{name: "mint fraction", amount: "1.5", action: ActionMint, disabled: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newState()
			s.Connected = true
			s.Loading = tt.loading
			s.Claimable = big.NewInt(tt.claimable)
			s.Amount = tt.amount

			scr := Render(s)
			assert.Equal(t, tt.action, scr.Action)
			assert.Equal(t, tt.disabled, scr.MintDisabled)
			assert.Equal(t, tt.claimLine, scr.ClaimLine)
		})
	}
}

func TestRenderCustomView(t *testing.T) {
	s := newState()
	s.Connected = true
	s.Claimable = big.NewInt(2)

	scr := View{MaxSupply: 500, TokensPerNFT: 25}.Render(s)
	assert.Equal(t, "Overall 0.0/500 have been minted", scr.SupplyLine)
	assert.Equal(t, "50 Tokens to be claimed!", scr.ClaimLine)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "Loading...", ActionLoading.String())
	assert.Equal(t, "Claim Tokens", ActionClaim.String())
	assert.Equal(t, "Mint Tokens", ActionMint.String())
}

func TestParseAmount(t *testing.T) {
	for in, want := range map[string]string{"1": "1", " 25 ": "25", "10000": "10000"} {
		v, ok := ParseAmount(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, v.String())
	}
	for _, in := range []string{"", "0", "-1", "+1", "1e3", "0x10", "abc", "2.0"} {
		_, ok := ParseAmount(in)
		assert.False(t, ok, in)
	}
}
