package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// KeyValueBlock
// ---------------------------------------------------------------------------

func TestKeyValueBlockContainsTitleAndPairs(t *testing.T) {
	result := KeyValueBlock("Status", [][2]string{
		{"Account", "0xf39F…2266"},
		{"Balance", "1.5 CD"},
	})
	assert.Contains(t, result, "Status")
	assert.Contains(t, result, "Account")
	assert.Contains(t, result, "0xf39F…2266")
	assert.Contains(t, result, "Balance")
	assert.Contains(t, result, "1.5 CD")
}

func TestKeyValueBlockEmptyTitle(t *testing.T) {
	result := KeyValueBlock("", [][2]string{{"Key", "Value"}})
	assert.Contains(t, result, "Key")
	assert.Contains(t, result, "Value")
}

func TestKeyValueBlockNoPairs(t *testing.T) {
	result := KeyValueBlock("Empty Block", [][2]string{})
	assert.Contains(t, result, "Empty Block")
}

func TestKeyValueBlockPreservesOrder(t *testing.T) {
	result := KeyValueBlock("Config", [][2]string{
		{"network", "goerli"},
		{"token_address", "0x5FbD"},
		{"nft_address", "0xe7f1"},
	})
	a := strings.Index(result, "network")
	b := strings.Index(result, "token_address")
	c := strings.Index(result, "nft_address")
	require.Greater(t, a, -1)
	assert.Less(t, a, b)
	assert.Less(t, b, c)
}

func TestKeyValueBlockHasBorder(t *testing.T) {
	result := KeyValueBlock("Bordered", [][2]string{{"Key", "Val"}})
	assert.Contains(t, result, "╭")
	assert.Contains(t, result, "╰")
}

// ---------------------------------------------------------------------------
// Table
// ---------------------------------------------------------------------------

func TestNewTableCreatesEmptyTable(t *testing.T) {
	tbl := NewTable([]Column{{Title: "Name", Width: 10}, {Title: "Chain ID", Width: 10}})
	assert.Len(t, tbl.Columns, 2)
	assert.Empty(t, tbl.Rows)
	assert.Equal(t, -1, tbl.SelIdx)
}

func TestTableRenderContainsHeadersAndRows(t *testing.T) {
	tbl := NewTable([]Column{{Title: "Network", Width: 10}, {Title: "Chain ID", Width: 10}})
	tbl.AddRow(Row{"goerli", "5"})
	tbl.AddRow(Row{"sepolia", "11155111"})

	result := tbl.Render()
	for _, s := range []string{"Network", "Chain ID", "goerli", "5", "sepolia", "11155111", "----------"} {
		assert.Contains(t, result, s)
	}
}

func TestTableRenderRowShorterThanColumns(t *testing.T) {
	tbl := NewTable([]Column{{Title: "A", Width: 5}, {Title: "B", Width: 5}, {Title: "C", Width: 5}})
	tbl.AddRow(Row{"only1"})
	assert.Contains(t, tbl.Render(), "only1")
}

func TestTableRenderPreservesRowOrder(t *testing.T) {
	tbl := NewTable([]Column{{Title: "Wallet", Width: 10}})
	tbl.AddRow(Row{"alice"})
	tbl.AddRow(Row{"bob"})
	tbl.AddRow(Row{"carol"})

	result := tbl.Render()
	assert.Less(t, strings.Index(result, "alice"), strings.Index(result, "bob"))
	assert.Less(t, strings.Index(result, "bob"), strings.Index(result, "carol"))
}

func TestTableRenderSelectedRow(t *testing.T) {
	tbl := NewTable([]Column{{Title: "Name", Width: 10}})
	tbl.AddRow(Row{"row0"})
	tbl.AddRow(Row{"row1"})
	tbl.SelIdx = 1

	result := tbl.Render()
	assert.Contains(t, result, "row0")
	assert.Contains(t, result, "row1")
}

// ---------------------------------------------------------------------------
// fit
// ---------------------------------------------------------------------------

func TestFit(t *testing.T) {
	assert.Equal(t, "hi        ", fit("hi", 10))
	assert.Equal(t, "hello", fit("hello", 5))
	assert.Equal(t, "toolo…", fit("toolongstring", 6))
	assert.Equal(t, "", fit("x", 0))
	assert.Equal(t, 8, lipgloss.Width(fit("0x12…5678", 8)))
}
