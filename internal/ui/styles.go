package ui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#00D26A") // green: confirmed, success
	ColorWarning   = lipgloss.Color("#FFB800") // yellow: alerts, pending
	ColorError     = lipgloss.Color("#FF4444") // red: errors
	ColorAddress   = lipgloss.Color("#00B4D8") // cyan: addresses, hashes
	ColorValue     = lipgloss.Color("#FFFFFF") // white bold: token amounts
	ColorMeta      = lipgloss.Color("#555555") // dim gray: hints, metadata
	ColorBorder    = lipgloss.Color("#1E3A5F") // dark blue: UI chrome
	ColorChain     = lipgloss.Color("#9B5DE5") // purple: titles, network names
	ColorHighlight = lipgloss.Color("#F15BB5") // pink: buttons, selected rows
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorAddress).Bold(true)
	StyleAddress = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleChain   = lipgloss.NewStyle().Foreground(ColorChain).Bold(true)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleAlert = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorWarning).
			Foreground(ColorWarning).
			Bold(true).
			Padding(0, 2)

	StyleButton = lipgloss.NewStyle().
			Background(ColorHighlight).
			Foreground(lipgloss.Color("#000000")).
			Bold(true).
			Padding(0, 2)

	StyleButtonDisabled = lipgloss.NewStyle().
				Background(ColorMeta).
				Foreground(lipgloss.Color("#999999")).
				Padding(0, 2)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true).
			Underline(true)

	StyleSelected = lipgloss.NewStyle().
			Background(ColorHighlight).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorChain).
			Bold(true).
			MarginBottom(1)

	StyleDim = lipgloss.NewStyle().Foreground(ColorMeta)
)

// Banner returns the cdico ASCII banner.
func Banner() string {
	art := `
   ██████╗██████╗ ██╗ ██████╗ ██████╗
  ██╔════╝██╔══██╗██║██╔════╝██╔═══██╗
  ██║     ██║  ██║██║██║     ██║   ██║
  ██║     ██║  ██║██║██║     ██║   ██║
  ╚██████╗██████╔╝██║╚██████╗╚██████╔╝
   ╚═════╝╚═════╝ ╚═╝ ╚═════╝ ╚═════╝`

	tagline := StyleMeta.Render("     Crypto Dev Token ICO  ⚡  mint · claim")
	return StyleChain.Render(art) + "\n" + tagline + "\n"
}

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Info formats an informational message.
func Info(msg string) string { return StyleInfo.Render("ℹ " + msg) }

// Hint formats a follow-up suggestion.
func Hint(msg string) string { return StyleMeta.Render("→ " + msg) }

// Addr formats an address.
func Addr(a string) string { return StyleAddress.Render(a) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }

// ChainName formats a network name.
func ChainName(c string) string { return StyleChain.Render(c) }

// Button renders a page action. Disabled buttons are greyed out.
func Button(label string, enabled bool) string {
	if !enabled {
		return StyleButtonDisabled.Render(label)
	}
	return StyleButton.Render(label)
}

// Key renders a key hint like "[ c ]".
func Key(k string) string { return StyleWarning.Render("[ " + k + " ]") }

// TruncateAddr shortens an address for display: 0x1234…5678.
func TruncateAddr(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}
