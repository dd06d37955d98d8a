package tui

import "github.com/charmbracelet/lipgloss"

// Table palette
var (
	felt     = lipgloss.Color("#1B5E20")
	chip     = lipgloss.Color("#FFD700")
	mint     = lipgloss.Color("#96CEB4")
	coral    = lipgloss.Color("#FF6B6B")
	cream    = lipgloss.Color("#FFEAA7")
	muted    = lipgloss.Color("#626262")
	chalk    = lipgloss.Color("#FAFAFA")
	baize    = lipgloss.Color("#04B575")
	emphasis = lipgloss.NewStyle().Bold(true)
)

var (
	HeaderStyle   = emphasis.Foreground(chalk).Background(felt).Padding(0, 1)
	CashStyle     = emphasis.Foreground(chip)
	ActionsStyle  = emphasis.Foreground(chip)
	HandInfoStyle = emphasis.Foreground(mint)
	SuccessStyle  = emphasis.Foreground(mint)
	ErrorStyle    = emphasis.Foreground(coral)
	WarningStyle  = emphasis.Foreground(cream)
	InfoStyle     = lipgloss.NewStyle().Foreground(muted)

	focusedBorder   = baize
	unfocusedBorder = muted
)
