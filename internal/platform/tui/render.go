package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Shared styles for every screen.
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	subtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	lockedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	correctStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	wrongStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle     = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("14"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// Border colors for answer boxes.
var (
	borderNormal  = lipgloss.Color("240")
	borderCursor  = lipgloss.Color("229")
	borderCorrect = lipgloss.Color("10")
	borderWrong   = lipgloss.Color("9")
)

// lockIcon marks games that lock mode keeps closed.
const lockIcon = "🔒"

// centerText centers text within given width.
// Width is measured in terminal cells, so styled text centers correctly.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

// centerBlock centers every line of a multi-line block.
func centerBlock(block string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
}

// truncate shortens s to at most n runes, marking the cut with a dot.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "."
	}
	return string(r[:n-1]) + "."
}
