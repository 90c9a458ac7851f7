package cmd

import "github.com/charmbracelet/lipgloss"

// Overlay boxes. The window repaints their content in its own overlay
// colours; only the borders and padding survive.
var (
	helpBoxStyle = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())
	peekStyle    = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder(), true, false, false, false)
)

// peekBox renders the notification peek at the given width.
func peekBox(title, body string, width int) string {
	content := title + "\n" + body
	if width > 0 {
		return peekStyle.Width(width).Render(content)
	}
	return peekStyle.Render(content)
}

// helpBox renders the full help panel at the given width.
func helpBox(help string, width int) string {
	if width > 2 {
		return helpBoxStyle.Width(width - 2).Render(help)
	}
	return helpBoxStyle.Render(help)
}
