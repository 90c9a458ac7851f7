package clock

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	layout24h = "15:04"
	layout12h = "03:04"
)

// TickMsg is delivered once per minute, on the minute.
type TickMsg time.Time

// Format renders t as "HH:MM" in 24-hour or zero-padded 12-hour form.
func Format(t time.Time, use24h bool) string {
	if use24h {
		return t.Format(layout24h)
	}
	return t.Format(layout12h)
}

// Is24h reports whether a configured clock style means 24-hour display.
// Anything other than "12h" is treated as 24-hour.
func Is24h(style string) bool {
	return strings.ToLower(strings.TrimSpace(style)) != "12h"
}

// TickCmd waits for the next minute boundary of the system clock.
func TickCmd() tea.Cmd {
	return tea.Every(time.Minute, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
