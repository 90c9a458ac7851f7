package cmd

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings for the face. It satisfies key.Map so it
// can be passed directly to bubbles/help.Model for automatic rendering.
type keyMap struct {
	Peek    key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings shown in the mini help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Peek, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view (columns).
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Peek, k.Refresh}, // first column
		{k.Help, k.Quit},    // second column
	}
}

var keys = keyMap{
	Peek: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "notification peek"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "request weather"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
