package application

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the labeler key bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Severity key.Binding
	SaveNext key.Binding
	Save     key.Binding
	Skip     key.Binding
	Prev     key.Binding
	Jump     key.Binding
	Write    key.Binding
	Cancel   key.Binding
	Quit     key.Binding
}

// DefaultKeys are the bindings used by New.
var DefaultKeys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "space", "x"),
		key.WithHelp("space", "toggle tag"),
	),
	Severity: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5"),
		key.WithHelp("1-5", "severity"),
	),
	SaveNext: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "save & next"),
	),
	Save: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "save"),
	),
	Skip: key.NewBinding(
		key.WithKeys("tab", "n"),
		key.WithHelp("tab/n", "skip"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "b"),
		key.WithHelp("shift+tab/b", "previous"),
	),
	Jump: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "go to record"),
	),
	Write: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "write file"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// helpBindings is the order bindings appear in the status line.
func (k KeyMap) helpBindings() []key.Binding {
	return []key.Binding{k.Toggle, k.Severity, k.SaveNext, k.Save, k.Skip, k.Prev, k.Jump, k.Write, k.Quit}
}
