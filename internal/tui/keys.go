package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle     key.Binding
	Send       key.Binding
	Attach     key.Binding
	Remove     key.Binding
	Analyze    key.Binding
	Copy       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Close      key.Binding
	Quit       key.Binding
}

// Bindings avoid the keys textinput already uses for editing.
func newKeyMap() keyMap {
	return keyMap{
		Toggle:     key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "chat")),
		Send:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Attach:     key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "choose pdf")),
		Remove:     key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "remove file")),
		Analyze:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "analyze")),
		Copy:       key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy reply")),
		ScrollUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		ScrollDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Close:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Send, k.ScrollUp, k.Attach, k.Remove, k.Analyze, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Send, k.Copy, k.Close},
		{k.ScrollUp, k.ScrollDown},
		{k.Attach, k.Remove, k.Analyze, k.Quit},
	}
}
