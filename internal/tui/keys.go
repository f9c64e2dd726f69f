package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	enter   key.Binding
	esc     key.Binding
	tab     key.Binding
	quit    key.Binding
	copy    key.Binding
	rotate  key.Binding
	refresh key.Binding
	stats   key.Binding
	yes     key.Binding
	no      key.Binding
}

var keys = keyMap{
	enter:   key.NewBinding(key.WithKeys("enter")),
	esc:     key.NewBinding(key.WithKeys("esc")),
	tab:     key.NewBinding(key.WithKeys("tab")),
	quit:    key.NewBinding(key.WithKeys("q", "ctrl+c")),
	copy:    key.NewBinding(key.WithKeys("c")),
	rotate:  key.NewBinding(key.WithKeys("r")),
	refresh: key.NewBinding(key.WithKeys("g")),
	stats:   key.NewBinding(key.WithKeys("s")),
	yes:     key.NewBinding(key.WithKeys("y")),
	no:      key.NewBinding(key.WithKeys("n")),
}
