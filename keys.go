package main

import "github.com/charmbracelet/bubbles/key"

type formKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Choose key.Binding
	AddRow key.Binding
	Save   key.Binding
	Fresh  key.Binding
	Back   key.Binding
}

func newFormKeyMap() formKeyMap {
	return formKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j", "tab"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle")),
		Choose: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		AddRow: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add category")),
		Save:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Fresh:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new form")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "menu")),
	}
}

// shortHelp lists the bindings that currently do something.
func (k formKeyMap) shortHelp(f *form) []key.Binding {
	bindings := []key.Binding{k.Up, k.Down, k.Toggle, k.Choose}
	if f != nil && f.Editable() && f.AddVisible() {
		bindings = append(bindings, k.AddRow)
	}
	return append(bindings, k.Save, k.Fresh, k.Back)
}
