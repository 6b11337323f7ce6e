package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists every binding the program reacts to.
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Select      key.Binding
	Yes         key.Binding
	No          key.Binding
	NA          key.Binding
	Photo       key.Binding
	RemovePhoto key.Binding
	Next        key.Binding
	Back        key.Binding
	Clear       key.Binding
	Name        key.Binding
	Submit      key.Binding
	Close       key.Binding
	Quit        key.Binding
	Cancel      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Yes:         key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		No:          key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		NA:          key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "n/a")),
		Photo:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "photo")),
		RemovePhoto: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove photo")),
		Next:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		Back:        key.NewBinding(key.WithKeys("esc", "left"), key.WithHelp("esc", "back")),
		Clear:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Name:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "name")),
		Submit:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Close:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "close")),
		Quit:        key.NewBinding(key.WithKeys("ctrl+c")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}
