package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Select      key.Binding
	Back        key.Binding
	Scenario    key.Binding
	Collections key.Binding
	MoreMonths  key.Binding
	FewerMonths key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "timeline")),
		Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Scenario:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "scenario")),
		Collections: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "collections")),
		MoreMonths:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more months")),
		FewerMonths: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "fewer months")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// shortcuts are the bindings shown in the status bar
func (k keyMap) shortcuts() []key.Binding {
	return []key.Binding{k.Select, k.Scenario, k.Collections, k.MoreMonths, k.FewerMonths, k.Help, k.Quit}
}
