package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Filter          key.Binding
	New             key.Binding
	ToggleCompleted key.Binding
	ToggleFavorite  key.Binding
	Edit            key.Binding
	Remove          key.Binding
	Copy            key.Binding
	CompleteAll     key.Binding
	Refresh         key.Binding
	Help            key.Binding
	Quit            key.Binding

	// Shared by the filter, create and edit inputs.
	Accept key.Binding
	Cancel key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Filter:          key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		New:             key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		ToggleCompleted: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "done")),
		ToggleFavorite:  key.NewBinding(key.WithKeys("f", "*"), key.WithHelp("f", "star")),
		Edit:            key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Remove:          key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove")),
		Copy:            key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		CompleteAll:     key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "complete all")),
		Refresh:         key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:            key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:            key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Accept: key.NewBinding(key.WithKeys("enter")),
		Cancel: key.NewBinding(key.WithKeys("esc")),
	}
}

// footerBindings are shown in the one-line hint bar.
func (k keyMap) footerBindings() []key.Binding {
	return []key.Binding{k.New, k.ToggleCompleted, k.ToggleFavorite, k.Edit, k.Remove, k.Filter, k.CompleteAll, k.Help, k.Quit}
}
