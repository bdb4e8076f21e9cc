package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Tap       key.Binding
	Resync    key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	Faster    key.Binding
	Slower    key.Binding
	FaderMode key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Tap:       key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "tap tempo")),
		Resync:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resync")),
		PrevPage:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev page")),
		NextPage:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next page")),
		Faster:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "bpm")),
		Slower:    key.NewBinding(key.WithKeys("-", "_")),
		FaderMode: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "fader mode")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tap, k.Resync, k.PrevPage, k.NextPage, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tap, k.Resync, k.Faster},
		{k.PrevPage, k.NextPage, k.FaderMode},
		{k.Help, k.Quit},
	}
}
