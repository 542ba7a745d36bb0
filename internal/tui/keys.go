package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up         key.Binding
	down       key.Binding
	sel        key.Binding
	search     key.Binding
	leave      key.Binding
	generate   key.Binding
	generateAt []key.Binding
	export     key.Binding
	open       key.Binding
	taxonomy   key.Binding
	scrollUp   key.Binding
	scrollDown key.Binding
	toggleHelp key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		sel: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		leave: key.NewBinding(
			key.WithKeys("esc", "enter"),
			key.WithHelp("esc", "leave search"),
		),
		generate: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "generate label"),
		),
		generateAt: []key.Binding{
			key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "generate event type")),
			key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "generate thematic")),
			key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "generate capability")),
		},
		export: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "export"),
		),
		open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open file"),
		),
		taxonomy: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "taxonomy"),
		),
		scrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll detail"),
		),
		scrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll detail"),
		),
		toggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.search,
		k.sel,
		k.generate,
		k.export,
		k.open,
		k.taxonomy,
		k.toggleHelp,
		k.quit,
	}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.sel},
		{k.search, k.leave},
		append([]key.Binding{k.generate}, k.generateAt...),
		{k.scrollUp, k.scrollDown, k.taxonomy},
		{k.open, k.export, k.toggleHelp, k.quit},
	}
}
