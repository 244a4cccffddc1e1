package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Undo   key.Binding
	Redo   key.Binding
	Sort   key.Binding
	Group  key.Binding
	Theme  key.Binding
	Width  key.Binding
	Panel  key.Binding
	Import key.Binding
	Export key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:   key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Delete: key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
		Undo:   key.NewBinding(key.WithKeys("u", "ctrl+z"), key.WithHelp("u", "undo")),
		Redo:   key.NewBinding(key.WithKeys("ctrl+r", "U"), key.WithHelp("ctrl+r", "redo")),
		Sort:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort by date")),
		Group:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "group by class")),
		Theme:  key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "dark mode")),
		Width:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "table width")),
		Panel:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "details")),
		Import: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import")),
		Export: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "export")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Delete, k.Undo, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Add, k.Edit, k.Delete},
		{k.Undo, k.Redo, k.Import, k.Export},
		{k.Sort, k.Group, k.Theme, k.Width, k.Panel},
		{k.Help, k.Quit},
	}
}

// tableKeyMap keeps the table's navigation off the letters used for actions.
func tableKeyMap() table.KeyMap {
	km := table.DefaultKeyMap()
	km.LineUp = key.NewBinding(key.WithKeys("up", "k"))
	km.LineDown = key.NewBinding(key.WithKeys("down", "j"))
	km.PageUp = key.NewBinding(key.WithKeys("pgup"))
	km.PageDown = key.NewBinding(key.WithKeys("pgdown", " "))
	km.HalfPageUp = key.NewBinding(key.WithKeys("ctrl+u"))
	km.HalfPageDown = key.NewBinding(key.WithKeys("ctrl+d"))
	km.GotoTop = key.NewBinding(key.WithKeys("home"))
	km.GotoBottom = key.NewBinding(key.WithKeys("end", "G"))
	return km
}
